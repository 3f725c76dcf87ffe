package handler

import (
	"net/http"

	"github.com/contratclair/contratclair/backend/service"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	assistant      *service.AssistantService
	version        string
	model          string
	credentialKind string
}

// NewHealthHandler reports model as the configured model when no generator is available.
func NewHealthHandler(assistant *service.AssistantService, version, model, credentialKind string) *HealthHandler {
	return &HealthHandler{
		assistant:      assistant,
		version:        version,
		model:          model,
		credentialKind: credentialKind,
	}
}

// Health reports service identity; it answers 200 even without a provider credential.
func (h *HealthHandler) Health(c *gin.Context) {
	model := h.assistant.Model()
	if model == "" {
		model = h.model
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"version":    h.version,
		"model":      model,
		"provider":   h.assistant.Provider(),
		"credential": h.credentialKind,
	})
}
