package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/contratclair/contratclair/backend/middleware"
	"github.com/contratclair/contratclair/backend/model"
	"github.com/contratclair/contratclair/backend/service"
	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	assistant     *service.AssistantService
	credentialEnv string
}

// NewAssistantHandler wires the contract endpoints. credentialEnv names the
// variable operators must set, and is echoed in configuration errors.
func NewAssistantHandler(assistant *service.AssistantService, credentialEnv string) *AssistantHandler {
	return &AssistantHandler{
		assistant:     assistant,
		credentialEnv: credentialEnv,
	}
}

// Analyze handles POST /api/analyze
func (h *AssistantHandler) Analyze(c *gin.Context) {
	var req model.AnalysisRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.assistant.Analyze(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "analysis", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Rewrite handles POST /api/rewrite
func (h *AssistantHandler) Rewrite(c *gin.Context) {
	var req model.RewriteRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.assistant.Rewrite(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "rewrite", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Generate handles POST /api/generate
func (h *AssistantHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.assistant.Generate(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "generation", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		abortWithError(c, http.StatusRequestEntityTooLarge, "Request body is too large.")
		return false
	}

	abortWithError(c, http.StatusBadRequest, "Invalid request body")
	return false
}

// respondError maps gateway errors to status codes and client-facing messages.
func (h *AssistantHandler) respondError(c *gin.Context, operation string, err error) {
	var inputErr *service.InputError
	switch {
	case errors.As(err, &inputErr):
		abortWithError(c, http.StatusBadRequest, inputErr.Reason)
	case errors.Is(err, service.ErrMissingCredential):
		abortWithError(c, http.StatusInternalServerError,
			fmt.Sprintf("LLM provider is not configured. Set %s.", h.credentialEnv))
	case errors.Is(err, service.ErrProviderAuth):
		abortWithError(c, http.StatusInternalServerError,
			fmt.Sprintf("Invalid API key. Check %s.", h.credentialEnv))
	case errors.Is(err, service.ErrMalformedProviderOutput):
		abortWithError(c, http.StatusInternalServerError, "JSON parsing error. Please try again.")
	case errors.Is(err, service.ErrIncompleteResponse):
		abortWithError(c, http.StatusInternalServerError, "Incomplete response from the model. Please try again.")
	default:
		abortWithError(c, http.StatusInternalServerError,
			fmt.Sprintf("Error during %s: %s", operation, err.Error()))
	}
}

func abortWithError(c *gin.Context, status int, message string) {
	body := gin.H{"error": message}
	if requestID := middleware.GetRequestID(c); requestID != "" {
		body["request_id"] = requestID
	}
	c.AbortWithStatusJSON(status, body)
}
