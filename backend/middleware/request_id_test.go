package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contratclair/contratclair/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newRequestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		ctxID, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c), "ctx_id": ctxID})
	})
	return router
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newRequestIDRouter()

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	responseID := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("Expected generated UUID, got %q", responseID)
	}
	if !strings.Contains(w.Body.String(), `"ctx_id":"`+responseID+`"`) {
		t.Errorf("Expected request ID in request context, got %s", w.Body.String())
	}
}

func TestRequestIDMiddlewareWithExistingID(t *testing.T) {
	router := newRequestIDRouter()

	existingID := "existing-request-id-123"
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, existingID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if responseID := w.Header().Get(RequestIDHeader); responseID != existingID {
		t.Errorf("Expected request ID '%s', got '%s'", existingID, responseID)
	}
}

func TestRequestIDMiddlewareRejectsOversizedID(t *testing.T) {
	router := newRequestIDRouter()

	oversized := strings.Repeat("a", maxRequestIDLength+1)
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, oversized)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	responseID := w.Header().Get(RequestIDHeader)
	if responseID == oversized {
		t.Error("Expected oversized request ID to be replaced")
	}
	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("Expected generated UUID, got %q", responseID)
	}
}

func TestGetRequestIDEmpty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if requestID := GetRequestID(c); requestID != "" {
		t.Errorf("Expected empty string, got '%s'", requestID)
	}
}
