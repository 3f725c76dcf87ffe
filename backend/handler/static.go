package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticHandler serves the front-end from a directory, falling back to
// index.html so client-side routes resolve.
type StaticHandler struct {
	dir string
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// Serve is installed as the router's NoRoute handler.
func (h *StaticHandler) Serve(c *gin.Context) {
	method := c.Request.Method
	urlPath := c.Request.URL.Path

	if strings.HasPrefix(urlPath, "/api/") || urlPath == "/api" ||
		(method != http.MethodGet && method != http.MethodHead) {
		abortWithError(c, http.StatusNotFound, "Not found")
		return
	}

	// Cleaning against "/" keeps the result inside dir.
	name := filepath.Join(h.dir, filepath.FromSlash(path.Clean("/"+urlPath)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		c.File(name)
		return
	}

	c.File(filepath.Join(h.dir, "index.html"))
}
