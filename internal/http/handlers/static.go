package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticFallback serves the web app files: the request path if it exists,
// then path + ".json", then index.html for client-side routes.
func StaticFallback(webRoot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestPath := strings.TrimPrefix(filepath.Clean(c.Request.URL.Path), "/")
		if strings.HasPrefix(requestPath, "..") {
			c.File(filepath.Join(webRoot, "index.html"))
			return
		}
		candidates := []string{
			filepath.Join(webRoot, requestPath),
			filepath.Join(webRoot, requestPath+".json"),
		}
		for _, candidate := range candidates {
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				c.File(candidate)
				return
			}
		}
		c.File(filepath.Join(webRoot, "index.html"))
	}
}
