package handlers

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed pages/*.html
var pagesFS embed.FS

type PageHandler struct{}

func NewPageHandler() *PageHandler { return &PageHandler{} }

// Page serves one of the embedded HTML pages by base name.
func (h *PageHandler) Page(name string) gin.HandlerFunc {
	body, err := pagesFS.ReadFile("pages/" + name + ".html")
	return func(c *gin.Context) {
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
	}
}

func (h *PageHandler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, "/home")
}
