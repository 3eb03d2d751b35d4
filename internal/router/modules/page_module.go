package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pharmadocs/internal/interface/http"
)

// PageModule serves the static HTML pages at the site root.
type PageModule struct {
	Handler *handlers.PageHandler
}

func NewPageModule(h *handlers.PageHandler) *PageModule {
	return &PageModule{Handler: h}
}

func (m *PageModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Root)
	for _, name := range []string{"home", "profile", "login", "register"} {
		rg.GET("/"+name, m.Handler.Page(name))
	}
}
