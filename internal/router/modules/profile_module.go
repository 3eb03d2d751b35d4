package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pharmadocs/internal/interface/http"
)

// ProfileModule wires the pharmacy profile routes; all of them need a session.
// GET /api/profile, POST /api/profile, POST /api/profile/upload?doc=<key>
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Auth    gin.HandlerFunc
}

func NewProfileModule(h *handlers.ProfileHandler, auth gin.HandlerFunc) *ProfileModule {
	return &ProfileModule{Handler: h, Auth: auth}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/profile", m.Auth)
	g.GET("", m.Handler.Get)
	g.POST("", m.Handler.Update)
	g.POST("/upload", m.Handler.Upload)
}
