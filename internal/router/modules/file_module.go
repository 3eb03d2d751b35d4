package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pharmadocs/internal/interface/http"
)

// FileModule serves stored documents to their owner: GET /api/files/:id
type FileModule struct {
	Handler *handlers.FileHandler
	Auth    gin.HandlerFunc
}

func NewFileModule(h *handlers.FileHandler, auth gin.HandlerFunc) *FileModule {
	return &FileModule{Handler: h, Auth: auth}
}

func (m *FileModule) Register(rg *gin.RouterGroup) {
	rg.GET("/files/:id", m.Auth, m.Handler.Download)
}
