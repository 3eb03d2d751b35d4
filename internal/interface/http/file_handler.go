package handlers

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	"github.com/oksasatya/pharmadocs/internal/interface/middleware"
)

// FileService opens a stored blob for its owner.
type FileService interface {
	Open(ctx context.Context, id, ownerID string) (*entity.Blob, io.ReadCloser, error)
}

type FileHandler struct {
	Svc    FileService
	Logger *logrus.Logger
}

func NewFileHandler(svc FileService, logger *logrus.Logger) *FileHandler {
	return &FileHandler{Svc: svc, Logger: logger}
}

// Download streams the blob with its stored mimetype.
func (h *FileHandler) Download(c *gin.Context) {
	b, rc, err := h.Svc.Open(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = rc.Close() }()

	extra := map[string]string{
		"Content-Disposition": mime.FormatMediaType("inline", map[string]string{"filename": b.Filename}),
		"Cache-Control":       "private, no-store",
	}
	c.DataFromReader(http.StatusOK, b.Size, b.MimeType, rc, extra)
}
