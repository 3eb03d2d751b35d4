package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pharmadocs/internal/application"
	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	"github.com/oksasatya/pharmadocs/internal/interface/middleware"
	"github.com/oksasatya/pharmadocs/pkg/response"
	"github.com/oksasatya/pharmadocs/pkg/validation"
)

// ProfileService is the subset of application.ProfileService used over HTTP.
type ProfileService interface {
	GetOrCreate(ctx context.Context, ownerID string) (*entity.Profile, error)
	Update(ctx context.Context, ownerID string, patch entity.ProfilePatch) error
	UploadDoc(ctx context.Context, in application.UploadInput) (*entity.Blob, error)
}

type ProfileHandler struct {
	Svc    ProfileService
	Logger *logrus.Logger
	// MaxUploadBytes caps the request body of an upload; 0 disables the cap.
	MaxUploadBytes int64
}

func NewProfileHandler(svc ProfileService, logger *logrus.Logger, maxUploadBytes int64) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

// FileURL is the download path of a blob.
func FileURL(id string) string { return "/api/files/" + id }

type docRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type profileView struct {
	ID            string                   `json:"id"`
	PharmacyName  string                   `json:"pharmacyName"`
	LicenseNumber string                   `json:"licenseNumber"`
	Phone         string                   `json:"phone"`
	Address       string                   `json:"address"`
	Lang          string                   `json:"lang"`
	Docs          map[entity.DocKey]*docRef `json:"docs"`
}

func toProfileView(p *entity.Profile) profileView {
	v := profileView{
		ID:            p.ID,
		PharmacyName:  p.PharmacyName,
		LicenseNumber: p.LicenseNumber,
		Phone:         p.Phone,
		Address:       p.Address,
		Lang:          p.Lang,
		Docs:          make(map[entity.DocKey]*docRef, len(entity.DocKeys)),
	}
	for _, k := range entity.DocKeys {
		v.Docs[k] = nil
		if id := p.Docs[k]; id != nil {
			v.Docs[k] = &docRef{ID: *id, URL: FileURL(*id)}
		}
	}
	return v
}

type updateProfileRequest struct {
	PharmacyName  *string `json:"pharmacyName" binding:"omitempty,max=200"`
	LicenseNumber *string `json:"licenseNumber" binding:"omitempty,max=100"`
	Phone         *string `json:"phone" binding:"omitempty,max=40"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	Lang          *string `json:"lang" binding:"omitempty,max=10"`
}

type uploadQuery struct {
	Doc string `form:"doc" binding:"required,dockey"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.Svc.GetOrCreate(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toProfileView(p))
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	// An empty body is the empty subset of fields.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Invalid(c, validation.ToDetails(err))
		return
	}
	patch := entity.ProfilePatch{
		PharmacyName:  req.PharmacyName,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
		Address:       req.Address,
		Lang:          req.Lang,
	}
	if err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), patch); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, nil)
}

func (h *ProfileHandler) Upload(c *gin.Context) {
	var q uploadQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, application.ErrInvalidDocKey.Error())
		return
	}
	if h.MaxUploadBytes > 0 {
		// Leave room for multipart headers around the file part.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+1<<20)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	b, err := h.Svc.UploadDoc(c.Request.Context(), application.UploadInput{
		OwnerID:  middleware.UserID(c),
		Reader:   f,
		Size:     fh.Size,
		Filename: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Field:    entity.DocKey(q.Doc),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"fileId": b.ID, "filename": b.Filename, "url": FileURL(b.ID)})
}
