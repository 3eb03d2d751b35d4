package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pharmadocs/internal/application"
	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
	"github.com/oksasatya/pharmadocs/pkg/response"
	"github.com/oksasatya/pharmadocs/pkg/validation"
)

// AuthService is the subset of application.AuthService used over HTTP.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*entity.User, application.Session, error)
	Login(ctx context.Context, email, password string) (*entity.User, application.Session, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	Svc     AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc AuthService, logger *logrus.Logger, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Login fields are not format-checked so every bad attempt gets the same 401.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, validation.ToDetails(err))
		return
	}
	u, sess, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if sess.Token != "" {
		h.Cookies.Set(c, sess.Token, sess.ExpiresAt)
	}
	response.OK(c, http.StatusOK, gin.H{"id": u.ID})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, validation.ToDetails(err))
		return
	}
	_, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.Set(c, sess.Token, sess.ExpiresAt)
	response.OK(c, http.StatusOK, nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	err := h.Svc.Logout(c.Request.Context(), helpers.Token(c))
	h.Cookies.Clear(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, nil)
}
