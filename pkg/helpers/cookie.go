package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "sid"

type Manager struct {
	Domain string
	Secure bool
	Now    func() time.Time
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure, Now: time.Now}
}

// Set writes the session cookie; it is HttpOnly and expires with the session.
func (m *Manager) Set(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, m.maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", m.Domain, m.Secure, true)
}

// Token returns the session cookie value, or "" when absent.
func Token(c *gin.Context) string {
	v, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return v
}

func (m *Manager) maxAgeFrom(exp time.Time) int {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	sec := int(exp.Sub(now()).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
