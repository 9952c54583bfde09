package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmmarket/console/internal/middleware"
	"farmmarket/console/internal/models"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/session"
	"farmmarket/console/internal/validate"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type meResponse struct {
	User         models.User      `json:"user"`
	Navigation   []nav.Item       `json:"navigation"`
	Capabilities []nav.Capability `json:"capabilities"`
	TokenExpires string           `json:"tokenExpires,omitempty"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err, service.LoginFallbacks)
		return
	}
	h.resetViews()
	c.JSON(http.StatusOK, describeSession(sess))
}

func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.auth.Register(c.Request.Context(), validate.RegistrationForm{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.fail(c, err, service.RegisterFallbacks)
		return
	}
	h.resetViews()
	c.JSON(http.StatusCreated, describeSession(sess))
}

func (h HandlerSet) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		h.fail(c, err, service.Fallbacks{Default: "Logout failed"})
		return
	}
	h.resetViews()
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) Me(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, describeSession(sess))
}

func (h HandlerSet) Nav(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{"items": nav.Items(sess.User.Role)})
}

func describeSession(sess models.Session) meResponse {
	resp := meResponse{
		User:         sess.User,
		Navigation:   nav.Items(sess.User.Role),
		Capabilities: nav.Capabilities(sess.User.Role),
	}
	if info, err := session.Inspect(sess.Token); err == nil && !info.ExpiresAt.IsZero() {
		resp.TokenExpires = info.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}
