package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eoauman/sylman/internal/config"
	"github.com/eoauman/sylman/internal/sessions"
	"github.com/eoauman/sylman/internal/tokens"
	"github.com/eoauman/sylman/internal/users"
	"github.com/eoauman/sylman/pkg/logger"
)

// AuthHandler serves account endpoints: signup, login, lookup, password
// reset. Paths match the legacy frontend. There is no mail loop; reset is
// applied directly to the account.
type AuthHandler struct {
	cfg         *config.Config
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, u *users.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u, sessionsSvc: s}
}

// Register mounts the account routes.
func (h *AuthHandler) Register(r *gin.Engine) {
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	u := r.Group("/user")
	u.POST("/finduser", h.FindUser)
	u.POST("/resetpwd", h.ResetPassword)
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Signup registers an account and returns its id and role.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.Signup(c.Request.Context(), req.Username, req.Email, req.Password, "user")
	if err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already registered"})
			return
		}
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}
		logger.Errorf("signup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"userId": u.ID, "role": u.Role})
}

// Login verifies credentials; the response carries the userId/role pair the
// editor keeps in its session context, plus an access token for privileged
// calls.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		logger.Errorf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	resp := gin.H{"userId": u.ID, "role": u.Role}
	if h.sessionsSvc != nil {
		if token, err := h.sessionsSvc.CreateSession(c.Request.Context(), u.ID, u.Role, 24*time.Hour); err == nil {
			resp["sessionToken"] = token
		} else {
			logger.Warnf("login: session create failed: %v", err)
		}
	}
	if h.cfg.JWT.Secret != "" {
		if access, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.JWT.AccessTokenTTL); err == nil {
			resp["accessToken"] = access
		} else {
			logger.Warnf("login: access token failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Logout deletes the login session issued at login. Tokens the store no
// longer knows are fine; logout is idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		SessionToken string `json:"sessionToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.sessionsSvc != nil {
		if err := h.sessionsSvc.Delete(c.Request.Context(), req.SessionToken); err != nil {
			logger.Errorf("logout: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// FindUser reports whether an account exists; the reset flow calls this
// before offering the password form.
func (h *AuthHandler) FindUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.Find(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, users.ErrUnknownUser) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("finduser: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": u.ID, "username": u.Username, "email": u.Email})
}

// ResetPassword replaces the password for an existing account.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.usersSvc.ResetPassword(c.Request.Context(), req.Username, req.NewPassword); err != nil {
		if errors.Is(err, users.ErrUnknownUser) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("resetpwd: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
