package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thinhtt264/snaplet-core-service/internal/models"
	"github.com/thinhtt264/snaplet-core-service/internal/services"
	"github.com/thinhtt264/snaplet-core-service/internal/telemetry"
)

type AuthHandler struct {
	auth  *services.AuthService
	audit *telemetry.AuditEmitter
}

func NewAuthHandler(auth *services.AuthService, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{auth: auth, audit: audit}
}

type registerBody struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=3,max=30"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	requestID := requestIDFromHeader(c)

	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.auth.Register(ctx, services.RegisterParams{
		Email:     body.Email,
		Username:  body.Username,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Password:  body.Password,
	}, deviceIDFromHeader(c))
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) || errors.Is(err, models.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.audit.EmitAudit(ctx, "ERROR", "registration failed", requestID, "")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	h.audit.EmitAudit(ctx, "INFO", "user registered", requestID, result.User.ID)
	c.JSON(http.StatusCreated, result)
}

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	requestID := requestIDFromHeader(c)

	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.auth.Login(ctx, body.Email, body.Password, deviceIDFromHeader(c))
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			h.audit.EmitAudit(ctx, "ERROR", "login rejected", requestID, "")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to login"})
		return
	}

	h.audit.EmitAudit(ctx, "INFO", "user logged in", requestID, result.User.ID)
	c.JSON(http.StatusOK, result)
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	AccessToken  string `json:"access_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var body refreshBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), body.RefreshToken, body.AccessToken, deviceIDFromHeader(c))
	if err != nil {
		if errors.Is(err, models.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh token"})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), userID, deviceIDFromHeader(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to logout"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	available, err := h.auth.EmailAvailable(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	available, err := h.auth.UsernameAvailable(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check username"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}
