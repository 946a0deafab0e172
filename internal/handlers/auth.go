package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/middleware"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/models"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/service"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": identityResponse(identity)})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	maxAge := int(h.cfg.Session.TTL / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.cfg.Environment == "production", true)

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout destroys the caller's session. A request with no or an unknown
// token still succeeds: destroy is idempotent.
func (h HandlerSet) Logout(c *gin.Context) {
	if token := middleware.ExtractToken(c); token != "" {
		if err := h.accounts.Logout(c.Request.Context(), token); err != nil {
			h.writeError(c, err)
			return
		}
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cfg.Environment == "production", true)
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}})
}

func identityResponse(identity service.Identity) userResponse {
	return userResponse{
		ID:    identity.ID,
		Email: identity.Email,
		Role:  string(identity.Role),
	}
}
