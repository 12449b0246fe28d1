package delivery

import (
	"net/http"

	authdto "jobradar-backend/internal/auth/dto"
	"jobradar-backend/internal/auth/repository"
	"jobradar-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles operator authentication and device registration
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	tokenRepo   repository.DeviceTokenRepository
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase, tokenRepo repository.DeviceTokenRepository) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		tokenRepo:   tokenRepo,
	}
}

// Login authenticates the operator
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authUsecase.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterDeviceToken registers a device for run-report push notifications
// POST /api/fcm/register
func (h *AuthHandler) RegisterDeviceToken(c *gin.Context) {
	var req authdto.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tokenRepo.SaveToken(req.Token, req.DeviceInfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token registered"})
}

// UnregisterDeviceToken removes a device token
// DELETE /api/fcm/:token
func (h *AuthHandler) UnregisterDeviceToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	if err := h.tokenRepo.DeleteToken(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token removed"})
}
