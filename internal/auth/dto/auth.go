package dto

// LoginRequest is the payload for operator login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
}

// RegisterTokenRequest is the payload for device token registration
type RegisterTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}
