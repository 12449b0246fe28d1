package usecase

import (
	"errors"
	"time"

	authdto "jobradar-backend/internal/auth/dto"
	"jobradar-backend/internal/auth/repository"
	"jobradar-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// AuthUsecase authenticates the operator account and validates access tokens
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	ValidateToken(tokenString string) (string, error)
}

type authUsecase struct {
	config *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(cfg *config.Config) AuthUsecase {
	return &authUsecase{config: cfg}
}

// Login checks the credentials against the configured operator account and
// issues a signed access token
func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	if req.Email != u.config.AdminEmail {
		return nil, errors.New("invalid email or password")
	}
	if u.config.AdminPasswordHash == "" {
		return nil, errors.New("operator login is not configured")
	}
	if !repository.CheckPasswordHash(req.Password, u.config.AdminPasswordHash) {
		return nil, errors.New("invalid email or password")
	}

	accessToken, err := u.generateAccessToken(req.Email)
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken: accessToken,
		Email:       req.Email,
	}, nil
}

func (u *authUsecase) generateAccessToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

// ValidateToken parses an access token and returns the operator email
func (u *authUsecase) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	email, ok := claims["email"].(string)
	if !ok || email != u.config.AdminEmail {
		return "", errors.New("invalid token claims")
	}

	return email, nil
}
