package service

import (
	"context"
	"crypto/subtle"
	"time"

	"stockdesk/internal/config"
	"stockdesk/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AuthService authenticates the single operator account configured through
// ADMIN_USERNAME / ADMIN_PASSWORD_HASH.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}

type authService struct {
	cfg *config.Config
	now func() time.Time
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

func (s *authService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.AdminUsername)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(req.Username)
}

func (s *authService) Refresh(_ context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	if username != s.cfg.AdminUsername {
		return nil, ErrInvalidToken
	}
	return s.issue(username)
}

func (s *authService) issue(username string) (*dto.LoginResponse, error) {
	access, err := s.generateToken(username, TokenTypeAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(username, TokenTypeRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Username:     username,
	}, nil
}

func (s *authService) generateToken(username, tokenType string, duration time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"username":   username,
		"token_type": tokenType,
		"exp":        now.Add(duration).Unix(),
		"iat":        now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
