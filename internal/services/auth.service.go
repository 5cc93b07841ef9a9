package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sitelog/config"
	"sitelog/internal/constants"
	"sitelog/internal/database"
	"sitelog/internal/logger"
	. "sitelog/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")
)

// AuthService issues and validates HS256 session tokens. Active sessions
// live in the session cache keyed by token ID so a logout invalidates the
// token before its expiry.
type AuthService struct {
	config config.Config
	db     database.DB
	log    logger.Logger
}

// TokenClaims is the validated content of a session token
type TokenClaims struct {
	UserID  uuid.UUID
	TokenID string
	Email   string
	IsAdmin bool
}

type sessionRecord struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func NewAuthService(config config.Config, db database.DB) (*AuthService, error) {
	log := logger.New("authService")

	if config.JWTSecret == "" {
		return nil, log.ErrMsg("JWT secret is not configured")
	}

	return &AuthService{
		config: config,
		db:     db,
		log:    log,
	}, nil
}

// IssueToken creates a signed session token for the user and registers the
// session in the cache.
func (s *AuthService) IssueToken(ctx context.Context, user *User) (string, time.Time, error) {
	log := s.log.Function("IssueToken")

	tokenID := uuid.New().String()
	expiresAt := time.Now().Add(time.Duration(s.config.SessionExpiryHours) * time.Hour)

	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"jti":   tokenID,
		"email": user.Email,
		"admin": user.IsAdmin,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, log.Err("failed to sign token", err, "userID", user.ID)
	}

	session := sessionRecord{
		UserID:  user.ID.String(),
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}

	err = database.NewCacheBuilder(s.db.Cache.Session, tokenID).
		WithContext(ctx).
		WithHash(constants.SessionCachePrefix).
		WithStruct(session).
		WithTTL(time.Until(expiresAt)).
		Set()
	if err != nil {
		return "", time.Time{}, log.Err("failed to store session", err, "userID", user.ID)
	}

	log.Info("Session token issued", "userID", user.ID, "tokenID", tokenID)

	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a session token and confirms the
// session is still active in the cache.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	log := s.log.Function("ValidateToken")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	tokenID, _ := claims["jti"].(string)
	email, _ := claims["email"].(string)
	isAdmin, _ := claims["admin"].(bool)

	userID, err := uuid.Parse(sub)
	if err != nil || tokenID == "" {
		return nil, ErrInvalidToken
	}

	var session sessionRecord
	found, err := database.NewCacheBuilder(s.db.Cache.Session, tokenID).
		WithContext(ctx).
		WithHash(constants.SessionCachePrefix).
		Get(&session)
	if err != nil {
		return nil, log.Err("failed to read session cache", err, "tokenID", tokenID)
	}
	if !found {
		return nil, ErrSessionExpired
	}

	return &TokenClaims{
		UserID:  userID,
		TokenID: tokenID,
		Email:   email,
		IsAdmin: isAdmin,
	}, nil
}

// RevokeSession removes the session so the token stops validating
func (s *AuthService) RevokeSession(ctx context.Context, tokenID string) error {
	log := s.log.Function("RevokeSession")

	err := database.NewCacheBuilder(s.db.Cache.Session, tokenID).
		WithContext(ctx).
		WithHash(constants.SessionCachePrefix).
		Delete()
	if err != nil {
		return log.Err("failed to revoke session", err, "tokenID", tokenID)
	}

	log.Info("Session revoked", "tokenID", tokenID)
	return nil
}
