package service

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the identity carried by access and refresh tokens.
type Claims struct {
	Username string
	UserID   uint
	IsAdmin  bool
}

// TokenKind tells access tokens from refresh tokens. Each endpoint accepts
// exactly one kind.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// tokenClaims is the signed payload. Identity fields are pointers so that
// absent claims can be told apart from zero values.
type tokenClaims struct {
	Username *string `json:"username,omitempty"`
	UserID   *uint   `json:"user_id,omitempty"`
	IsAdmin  bool    `json:"is_admin"`
	Type     string  `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 signed tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a token service signing with secret. The secret is
// supplied by configuration.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock replaces the time source used for issuing and validating.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs claims as a token of the given kind expiring ttl from now.
func (s *TokenService) Issue(kind TokenKind, claims Claims, ttl time.Duration) (string, error) {
	now := s.now()
	username := claims.Username
	userID := claims.UserID

	payload := tokenClaims{
		Username: &username,
		UserID:   &userID,
		IsAdmin:  claims.IsAdmin,
		Type:     string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return signed, nil
}

// Validate verifies signature and expiry and returns the embedded identity.
// Errors are ErrTokenExpired, ErrTokenMalformed or ErrMissingClaims, and
// ErrInvalidToken for a token of another kind.
func (s *TokenService) Validate(kind TokenKind, tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var payload tokenClaims
	_, err := parser.ParseWithClaims(tokenString, &payload, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, s.classify(tokenString, err)
	}

	if payload.UserID == nil || payload.Username == nil || *payload.Username == "" {
		return nil, apperrors.ErrMissingClaims
	}
	if payload.Type == "" {
		return nil, apperrors.ErrMissingClaims
	}
	if TokenKind(payload.Type) != kind {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken,
			fmt.Errorf("got %s token, want %s", payload.Type, kind))
	}

	return &Claims{
		Username: *payload.Username,
		UserID:   *payload.UserID,
		IsAdmin:  payload.IsAdmin,
	}, nil
}

// classify maps a parser error onto a domain error. A token whose embedded
// expiry has passed reports Expired even when it failed other checks.
func (s *TokenService) classify(tokenString string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.WrapError(apperrors.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return apperrors.WrapError(apperrors.ErrMissingClaims, err)
	}

	if s.expiredUnverified(tokenString) {
		return apperrors.WrapError(apperrors.ErrTokenExpired, err)
	}

	return apperrors.WrapError(apperrors.ErrTokenMalformed, err)
}

func (s *TokenService) expiredUnverified(tokenString string) bool {
	var payload jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &payload); err != nil {
		return false
	}
	return payload.ExpiresAt != nil && s.now().After(payload.ExpiresAt.Time)
}
