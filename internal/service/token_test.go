package service

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService(testSecret)

	token, err := svc.Issue(TokenAccess, Claims{Username: "alice", UserID: 7, IsAdmin: true}, time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := svc.Validate(TokenAccess, token)
	if err != nil {
		t.Fatalf("Expected valid token, got %v", err)
	}
	if claims.Username != "alice" || claims.UserID != 7 || !claims.IsAdmin {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestTokenService_TokensAreUnique(t *testing.T) {
	svc := NewTokenService(testSecret).WithClock(fixedClock(time.Unix(1_700_000_000, 0)))

	a, _ := svc.Issue(TokenAccess, Claims{Username: "alice", UserID: 1}, time.Hour)
	b, _ := svc.Issue(TokenAccess, Claims{Username: "alice", UserID: 1}, time.Hour)
	if a == b {
		t.Error("Expected tokens issued in the same second to differ")
	}
}

func TestTokenService_Expired(t *testing.T) {
	issuedAt := time.Unix(1_700_000_000, 0)
	svc := NewTokenService(testSecret).WithClock(fixedClock(issuedAt))

	token, err := svc.Issue(TokenAccess, Claims{Username: "alice", UserID: 1}, time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	svc.WithClock(fixedClock(issuedAt.Add(2 * time.Minute)))

	_, err = svc.Validate(TokenAccess, token)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("Expected ErrTokenExpired, got %v", err)
	}
	if apperrors.KindOf(err) != apperrors.KindExpired {
		t.Errorf("Expected KindExpired, got %s", apperrors.KindOf(err))
	}
}

func TestTokenService_ExpiredWithForeignSignature(t *testing.T) {
	issuedAt := time.Unix(1_700_000_000, 0)
	other := NewTokenService("ffffffffffffffffffffffffffffffff").WithClock(fixedClock(issuedAt))
	token, _ := other.Issue(TokenAccess, Claims{Username: "alice", UserID: 1}, time.Minute)

	svc := NewTokenService(testSecret).WithClock(fixedClock(issuedAt.Add(time.Hour)))

	if _, err := svc.Validate(TokenAccess, token); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_WrongSignature(t *testing.T) {
	other := NewTokenService("ffffffffffffffffffffffffffffffff")
	token, _ := other.Issue(TokenAccess, Claims{Username: "alice", UserID: 1}, time.Minute)

	_, err := NewTokenService(testSecret).Validate(TokenAccess, token)
	if !errors.Is(err, apperrors.ErrTokenMalformed) {
		t.Errorf("Expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenService_Garbage(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := NewTokenService(testSecret).Validate(TokenAccess, token); !errors.Is(err, apperrors.ErrTokenMalformed) {
			t.Errorf("Validate(%q): expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	payload := jwt.MapClaims{
		"username": "alice",
		"user_id":  1,
		"typ":      "access",
		"exp":      time.Now().Add(time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, payload).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}

	if _, err := NewTokenService(testSecret).Validate(TokenAccess, token); !errors.Is(err, apperrors.ErrTokenMalformed) {
		t.Errorf("Expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenService_MissingClaims(t *testing.T) {
	cases := map[string]jwt.MapClaims{
		"no user_id":  {"username": "alice", "typ": "access", "exp": time.Now().Add(time.Minute).Unix()},
		"no username": {"user_id": 1, "typ": "access", "exp": time.Now().Add(time.Minute).Unix()},
		"no exp":      {"username": "alice", "user_id": 1, "typ": "access"},
		"no typ":      {"username": "alice", "user_id": 1, "exp": time.Now().Add(time.Minute).Unix()},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString([]byte(testSecret))
			if err != nil {
				t.Fatalf("Failed to sign: %v", err)
			}

			_, err = NewTokenService(testSecret).Validate(TokenAccess, token)
			if !errors.Is(err, apperrors.ErrMissingClaims) {
				t.Errorf("Expected ErrMissingClaims, got %v", err)
			}
		})
	}
}

func TestTokenService_RejectsOtherKind(t *testing.T) {
	svc := NewTokenService(testSecret)

	refresh, err := svc.Issue(TokenRefresh, Claims{Username: "alice", UserID: 1}, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	access, err := svc.Issue(TokenAccess, Claims{Username: "alice", UserID: 1}, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := svc.Validate(TokenAccess, refresh); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Expected refresh token to be rejected as access token, got %v", err)
	}
	if _, err := svc.Validate(TokenRefresh, access); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Expected access token to be rejected as refresh token, got %v", err)
	}
	if _, err := svc.Validate(TokenRefresh, refresh); err != nil {
		t.Errorf("Expected refresh token to validate as refresh, got %v", err)
	}
}
