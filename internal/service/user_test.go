package service

import (
	"errors"
	"testing"

	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/model"
)

func TestUserService_ListGetDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := NewUserService(env.users)
	admin := env.createUser(t, "admin")
	alice := env.createUser(t, "alice")
	env.createUser(t, "bob")

	users, total, pages, err := svc.GetAll(bg(), 2, 0, "")
	if err != nil {
		t.Fatalf("Expected users, got %v", err)
	}
	if total != 3 || len(users) != 2 || pages != 2 {
		t.Errorf("Expected 3 users over 2 pages, got total=%d len=%d pages=%d", total, len(users), pages)
	}

	got, err := svc.GetByID(bg(), alice.ID)
	if err != nil || got.Username != "alice" {
		t.Fatalf("Expected alice, got %+v (%v)", got, err)
	}

	if err := svc.Delete(bg(), admin.ID, admin.ID); !errors.Is(err, apperrors.ErrSelfDeletion) {
		t.Errorf("Expected ErrSelfDeletion, got %v", err)
	}
	if err := svc.Delete(bg(), alice.ID, admin.ID); err != nil {
		t.Fatalf("Expected delete, got %v", err)
	}
	if _, err := svc.GetByID(bg(), alice.ID); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound after delete, got %v", err)
	}
	if err := svc.Delete(bg(), alice.ID, admin.ID); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Expected second delete to be NotFound, got %v", err)
	}

	var stored model.User
	env.db.First(&stored, alice.ID)
	if stored.IsActive {
		t.Error("Expected soft delete to keep the row inactive")
	}

	_, total, _, _ = svc.GetAll(bg(), 10, 0, "")
	if total != 2 {
		t.Errorf("Expected 2 active users, got %d", total)
	}
}
