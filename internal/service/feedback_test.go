package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/dto"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
)

func TestFeedbackService_CreateLinksActiveRating(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.createUser(t, "alice")
	kettle := env.createProduct(t, "kettle")
	env.feedbacks.now = func() time.Time { return time.Date(2024, 3, 9, 17, 30, 0, 0, time.UTC) }

	r, _ := env.rating.UpsertRating(bg(), alice.ID, kettle.ID, 4)

	fb, err := env.feedbacks.Create(bg(), alice.ID, &dto.CreateFeedbackRequest{ProductID: kettle.ID})
	if err != nil {
		t.Fatalf("Expected feedback, got %v", err)
	}
	if fb.RatingID == nil || *fb.RatingID != r.RatingID {
		t.Errorf("Expected feedback to link rating %d, got %v", r.RatingID, fb.RatingID)
	}
	if fb.Comment != "No comment" {
		t.Errorf("Expected default comment, got %q", fb.Comment)
	}
	if !fb.CommentDate.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected comment date truncated to the day, got %s", fb.CommentDate)
	}
}

func TestFeedbackService_CreateWithoutRating(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.createUser(t, "alice")
	kettle := env.createProduct(t, "kettle")

	fb, err := env.feedbacks.Create(bg(), alice.ID, &dto.CreateFeedbackRequest{ProductID: kettle.ID, Comment: "  solid  "})
	if err != nil {
		t.Fatalf("Expected feedback, got %v", err)
	}
	if fb.RatingID != nil {
		t.Errorf("Expected no linked rating, got %d", *fb.RatingID)
	}
	if fb.Comment != "solid" {
		t.Errorf("Expected trimmed comment, got %q", fb.Comment)
	}
}

func TestFeedbackService_RejectsForeignRating(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	kettle := env.createProduct(t, "kettle")
	toaster := env.createProduct(t, "toaster")

	bobs, _ := env.rating.UpsertRating(bg(), bob.ID, kettle.ID, 2)
	alices, _ := env.rating.UpsertRating(bg(), alice.ID, toaster.ID, 5)

	cases := []dto.CreateFeedbackRequest{
		{ProductID: kettle.ID, RatingID: &bobs.RatingID},
		{ProductID: kettle.ID, RatingID: &alices.RatingID},
	}
	for _, req := range cases {
		if _, err := env.feedbacks.Create(bg(), alice.ID, &req); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for rating %d, got %v", *req.RatingID, err)
		}
	}

	missing := uint(999)
	if _, err := env.feedbacks.Create(bg(), alice.ID, &dto.CreateFeedbackRequest{ProductID: kettle.ID, RatingID: &missing}); !errors.Is(err, apperrors.ErrRatingNotFound) {
		t.Errorf("Expected ErrRatingNotFound, got %v", err)
	}
	if _, err := env.feedbacks.Create(bg(), alice.ID, &dto.CreateFeedbackRequest{ProductID: 999}); !errors.Is(err, apperrors.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestFeedbackService_ListAndDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	kettle := env.createProduct(t, "kettle")

	a, _ := env.feedbacks.Create(bg(), alice.ID, &dto.CreateFeedbackRequest{ProductID: kettle.ID, Comment: "first"})
	b, _ := env.feedbacks.Create(bg(), bob.ID, &dto.CreateFeedbackRequest{ProductID: kettle.ID, Comment: "second"})

	if err := env.feedbacks.Delete(bg(), a.ID, Claims{UserID: bob.ID}); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if err := env.feedbacks.Delete(bg(), b.ID, Claims{UserID: alice.ID, IsAdmin: true}); err != nil {
		t.Errorf("Expected admin delete to succeed, got %v", err)
	}
	if err := env.feedbacks.Delete(bg(), b.ID, Claims{UserID: bob.ID}); !errors.Is(err, apperrors.ErrFeedbackNotFound) {
		t.Errorf("Expected ErrFeedbackNotFound for deleted feedback, got %v", err)
	}

	list, err := env.feedbacks.ListByProduct(bg(), kettle.ID)
	if err != nil {
		t.Fatalf("Expected list, got %v", err)
	}
	if len(list) != 1 || list[0].ID != a.ID {
		t.Errorf("Expected only the first feedback, got %+v", list)
	}

	if _, err := env.feedbacks.ListByProduct(bg(), 999); !errors.Is(err, apperrors.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}
