package service

import (
	"errors"
	"sync"
	"testing"

	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/model"
	"github.com/shopspring/decimal"
)

func TestRatingService_UpsertReplacesGrade(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")
	product := env.createProduct(t, "kettle")

	first, err := env.rating.UpsertRating(bg(), user.ID, product.ID, 3)
	if err != nil {
		t.Fatalf("Expected first upsert to succeed, got %v", err)
	}
	second, err := env.rating.UpsertRating(bg(), user.ID, product.ID, 5)
	if err != nil {
		t.Fatalf("Expected second upsert to succeed, got %v", err)
	}

	if first.RatingID != second.RatingID {
		t.Errorf("Expected the same rating to be updated, got %d and %d", first.RatingID, second.RatingID)
	}

	var ratings []model.Rating
	env.db.Where("user_id = ? AND product_id = ?", user.ID, product.ID).Find(&ratings)
	if len(ratings) != 1 || ratings[0].Grade != 5 {
		t.Fatalf("Expected one rating with grade 5, got %+v", ratings)
	}

	assertDecimal(t, second.ProductRating, "5")
	assertDecimal(t, env.productRating(t, product.ID), "5")
}

func TestRatingService_AverageAcrossUsers(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	product := env.createProduct(t, "kettle")

	a, _ := env.rating.UpsertRating(bg(), alice.ID, product.ID, 2)
	b, err := env.rating.UpsertRating(bg(), bob.ID, product.ID, 4)
	if err != nil {
		t.Fatalf("Expected upsert to succeed, got %v", err)
	}
	assertDecimal(t, b.ProductRating, "3")

	resp, err := env.rating.DeactivateRating(bg(), a.RatingID, nil)
	if err != nil {
		t.Fatalf("Expected deactivate to succeed, got %v", err)
	}
	assertDecimal(t, resp.ProductRating, "4")
	assertDecimal(t, env.productRating(t, product.ID), "4")

	resp, err = env.rating.DeactivateRating(bg(), b.RatingID, nil)
	if err != nil {
		t.Fatalf("Expected deactivate to succeed, got %v", err)
	}
	assertDecimal(t, resp.ProductRating, "0")
	assertDecimal(t, env.productRating(t, product.ID), "0")
}

func TestRatingService_AverageRoundsToTwoDecimals(t *testing.T) {
	env := newTestEnv(t, nil)
	product := env.createProduct(t, "kettle")

	for i, grade := range []int{1, 2, 2} {
		user := env.createUser(t, string(rune('a'+i))+"-user")
		if _, err := env.rating.UpsertRating(bg(), user.ID, product.ID, grade); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	assertDecimal(t, env.productRating(t, product.ID), "1.67")
}

func TestRatingService_DeactivateIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")
	product := env.createProduct(t, "kettle")

	r, _ := env.rating.UpsertRating(bg(), user.ID, product.ID, 4)

	for i := 0; i < 2; i++ {
		resp, err := env.rating.DeactivateRating(bg(), r.RatingID, nil)
		if err != nil {
			t.Fatalf("Deactivate #%d failed: %v", i+1, err)
		}
		assertDecimal(t, resp.ProductRating, "0")
	}
}

func TestRatingService_RerateAfterDeactivation(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")
	product := env.createProduct(t, "kettle")

	old, _ := env.rating.UpsertRating(bg(), user.ID, product.ID, 1)
	if _, err := env.rating.DeactivateRating(bg(), old.RatingID, nil); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	fresh, err := env.rating.UpsertRating(bg(), user.ID, product.ID, 5)
	if err != nil {
		t.Fatalf("Expected re-rating to succeed, got %v", err)
	}
	if fresh.RatingID == old.RatingID {
		t.Error("Expected a new rating row after deactivation")
	}
	assertDecimal(t, fresh.ProductRating, "5")

	var active int64
	env.db.Model(&model.Rating{}).Where("user_id = ? AND product_id = ? AND is_active = ?", user.ID, product.ID, true).Count(&active)
	if active != 1 {
		t.Errorf("Expected one active rating, got %d", active)
	}
}

func TestRatingService_NotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")
	product := env.createProduct(t, "kettle")

	if _, err := env.rating.UpsertRating(bg(), user.ID, 999, 3); !errors.Is(err, apperrors.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
	if _, err := env.rating.UpsertRating(bg(), 999, product.ID, 3); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if _, err := env.rating.DeactivateRating(bg(), 999, nil); !errors.Is(err, apperrors.ErrRatingNotFound) {
		t.Errorf("Expected ErrRatingNotFound, got %v", err)
	}

	var count int64
	env.db.Model(&model.Rating{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected failed upserts to leave no rows, got %d", count)
	}
}

func TestRatingService_InactiveProductRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")
	product := env.createProduct(t, "kettle")
	env.db.Model(&model.Product{}).Where("id = ?", product.ID).Update("is_active", false)

	if _, err := env.rating.UpsertRating(bg(), user.ID, product.ID, 3); !errors.Is(err, apperrors.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestRatingService_InvalidGrade(t *testing.T) {
	env := newTestEnv(t, nil)
	user := env.createUser(t, "alice")
	product := env.createProduct(t, "kettle")

	for _, grade := range []int{0, 6, -1} {
		if _, err := env.rating.UpsertRating(bg(), user.ID, product.ID, grade); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("Grade %d: expected ErrInvalidInput, got %v", grade, err)
		}
	}
}

func TestRatingService_DeactivateRequiresOwnerOrAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.createUser(t, "alice")
	mallory := env.createUser(t, "mallory")
	product := env.createProduct(t, "kettle")

	r, _ := env.rating.UpsertRating(bg(), alice.ID, product.ID, 4)

	_, err := env.rating.DeactivateRating(bg(), r.RatingID, &Claims{Username: "mallory", UserID: mallory.ID})
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
	assertDecimal(t, env.productRating(t, product.ID), "4")

	if _, err := env.rating.DeactivateRating(bg(), r.RatingID, &Claims{Username: "root", UserID: 999, IsAdmin: true}); err != nil {
		t.Errorf("Expected admin deactivation to succeed, got %v", err)
	}
}

func TestRatingService_ConcurrentUpserts(t *testing.T) {
	env := newTestEnv(t, nil)
	product := env.createProduct(t, "kettle")

	grades := []int{5, 3, 4, 1, 2, 5, 5, 4}
	users := make([]*model.User, len(grades))
	for i := range grades {
		users[i] = env.createUser(t, "user-"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(grades)*2)
	for i, grade := range grades {
		wg.Add(2)
		go func(userID uint, grade int) {
			defer wg.Done()
			_, err := env.rating.UpsertRating(bg(), userID, product.ID, grade)
			errs <- err
		}(users[i].ID, grade)
		// A competing write from the same user must not create a second row.
		go func(userID uint, grade int) {
			defer wg.Done()
			_, err := env.rating.UpsertRating(bg(), userID, product.ID, grade)
			errs <- err
		}(users[i].ID, grade)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Concurrent upsert failed: %v", err)
		}
	}

	var active []model.Rating
	env.db.Where("product_id = ? AND is_active = ?", product.ID, true).Find(&active)
	if len(active) != len(grades) {
		t.Fatalf("Expected %d active ratings, got %d", len(grades), len(active))
	}

	sum := 0
	for _, r := range active {
		sum += r.Grade
	}
	want := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(active)))).Round(2)
	if got := env.productRating(t, product.ID); !got.Equal(want) {
		t.Errorf("Expected average %s, got %s", want, got)
	}
}

func TestRatingService_ListAndGet(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	kettle := env.createProduct(t, "kettle")
	toaster := env.createProduct(t, "toaster")

	r1, _ := env.rating.UpsertRating(bg(), alice.ID, kettle.ID, 4)
	env.rating.UpsertRating(bg(), bob.ID, kettle.ID, 2)
	env.rating.UpsertRating(bg(), bob.ID, toaster.ID, 5)

	list, total, pages, err := env.rating.ListRatings(bg(), &kettle.ID, 10, 0)
	if err != nil {
		t.Fatalf("Expected list to succeed, got %v", err)
	}
	if total != 2 || len(list) != 2 || pages != 1 {
		t.Errorf("Expected 2 ratings on one page, got total=%d len=%d pages=%d", total, len(list), pages)
	}

	_, total, _, _ = env.rating.ListRatings(bg(), nil, 10, 0)
	if total != 3 {
		t.Errorf("Expected 3 ratings overall, got %d", total)
	}

	got, err := env.rating.GetRating(bg(), r1.RatingID)
	if err != nil {
		t.Fatalf("Expected rating, got %v", err)
	}
	if got.Grade != 4 || got.UserID != alice.ID || !got.IsActive {
		t.Errorf("Unexpected rating %+v", got)
	}

	if _, err := env.rating.GetRating(bg(), 999); !errors.Is(err, apperrors.ErrRatingNotFound) {
		t.Errorf("Expected ErrRatingNotFound, got %v", err)
	}
}
