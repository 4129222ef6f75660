package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/dto"
	apperrors "github.com/Payphone-Digital/review-platform/internal/errors"
	"github.com/Payphone-Digital/review-platform/internal/model"
	"github.com/Payphone-Digital/review-platform/pkg/circuit"
	pkgredis "github.com/Payphone-Digital/review-platform/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*pkgredis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return pkgredis.NewFromRedis(rdb), mr
}

func TestReviewService_GroupsActiveFeedback(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	kettle := env.createProduct(t, "kettle")
	toaster := env.createProduct(t, "toaster")

	env.rating.UpsertRating(bg(), alice.ID, kettle.ID, 4)
	env.rating.UpsertRating(bg(), bob.ID, kettle.ID, 2)

	kept, err := env.feedbacks.Create(bg(), alice.ID, &dto.CreateFeedbackRequest{ProductID: kettle.ID, Comment: "boils fast"})
	if err != nil {
		t.Fatalf("Failed to create feedback: %v", err)
	}
	removed, _ := env.feedbacks.Create(bg(), bob.ID, &dto.CreateFeedbackRequest{ProductID: kettle.ID, Comment: "meh"})
	if err := env.feedbacks.Delete(bg(), removed.ID, Claims{UserID: bob.ID}); err != nil {
		t.Fatalf("Failed to delete feedback: %v", err)
	}

	reviews, err := env.review.GetProductReviews(bg(), nil)
	if err != nil {
		t.Fatalf("Expected reviews, got %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(reviews))
	}

	k := reviews[0]
	if k.ID != kettle.ID || k.RatingCount != 2 {
		t.Errorf("Unexpected kettle review %+v", k)
	}
	assertDecimal(t, k.Rating, "3")
	if len(k.Feedback) != 1 || k.Feedback[0].ID != kept.ID || k.Feedback[0].Comment != "boils fast" {
		t.Errorf("Expected only the active feedback, got %+v", k.Feedback)
	}

	if reviews[1].ID != toaster.ID || len(reviews[1].Feedback) != 0 || reviews[1].RatingCount != 0 {
		t.Errorf("Unexpected toaster review %+v", reviews[1])
	}
}

func TestReviewService_SingleProduct(t *testing.T) {
	env := newTestEnv(t, nil)
	kettle := env.createProduct(t, "kettle")
	env.createProduct(t, "toaster")

	reviews, err := env.review.GetProductReviews(bg(), &kettle.ID)
	if err != nil {
		t.Fatalf("Expected review, got %v", err)
	}
	if len(reviews) != 1 || reviews[0].Name != "kettle" {
		t.Errorf("Unexpected reviews %+v", reviews)
	}

	missing := uint(999)
	if _, err := env.review.GetProductReviews(bg(), &missing); !errors.Is(err, apperrors.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestReviewService_NoProducts(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.review.GetProductReviews(bg(), nil)
	if !errors.Is(err, apperrors.ErrReviewNotFound) {
		t.Errorf("Expected ErrReviewNotFound, got %v", err)
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("Expected KindNotFound, got %s", apperrors.KindOf(err))
	}
}

func TestReviewService_ExcludesInactiveProducts(t *testing.T) {
	env := newTestEnv(t, nil)
	kettle := env.createProduct(t, "kettle")
	env.db.Model(&model.Product{}).Where("id = ?", kettle.ID).Update("is_active", false)

	if _, err := env.review.GetProductReviews(bg(), &kettle.ID); !errors.Is(err, apperrors.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestReviewService_CachesAndInvalidates(t *testing.T) {
	store, mr := newRedisStore(t)
	env := newTestEnv(t, store)
	alice := env.createUser(t, "alice")
	kettle := env.createProduct(t, "kettle")

	if _, err := env.review.GetProductReviews(bg(), &kettle.ID); err != nil {
		t.Fatalf("Expected review, got %v", err)
	}
	key := ReviewKey(&kettle.ID)
	if !mr.Exists(key) {
		t.Fatalf("Expected %s to be cached", key)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Errorf("Unexpected TTL %s", ttl)
	}

	if _, err := env.rating.UpsertRating(bg(), alice.ID, kettle.ID, 5); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("Expected rating write to invalidate the cached review")
	}

	reviews, err := env.review.GetProductReviews(bg(), &kettle.ID)
	if err != nil {
		t.Fatalf("Expected review, got %v", err)
	}
	assertDecimal(t, reviews[0].Rating, "5")
}

func TestReviewService_ServesFromCache(t *testing.T) {
	store, _ := newRedisStore(t)
	env := newTestEnv(t, store)
	kettle := env.createProduct(t, "kettle")

	if _, err := env.review.GetProductReviews(bg(), nil); err != nil {
		t.Fatalf("Expected reviews, got %v", err)
	}

	// Rename behind the service's back; the cached listing is still served.
	env.db.Model(&model.Product{}).Where("id = ?", kettle.ID).Update("name", "renamed")

	reviews, err := env.review.GetProductReviews(bg(), nil)
	if err != nil {
		t.Fatalf("Expected reviews, got %v", err)
	}
	if reviews[0].Name != "kettle" {
		t.Errorf("Expected cached name, got %q", reviews[0].Name)
	}

	if n, err := env.cache.ClearReviews(context.Background()); err != nil || n != 1 {
		t.Errorf("Expected one cleared key, got %d (%v)", n, err)
	}

	reviews, _ = env.review.GetProductReviews(bg(), nil)
	if reviews[0].Name != "renamed" {
		t.Errorf("Expected fresh name after clearing, got %q", reviews[0].Name)
	}
}

func TestCacheService_WriteAfterInvalidateIsDropped(t *testing.T) {
	store, mr := newRedisStore(t)
	env := newTestEnv(t, store)
	alice := env.createUser(t, "alice")
	kettle := env.createProduct(t, "kettle")
	key := ReviewKey(&kettle.ID)

	// A reader takes the generation and composes reviews before the write.
	version, ok := env.cache.Version(bg(), key)
	if !ok {
		t.Fatal("Expected a cache version")
	}
	stale, err := env.review.GetProductReviews(bg(), &kettle.ID)
	if err != nil {
		t.Fatalf("Expected review, got %v", err)
	}
	mr.Del(key)

	// The write commits and invalidates before the reader stores its result.
	if _, err := env.rating.UpsertRating(bg(), alice.ID, kettle.ID, 5); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := env.cache.SetReviews(bg(), key, version, stale); err != nil {
		t.Fatalf("Expected late write to be skipped quietly, got %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("Expected late write of the old average to be dropped")
	}

	reviews, err := env.review.GetProductReviews(bg(), &kettle.ID)
	if err != nil {
		t.Fatalf("Expected review, got %v", err)
	}
	assertDecimal(t, reviews[0].Rating, "5")
	if !mr.Exists(key) {
		t.Error("Expected a read after the write to populate the cache")
	}

	cached, ok := env.cache.GetReviews(bg(), key)
	if !ok {
		t.Fatal("Expected cache hit")
	}
	assertDecimal(t, cached[0].Rating, "5")
}

func TestReviewService_CacheFailureIsAdvisory(t *testing.T) {
	store, mr := newRedisStore(t)
	env := newTestEnv(t, store)
	alice := env.createUser(t, "alice")
	kettle := env.createProduct(t, "kettle")

	mr.Close()

	if _, err := env.rating.UpsertRating(bg(), alice.ID, kettle.ID, 4); err != nil {
		t.Fatalf("Expected write to succeed without cache, got %v", err)
	}
	if _, err := env.review.GetProductReviews(bg(), &kettle.ID); err != nil {
		t.Fatalf("Expected read to succeed without cache, got %v", err)
	}
}

type failingStore struct {
	gets    int
	deletes int
}

var errStoreDown = errors.New("store down")

func (f *failingStore) Get(context.Context, string) ([]byte, bool, error) {
	f.gets++
	return nil, false, errStoreDown
}

func (f *failingStore) Version(context.Context, string) (int64, error) {
	return 0, errStoreDown
}

func (f *failingStore) SetIfVersion(context.Context, string, int64, string, []byte, time.Duration) (bool, error) {
	return false, errStoreDown
}

func (f *failingStore) Incr(context.Context, ...string) error {
	return errStoreDown
}

func (f *failingStore) Delete(context.Context, ...string) error {
	f.deletes++
	return errStoreDown
}

func (f *failingStore) DeleteByPattern(context.Context, string) (int, error) {
	return 0, errStoreDown
}

func TestCacheService_BreakerSkipsFailingStore(t *testing.T) {
	store := &failingStore{}
	cache := NewCacheService(store, time.Minute).
		WithBreaker(circuit.NewBreaker("review-cache", circuit.Config{Threshold: 2, Cooldown: time.Hour}, nil))

	for i := 0; i < 5; i++ {
		if _, ok := cache.GetReviews(bg(), ReviewKey(nil)); ok {
			t.Fatal("Expected a miss")
		}
	}

	if store.gets != 2 {
		t.Errorf("Expected the store to be skipped once the breaker opened, got %d calls", store.gets)
	}
	if cache.BreakerStats()["state"] != "OPEN" {
		t.Errorf("Expected open breaker, got %v", cache.BreakerStats()["state"])
	}

	// Invalidation still reaches the store.
	if err := cache.InvalidateProduct(bg(), 1); err == nil {
		t.Error("Expected invalidation error from the store")
	}
	if store.deletes != 1 {
		t.Errorf("Expected invalidation to bypass the breaker, got %d deletes", store.deletes)
	}
}
