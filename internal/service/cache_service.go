package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/dto"
	"github.com/Payphone-Digital/review-platform/pkg/circuit"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"go.uber.org/zap"
)

// CacheStore is the key/value backend behind the review cache.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Version(ctx context.Context, key string) (int64, error)
	SetIfVersion(ctx context.Context, versionKey string, version int64, key string, value []byte, ttl time.Duration) (bool, error)
	Incr(ctx context.Context, keys ...string) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// CacheService caches composed product reviews. With a nil store every
// lookup misses and every write is a no-op.
type CacheService struct {
	store   CacheStore
	ttl     time.Duration
	breaker *circuit.Breaker
}

// NewCacheService creates a new cache service
func NewCacheService(store CacheStore, ttl time.Duration) *CacheService {
	return &CacheService{
		store: store,
		ttl:   ttl,
	}
}

// WithBreaker skips reads and writes while b is open. Invalidations always
// reach the store so stale entries are not left behind.
func (s *CacheService) WithBreaker(b *circuit.Breaker) *CacheService {
	s.breaker = b
	return s
}

// BreakerStats reports the breaker state, or nil without one.
func (s *CacheService) BreakerStats() map[string]interface{} {
	if s == nil || s.breaker == nil {
		return nil
	}
	return s.breaker.Stats()
}

func (s *CacheService) guard(fn func() error) error {
	if s.breaker == nil {
		return fn()
	}
	return s.breaker.Execute(fn)
}

func (s *CacheService) record(err error) {
	if s.breaker != nil {
		s.breaker.Record(err)
	}
}

func (s *CacheService) Enabled() bool {
	return s != nil && s.store != nil
}

// ReviewKey returns the cache key for one product's review, or for the
// full listing when productID is nil.
func ReviewKey(productID *uint) string {
	if productID == nil {
		return constants.CacheKeyReviewAll
	}
	return fmt.Sprintf("%s%d", constants.CacheKeyReviewProduct, *productID)
}

// versionKey holds the generation counter for a review key. It sits outside
// CacheKeyPrefix so clearing the reviews never resets a generation.
func versionKey(key string) string {
	return constants.CacheKeyVersionPrefix + key
}

// Version returns the generation of key. Read it before loading the data a
// later SetReviews will store. ok is false when the backend is unavailable.
func (s *CacheService) Version(ctx context.Context, key string) (version int64, ok bool) {
	if !s.Enabled() {
		return 0, false
	}

	err := s.guard(func() (err error) {
		version, err = s.store.Version(ctx, versionKey(key))
		return err
	})
	if err != nil {
		return 0, false
	}
	return version, true
}

// GetReviews returns cached reviews for key. Backend errors count as misses.
func (s *CacheService) GetReviews(ctx context.Context, key string) ([]dto.ProductReview, bool) {
	if !s.Enabled() {
		return nil, false
	}

	var data []byte
	var found bool
	err := s.guard(func() (err error) {
		data, found, err = s.store.Get(ctx, key)
		return err
	})
	if err != nil || !found {
		return nil, false
	}

	var reviews []dto.ProductReview
	if err := json.Unmarshal(data, &reviews); err != nil {
		logger.GetLogger().Error("Failed to decode cached reviews",
			zap.String("cache_key", key),
			zap.Error(err),
		)
		return nil, false
	}

	logger.GetLogger().Debug("Review cache hit",
		zap.String("cache_key", key),
		zap.Int("product_count", len(reviews)),
	)

	return reviews, true
}

// SetReviews stores reviews under key with the configured ttl, unless key
// was invalidated after version was read.
func (s *CacheService) SetReviews(ctx context.Context, key string, version int64, reviews []dto.ProductReview) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("failed to encode reviews: %w", err)
	}

	var stored bool
	err = s.guard(func() (err error) {
		stored, err = s.store.SetIfVersion(ctx, versionKey(key), version, key, data, s.ttl)
		return err
	})
	if err != nil {
		return err
	}

	if !stored {
		logger.GetLogger().Debug("Skipped caching reviews invalidated mid-read",
			zap.String("cache_key", key),
			zap.Int64("version", version),
		)
	}

	return nil
}

// InvalidateProduct drops the product's review entry and the full listing.
// Their generations are bumped first so reads already in flight cannot write
// their result back afterwards.
func (s *CacheService) InvalidateProduct(ctx context.Context, productID uint) error {
	if !s.Enabled() {
		return nil
	}

	keys := []string{ReviewKey(&productID), ReviewKey(nil)}

	bumpErr := s.store.Incr(ctx, versionKey(keys[0]), versionKey(keys[1]))
	s.record(bumpErr)

	err := s.store.Delete(ctx, keys...)
	s.record(err)
	if err == nil {
		err = bumpErr
	}
	if err != nil {
		return err
	}

	logger.GetLogger().Debug("Review cache invalidated",
		zap.Uint("product_id", productID),
	)

	return nil
}

// ClearReviews drops every cached review and reports how many keys went.
func (s *CacheService) ClearReviews(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}

	deleted, err := s.store.DeleteByPattern(ctx, constants.CacheKeyPrefix+"*")
	s.record(err)
	if err != nil {
		return 0, err
	}

	logger.GetLogger().Info("Review cache cleared",
		zap.Int("deleted_count", deleted),
	)

	return deleted, nil
}
