package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/review-platform/config"
	"github.com/Payphone-Digital/review-platform/internal/model"
	"github.com/Payphone-Digital/review-platform/internal/repository"
	"github.com/Payphone-Digital/review-platform/pkg/database"
	"github.com/Payphone-Digital/review-platform/pkg/password"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	tx        repository.TransactionManager
	users     *repository.UserRepository
	products  *repository.ProductRepository
	ratings   *repository.RatingRepository
	feedback  *repository.FeedbackRepository
	hasher    *password.Hasher
	tokens    *TokenService
	auth      *AuthService
	rating    *RatingService
	product   *ProductService
	feedbacks *FeedbackService
	review    *ReviewService
	cache     *CacheService
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	// One connection serialises transactions the way the product row lock
	// does on postgres.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.CloseDB(db) })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T, store CacheStore) *testEnv {
	t.Helper()

	db := openTestDB(t)
	env := &testEnv{
		db:       db,
		tx:       repository.NewTransactionManager(db),
		users:    repository.NewUserRepository(db),
		products: repository.NewProductRepository(db),
		ratings:  repository.NewRatingRepository(db),
		feedback: repository.NewFeedbackRepository(db),
		hasher:   password.NewHasher(bcrypt.MinCost),
		tokens:   NewTokenService(testSecret),
		cache:    NewCacheService(store, time.Minute),
	}

	jwtCfg := config.JWTConfig{Secret: testSecret, AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour}
	env.auth = NewAuthService(env.users, env.tx, env.tokens, env.hasher, jwtCfg)
	env.rating = NewRatingService(env.tx, env.users, env.products, env.ratings, env.cache)
	env.product = NewProductService(env.products, env.cache)
	env.feedbacks = NewFeedbackService(env.feedback, env.products, env.ratings, env.cache)
	env.review = NewReviewService(repository.NewReviewRepository(db), env.cache)

	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()

	hash, err := e.hasher.Hash("password-" + username)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func (e *testEnv) createProduct(t *testing.T, name string) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:     name,
		Price:    decimal.RequireFromString("9.99"),
		IsActive: true,
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	return product
}

func (e *testEnv) productRating(t *testing.T, id uint) decimal.Decimal {
	t.Helper()

	var product model.Product
	if err := e.db.First(&product, id).Error; err != nil {
		t.Fatalf("Failed to load product: %v", err)
	}
	return product.Rating
}

func (e *testEnv) deactivateUser(t *testing.T, id uint) {
	t.Helper()

	if err := e.db.Model(&model.User{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
		t.Fatalf("Failed to deactivate user: %v", err)
	}
}

func assertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("Expected %s, got %s", want, got.String())
	}
}

func bg() context.Context {
	return context.Background()
}
