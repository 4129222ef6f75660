package database

import (
	"errors"

	"github.com/Payphone-Digital/review-platform/config"
	"github.com/Payphone-Digital/review-platform/internal/model"
	"github.com/Payphone-Digital/review-platform/pkg/password"
	"gorm.io/gorm"
)

// Seed creates initial data for the database
func Seed(db *gorm.DB, cfg *config.Config) error {
	return SeedAdmin(db, cfg.Seed, password.NewHasher(cfg.Security.BcryptCost))
}

// SeedAdmin creates the bootstrap administrator if it does not exist yet.
// Nothing is seeded without a configured password.
func SeedAdmin(db *gorm.DB, seed config.SeedConfig, hasher *password.Hasher) error {
	if seed.AdminPassword == "" {
		return nil
	}

	// Check if admin user already exists
	var existingUser model.User
	result := db.Where("username = ? OR email = ?", seed.AdminUsername, seed.AdminEmail).First(&existingUser)

	if result.Error == nil {
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	hashedPassword, err := hasher.Hash(seed.AdminPassword)
	if err != nil {
		return err
	}

	user := model.User{
		Username:     seed.AdminUsername,
		Email:        seed.AdminEmail,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsAdmin:      true,
	}

	return db.Create(&user).Error
}
