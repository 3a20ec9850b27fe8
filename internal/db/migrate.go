package db

import (
	"errors"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"github.com/ktakagi/sensho-backend/pkg/util"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Admin{},
		&model.Customer{},
		&model.Order{},
		&model.OrderItem{},
		&model.BookCache{},
		&model.SelectionList{},
		&model.SelectionItem{},
		&model.WishlistItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// EnsureAdmin creates the initial admin account once. Subsequent startups
// with the same username are no-ops, so the bootstrap is idempotent.
func EnsureAdmin(username, password string) error {
	if username == "" || password == "" {
		logger.Warn("Admin bootstrap skipped: no credentials configured")
		return nil
	}

	var existing model.Admin
	err := DB.Where("username = ?", username).First(&existing).Error
	if err == nil {
		logger.Debug("Admin account already exists, skipping bootstrap", map[string]interface{}{
			"username": username,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing admin account", err)
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash bootstrap admin password", err)
		return err
	}

	admin := &model.Admin{
		Username:     username,
		PasswordHash: hash,
	}
	if err := DB.Create(admin).Error; err != nil {
		logger.Error("Failed to create bootstrap admin account", err, map[string]interface{}{
			"username": username,
		})
		return err
	}

	logger.Info("Bootstrap admin account created", map[string]interface{}{
		"username": username,
	})
	return nil
}
