// Package bootstrap wires runtime dependencies for commands that need a
// database and Redis without a full server.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"redline/internal/cache"
	"redline/internal/config"
	"redline/internal/database"
	"redline/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitRuntime connects to DB and Redis. In development it also ensures a
// maintainer account exists so moderation flows can be exercised locally.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevMaintainer(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development maintainer: %w", err)
	}

	return db, r, nil
}

// ensureDevMaintainer creates the local maintainer account on first boot of
// a development environment. Production environments are never touched.
func ensureDevMaintainer(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	const username = "redline_root"

	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		if existing.Role.CanModerate() {
			return nil
		}
		existing.Role = models.RoleMaintainer
		return db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("redline-dev"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username: username,
		Email:    "root@redline.local",
		Password: string(hash),
		Role:     models.RoleMaintainer,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	log.Printf("Bootstrapped development maintainer %q", username)
	return nil
}
