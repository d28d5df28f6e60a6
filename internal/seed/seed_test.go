package seed

import (
	"testing"

	"redline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Comment{}, &models.CommentLike{}))
	return db
}

func TestSeeder_SeedUsers(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(10)
	require.NoError(t, err)
	require.Len(t, users, 10)

	maintainers := 0
	for _, u := range users {
		assert.NotEmpty(t, u.Username)
		assert.NotEmpty(t, u.Password)
		if u.Role == models.RoleMaintainer {
			maintainers++
		}
	}
	assert.Equal(t, 2, maintainers)
}

func TestSeeder_SeedThreads(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(5)
	require.NoError(t, err)
	require.NoError(t, s.SeedThreads([]uint{1, 2}, 3, users))

	var topLevel int64
	require.NoError(t, db.Model(&models.Comment{}).Where("answered_to IS NULL").Count(&topLevel).Error)
	assert.Equal(t, int64(6), topLevel)

	// Replies never nest past one level.
	var deep int64
	require.NoError(t, db.Model(&models.Comment{}).
		Joins("JOIN comments parents ON parents.id = comments.answered_to").
		Where("parents.answered_to IS NOT NULL").
		Count(&deep).Error)
	assert.Zero(t, deep)
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(3)
	require.NoError(t, err)
	require.NoError(t, s.SeedThreads([]uint{1}, 2, users))

	require.NoError(t, s.ClearAll())

	var comments, accounts int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&accounts).Error)
	assert.Zero(t, comments)
	assert.Zero(t, accounts)
}
