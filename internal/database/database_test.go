package database

import (
	"testing"

	"redline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrate_CreatesSchema(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "comments", "comment_likes"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	user := models.User{Username: "u", Email: "u@example.com", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)

	comment := models.Comment{ReportID: 1, AuthorID: user.ID, Message: "m"}
	require.NoError(t, db.Create(&comment).Error)

	reply := models.Comment{ReportID: 1, AnsweredTo: &comment.ID, AuthorID: user.ID, Message: "r"}
	require.NoError(t, db.Create(&reply).Error)

	var got models.Comment
	require.NoError(t, db.Preload("Author").First(&got, reply.ID).Error)
	require.NotNil(t, got.AnsweredTo)
	assert.Equal(t, comment.ID, *got.AnsweredTo)
	assert.Equal(t, "u", got.Author.Username)
}

func TestMigrate_UniqueReactionPerUser(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	first := models.CommentLike{CommentID: 1, UserID: 2, Type: models.LikeTypeLike}
	require.NoError(t, db.Create(&first).Error)

	dup := models.CommentLike{CommentID: 1, UserID: 2, Type: models.LikeTypeDislike}
	assert.Error(t, db.Create(&dup).Error, "second reaction row for the same user must violate the unique index")
}
