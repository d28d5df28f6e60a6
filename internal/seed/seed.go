// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"redline/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password assigned to every seeded user.
const DefaultPassword = "password123"

// Seeder populates the database with generated users and comment threads.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// ClearAll removes all seeded data. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.CommentLike{},
		&models.Comment{},
		&models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	log.Println("Database cleared")
	return nil
}

// SeedUsers creates n users with hashed passwords. Roughly one in five
// gets the maintainer role so delete flows can be exercised.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		if i%5 == 0 {
			role = models.RoleMaintainer
		}
		user := models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password: string(hash),
			Role:     role,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, user)
	}

	log.Printf("Seeded %d users", len(users))
	return users, nil
}

// SeedThreads creates comment threads for the given report IDs. Each report
// gets perReport top-level comments, each with up to three replies, and
// random reactions from the user pool.
func (s *Seeder) SeedThreads(reportIDs []uint, perReport int, users []models.User) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to author comments")
	}

	total := 0
	for _, reportID := range reportIDs {
		for i := 0; i < perReport; i++ {
			parent := models.Comment{
				ReportID: reportID,
				AuthorID: users[rand.Intn(len(users))].ID,
				Message:  gofakeit.Paragraph(1, 2, 8, " "),
			}
			if err := s.db.Create(&parent).Error; err != nil {
				return fmt.Errorf("create comment on report %d: %w", reportID, err)
			}
			total++

			replies := rand.Intn(4)
			for j := 0; j < replies; j++ {
				parentID := parent.ID
				reply := models.Comment{
					ReportID:   reportID,
					AnsweredTo: &parentID,
					AuthorID:   users[rand.Intn(len(users))].ID,
					Message:    gofakeit.Sentence(10),
				}
				if err := s.db.Create(&reply).Error; err != nil {
					return fmt.Errorf("create reply on comment %d: %w", parent.ID, err)
				}
				total++
			}

			if err := s.seedReactions(parent.ID, users); err != nil {
				return err
			}
		}
	}

	log.Printf("Seeded %d comments across %d reports", total, len(reportIDs))
	return nil
}

// seedReactions gives a comment a handful of likes and dislikes from
// distinct users.
func (s *Seeder) seedReactions(commentID uint, users []models.User) error {
	n := rand.Intn(len(users)/2 + 1)
	for _, idx := range rand.Perm(len(users))[:n] {
		t := models.LikeTypeLike
		if rand.Intn(4) == 0 {
			t = models.LikeTypeDislike
		}
		like := models.CommentLike{
			CommentID: commentID,
			UserID:    users[idx].ID,
			Type:      t,
		}
		if err := s.db.Create(&like).Error; err != nil {
			return fmt.Errorf("create reaction on comment %d: %w", commentID, err)
		}
	}
	return nil
}
