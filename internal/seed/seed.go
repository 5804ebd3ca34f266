// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"quill/internal/database"
	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	if err := database.EnsureRoles(db); err != nil {
		return fmt.Errorf("failed to ensure roles: %w", err)
	}

	admin, err := createAdmin(db)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("Admin user %q ready", admin.Username)

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	return nil
}

func clearData(db *gorm.DB) error {
	// Posts reference users, so they go first.
	if err := db.Exec("DELETE FROM posts").Error; err != nil {
		return err
	}
	return db.Exec("DELETE FROM users").Error
}

// createAdmin creates the well-known admin account used in development.
// Idempotent: an existing account is left alone.
func createAdmin(db *gorm.DB) (*models.User, error) {
	var existing models.User
	err := db.Where("username = ?", "bob").First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var adminRole models.Role
	if err := db.Where("name = ?", models.AdminRoleName).First(&adminRole).Error; err != nil {
		return nil, err
	}

	admin := &models.User{
		Username: "bob",
		Email:    "bob@example.com",
		AboutMe:  "Keeps the timeline tidy.",
		RoleID:   adminRole.ID,
		LastSeen: time.Now().UTC(),
	}
	if err := admin.SetPassword("password123"); err != nil {
		return nil, err
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	var defaultRole models.Role
	if err := db.Where(`"default" = ?`, true).First(&defaultRole).Error; err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d_%s", i, gofakeit.Email()),
			AboutMe:  gofakeit.Sentence(8),
			RoleID:   defaultRole.ID,
			LastSeen: time.Now().UTC().Add(-time.Duration(rand.Intn(72)) * time.Hour),
		}
		if err := user.SetPassword("password123"); err != nil {
			return nil, err
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]

		body := gofakeit.Sentence(10)
		if len(body) > models.MaxPostBodyLen {
			body = body[:models.MaxPostBodyLen]
		}

		// realistic timestamp spread over the last 90 days
		daysBack := rand.Intn(90)
		hoursBack := rand.Intn(24)
		post := &models.Post{
			Body:      body,
			Timestamp: time.Now().UTC().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour),
			Current:   true,
			UserID:    author.ID,
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}
