// Package models contains data structures for the application's domain models.
package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AdminRoleName is the role name that grants moderation privileges.
const AdminRoleName = "admin"

// User represents a registered account in the Quill application.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	AboutMe      string    `gorm:"size:140" json:"about_me"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	LastSeen     time.Time `json:"last_seen"`
	RoleID       uint      `gorm:"index" json:"role_id"`
	Role         Role      `gorm:"foreignKey:RoleID" json:"role"`
	Posts        []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetPassword replaces the stored hash with a bcrypt hash of plaintext.
// The plaintext itself is never persisted.
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash.
// Returns false when no hash has been set.
func (u *User) CheckPassword(plaintext string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// Avatar returns the gravatar URL for the user's email at the requested
// pixel size. Purely derived from the lower-cased, trimmed email.
func (u *User) Avatar(size int) string {
	normalized := strings.ToLower(strings.TrimSpace(u.Email))
	digest := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=monsterid&s=%d",
		hex.EncodeToString(digest[:]), size)
}

// IsAdmin reports whether the user's role grants admin privileges.
// The comparison is case-sensitive.
func (u *User) IsAdmin() bool {
	return u.Role.Name == AdminRoleName
}
