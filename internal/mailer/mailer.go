// Package mailer defines the outbound mail collaborator contract.
package mailer

import (
	"context"
	"log/slog"

	"quill/internal/middleware"
	"quill/internal/models"
)

// Mailer delivers a password-reset message to a user. Delivery transport
// is outside this repository; implementations receive the token string and
// the user's address and own the rest.
type Mailer interface {
	SendPasswordReset(ctx context.Context, user *models.User, token string) error
}

// LogMailer writes reset links to the structured log instead of sending
// mail. Used in development and tests.
type LogMailer struct {
	Sender string
}

// NewLogMailer creates a LogMailer with the configured sender address.
func NewLogMailer(sender string) *LogMailer {
	return &LogMailer{Sender: sender}
}

// SendPasswordReset logs the reset token for the user.
func (m *LogMailer) SendPasswordReset(ctx context.Context, user *models.User, token string) error {
	middleware.Logger.InfoContext(ctx, "password reset requested",
		slog.String("sender", m.Sender),
		slog.String("to", user.Email),
		slog.String("reset_token", token),
	)
	return nil
}
