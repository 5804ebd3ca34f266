// Package service implements the application's domain operations on top of
// the repository layer.
package service

import (
	"context"
	"errors"
	"time"

	"quill/internal/auth"
	"quill/internal/mailer"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"
)

// UserService carries registration, authentication, profile and
// password-reset operations.
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	tokens   *auth.TokenService
	mail     mailer.Mailer
	now      func() time.Time
}

// NewUserService wires a UserService from its collaborators.
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tokens *auth.TokenService,
	mail mailer.Mailer,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tokens:   tokens,
		mail:     mail,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput carries validated registration fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateProfileInput carries profile-edit fields for the acting user. A nil
// AboutMe leaves the stored bio alone; an empty string clears it.
type UpdateProfileInput struct {
	UserID   uint
	Username string
	AboutMe  *string
}

// Register creates a new user with the system default role. Username and
// email uniqueness is checked proactively before any persistence attempt;
// the storage-level unique constraints still back-stop a racing duplicate.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	taken, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, models.NewValidationError("Username already taken")
	}

	taken, err = s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, models.NewValidationError("Email already registered")
	}

	role, err := s.roleRepo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, models.NewInternalError(errors.New("no default role configured"))
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		RoleID:   role.ID,
		LastSeen: s.now(),
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.Role = *role
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown username and
// wrong password produce the same error so callers cannot enumerate
// accounts. On success the user's last-seen timestamp is refreshed.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}

	// Best-effort: a failed touch must not fail the login.
	_ = s.userRepo.TouchLastSeen(ctx, user.ID, s.now())

	return user, nil
}

// GetUserByID loads a user by primary key.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByUsername loads a user profile by username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// UpdateProfile applies username/about-me edits for the acting user,
// re-checking username uniqueness when it changes.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		taken, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, models.NewValidationError("Username already taken")
		}
		user.Username = in.Username
	}

	if in.AboutMe != nil {
		if err := validation.ValidateAboutMe(*in.AboutMe); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.AboutMe = *in.AboutMe
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// TouchLastSeen records request activity for an authenticated user.
func (s *UserService) TouchLastSeen(ctx context.Context, userID uint) error {
	return s.userRepo.TouchLastSeen(ctx, userID, s.now())
}

// ForgotPassword issues a reset token for the account behind email and
// hands it to the mail collaborator. Reports not-found for an unknown
// address so the caller can prompt the user to re-enter it.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", email)
	}

	token, err := s.tokens.IssueResetToken(user.ID, auth.DefaultResetTokenTTL)
	if err != nil {
		return models.NewInternalError(err)
	}

	if err := s.mail.SendPasswordReset(ctx, user, token); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ResetPassword verifies a reset token and replaces the account password.
// Every token failure collapses into the same unauthorized error.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, ok := s.tokens.VerifyResetToken(token)
	if !ok {
		return models.NewUnauthorizedError("Token is invalid or expired")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.Update(ctx, user)
}
