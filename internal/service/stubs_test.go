package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	touchLastSeenFn func(context.Context, uint, time.Time) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) TouchLastSeen(ctx context.Context, id uint, when time.Time) error {
	return s.touchLastSeenFn(ctx, id, when)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		touchLastSeenFn: func(_ context.Context, _ uint, _ time.Time) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// roleRepoStub is a stub for repository.RoleRepository.
type roleRepoStub struct {
	getDefaultFn func(context.Context) (*models.Role, error)
	getByNameFn  func(context.Context, string) (*models.Role, error)
	createFn     func(context.Context, *models.Role) error
}

func (s *roleRepoStub) GetDefault(ctx context.Context) (*models.Role, error) {
	return s.getDefaultFn(ctx)
}
func (s *roleRepoStub) GetByName(ctx context.Context, name string) (*models.Role, error) {
	return s.getByNameFn(ctx, name)
}
func (s *roleRepoStub) Create(ctx context.Context, role *models.Role) error {
	return s.createFn(ctx, role)
}

func memberDefaultRoleRepo() *roleRepoStub {
	return &roleRepoStub{
		getDefaultFn: func(_ context.Context) (*models.Role, error) {
			return &models.Role{ID: 1, Name: "member", Default: true}, nil
		},
		getByNameFn: func(_ context.Context, _ string) (*models.Role, error) { return nil, nil },
		createFn:    func(_ context.Context, _ *models.Role) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn             func(context.Context, *models.Post) error
	getByIDFn            func(context.Context, uint) (*models.Post, error)
	listActiveFn         func(context.Context, int, int) ([]*models.Post, error)
	listActiveByUserIDFn func(context.Context, uint, int, int) ([]*models.Post, error)
	countActiveFn        func(context.Context) (int64, error)
	updateFn             func(context.Context, *models.Post) error
	softDeleteFn         func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListActive(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listActiveFn(ctx, limit, offset)
}
func (s *postRepoStub) ListActiveByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listActiveByUserIDFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) CountActive(ctx context.Context) (int64, error) {
	return s.countActiveFn(ctx)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:             func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:            func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listActiveFn:         func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listActiveByUserIDFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		countActiveFn:        func(_ context.Context) (int64, error) { return 0, nil },
		updateFn:             func(_ context.Context, _ *models.Post) error { return nil },
		softDeleteFn:         func(_ context.Context, _ uint) error { return nil },
	}
}

// mailerStub records password-reset sends.
type mailerStub struct {
	sent []string
	err  error
}

func (m *mailerStub) SendPasswordReset(_ context.Context, user *models.User, token string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, user.Email+"|"+token)
	return nil
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
