package service

import (
	"context"
	"time"
	"unicode/utf8"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/repository"
)

// PostService carries the post lifecycle: create, edit, soft delete and the
// active timeline. Authorization is re-verified here even though handlers
// check it first.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewPostService wires a PostService from its repositories.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreatePostInput carries fields for a new post.
type CreatePostInput struct {
	AuthorID uint
	Body     string
}

// EditPostInput carries fields for an author edit.
type EditPostInput struct {
	PostID  uint
	ActorID uint
	Body    string
}

// DeletePostInput identifies the post and the acting user for a soft delete.
type DeletePostInput struct {
	PostID  uint
	ActorID uint
}

func validateBody(body string) error {
	if body == "" {
		return models.NewValidationError("Body is required")
	}
	if utf8.RuneCountInString(body) > models.MaxPostBodyLen {
		return models.NewValidationError("Body too long (max 200 characters)")
	}
	return nil
}

// CreatePost publishes a new post for author. The creation timestamp is
// set to now (UTC) and the post starts active with no update date.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validateBody(in.Body); err != nil {
		return nil, err
	}

	post := &models.Post{
		Body:      in.Body,
		Timestamp: s.now(),
		Current:   true,
		UserID:    in.AuthorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// EditPost replaces the body of the actor's own post and stamps the update
// date. The creation timestamp and active flag are untouched.
func (s *PostService) EditPost(ctx context.Context, in EditPostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	actor, err := s.userRepo.GetByID(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}
	if !post.EditableBy(actor) {
		return nil, models.NewForbiddenError("You are not authorised to edit someone else's post")
	}

	if err := validateBody(in.Body); err != nil {
		return nil, err
	}

	edited := s.now()
	post.Body = in.Body
	post.UpdateDate = &edited

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// SoftDeletePost retires a post from the timeline. Admin-only; the row is
// kept with Current = false, and deleting an already-deleted post is a
// no-op.
func (s *PostService) SoftDeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	actor, err := s.userRepo.GetByID(ctx, in.ActorID)
	if err != nil {
		return err
	}
	if !post.DeletableBy(actor) {
		return models.NewForbiddenError("You do not have permission to perform this function")
	}

	if !post.Current {
		return nil
	}
	return s.postRepo.SoftDelete(ctx, in.PostID)
}

// GetPost loads a post by ID, including soft-deleted rows.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// ListActive returns a page of the active timeline, newest first. Pages
// start at 1; an out-of-range page yields an empty page rather than an
// error. The first page is served through the cache.
func (s *PostService) ListActive(ctx context.Context, page, perPage int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * perPage

	var posts []*models.Post
	if page == 1 && perPage <= 20 {
		err := cache.Aside(ctx, cache.TimelineKey(perPage), &posts, cache.TimelineTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.ListActive(ctx, perPage, offset)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		return posts, nil
	}

	return s.postRepo.ListActive(ctx, perPage, offset)
}

// ListUserPosts returns a page of a user's active posts, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint, page, perPage int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}
	return s.postRepo.ListActiveByUserID(ctx, userID, perPage, (page-1)*perPage)
}
