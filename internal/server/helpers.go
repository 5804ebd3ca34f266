// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"
	"time"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const maxPerPage = 50

// parsePage extracts the page and per_page query parameters. Pages start
// at 1; anything below clamps to the first page. per_page defaults to the
// configured page size.
func (s *Server) parsePage(c *fiber.Ctx) (page, perPage int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	perPage = c.QueryInt("per_page", s.config.PostsPerPage)
	if perPage <= 0 {
		perPage = s.config.PostsPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// mapServiceError translates an AppError code into an HTTP status.
func mapServiceError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}

	switch appErr.Code {
	case "NOT_FOUND":
		return fiber.StatusNotFound
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// postResponse is the wire shape of a post. The author is flattened to the
// fields clients render next to a post.
type postResponse struct {
	ID         uint    `json:"id"`
	Body       string  `json:"body"`
	Timestamp  string  `json:"timestamp"`
	UpdateDate *string `json:"update_date,omitempty"`
	Author     struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	} `json:"author"`
}

func toPostResponse(post *models.Post) postResponse {
	resp := postResponse{
		ID:        post.ID,
		Body:      post.Body,
		Timestamp: post.Timestamp.UTC().Format(time.RFC3339),
	}
	if post.UpdateDate != nil {
		updated := post.UpdateDate.UTC().Format(time.RFC3339)
		resp.UpdateDate = &updated
	}
	resp.Author.ID = post.Author.ID
	resp.Author.Username = post.Author.Username
	resp.Author.Avatar = post.Author.Avatar(36)
	return resp
}

func toPostResponses(posts []*models.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

// userResponse is the wire shape of a user profile.
type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	AboutMe  string `json:"about_me"`
	LastSeen string `json:"last_seen"`
	Avatar   string `json:"avatar"`
	IsAdmin  bool   `json:"is_admin"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		AboutMe:  user.AboutMe,
		LastSeen: user.LastSeen.UTC().Format(time.RFC3339),
		Avatar:   user.Avatar(128),
		IsAdmin:  user.IsAdmin(),
	}
}
