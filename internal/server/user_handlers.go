// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(toUserResponse(user))
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	// AboutMe is a pointer so a body that omits it keeps the stored bio
	// instead of clearing it.
	var req struct {
		Username string  `json:"username"`
		AboutMe  *string `json:"about_me"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		AboutMe:  req.AboutMe,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(toUserResponse(user))
}

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	user, err := s.userService.GetUserByUsername(c.Context(), username)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(toUserResponse(user))
}

// GetUserPosts handles GET /api/users/:username/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	username := c.Params("username")

	user, err := s.userService.GetUserByUsername(c.Context(), username)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	page, perPage := s.parsePage(c)
	posts, err := s.postService.ListUserPosts(c.Context(), user.ID, page, perPage)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"user":  toUserResponse(user),
		"posts": toPostResponses(posts),
		"page":  page,
	})
}
