package handlers

import (
	"net/http"

	"github.com/Akinkuowo/Swophere/internal/models"
	"github.com/Akinkuowo/Swophere/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler handles profile HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/user/profile", h.GetProfile)
	g.GET("/user/profile/:username", h.GetProfileByUsername)
	g.PUT("/user/profile/update", h.UpdateProfile)
}

// GetProfile returns the profile for a public user id
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return fail(c, http.StatusBadRequest, "userId is required")
	}

	user, err := h.userRepository.GetUserByUserID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user": echo.Map{
			"id":        user.ID,
			"userId":    user.UserID,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"username":  user.Username,
			"email":     user.Email,
		},
	})
}

// GetProfileByUsername returns the public profile for a username
func (h *UserHandler) GetProfileByUsername(c echo.Context) error {
	username := c.Param("username")

	user, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    user,
	})
}

// UpdateProfile updates the mutable profile fields of an account
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if req.UserID == "" {
		return fail(c, http.StatusBadRequest, "User ID is required")
	}

	user, err := h.userRepository.GetUserByUserID(req.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.DateOfBirth = req.DateOfBirth
	user.Country = req.Country
	user.State = req.State
	user.Address = req.Address
	user.Facebook = req.Facebook
	user.Twitter = req.Twitter
	user.Linkedin = req.Linkedin
	user.Instagram = req.Instagram

	if err := h.userRepository.UpdateUser(user); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}
