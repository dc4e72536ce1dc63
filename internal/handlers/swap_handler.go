package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Akinkuowo/Swophere/internal/mailer"
	"github.com/Akinkuowo/Swophere/internal/models"
	"github.com/Akinkuowo/Swophere/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SwapHandler handles trade listing HTTP requests
type SwapHandler struct {
	swapRepository repositories.SwapRepository
	userRepository repositories.UserRepository
	mail           *mailer.Mailer
}

// NewSwapHandler creates a new SwapHandler
func NewSwapHandler(swapRepo repositories.SwapRepository, userRepo repositories.UserRepository, mail *mailer.Mailer) *SwapHandler {
	return &SwapHandler{
		swapRepository: swapRepo,
		userRepository: userRepo,
		mail:           mail,
	}
}

// RegisterSwapRoutes registers listing routes
func (h *SwapHandler) RegisterSwapRoutes(g *echo.Group) {
	g.GET("/swaps", h.GetSwaps)
	g.GET("/swaps/trending", h.GetTrending)
	g.GET("/swaps/categories", h.GetCategories)
	g.GET("/swaps/search/:query", h.SearchSwaps)
	g.GET("/swaps/user/:userId", h.GetUserSwaps)
	g.GET("/swaps/:id", h.GetSwap)
	g.POST("/swaps/create", h.CreateSwap)
	g.POST("/swaps/interest", h.ExpressInterest)
	g.PUT("/swaps/:id/status", h.UpdateStatus)
	g.DELETE("/swaps/:id", h.DeleteSwap)
}

// GetTrending returns the newest trending listings
func (h *SwapHandler) GetTrending(c echo.Context) error {
	swaps, err := h.swapRepository.GetTrending(c.Request().Context(), 12)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch swaps")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"swaps":   swaps,
	})
}

// CreateSwap creates a listing in PENDING status
func (h *SwapHandler) CreateSwap(c echo.Context) error {
	var req models.CreateSwapRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "All required fields are missing")
	}

	user, err := h.userRepository.GetUserByUserID(req.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	ctx := c.Request().Context()
	if _, err := h.swapRepository.GetByListingID(ctx, req.ListingID); err == nil {
		return fail(c, http.StatusConflict, "Swap with this ID already exists")
	} else if err != repositories.ErrSwapNotFound {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	swap := &models.Swap{
		ListingID:       req.ListingID,
		Title:           req.ListingTitle,
		Name:            req.Username,
		Category:        req.Category,
		Country:         req.Country,
		City:            req.City,
		ImageName:       req.ImageName,
		Description:     req.Description,
		InterestedSwaps: req.InterestedSwaps,
		Trending:        false,
		Status:          models.SwapStatusPending,
		UserID:          req.UserID,
	}
	if err := h.swapRepository.CreateSwap(ctx, swap); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	log.Printf("Swap created - ID: %s, Title: %s, User: %s (%s)", req.ListingID, req.ListingTitle, req.Username, user.Email)

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Swap created successfully and is pending approval",
		"swap": echo.Map{
			"id":               swap.ID,
			"listing_id":       swap.ListingID,
			"title":            swap.Title,
			"category":         swap.Category,
			"status":           swap.Status,
			"interested_swaps": swap.InterestedSwaps,
		},
	})
}

// GetSwaps returns listings matching the filter with pagination
func (h *SwapHandler) GetSwaps(c echo.Context) error {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	status := c.QueryParam("status")
	if status == "" {
		status = models.SwapStatusAccepted
	}

	filter := repositories.SwapFilter{
		Category: c.QueryParam("category"),
		Status:   status,
		Search:   c.QueryParam("search"),
		Page:     page,
		Limit:    limit,
	}

	swaps, total, err := h.swapRepository.ListSwaps(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"swaps":   swaps,
		"pagination": echo.Map{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
			"pages": pageCount(total, filter.Limit),
		},
	})
}

// GetSwap returns a single listing by its public listing id
func (h *SwapHandler) GetSwap(c echo.Context) error {
	swap, err := h.swapRepository.GetByListingID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrSwapNotFound {
			return fail(c, http.StatusNotFound, "Swap not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"swap":    swap,
	})
}

// ExpressInterest appends an interest expression to a listing and emails
// the owner best-effort.
func (h *SwapHandler) ExpressInterest(c echo.Context) error {
	var req models.SwapInterestRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "swapId and userId are required")
	}

	ctx := c.Request().Context()
	swap, err := h.swapRepository.GetByListingID(ctx, req.SwapID)
	if err != nil {
		if err == repositories.ErrSwapNotFound {
			return fail(c, http.StatusNotFound, "Swap not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	user, err := h.userRepository.GetUserByUserID(req.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if swap.UserID == req.UserID {
		return fail(c, http.StatusBadRequest, "Cannot express interest in your own swap")
	}

	for _, interest := range swap.InterestedSwaps {
		if interest.UserID == req.UserID {
			return fail(c, http.StatusConflict, "You have already expressed interest in this swap")
		}
	}

	now := time.Now()
	interest := models.SwapInterest{
		UserID:    req.UserID,
		Username:  user.Username,
		Message:   req.Message,
		Timestamp: &now,
	}
	if err := h.swapRepository.AddInterest(ctx, req.SwapID, interest); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	// Email to the owner is best-effort
	if owner, err := h.userRepository.GetUserByUserID(swap.UserID); err == nil {
		h.mail.SendInterestEmail(owner.Email, user.Username, swap.Title, req.Message)
	} else {
		log.Printf("Interest notification skipped, owner %s not found: %v", swap.UserID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Interest expressed successfully",
	})
}

// GetUserSwaps returns a user's own listings with pagination
func (h *SwapHandler) GetUserSwaps(c echo.Context) error {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := repositories.SwapFilter{
		UserID: c.Param("userId"),
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	}

	swaps, total, err := h.swapRepository.ListSwaps(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"swaps":   swaps,
		"pagination": echo.Map{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
			"pages": pageCount(total, filter.Limit),
		},
	})
}

// UpdateStatus transitions a listing's status and emails the owner
func (h *SwapHandler) UpdateStatus(c echo.Context) error {
	listingID := c.Param("id")

	var req models.UpdateSwapStatusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "A valid status is required")
	}

	ctx := c.Request().Context()
	swap, err := h.swapRepository.GetByListingID(ctx, listingID)
	if err != nil {
		if err == repositories.ErrSwapNotFound {
			return fail(c, http.StatusNotFound, "Swap not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if err := h.swapRepository.UpdateStatus(ctx, listingID, req.Status); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	swap.Status = req.Status

	if owner, err := h.userRepository.GetUserByUserID(swap.UserID); err == nil {
		h.mail.SendStatusUpdateEmail(owner.Email, swap.Title, swap.ListingID, req.Status, req.Reason)
	} else {
		log.Printf("Status notification skipped, owner %s not found: %v", swap.UserID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Swap status updated to " + req.Status,
		"swap":    swap,
	})
}

// DeleteSwap deletes a listing, owner-only
func (h *SwapHandler) DeleteSwap(c echo.Context) error {
	listingID := c.Param("id")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}

	ctx := c.Request().Context()
	swap, err := h.swapRepository.GetByListingID(ctx, listingID)
	if err != nil {
		if err == repositories.ErrSwapNotFound {
			return fail(c, http.StatusNotFound, "Swap not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if swap.UserID != req.UserID {
		return fail(c, http.StatusForbidden, "Not authorized to delete this swap")
	}

	if err := h.swapRepository.DeleteSwap(ctx, listingID); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Swap deleted successfully",
	})
}

// GetCategories aggregates accepted listings by category
func (h *SwapHandler) GetCategories(c echo.Context) error {
	categories, err := h.swapRepository.GetCategories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"categories": categories,
	})
}

// SearchSwaps full-text searches accepted listings
func (h *SwapHandler) SearchSwaps(c echo.Context) error {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := repositories.SwapFilter{
		Status: models.SwapStatusAccepted,
		Search: c.Param("query"),
		Page:   page,
		Limit:  limit,
	}

	swaps, total, err := h.swapRepository.ListSwaps(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"swaps":   swaps,
		"pagination": echo.Map{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
			"pages": pageCount(total, filter.Limit),
		},
	})
}

func pageCount(total, limit int64) int64 {
	if limit < 1 {
		limit = 10
	}
	return (total + limit - 1) / limit
}
