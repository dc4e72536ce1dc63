package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/Akinkuowo/Swophere/internal/models"
	"github.com/Akinkuowo/Swophere/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AgreementHandler handles skill swap agreement HTTP requests
type AgreementHandler struct {
	agreementRepository    repositories.AgreementRepository
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewAgreementHandler creates a new AgreementHandler
func NewAgreementHandler(agreementRepo repositories.AgreementRepository, notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *AgreementHandler {
	return &AgreementHandler{
		agreementRepository:    agreementRepo,
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterAgreementRoutes registers agreement routes
func (h *AgreementHandler) RegisterAgreementRoutes(g *echo.Group) {
	g.GET("/agreements", h.GetAgreements)
	g.POST("/agreements/create", h.CreateAgreement)
	g.GET("/agreements/:swopId", h.GetAgreement)
	g.POST("/agreements/:swopId/accept", h.AcceptAgreement)
	g.POST("/agreements/:swopId/decline", h.DeclineAgreement)
}

// GetAgreements returns every agreement a user is party to, newest first
func (h *AgreementHandler) GetAgreements(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return fail(c, http.StatusBadRequest, "Username is required")
	}

	agreements, err := h.agreementRepository.GetAgreementsByUser(username)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"agreements": agreements,
	})
}

// CreateAgreement creates a pending agreement and notifies both parties:
// the recipient gets a proposal notification, the creator a confirmation.
func (h *AgreementHandler) CreateAgreement(c echo.Context) error {
	var req models.CreateAgreementRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "fromUser, toUser and agreementData are required")
	}

	if _, err := h.userRepository.GetUserByUsername(req.FromUser); err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "One or both users not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if _, err := h.userRepository.GetUserByUsername(req.ToUser); err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "One or both users not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	swopID := generateSwopID()
	data := req.AgreementData

	skillsJSON, err := json.Marshal(data.Skills)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid skills payload")
	}

	agreement := &models.SwopAgreement{
		SwopID:              swopID,
		FromUser:            req.FromUser,
		ToUser:              req.ToUser,
		AgreementStatus:     models.AgreementStatusPending,
		AgreementTitle:      data.AgreementTitle,
		AgreementType:       data.AgreementType,
		Terms:               data.Terms,
		TimelineDays:        calculateTimelineDays(data.Skills),
		MeetingLocation:     data.MeetingLocation,
		CommunicationMethod: data.CommunicationMethod,
		DisputeResolution:   data.DisputeResolution,
		Confidentiality:     data.Confidentiality,
		TerminationClause:   data.TerminationClause,
		SpecialConditions:   data.SpecialConditions,
		Skills:              skillsJSON,
		FromUserAccepted:    true,
		ToUserAccepted:      false,
	}
	if err := h.agreementRepository.CreateAgreement(agreement); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	skillNames := make([]string, 0, len(data.Skills))
	for _, skill := range data.Skills {
		skillNames = append(skillNames, skill.SkillName)
	}

	toMetadata, _ := json.Marshal(map[string]interface{}{
		"agreementTitle": data.AgreementTitle,
		"agreementType":  data.AgreementType,
		"skillsCount":    len(data.Skills),
		"skills":         skillNames,
	})
	h.notify(&models.Notification{
		UserID:          req.ToUser,
		Type:            models.NotificationTypeSkillCreated,
		Title:           "New Skill Swap Agreement",
		Message:         fmt.Sprintf("%s has proposed a skill swap agreement: %q", req.FromUser, data.AgreementTitle),
		RelatedID:       swopID,
		RelatedUsername: req.FromUser,
		Metadata:        toMetadata,
	})

	fromMetadata, _ := json.Marshal(map[string]interface{}{
		"agreementTitle": data.AgreementTitle,
		"recipient":      req.ToUser,
	})
	h.notify(&models.Notification{
		UserID:          req.FromUser,
		Type:            models.NotificationTypeSkillSent,
		Title:           "Skill Swap Agreement Sent",
		Message:         fmt.Sprintf("You sent a skill swap agreement to %s. Waiting for their acceptance.", req.ToUser),
		RelatedID:       swopID,
		RelatedUsername: req.ToUser,
		Metadata:        fromMetadata,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Skill swap agreement created successfully and sent for approval",
		"agreement": echo.Map{
			"id":      agreement.ID,
			"swop_id": agreement.SwopID,
			"status":  agreement.AgreementStatus,
		},
	})
}

// GetAgreement returns a single agreement by its swop id
func (h *AgreementHandler) GetAgreement(c echo.Context) error {
	swopID := c.Param("swopId")

	agreement, err := h.agreementRepository.GetBySwopID(swopID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Agreement not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"agreement": agreement,
	})
}

// AcceptAgreement transitions pending -> accepted. Only the recipient may
// accept, and only once; the update is conditioned on to_user_accepted so
// a concurrent second accept loses cleanly.
func (h *AgreementHandler) AcceptAgreement(c echo.Context) error {
	swopID := c.Param("swopId")

	var req models.AgreementActionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if req.Username == "" {
		return fail(c, http.StatusBadRequest, "Username is required")
	}

	agreement, err := h.agreementRepository.GetBySwopID(swopID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Agreement not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if agreement.ToUser != req.Username {
		return fail(c, http.StatusForbidden, "Only the agreement recipient can accept this agreement")
	}
	if agreement.ToUserAccepted {
		return fail(c, http.StatusBadRequest, "Agreement already accepted")
	}

	changed, err := h.agreementRepository.Accept(swopID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if !changed {
		// lost the race with another accept
		return fail(c, http.StatusBadRequest, "Agreement already accepted")
	}

	agreement.ToUserAccepted = true
	agreement.AgreementStatus = models.AgreementStatusAccepted
	agreement.UpdatedAt = time.Now()

	metadata, _ := json.Marshal(map[string]string{
		"agreementTitle": agreement.AgreementTitle,
	})
	h.notify(&models.Notification{
		UserID:          agreement.FromUser,
		Type:            models.NotificationTypeAccepted,
		Title:           "Agreement Accepted!",
		Message:         fmt.Sprintf("%s has accepted your skill swap agreement: %q", req.Username, agreement.AgreementTitle),
		RelatedID:       swopID,
		RelatedUsername: req.Username,
		Metadata:        metadata,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "Agreement accepted successfully",
		"agreement": agreement,
	})
}

// DeclineAgreement sets the status to declined. Only the recipient may
// decline, but there is no guard on the current status: declining an
// already-declined or accepted agreement goes through.
func (h *AgreementHandler) DeclineAgreement(c echo.Context) error {
	swopID := c.Param("swopId")

	var req models.AgreementActionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if req.Username == "" {
		return fail(c, http.StatusBadRequest, "Username is required")
	}

	agreement, err := h.agreementRepository.GetBySwopID(swopID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Agreement not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if agreement.ToUser != req.Username {
		return fail(c, http.StatusForbidden, "Only the agreement recipient can decline this agreement")
	}

	if err := h.agreementRepository.Decline(swopID); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	agreement.AgreementStatus = models.AgreementStatusDeclined
	agreement.UpdatedAt = time.Now()

	reason := req.Reason
	if reason == "" {
		reason = "No reason provided"
	}
	metadata, _ := json.Marshal(map[string]string{
		"agreementTitle": agreement.AgreementTitle,
		"reason":         reason,
	})
	h.notify(&models.Notification{
		UserID:          agreement.FromUser,
		Type:            models.NotificationTypeDeclined,
		Title:           "Agreement Declined",
		Message:         fmt.Sprintf("%s has declined your skill swap agreement: %q", req.Username, agreement.AgreementTitle),
		RelatedID:       swopID,
		RelatedUsername: req.Username,
		Metadata:        metadata,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "Agreement declined successfully",
		"agreement": agreement,
	})
}

// notify creates a notification best-effort; failures are logged and
// never surfaced to the triggering request.
func (h *AgreementHandler) notify(notification *models.Notification) {
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		log.Printf("Failed to create %s notification for %s: %v", notification.Type, notification.UserID, err)
	}
}

const swopIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// generateSwopID produces the externally visible agreement identifier:
// SKILL_SWOP_<epoch-millis>_<9-char-random-base36>.
func generateSwopID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = swopIDAlphabet[rand.Intn(len(swopIDAlphabet))]
	}
	return fmt.Sprintf("SKILL_SWOP_%d_%s", time.Now().UnixMilli(), suffix)
}

// calculateTimelineDays estimates an agreement's timeline from the free
// text durations of its skills. A duration containing "month" counts its
// leading integer as months (30 days each), "week" as weeks (7 days),
// anything else as a day count with 7 as the fallback for unparseable
// text. The estimate is the maximum across skills, defaulting to 30 when
// there are no skills or nothing parses to a positive value. This is a
// heuristic over the first matched unit, not a duration parser; combined
// units like "1 month 2 weeks" only count the leading number.
func calculateTimelineDays(skills []models.SkillItem) int {
	maxDays := 0
	for _, skill := range skills {
		n := leadingInt(skill.Duration)

		var days int
		switch {
		case strings.Contains(skill.Duration, "month"):
			days = n * 30
		case strings.Contains(skill.Duration, "week"):
			days = n * 7
		case n > 0:
			days = n
		default:
			days = 7
		}

		if days > maxDays {
			maxDays = days
		}
	}

	if maxDays == 0 {
		return 30
	}
	return maxDays
}

// leadingInt parses the integer prefix of a string, ignoring leading
// whitespace. Returns 0 when the string does not start with a digit.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		seen = true
	}
	if !seen {
		return 0
	}
	return n
}
