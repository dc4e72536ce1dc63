package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types emitted by the messaging and agreement subsystems.
// The SWAP_* types are reserved for listing-interest events.
const (
	NotificationTypeMessage      = "MESSAGE"
	NotificationTypeSkillCreated = "SKILL_AGREEMENT_CREATED"
	NotificationTypeSkillSent    = "SKILL_AGREEMENT_SENT"
	NotificationTypeAccepted     = "AGREEMENT_ACCEPTED"
	NotificationTypeDeclined     = "AGREEMENT_DECLINED"
	NotificationTypeSwapInterest = "SWAP_INTEREST"
	NotificationTypeSwapApproved = "SWAP_APPROVED"
	NotificationTypeSwapRejected = "SWAP_REJECTED"
)

// Notification represents a per-recipient event record (PostgreSQL).
// UserID holds the recipient's username; the column name is historical.
type Notification struct {
	ID              string         `json:"id" gorm:"primaryKey;size:36"`
	UserID          string         `json:"userId" gorm:"size:50;index"`
	Type            string         `json:"type" gorm:"size:40;index"`
	Title           string         `json:"title"`
	Message         string         `json:"message" gorm:"type:text"`
	RelatedID       string         `json:"relatedId" gorm:"size:64;index"` // message id or agreement swop_id
	RelatedUsername string         `json:"relatedUsername" gorm:"size:50"`
	Metadata        datatypes.JSON `json:"metadata"`
	IsRead          bool           `json:"isRead" gorm:"default:false;index"`
	CreatedAt       time.Time      `json:"createdAt" gorm:"index"`
}

// NotificationOwnerRequest carries the username asserting ownership of a
// notification for mark-read and delete operations.
type NotificationOwnerRequest struct {
	Username string `json:"username" validate:"required"`
}
