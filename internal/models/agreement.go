package models

import (
	"time"

	"gorm.io/datatypes"
)

// Agreement status values. "active" and "completed" are reserved for
// future lifecycle states and are never set by the current transitions.
const (
	AgreementStatusPending   = "pending"
	AgreementStatusAccepted  = "accepted"
	AgreementStatusDeclined  = "declined"
	AgreementStatusActive    = "active"
	AgreementStatusCompleted = "completed"
)

// Agreement types accepted at creation.
const (
	AgreementTypeSkillSwap       = "skill_swap"
	AgreementTypeServiceExchange = "service_exchange"
	AgreementTypeMentorship      = "mentorship"
)

// SwopAgreement represents a two-party skill exchange contract (PostgreSQL).
// SwopID is the externally visible key; all lookups and mutations go
// through it, never through the internal id.
type SwopAgreement struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	SwopID              string         `json:"swop_id" gorm:"size:64;uniqueIndex"`
	FromUser            string         `json:"from_user" gorm:"size:50;index"`
	ToUser              string         `json:"to_user" gorm:"size:50;index"`
	AgreementStatus     string         `json:"agreement_status" gorm:"size:20;default:pending"`
	AgreementTitle      string         `json:"agreement_title"`
	AgreementType       string         `json:"agreement_type" gorm:"size:30"`
	Terms               string         `json:"terms" gorm:"type:text"`
	TimelineDays        int            `json:"timeline_days"`
	MeetingLocation     string         `json:"meeting_location"`
	CommunicationMethod string         `json:"communication_method"`
	DisputeResolution   string         `json:"dispute_resolution"`
	Confidentiality     bool           `json:"confidentiality"`
	TerminationClause   string         `json:"termination_clause" gorm:"type:text"`
	SpecialConditions   string         `json:"special_conditions" gorm:"type:text"`
	Skills              datatypes.JSON `json:"skills"`
	FromUserAccepted    bool           `json:"from_user_accepted"`
	ToUserAccepted      bool           `json:"to_user_accepted"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// SkillItem is one exchanged skill or service within an agreement.
type SkillItem struct {
	ID                 string   `json:"id"`
	SkillName          string   `json:"skillName"`
	SkillDescription   string   `json:"skillDescription"`
	Deliverables       []string `json:"deliverables"`
	Duration           string   `json:"duration"` // free text, e.g. "2 weeks"
	TimeCommitment     string   `json:"timeCommitment"`
	StartDate          string   `json:"startDate"`
	CompletionCriteria string   `json:"completionCriteria"`
}

// AgreementData is the structured payload of a create request.
type AgreementData struct {
	AgreementTitle      string      `json:"agreementTitle"`
	AgreementType       string      `json:"agreementType"`
	Terms               string      `json:"terms"`
	Skills              []SkillItem `json:"skills"`
	MeetingLocation     string      `json:"meetingLocation"`
	CommunicationMethod string      `json:"communicationMethod"`
	DisputeResolution   string      `json:"disputeResolution"`
	Confidentiality     bool        `json:"confidentiality"`
	TerminationClause   string      `json:"terminationClause"`
	SpecialConditions   string      `json:"specialConditions"`
}

// CreateAgreementRequest defines the request body for creating an agreement
type CreateAgreementRequest struct {
	FromUser      string        `json:"fromUser" validate:"required"`
	ToUser        string        `json:"toUser" validate:"required"`
	AgreementData AgreementData `json:"agreementData"`
}

// AgreementActionRequest carries the actor of an accept or decline.
type AgreementActionRequest struct {
	Username string `json:"username" validate:"required"`
	Reason   string `json:"reason,omitempty"`
}
