package models

import "time"

// Message represents a directed text message between two users (PostgreSQL)
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	FromUser  string    `json:"fromUser" gorm:"size:50;index"`
	ToUser    string    `json:"toUser" gorm:"size:50;index"`
	Message   string    `json:"message" gorm:"type:text"`
	Read      bool      `json:"read" gorm:"default:false;index"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
}

// Thread is a derived per-counterpart conversation summary. It is computed
// from the message set on every request, never stored.
type Thread struct {
	ID          string    `json:"id"` // id of the most recent message in the thread
	OtherUser   string    `json:"otherUser"`
	LastMessage string    `json:"lastMessage"`
	Timestamp   time.Time `json:"timestamp"`
	Unread      bool      `json:"unread"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	FromUser string `json:"fromUser" validate:"required"`
	ToUser   string `json:"toUser" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

// MarkReadRequest defines the request body for marking a conversation read
type MarkReadRequest struct {
	Username  string `json:"username" validate:"required"`
	OtherUser string `json:"otherUser" validate:"required"`
}
