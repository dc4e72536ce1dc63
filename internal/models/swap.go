package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Swap listing statuses.
const (
	SwapStatusPending   = "PENDING"
	SwapStatusAccepted  = "ACCEPTED"
	SwapStatusRejected  = "REJECTED"
	SwapStatusCancelled = "CANCELLED"
	SwapStatusCompleted = "COMPLETED"
)

// Swap represents a trade listing stored in MongoDB
type Swap struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ListingID       string             `json:"listing_id" bson:"listing_id"`
	Title           string             `json:"title" bson:"title"`
	Name            string             `json:"name" bson:"name"` // owner's username
	Category        string             `json:"category" bson:"category"`
	Country         string             `json:"country" bson:"country"`
	City            string             `json:"city" bson:"city"`
	ImageName       string             `json:"image_name" bson:"image_name"`
	Description     string             `json:"description" bson:"description"`
	InterestedSwaps []SwapInterest     `json:"interested_swaps" bson:"interested_swaps"`
	Trending        bool               `json:"trending" bson:"trending"`
	Status          string             `json:"status" bson:"status"`
	UserID          string             `json:"userId" bson:"user_id"` // public user id of the owner
	CreatedAt       time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updated_at"`
}

// SwapInterest is an element of a listing's interested_swaps array. The
// array is heterogeneous: at creation it holds the owner's wishlist items
// (id/title/description), and interest expressions (userId/username/
// message/timestamp) are appended to the same array afterwards.
type SwapInterest struct {
	ID          string     `json:"id,omitempty" bson:"id,omitempty"`
	Title       string     `json:"title,omitempty" bson:"title,omitempty"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	UserID      string     `json:"userId,omitempty" bson:"user_id,omitempty"`
	Username    string     `json:"username,omitempty" bson:"username,omitempty"`
	Message     string     `json:"message,omitempty" bson:"message,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// CreateSwapRequest defines the request body for creating a listing.
// The image itself lives in the blob store; only its stored name is
// carried here.
type CreateSwapRequest struct {
	ListingTitle    string         `json:"listing_title" validate:"required"`
	Category        string         `json:"category" validate:"required"`
	Country         string         `json:"country" validate:"required"`
	City            string         `json:"city" validate:"required"`
	Description     string         `json:"description" validate:"required"`
	InterestedSwaps []SwapInterest `json:"interested_swaps" validate:"required,min=1"`
	Username        string         `json:"username" validate:"required"`
	UserID          string         `json:"user_id" validate:"required"`
	ListingID       string         `json:"listing_id" validate:"required"`
	ImageName       string         `json:"image_name" validate:"required"`
}

// SwapInterestRequest defines the request body for expressing interest
type SwapInterestRequest struct {
	SwapID  string `json:"swapId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
	Message string `json:"message"`
}

// UpdateSwapStatusRequest defines the request body for status transitions
type UpdateSwapStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING ACCEPTED REJECTED CANCELLED COMPLETED"`
	Reason string `json:"reason,omitempty"`
}

// CategoryCount is one row of the category aggregation.
type CategoryCount struct {
	Name  string `json:"name" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}
