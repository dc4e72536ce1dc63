package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User represents an account record (PostgreSQL)
type User struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	UserID            string     `json:"userId" gorm:"size:20;uniqueIndex"` // public identifier, e.g. SH_A1B2C
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Username          string     `json:"username" gorm:"size:50;uniqueIndex"`
	Email             string     `json:"email" gorm:"uniqueIndex"`
	Password          string     `json:"-"`
	Phone             string     `json:"phone,omitempty"`
	DateOfBirth       string     `json:"dateOfBirth,omitempty"`
	Country           string     `json:"country,omitempty"`
	State             string     `json:"state,omitempty"`
	Address           string     `json:"address,omitempty"`
	Facebook          string     `json:"facebook,omitempty"`
	Twitter           string     `json:"twitter,omitempty"`
	Linkedin          string     `json:"linkedin,omitempty"`
	Instagram         string     `json:"instagram,omitempty"`
	IsVerified        bool       `json:"isVerified" gorm:"default:false"`
	VerificationToken string     `json:"-" gorm:"index"`
	LastLogin         *time.Time `json:"lastLogin,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"-"`
}

// DisplayName is the name notifications and emails address the user by.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// SignupRequest defines the request body for registration
type SignupRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1"`
	LastName  string `json:"last_name" validate:"required,min=1"`
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for authentication
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	UserID      string `json:"userId" validate:"required"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Country     string `json:"country,omitempty"`
	State       string `json:"state,omitempty"`
	Address     string `json:"address,omitempty"`
	Facebook    string `json:"facebook,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Linkedin    string `json:"linkedin,omitempty"`
	Instagram   string `json:"instagram,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
