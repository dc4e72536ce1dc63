package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/Akinkuowo/Swophere/internal/mailer"
	"github.com/Akinkuowo/Swophere/internal/models"
	"github.com/Akinkuowo/Swophere/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles registration, verification and login
type AuthHandler struct {
	userRepository repositories.UserRepository
	mail           *mailer.Mailer
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, mail *mailer.Mailer, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		mail:           mail,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.GET("/verify", h.Verify)
	g.POST("/login", h.Login)
	g.GET("/check-username/:username", h.CheckUsername)
	g.GET("/check-email/:email", h.CheckEmail)
}

// Signup registers a new account and sends the verification email
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return fail(c, http.StatusConflict, "Email already exists")
	}
	if _, err := h.userRepository.GetUserByUsername(req.Username); err == nil {
		return fail(c, http.StatusConflict, "Username already taken")
	}

	token, err := generateVerificationToken()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	user := &models.User{
		UserID:            generateUserID(),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Username:          req.Username,
		Email:             req.Email,
		Password:          string(hashedPassword),
		VerificationToken: token,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	h.mail.SendVerificationEmail(user.Email, token)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Registration successful! Please check your email to verify your account.",
	})
}

// Verify activates an account from its emailed verification token
func (h *AuthHandler) Verify(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return fail(c, http.StatusBadRequest, "Invalid token")
	}

	user, err := h.userRepository.GetUserByVerificationToken(token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusBadRequest, "Invalid or expired token")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	user.IsVerified = true
	user.VerificationToken = ""
	if err := h.userRepository.UpdateUser(user); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Email verified successfully. You can now log in.",
	})
}

// Login authenticates an account and issues a one-hour JWT session
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusUnauthorized, "Invalid email or password")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	if !user.IsVerified {
		return fail(c, http.StatusForbidden, "Please verify your email before logging in.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := h.userRepository.UpdateUser(user); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	expiresAt := now.Add(time.Hour)
	token, err := h.generateJWT(user, expiresAt)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"user": echo.Map{
			"id":        user.ID,
			"userId":    user.UserID,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"username":  user.Username,
			"email":     user.Email,
		},
		"session": echo.Map{
			"token":     token,
			"expiresAt": expiresAt.Format(time.RFC3339),
		},
	})
}

// CheckUsername reports whether a username is still available
func (h *AuthHandler) CheckUsername(c echo.Context) error {
	username := c.Param("username")

	_, err := h.userRepository.GetUserByUsername(username)
	if err != nil && err != gorm.ErrRecordNotFound {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"available": err == gorm.ErrRecordNotFound,
	})
}

// CheckEmail reports whether an email is still available
func (h *AuthHandler) CheckEmail(c echo.Context) error {
	email := c.Param("email")

	_, err := h.userRepository.GetUserByEmail(email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"available": err == gorm.ErrRecordNotFound,
	})
}

// generateJWT generates a session token for a given user
func (h *AuthHandler) generateJWT(user *models.User, expiresAt time.Time) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

const userIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateUserID produces a public account identifier, e.g. SH_A1B2C
func generateUserID() string {
	random := make([]byte, 5)
	for i := range random {
		random[i] = userIDAlphabet[mathrand.Intn(len(userIDAlphabet))]
	}
	return fmt.Sprintf("SH_%s", strings.ToUpper(string(random)))
}

// generateVerificationToken produces the emailed account activation token
func generateVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
