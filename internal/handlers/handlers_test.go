package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Akinkuowo/Swophere/internal/models"
	"github.com/Akinkuowo/Swophere/internal/repositories"
	"github.com/Akinkuowo/Swophere/validators"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv bundles an in-memory database, repositories and an Echo instance
// so handler tests can exercise the full request path without a server.
type testEnv struct {
	echo          *echo.Echo
	db            *gorm.DB
	users         repositories.UserRepository
	messages      repositories.MessageRepository
	notifications repositories.NotificationRepository
	agreements    repositories.AgreementRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Message{}, &models.Notification{}, &models.SwopAgreement{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	e := echo.New()
	e.Validator = validators.NewValidator()

	return &testEnv{
		echo:          e,
		db:            db,
		users:         repositories.NewPostgresUserRepository(db),
		messages:      repositories.NewPostgresMessageRepository(db),
		notifications: repositories.NewPostgresNotificationRepository(db),
		agreements:    repositories.NewPostgresAgreementRepository(db),
	}
}

func (env *testEnv) seedUser(t *testing.T, username string) {
	t.Helper()
	user := &models.User{
		UserID:     "SH_" + username,
		FirstName:  username,
		LastName:   "Test",
		Username:   username,
		Email:      username + "@example.com",
		Password:   "not-a-real-hash",
		IsVerified: true,
	}
	if err := env.users.CreateUser(user); err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
}

func (env *testEnv) seedMessage(t *testing.T, from, to, text string, read bool, at time.Time) *models.Message {
	t.Helper()
	message := &models.Message{
		FromUser:  from,
		ToUser:    to,
		Message:   text,
		Read:      read,
		Timestamp: at,
	}
	if err := env.messages.CreateMessage(message); err != nil {
		t.Fatalf("failed to seed message %s -> %s: %v", from, to, err)
	}
	return message
}

func (env *testEnv) seedNotification(t *testing.T, username, notifType, relatedID, relatedUsername string) *models.Notification {
	t.Helper()
	notification := &models.Notification{
		UserID:          username,
		Type:            notifType,
		Title:           "Test",
		Message:         "test notification",
		RelatedID:       relatedID,
		RelatedUsername: relatedUsername,
	}
	if err := env.notifications.CreateNotification(notification); err != nil {
		t.Fatalf("failed to seed notification for %s: %v", username, err)
	}
	return notification
}

// request builds an Echo context backed by a recorder. Path parameters are
// set by the caller via c.SetParamNames / c.SetParamValues.
func (env *testEnv) request(method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return env.echo.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func expectFailure(t *testing.T, rec *httptest.ResponseRecorder, wantCode int, wantMessage string) {
	t.Helper()
	if rec.Code != wantCode {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, wantCode, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["message"] != wantMessage {
		t.Errorf("message = %q, want %q", body["message"], wantMessage)
	}
}

func expectOK(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("success = %v, want true", body["success"])
	}
	return body
}
