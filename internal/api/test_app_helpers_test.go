package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/tandem/internal/db"
	"github.com/terraincognita07/tandem/internal/models"
	"gorm.io/gorm"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

type testClock struct{}

func (testClock) Now() time.Time { return testNow }

func (testClock) After(time.Duration) <-chan time.Time { return make(chan time.Time) }

type testCouple struct {
	ID      uint
	Members []models.User
}

func newRoutineTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "tandem-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler, err := NewHandler(database, testSecretKey, time.UTC, testClock{})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func createTestCouple(t *testing.T, database *gorm.DB, name string, emails ...string) testCouple {
	t.Helper()
	ctx := context.Background()
	users := db.NewUserRepository(database)

	couple := models.Couple{Name: name, CreatedAt: testNow}
	if err := users.CreateCouple(ctx, &couple); err != nil {
		t.Fatalf("create couple: %v", err)
	}

	created := testCouple{ID: couple.ID}
	for _, email := range emails {
		coupleID := couple.ID
		member := models.User{CoupleID: &coupleID, Email: email, CreatedAt: testNow}
		if err := users.Create(ctx, &member); err != nil {
			t.Fatalf("create member %s: %v", email, err)
		}
		created.Members = append(created.Members, member)
	}
	return created
}

func signTestToken(t *testing.T, userID uint, coupleID uint, expiresAt time.Time) string {
	t.Helper()

	claims := authClaims{
		UserID:   userID,
		CoupleID: coupleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(testNow),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecretKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func memberToken(t *testing.T, couple testCouple, index int) string {
	t.Helper()
	return signTestToken(t, couple.Members[index].ID, couple.ID, testNow.Add(time.Hour))
}

func doAPIRequest(t *testing.T, app *fiber.App, method string, path string, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Accept", fiber.MIMEApplicationJSON)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func expectStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()
	if response.StatusCode != expected {
		payload, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", expected, response.StatusCode, string(payload))
	}
}

func decodeJSON[T any](t *testing.T, response *http.Response) T {
	t.Helper()

	var value T
	if err := json.NewDecoder(response.Body).Decode(&value); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return value
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()

	payload := map[string]string{}
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload["error"]
}

type routineResponse struct {
	ID           uint            `json:"id"`
	CoupleID     uint            `json:"couple_id"`
	Name         string          `json:"name"`
	Schedule     models.Schedule `json:"schedule"`
	AssignedToID *uint           `json:"assigned_to_id"`
	IsActive     bool            `json:"is_active"`
	CreatedByID  uint            `json:"created_by_id"`
}

type occurrenceResponse struct {
	ID            uint       `json:"id"`
	RoutineID     uint       `json:"routine_id"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	CompletedAt   *time.Time `json:"completed_at"`
	CompletedByID *uint      `json:"completed_by_id"`
	Skipped       bool       `json:"skipped"`
	Status        string     `json:"status"`
}

func createDailyRoutine(t *testing.T, app *fiber.App, token string, name string) routineResponse {
	t.Helper()

	response := doAPIRequest(t, app, http.MethodPost, "/api/routines", token, map[string]any{
		"name":     name,
		"schedule": map[string]any{"frequency": "daily"},
	})
	expectStatus(t, response, http.StatusCreated)
	return decodeJSON[routineResponse](t, response)
}
