package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skillpath/backend/config"
	"skillpath/backend/models"
	"skillpath/backend/services"
	"skillpath/backend/store"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	st, err := store.NewGormStore(db)
	require.NoError(t, err)

	cfg := &config.Config{JWTSecret: "test-secret"}
	app := fiber.New()
	SetupRoutes(app, db, st, cfg, services.SystemClock())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func registerLearner(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, result := doJSON(t, app, "POST", "/api/auth/register", "", map[string]any{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, fiber.StatusCreated, status)
	data := result["data"].(map[string]any)
	return data["token"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)
	registerLearner(t, app)

	status, result := doJSON(t, app, "POST", "/api/auth/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "s3cret-pass",
	})
	assert.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])

	status, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, "GET", "/api/gamification/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = doJSON(t, app, "GET", "/api/progress/course-1", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAwardXPFlow(t *testing.T) {
	app := newTestApp(t)
	token := registerLearner(t, app)

	status, result := doJSON(t, app, "POST", "/api/gamification/xp", token, map[string]any{
		"amount": 300,
		"reason": "Completed lesson",
	})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]any)
	assert.Equal(t, false, data["leveledUp"])

	status, result = doJSON(t, app, "POST", "/api/gamification/xp", token, map[string]any{
		"amount": 300,
		"reason": "Completed lesson",
	})
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]any)
	assert.Equal(t, true, data["leveledUp"])
	assert.Equal(t, "Novice", data["newLevel"].(map[string]any)["title"])

	status, result = doJSON(t, app, "GET", "/api/gamification/", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	profile := result["data"].(map[string]any)
	assert.Equal(t, float64(600), profile["xp"])
	assert.Equal(t, float64(2), profile["level"])
}

func TestAwardXPInvalidAmount(t *testing.T) {
	app := newTestApp(t)
	token := registerLearner(t, app)

	status, _ := doJSON(t, app, "POST", "/api/gamification/xp", token, map[string]any{
		"amount": -10,
		"reason": "oops",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestProgressFlow(t *testing.T) {
	app := newTestApp(t)
	token := registerLearner(t, app)

	status, result := doJSON(t, app, "POST", "/api/progress/course-1/complete", token, map[string]any{
		"content_id":  "unit-a",
		"total_units": 4,
	})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]any)
	assert.Equal(t, float64(1), data["completedCount"])
	assert.Equal(t, float64(25), data["percent"])

	// marking the same unit again changes nothing
	status, result = doJSON(t, app, "POST", "/api/progress/course-1/complete", token, map[string]any{
		"content_id":  "unit-a",
		"total_units": 4,
	})
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]any)
	assert.Equal(t, float64(1), data["completedCount"])

	status, _ = doJSON(t, app, "POST", "/api/progress/course-1/visit", token, map[string]any{
		"content_id": "unit-b",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, result = doJSON(t, app, "GET", "/api/progress/course-1", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	progress := result["data"].(map[string]any)
	assert.Equal(t, []any{"unit-a"}, progress["completedSections"])
	assert.Equal(t, "unit-b", progress["lastVisitedContentId"])
}

func TestModuleBreakdown(t *testing.T) {
	app := newTestApp(t)
	token := registerLearner(t, app)

	for _, unit := range []string{"a1", "a2", "b1"} {
		status, _ := doJSON(t, app, "POST", "/api/progress/course-1/complete", token, map[string]any{
			"content_id":  unit,
			"total_units": 6,
		})
		require.Equal(t, fiber.StatusOK, status)
	}

	status, result := doJSON(t, app, "POST", "/api/progress/course-1/modules", token, map[string]any{
		"modules": []map[string]any{
			{"id": "mod-a", "unit_ids": []string{"a1", "a2"}},
			{"id": "mod-b", "unit_ids": []string{"b1", "b2"}},
			{"id": "mod-empty", "unit_ids": []string{}},
		},
	})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]any)
	mods := data["modules"].(map[string]any)
	assert.Equal(t, float64(100), mods["mod-a"])
	assert.Equal(t, float64(50), mods["mod-b"])
	assert.Equal(t, float64(0), mods["mod-empty"])
	assert.Equal(t, float64(75), data["course"])
}

func TestAchievementEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := registerLearner(t, app)

	status, result := doJSON(t, app, "POST", "/api/gamification/achievements", token, map[string]any{
		"achievement_id": "first-lesson",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, result["data"].(map[string]any)["unlocked"])

	status, result = doJSON(t, app, "POST", "/api/gamification/achievements", token, map[string]any{
		"achievement_id": "first-lesson",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, result["data"].(map[string]any)["unlocked"])
}

func TestEnrollmentEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := registerLearner(t, app)

	status, result := doJSON(t, app, "GET", "/api/enrollments/live-classes", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, result["data"].(map[string]any)["enrolled"])

	status, result = doJSON(t, app, "POST", "/api/enrollments/live-classes", token, map[string]any{
		"payment_id": "pay_123",
		"plan":       "solo",
		"amount":     10199,
		"start_date": "2026-03-10",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.NotEmpty(t, result["data"].(map[string]any)["enrollment_id"])

	status, result = doJSON(t, app, "GET", "/api/enrollments/live-classes", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, result["data"].(map[string]any)["enrolled"])
}

func TestGetLevels(t *testing.T) {
	app := newTestApp(t)
	token := registerLearner(t, app)

	status, result := doJSON(t, app, "GET", "/api/gamification/levels", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	levels := result["data"].([]any)
	require.Len(t, levels, 10)
	first := levels[0].(map[string]any)
	assert.Equal(t, "Beginner", first["title"])
}
