package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trash-detect-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserApp(t *testing.T) (*fiber.App, *UserService) {
	t.Helper()

	svc := NewUserService(newTestDB(t))
	app := fiber.New()
	app.Post("/register", svc.Register)
	app.Get("/leaderboard", svc.Leaderboard)
	return app, svc
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	app, _ := newUserApp(t)

	resp := postJSON(t, app, "/register", `{"username": "alice"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out["user_id"])

	// Taken username → 400
	resp = postJSON(t, app, "/register", `{"username": "alice"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Whitespace-only username → 400
	resp = postJSON(t, app, "/register", `{"username": "   "}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLeaderboardEndpoint(t *testing.T) {
	app, svc := newUserApp(t)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := svc.CreateUser(name)
		require.NoError(t, err)
	}
	require.NoError(t, svc.AwardPoints("bob", 3))
	require.NoError(t, svc.AwardPoints("carol", 1))

	resp, err := app.Test(httptest.NewRequest("GET", "/leaderboard", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []models.LeaderboardRow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "bob", rows[0].Username)
	assert.EqualValues(t, 3, rows[0].Points)
	assert.Equal(t, "carol", rows[1].Username)
	assert.Equal(t, "alice", rows[2].Username)
}

func TestLeaderboardEndpoint_LimitQuery(t *testing.T) {
	app, svc := newUserApp(t)

	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := svc.CreateUser(name)
		require.NoError(t, err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/leaderboard?limit=2", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []models.LeaderboardRow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	assert.Len(t, rows, 2)
}
