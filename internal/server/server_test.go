package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlite/spendlite-be/internal/config"
	"github.com/spendlite/spendlite-be/internal/models"
	"github.com/spendlite/spendlite-be/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		Port:        "0",
		JWTSecret:   "test-secret",
		JWTIssuer:   "spendlite-test",
		AccessTTL:   time.Hour,
		RefreshTTL:  24 * time.Hour,
		CORSOrigins: []string{"*"},
	}
	srv := New(cfg, memory.NewStore())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, apiEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env apiEnvelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

// TestEndToEndUserJourney walks the whole surface: user A registers, logs an
// expense whose category resolves by name, and lists it back; user B's view
// stays fully isolated.
func TestEndToEndUserJourney(t *testing.T) {
	ts := newTestServer(t)

	status, env := call(t, ts, http.MethodPost, "/api/register", "", map[string]string{
		"email":    "a@example.com",
		"username": "usera",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, status)

	var userA struct {
		User   models.User `json:"user"`
		Access string      `json:"access"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &userA))

	status, _ = call(t, ts, http.MethodPost, "/api/expenses", userA.Access, map[string]any{
		"title":    "Lunch",
		"amount":   "12.50",
		"date":     "2024-01-01",
		"category": "Food",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env = call(t, ts, http.MethodGet, "/api/expenses", userA.Access, nil)
	require.Equal(t, http.StatusOK, status)
	var expenses []models.Expense
	require.NoError(t, json.Unmarshal(env.Data, &expenses))
	require.Len(t, expenses, 1)
	assert.Equal(t, "Lunch", expenses[0].Title)
	assert.Equal(t, "Food", expenses[0].CategoryName)
	assert.Equal(t, "2024-01-01", expenses[0].Date.String())

	status, env = call(t, ts, http.MethodPost, "/api/register", "", map[string]string{
		"email":    "b@example.com",
		"username": "userb",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, status)

	var userB struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &userB))

	status, env = call(t, ts, http.MethodGet, "/api/categories", userB.Access, nil)
	require.Equal(t, http.StatusOK, status)
	var categories []models.Category
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	names := []string{}
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Food", "Transport", "Entertainment", "Bills", "Others"}, names,
		"user B sees only the five defaults")

	status, env = call(t, ts, http.MethodGet, "/api/expenses", userB.Access, nil)
	require.Equal(t, http.StatusOK, status)
	var bExpenses []models.Expense
	require.NoError(t, json.Unmarshal(env.Data, &bExpenses))
	assert.Empty(t, bExpenses)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	status, env := call(t, ts, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", env.Message)
}
