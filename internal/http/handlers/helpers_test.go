package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/spendlite/spendlite-be/internal/auth"
	"github.com/spendlite/spendlite-be/internal/middleware"
	"github.com/spendlite/spendlite-be/internal/models/dto"
	"github.com/spendlite/spendlite-be/internal/storage/memory"
)

// envelope mirrors respond.Envelope with raw data for per-test decoding.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestAPI builds the full /api route tree over an in-memory store.
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	tokens := auth.NewTokenManager("test-secret", "spendlite-test", time.Hour, 24*time.Hour)

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		authHandler := NewAuthHandler(store, tokens)
		authHandler.Register(api)
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Auth(tokens))
			authHandler.RegisterProtected(protected)
			NewExpenseHandler(store).Register(protected)
			NewCategoryHandler(store).Register(protected)
		})
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

// doRequest performs a JSON request and decodes the response envelope. For
// 204 responses the envelope is empty.
func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, envelope) {
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

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "response body: %s", raw)
	}
	return resp.StatusCode, env
}

// registerUser registers an account and returns the auth response with its
// token pair.
func registerUser(t *testing.T, ts *httptest.Server, email, username, password string) dto.AuthResponse {
	t.Helper()

	status, env := doRequest(t, ts, http.MethodPost, "/api/register", "", map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, status, "register failed: %s", env.Message)

	var out dto.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// fieldErrors extracts the per-field validation messages from a 400 envelope.
func fieldErrors(t *testing.T, env envelope) map[string]string {
	t.Helper()

	var data struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Errors
}
