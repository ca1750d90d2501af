package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ClientFor builds the auth.Client a signed-in session would carry for
// the given account and profile.
func ClientFor(user models.User, profile models.Profile) *auth.Client {
	return &auth.Client{
		AccountID: user.ID,
		ProfileID: profile.ID,
		Username:  profile.Username,
		Email:     user.Email,
	}
}

// NewJSONRequest creates a request with a JSON-encoded body. A nil body
// yields an empty request.
func NewJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	if body == nil {
		return httptest.NewRequest(method, target, nil)
	}
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthedJSONRequest creates a JSON request carrying the given client
// in context, bypassing the session middleware.
func NewAuthedJSONRequest(t *testing.T, method, target string, body interface{}, c *auth.Client) *http.Request {
	t.Helper()
	return auth.WithClient(NewJSONRequest(t, method, target, body), c)
}

// DecodeJSON decodes the recorder body into v.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}
