package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/marketplace/internal/session"
	"github.com/donaldgifford/marketplace/pkg/logger"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

var testSecret = []byte("test-secret")

func loadTestFixture(t *testing.T) []domain.Listing {
	t.Helper()
	items, err := loadFixture(filepath.Join("testdata", "items.json"))
	require.NoError(t, err)
	return items
}

func TestLoadFixture(t *testing.T) {
	t.Parallel()

	items := loadTestFixture(t)
	require.NotEmpty(t, items)
	for _, l := range items {
		assert.NotEmpty(t, l.UserID)
		_, err := domain.ParseDate(l.Date)
		assert.NoError(t, err, "fixture date %q", l.Date)
	}
}

func TestLoadFixture_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	malformed := filepath.Join(dir, "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{"), 0o600))
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`[{"id":"6f1c7b44-0c43-4c4b-9f51-2b3c1b5e9a10","title":"x"}]`), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.json"), wantErr: "reading fixture"},
		{name: "malformed json", path: malformed, wantErr: "parsing fixture"},
		{name: "invalid item", path: invalid, wantErr: "fixture item 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := loadFixture(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServer_ListsFixture(t *testing.T) {
	t.Parallel()

	items := loadTestFixture(t)
	srv := newServer(items, testSecret, logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/api/items", http.NoBody)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.Listing
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.ElementsMatch(t, items, got)
}

func TestTokenHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantID     string
	}{
		{name: "json body", body: `{"email":"dana@example.com","name":"Dana"}`, wantStatus: http.StatusOK, wantID: "dana@example.com"},
		{name: "missing email", body: `{"name":"Dana"}`, wantStatus: http.StatusBadRequest},
	}

	srv := newServer(nil, testSecret, logger.Discard())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/dev/token", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			if tt.wantID == "" {
				assert.Equal(t, "invalid_request", resp["error"])
				return
			}

			assert.Equal(t, "Bearer", resp["token_type"])
			assert.InDelta(t, tokenTTL.Seconds(), resp["expires_in"], 0)

			raw, ok := resp["id_token"].(string)
			require.True(t, ok)
			who, err := session.ParseIDToken(raw, session.HMACKey(testSecret))
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, who.ID)
			assert.Equal(t, "Dana", who.DisplayName)
		})
	}
}
