package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		handler    echo.HandlerFunc
		wantStatus int
		wantLog    []string
	}{
		{
			name:   "no panic",
			method: http.MethodGet,
			path:   "/api/items",
			handler: func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "string panic",
			method: http.MethodGet,
			path:   "/panic",
			handler: func(_ echo.Context) error {
				panic("test panic")
			},
			wantStatus: http.StatusInternalServerError,
			wantLog:    []string{"panic recovered", "test panic", "path=/panic", "stack="},
		},
		{
			name:   "non-string panic",
			method: http.MethodPost,
			path:   "/api/items",
			handler: func(_ echo.Context) error {
				panic(42)
			},
			wantStatus: http.StatusInternalServerError,
			wantLog:    []string{"error=42", "method=POST"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(tt.method, tt.path, http.NoBody), rec)

			require.NoError(t, Recovery(log)(tt.handler)(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			if len(tt.wantLog) == 0 {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, rec.Body.String(), "internal server error")
			assert.Equal(t, "application/problem+json", rec.Header().Get(echo.HeaderContentType))
			for _, want := range tt.wantLog {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRecovery_AbortHandlerRepanics(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", http.NoBody), httptest.NewRecorder())

	h := Recovery(slog.New(slog.DiscardHandler))(func(_ echo.Context) error {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() { _ = h(c) })
}
