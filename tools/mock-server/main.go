// Package main runs a local items service backed by an in-memory store seeded
// from a JSON fixture. It also mints development ID tokens so the items CLI
// can sign in without an identity provider.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/marketplace/internal/api"
	"github.com/donaldgifford/marketplace/internal/api/middleware"
	"github.com/donaldgifford/marketplace/internal/session"
	"github.com/donaldgifford/marketplace/internal/store"
	"github.com/donaldgifford/marketplace/pkg/logger"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

const tokenTTL = 2 * time.Hour

func main() {
	port := flag.Int("port", 3000, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/items.json", "path to items fixture")
	secret := flag.String("secret", "dev-secret", "HMAC secret for development ID tokens")
	flag.Parse()

	log := logger.New("debug", "text")

	items, err := loadFixture(*fixtureFile)
	if err != nil {
		log.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	log.Info("loaded fixture", "items", len(items))

	addr := fmt.Sprintf(":%d", *port)
	log.Info("starting mock items server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      newServer(items, []byte(*secret), log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// loadFixture reads a JSON array of listings. Every listing must validate.
func loadFixture(path string) ([]domain.Listing, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var items []domain.Listing
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("fixture item %d (%s): %w", i, items[i].ID, err)
		}
	}
	return items, nil
}

// newServer serves the item API over a memory store seeded with items, plus
// POST /dev/token. Rate limiting is off.
func newServer(items []domain.Listing, secret []byte, log *slog.Logger) *echo.Echo {
	e := api.NewRouter(api.RouterConfig{
		Store:     store.NewMemoryStore(items...),
		Logger:    log,
		Version:   "mock",
		RateLimit: middleware.RateLimitConfig{},
	})
	e.POST("/dev/token", tokenHandler(secret, log))
	return e
}

type tokenRequest struct {
	Email string `json:"email" form:"email"`
	Name  string `json:"name"  form:"name"`
}

func tokenHandler(secret []byte, log *slog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req tokenRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		if req.Email == "" {
			log.Warn("token request missing email")
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error":             "invalid_request",
				"error_description": "email is required",
			})
		}

		token, err := session.IssueDevToken(
			domain.Identity{ID: req.Email, DisplayName: req.Name},
			secret, tokenTTL,
		)
		if err != nil {
			return fmt.Errorf("issuing token: %w", err)
		}

		log.Info("issued mock token", "email", req.Email)
		return c.JSON(http.StatusOK, map[string]any{
			"id_token":   token,
			"expires_in": int(tokenTTL.Seconds()),
			"token_type": "Bearer",
		})
	}
}
