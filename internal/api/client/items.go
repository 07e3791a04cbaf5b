package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// Listing service paths, relative to the base URL.
const (
	itemsPath  = "/items"
	updatePath = "/items/update/"
	removePath = "/items/remove/"
)

// wireListing mirrors domain.Listing with every field required.
type wireListing struct {
	ID          *uuid.UUID `json:"id"`
	Date        *string    `json:"date"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	City        *string    `json:"city"`
	PhoneNumber *string    `json:"phoneNumber"`
	UserName    *string    `json:"userName"`
	UserID      *string    `json:"userId"`
}

func (w *wireListing) toDomain() (domain.Listing, error) {
	fields := []struct {
		name string
		set  bool
	}{
		{"id", w.ID != nil},
		{"date", w.Date != nil},
		{"title", w.Title != nil},
		{"description", w.Description != nil},
		{"location", w.Location != nil},
		{"city", w.City != nil},
		{"phoneNumber", w.PhoneNumber != nil},
		{"userName", w.UserName != nil},
		{"userId", w.UserID != nil},
	}
	for _, f := range fields {
		if !f.set {
			return domain.Listing{}, fmt.Errorf("missing field %q", f.name)
		}
	}

	return domain.Listing{
		ID:          *w.ID,
		Date:        *w.Date,
		Title:       *w.Title,
		Description: *w.Description,
		Location:    *w.Location,
		City:        *w.City,
		PhoneNumber: *w.PhoneNumber,
		UserName:    *w.UserName,
		UserID:      *w.UserID,
	}, nil
}

// FetchAll returns the complete remote collection in service order.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Listing, error) {
	body, err := c.call(ctx, "fetch_all", http.MethodGet, itemsPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeListings(body)
}

// Create submits a new listing. A listing whose id already exists is
// rejected by the service with a 406 ServerError (see IsDuplicate).
func (c *Client) Create(ctx context.Context, l *domain.Listing) error {
	_, err := c.call(ctx, "create", http.MethodPost, itemsPath, l)
	return err
}

// Update replaces the listing stored under id with l.
func (c *Client) Update(ctx context.Context, id uuid.UUID, l *domain.Listing) error {
	_, err := c.call(ctx, "update", http.MethodPut, updatePath+id.String(), l)
	return err
}

// Remove deletes the listing stored under id.
func (c *Client) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := c.call(ctx, "remove", http.MethodDelete, removePath+id.String(), nil)
	return err
}

func decodeListings(body []byte) ([]domain.Listing, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrDecoding)
	}

	var wire []wireListing
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoding, err)
	}

	listings := make([]domain.Listing, 0, len(wire))
	for i := range wire {
		l, err := wire[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrDecoding, i, err)
		}
		listings = append(listings, l)
	}
	return listings, nil
}
