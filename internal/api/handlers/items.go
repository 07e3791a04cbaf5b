package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/donaldgifford/marketplace/internal/events"
	"github.com/donaldgifford/marketplace/internal/metrics"
	"github.com/donaldgifford/marketplace/internal/store"
	"github.com/donaldgifford/marketplace/pkg/logger"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// Error details returned to clients. The items client surfaces them verbatim
// as the ServerError description.
const (
	msgDuplicate = "Item already exists"
	msgNotFound  = "Item not found"
)

// ItemsHandler serves the listing collection.
type ItemsHandler struct {
	store     store.Store
	publisher events.Publisher
	log       *slog.Logger
}

// NewItemsHandler creates an ItemsHandler. A nil publisher discards events.
func NewItemsHandler(s store.Store, p events.Publisher, log *slog.Logger) *ItemsHandler {
	if p == nil {
		p = events.Noop{}
	}
	return &ItemsHandler{store: s, publisher: p, log: logger.OrDiscard(log)}
}

// --- Input/Output types ---

// ListItemsInput holds the optional filters for listing items. With no
// filters every item is returned.
type ListItemsInput struct {
	City   string `query:"city"   doc:"Case-insensitive substring of the city"`
	Search string `query:"q"      doc:"Case-insensitive substring of the title"`
	Owner  string `query:"owner"  doc:"Exact user id of the owner"`
	Limit  int    `query:"limit"  doc:"Maximum number of items (default all)" minimum:"0" maximum:"500"`
	Offset int    `query:"offset" doc:"Pagination offset"                      minimum:"0"`
}

// ListItemsOutput is a bare JSON array of listings, most recent first.
type ListItemsOutput struct {
	Body []domain.Listing
}

// ItemIDInput identifies one item by path.
type ItemIDInput struct {
	ID string `path:"id" doc:"Item UUID"`
}

// ItemOutput returns one listing.
type ItemOutput struct {
	Body domain.Listing
}

// CreateItemInput carries the full listing as built by the client.
type CreateItemInput struct {
	Body domain.Listing
}

// UpdateItemInput carries the replacement fields for an item.
type UpdateItemInput struct {
	ID   string `path:"id" doc:"Item UUID"`
	Body domain.Listing
}

// RemoveItemOutput acknowledges a removal.
type RemoveItemOutput struct {
	Body StatusResponse
}

// --- Handlers ---

// ListItems returns listings ordered most recent first.
func (h *ItemsHandler) ListItems(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
	var q *store.ItemQuery
	if input.City != "" || input.Search != "" || input.Owner != "" || input.Limit != 0 || input.Offset != 0 {
		q = &store.ItemQuery{Limit: input.Limit, Offset: input.Offset}
		if input.City != "" {
			q.City = &input.City
		}
		if input.Search != "" {
			q.Search = &input.Search
		}
		if input.Owner != "" {
			q.UserID = &input.Owner
		}
	}

	items, err := h.store.ListItems(ctx, q)
	if err != nil {
		h.log.Error("listing items", "error", err)
		return nil, huma.Error500InternalServerError("listing items failed")
	}
	if items == nil {
		items = []domain.Listing{}
	}
	return &ListItemsOutput{Body: items}, nil
}

// GetItem returns one listing.
func (h *ItemsHandler) GetItem(ctx context.Context, input *ItemIDInput) (*ItemOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}
	l, err := h.store.GetItem(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound(msgNotFound)
	}
	if err != nil {
		h.log.Error("getting item", "id", id, "error", err)
		return nil, huma.Error500InternalServerError("getting item failed")
	}
	return &ItemOutput{Body: *l}, nil
}

// CreateItem stores a new listing under the id chosen by the client.
func (h *ItemsHandler) CreateItem(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	l := input.Body
	if l.ID == uuid.Nil {
		return nil, huma.Error400BadRequest("id is required")
	}
	if err := l.Validate(); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	err := h.store.CreateItem(ctx, &l)
	if errors.Is(err, store.ErrDuplicateID) {
		h.record("create", "duplicate")
		return nil, huma.Error406NotAcceptable(msgDuplicate)
	}
	if err != nil {
		h.record("create", "error")
		h.log.Error("creating item", "id", l.ID, "error", err)
		return nil, huma.Error500InternalServerError("creating item failed")
	}

	h.record("create", "ok")
	h.publish(ctx, events.New(events.Created, l.ID, &l))
	return &ItemOutput{Body: l}, nil
}

// UpdateItem replaces the editable fields of an existing listing.
func (h *ItemsHandler) UpdateItem(ctx context.Context, input *UpdateItemInput) (*ItemOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}
	l := input.Body
	if err := l.Validate(); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	err = h.store.UpdateItem(ctx, id, &l)
	if errors.Is(err, store.ErrNotFound) {
		h.record("update", "not_found")
		return nil, huma.Error404NotFound(msgNotFound)
	}
	if err != nil {
		h.record("update", "error")
		h.log.Error("updating item", "id", id, "error", err)
		return nil, huma.Error500InternalServerError("updating item failed")
	}

	updated, err := h.store.GetItem(ctx, id)
	if err != nil {
		// Removed concurrently; report what was written.
		l.ID = id
		updated = &l
	}

	h.record("update", "ok")
	h.publish(ctx, events.New(events.Updated, id, updated))
	return &ItemOutput{Body: *updated}, nil
}

// RemoveItem deletes a listing.
func (h *ItemsHandler) RemoveItem(ctx context.Context, input *ItemIDInput) (*RemoveItemOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}

	err = h.store.DeleteItem(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		h.record("remove", "not_found")
		return nil, huma.Error404NotFound(msgNotFound)
	}
	if err != nil {
		h.record("remove", "error")
		h.log.Error("removing item", "id", id, "error", err)
		return nil, huma.Error500InternalServerError("removing item failed")
	}

	h.record("remove", "ok")
	h.publish(ctx, events.New(events.Removed, id, nil))
	return &RemoveItemOutput{Body: StatusResponse{Status: "removed"}}, nil
}

func (h *ItemsHandler) publish(ctx context.Context, ev events.Event) {
	if err := h.publisher.Publish(ctx, ev); err != nil {
		metrics.ItemEventsPublishFailuresTotal.Inc()
		h.log.Warn("publishing item event", "kind", ev.Kind, "id", ev.ID, "error", err)
	}
}

func (*ItemsHandler) record(op, result string) {
	metrics.ItemMutationsTotal.WithLabelValues(op, result).Inc()
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, huma.Error400BadRequest("invalid item id", err)
	}
	return id, nil
}

// RegisterItemRoutes registers the item endpoints with the Huma API.
func RegisterItemRoutes(api huma.API, h *ItemsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        "/api/items",
		Summary:     "List items",
		Description: "Returns every item, most recent first, optionally filtered by city, title or owner.",
		Tags:        []string{"items"},
	}, h.ListItems)

	huma.Register(api, huma.Operation{
		OperationID: "get-item",
		Method:      http.MethodGet,
		Path:        "/api/items/{id}",
		Summary:     "Get an item by ID",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.GetItem)

	huma.Register(api, huma.Operation{
		OperationID:   "create-item",
		Method:        http.MethodPost,
		Path:          "/api/items",
		Summary:       "Create an item",
		Description:   "Stores a new item. The id is chosen by the client; reusing an id fails with 406.",
		Tags:          []string{"items"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotAcceptable},
	}, h.CreateItem)

	huma.Register(api, huma.Operation{
		OperationID: "update-item",
		Method:      http.MethodPut,
		Path:        "/api/items/update/{id}",
		Summary:     "Update an item",
		Description: "Replaces the editable fields of an item. The stored id and date are kept.",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.UpdateItem)

	huma.Register(api, huma.Operation{
		OperationID: "remove-item",
		Method:      http.MethodDelete,
		Path:        "/api/items/remove/{id}",
		Summary:     "Remove an item",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.RemoveItem)
}
