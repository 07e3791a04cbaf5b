package market

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/donaldgifford/marketplace/internal/metrics"
	"github.com/donaldgifford/marketplace/internal/session"
	"github.com/donaldgifford/marketplace/pkg/logger"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// Reloader is anything that can reload its listings after a mutation.
type Reloader interface {
	Refresh(ctx context.Context) error
}

// Editor performs create, update and remove operations on behalf of the
// signed-in user. Only one operation runs at a time per Editor; a second call
// made while one is in flight fails with ErrInProgress.
type Editor struct {
	repo  Repository
	sess  session.Context
	board Reloader
	log   *slog.Logger
	now   func() time.Time

	busy atomic.Bool
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithBoard makes the Editor refresh r after every successful mutation.
func WithBoard(r Reloader) EditorOption {
	return func(e *Editor) { e.board = r }
}

// WithEditorLogger sets the Editor's logger.
func WithEditorLogger(l *slog.Logger) EditorOption {
	return func(e *Editor) { e.log = l }
}

// WithClock overrides the time source used to date new listings.
func WithClock(now func() time.Time) EditorOption {
	return func(e *Editor) { e.now = now }
}

// NewEditor creates an Editor. A nil session behaves as signed out.
func NewEditor(repo Repository, sess session.Context, opts ...EditorOption) *Editor {
	if sess == nil {
		sess = session.Anonymous
	}
	e := &Editor{
		repo: repo,
		sess: sess,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logger.OrDiscard(e.log)
	return e
}

// Add submits a new listing built from d and stamped with the current user.
func (e *Editor) Add(ctx context.Context, d domain.Draft) (domain.Listing, error) {
	const op = "add"

	who, ok := e.sess.Identity()
	if !ok {
		return domain.Listing{}, e.fail(op, MsgLogIn, ErrSignedOut)
	}

	l := domain.NewListing(d, who, e.now())
	if err := l.Validate(); err != nil {
		return domain.Listing{}, e.fail(op, MsgMissingData, err)
	}

	if !e.busy.CompareAndSwap(false, true) {
		return domain.Listing{}, ErrInProgress
	}
	defer e.busy.Store(false)

	if err := e.repo.Create(ctx, &l); err != nil {
		return domain.Listing{}, e.fail(op, MsgAddFailed, err)
	}
	e.succeeded(ctx, op, &l)
	return l, nil
}

// Update replaces the editable fields of existing with d. The id and date of
// existing are kept. Only the owner may update a listing.
func (e *Editor) Update(ctx context.Context, existing *domain.Listing, d domain.Draft) (domain.Listing, error) {
	const op = "update"

	who, ok := e.sess.Identity()
	if !ok {
		return domain.Listing{}, e.fail(op, MsgLogIn, ErrSignedOut)
	}
	if !domain.IsOwner(existing, who) {
		return domain.Listing{}, e.fail(op, MsgGeneric, ErrNotOwner)
	}

	l := existing.WithEdits(d, who)
	if err := l.Validate(); err != nil {
		return domain.Listing{}, e.fail(op, MsgMissingData, err)
	}

	if !e.busy.CompareAndSwap(false, true) {
		return domain.Listing{}, ErrInProgress
	}
	defer e.busy.Store(false)

	if err := e.repo.Update(ctx, l.ID, &l); err != nil {
		return domain.Listing{}, e.fail(op, MsgUpdateFailed, err)
	}
	e.succeeded(ctx, op, &l)
	return l, nil
}

// Remove deletes l. Only the owner may remove a listing.
func (e *Editor) Remove(ctx context.Context, l *domain.Listing) error {
	const op = "remove"

	who, ok := e.sess.Identity()
	if !ok {
		return e.fail(op, MsgLogIn, ErrSignedOut)
	}
	if !domain.IsOwner(l, who) {
		return e.fail(op, MsgGeneric, ErrNotOwner)
	}

	if !e.busy.CompareAndSwap(false, true) {
		return ErrInProgress
	}
	defer e.busy.Store(false)

	if err := e.repo.Remove(ctx, l.ID); err != nil {
		return e.fail(op, MsgGeneric, err)
	}
	e.succeeded(ctx, op, l)
	return nil
}

// InProgress reports whether an operation is currently running.
func (e *Editor) InProgress() bool {
	return e.busy.Load()
}

func (e *Editor) fail(op, msg string, err error) error {
	metrics.ItemMutationsTotal.WithLabelValues(op, "error").Inc()
	e.log.Error("item operation failed", "op", op, "error", err)
	return &OpError{Op: op, Message: msg, Err: err}
}

func (e *Editor) succeeded(ctx context.Context, op string, l *domain.Listing) {
	metrics.ItemMutationsTotal.WithLabelValues(op, "ok").Inc()
	e.log.Info("item operation succeeded", "op", op, "id", l.ID)

	if e.board == nil {
		return
	}
	if err := e.board.Refresh(ctx); err != nil {
		e.log.Warn("refresh after mutation failed", "op", op, "error", err)
	}
}
