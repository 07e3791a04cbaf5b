package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/marketplace/pkg/logger"
)

// Refresher reloads a Board on a fixed interval.
type Refresher struct {
	cron    *cron.Cron
	target  Reloader
	log     *slog.Logger
	timeout time.Duration
	onTick  func(err error)
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithTick registers fn to run after every scheduled refresh with its result.
func WithTick(fn func(err error)) RefresherOption {
	return func(r *Refresher) { r.onTick = fn }
}

// WithRefresherLogger sets the Refresher's logger.
func WithRefresherLogger(l *slog.Logger) RefresherOption {
	return func(r *Refresher) { r.log = l }
}

// NewRefresher creates a Refresher that refreshes target every interval.
func NewRefresher(target Reloader, interval time.Duration, opts ...RefresherOption) (*Refresher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	r := &Refresher{
		cron:    cron.New(),
		target:  target,
		timeout: interval,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logger.OrDiscard(r.log)

	if _, err := r.cron.AddFunc("@every "+interval.String(), r.run); err != nil {
		return nil, fmt.Errorf("scheduling refresh: %w", err)
	}
	return r, nil
}

// Start begins running scheduled refreshes.
func (r *Refresher) Start() {
	r.log.Debug("refresher started")
	r.cron.Start()
}

// Stop halts the schedule. The returned context is done once a running
// refresh has finished.
func (r *Refresher) Stop() context.Context {
	r.log.Debug("refresher stopping")
	return r.cron.Stop()
}

// Entries returns the registered cron entries.
func (r *Refresher) Entries() []cron.Entry {
	return r.cron.Entries()
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	err := r.target.Refresh(ctx)
	if err != nil {
		r.log.Warn("scheduled refresh failed", "error", err)
	}
	if r.onTick != nil {
		r.onTick(err)
	}
}
