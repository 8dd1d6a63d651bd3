package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/content"
	"github.com/01moynul/mtd-portal/internal/metrics"
	"github.com/01moynul/mtd-portal/internal/ratelimit"
	"github.com/01moynul/mtd-portal/internal/realtime"
	"github.com/01moynul/mtd-portal/internal/store"
)

// FormSubmitter relays lead-capture forms. *forms.Client satisfies it.
type FormSubmitter interface {
	Submit(ctx context.Context, name string, payload any) error
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Store   *store.Store
	Issuer  *auth.Issuer
	Forms   FormSubmitter
	Limiter ratelimit.Limiter
	Content *content.Library
	Metrics *metrics.Metrics
	Log     *slog.Logger

	CookieName     string
	CookieSecure   bool
	StreamInterval time.Duration
}

// stream builds the admin metrics feed over the current store.
func (h *Handlers) stream() *realtime.Stream {
	return &realtime.Stream{
		Users:         h.Store.Users,
		Subscriptions: h.Store.Subscriptions,
		Interval:      h.StreamInterval,
		Log:           h.Log,
	}
}
