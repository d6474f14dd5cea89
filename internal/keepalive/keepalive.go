// Package keepalive runs the periodic store ping that stops free-tier
// database clusters from idling out.
package keepalive

import (
	"context"
	"log/slog"
	"time"
)

const pingTimeout = 10 * time.Second

// Store is the slice of the catalog the pinger needs: a query cheap enough
// to run forever.
type Store interface {
	CountProducts(ctx context.Context) (int64, error)
}

type Pinger struct {
	store    Store
	interval time.Duration
	logger   *slog.Logger
}

func New(store Store, interval time.Duration, logger *slog.Logger) *Pinger {
	return &Pinger{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Run pings the store on every tick until ctx is cancelled. Failures are
// logged and the loop keeps going.
func (p *Pinger) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ping(ctx)
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	count, err := p.store.CountProducts(ctx)
	if err != nil {
		p.logger.Error("keep-alive ping failed", slog.String("error", err.Error()))
		return
	}

	p.logger.Debug("keep-alive ping sent", slog.Int64("products", count))
}
