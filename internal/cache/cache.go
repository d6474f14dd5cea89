package cache

import (
	"context"
	"errors"

	"github.com/amrtikande/shoop/internal/domain"
)

// ProductCache caches catalog reads. Implementations must treat a miss as
// ErrCacheMiss, not as an empty result.
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, p *domain.Product) error
	GetList(ctx context.Context) ([]domain.Product, error)
	SetList(ctx context.Context, products []domain.Product) error

	// Invalidate drops the cached product and the list key.
	Invalidate(ctx context.Context, id string) error
}

var ErrCacheMiss = errors.New("cache miss")
