// Package catalog wraps a CatalogStore with a read-through product cache.
// Reads collapse concurrent misses through singleflight; every mutation,
// including stock movements, invalidates the cached entries. Cache failures
// degrade to the store and are never fatal.
package catalog

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"github.com/amrtikande/shoop/internal/cache"
	"github.com/amrtikande/shoop/internal/domain"
	"github.com/amrtikande/shoop/internal/store"
)

type Service struct {
	store  store.CatalogStore
	cache  cache.ProductCache
	sfg    singleflight.Group
	logger *slog.Logger
}

// NewService creates a cached catalog. A nil cache disables caching and every
// call passes straight through to the store.
func NewService(s store.CatalogStore, c cache.ProductCache, logger *slog.Logger) *Service {
	return &Service{
		store:  s,
		cache:  c,
		logger: logger,
	}
}

var _ store.CatalogStore = (*Service)(nil)

func (s *Service) GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if s.cache == nil {
		return s.store.GetProduct(ctx, id)
	}

	// singleflight prevents a stampede of store reads for the same product
	// on concurrent cache misses.
	v, err, _ := s.sfg.Do("product:"+id.Hex(), func() (interface{}, error) {
		product, err := s.cache.GetProduct(ctx, id.Hex())
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("product cache get failed", slog.String("error", err.Error()))
		}

		product, err = s.store.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}

		if errSet := s.cache.SetProduct(ctx, product); errSet != nil {
			s.logger.Warn("product cache set failed", slog.String("error", errSet.Error()))
		}

		return product, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if s.cache == nil {
		return s.store.ListProducts(ctx)
	}

	v, err, _ := s.sfg.Do("products:all", func() (interface{}, error) {
		products, err := s.cache.GetList(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("product list cache get failed", slog.String("error", err.Error()))
		}

		products, err = s.store.ListProducts(ctx)
		if err != nil {
			return nil, err
		}

		if errSet := s.cache.SetList(ctx, products); errSet != nil {
			s.logger.Warn("product list cache set failed", slog.String("error", errSet.Error()))
		}

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, created.ID)
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id primitive.ObjectID, upd domain.ProductUpdate) (*domain.Product, error) {
	updated, err := s.store.UpdateProduct(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) CountProducts(ctx context.Context) (int64, error) {
	return s.store.CountProducts(ctx)
}

func (s *Service) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*domain.Product, error) {
	updated, err := s.store.DecrementStock(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *Service) RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	if err := s.store.RestoreStock(ctx, id, qty); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id.Hex()); err != nil {
		s.logger.Warn("product cache invalidate failed",
			slog.String("product_id", id.Hex()),
			slog.String("error", err.Error()))
	}
}
