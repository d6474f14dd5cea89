package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amrtikande/shoop/internal/domain"
)

// MemoryStore implements CatalogStore and OrderStore with in-memory maps. It
// backs tests and URI-less local runs with the exact same decrement contract
// as the Mongo store.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]*domain.Product
	orders   map[primitive.ObjectID]*domain.Order
	seq      map[primitive.ObjectID]int64
	nextSeq  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[primitive.ObjectID]*domain.Product),
		orders:   make(map[primitive.ObjectID]*domain.Order),
		seq:      make(map[primitive.ObjectID]int64),
	}
}

func (s *MemoryStore) GetProduct(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *p)
	}

	// Newest first; insertion order breaks creation-time ties.
	sort.Slice(products, func(i, j int) bool {
		return s.seq[products[i].ID] > s.seq[products[j].ID]
	})

	return products, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Emoji == "" {
		p.Emoji = domain.DefaultEmoji
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	cp := *p
	s.products[p.ID] = &cp
	s.nextSeq++
	s.seq[p.ID] = s.nextSeq

	return p, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, id primitive.ObjectID, upd domain.ProductUpdate) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.Emoji != nil {
		p.Emoji = *upd.Emoji
	}
	if upd.Image != nil {
		p.Image = *upd.Image
	}
	if upd.Available != nil {
		p.Available = *upd.Available
	}
	p.UpdatedAt = time.Now()

	cp := *p
	return &cp, nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrProductNotFound
	}

	delete(s.products, id)
	delete(s.seq, id)
	return nil
}

func (s *MemoryStore) CountProducts(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

func (s *MemoryStore) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	if p.Stock < qty {
		return nil, &InsufficientStockError{
			ProductID: id,
			Name:      p.Name,
			Available: p.Stock,
			Requested: qty,
		}
	}

	p.Stock -= qty
	if p.Stock <= 0 {
		p.Stock = 0
		p.Available = false
	}
	p.UpdatedAt = time.Now()

	cp := *p
	return &cp, nil
}

func (s *MemoryStore) RestoreStock(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return ErrProductNotFound
	}

	p.Stock += qty
	p.Available = true
	p.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, o *domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	s.orders[o.ID] = &cp
	s.nextSeq++
	s.seq[o.ID] = s.nextSeq

	return o, nil
}

func (s *MemoryStore) ListOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		cp := *o
		cp.Items = append([]domain.OrderItem(nil), o.Items...)
		orders = append(orders, cp)
	}

	sort.Slice(orders, func(i, j int) bool {
		return s.seq[orders[i].ID] > s.seq[orders[j].ID]
	})

	return orders, nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}

	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}

	o.Status = status

	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (s *MemoryStore) DeleteOrder(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return ErrOrderNotFound
	}

	delete(s.orders, id)
	delete(s.seq, id)
	return nil
}
