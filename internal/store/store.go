package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amrtikande/shoop/internal/domain"
)

// Common errors returned by the stores
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// InsufficientStockError reports a stock check or conditional decrement that
// failed because fewer units were available than requested.
type InsufficientStockError struct {
	ProductID primitive.ObjectID
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d",
		e.Name, e.Available, e.Requested)
}

// CatalogStore defines product storage operations.
type CatalogStore interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)

	// ListProducts returns all products, newest first.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, upd domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	CountProducts(ctx context.Context) (int64, error)

	// DecrementStock subtracts qty from the product's stock in one indivisible
	// step, only if the current stock covers it. Stock reaching zero flips
	// available to false. Returns *InsufficientStockError when the product
	// lost the race, so correctness never depends on a caller's earlier read.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*domain.Product, error)

	// RestoreStock is the compensating increment for a rolled-back order. It
	// re-enables availability.
	RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// OrderStore defines order storage operations.
type OrderStore interface {
	// CreateOrder persists the order and assigns its identifier.
	CreateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error)

	// ListOrders returns all orders, newest first.
	ListOrders(ctx context.Context) ([]domain.Order, error)

	GetOrder(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) error
}

// Pinger is implemented by stores backed by a remote database.
type Pinger interface {
	Ping(ctx context.Context) error
}
