// Package checkout implements the order placement workflow: validate stock
// for every line item, persist the order, then decrement stock per item with
// compensating rollback if a decrement loses a concurrent race.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amrtikande/shoop/internal/domain"
	"github.com/amrtikande/shoop/internal/store"
)

type Service struct {
	catalog  store.CatalogStore
	orders   store.OrderStore
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(catalog store.CatalogStore, orders store.OrderStore, logger *slog.Logger) *Service {
	return &Service{
		catalog:  catalog,
		orders:   orders,
		validate: validator.New(),
		logger:   logger,
	}
}

// PlaceOrder runs the two-phase placement flow. The validation phase is a
// read-only pre-check over every line item; the commit phase persists the
// order and applies stock decrements. The store's conditional decrement is
// the authority on "never go negative" — if an item loses the race after the
// pre-check passed, the whole commit rolls back and the caller sees the same
// insufficient-stock error the pre-check would have produced.
func (s *Service) PlaceOrder(ctx context.Context, cart *domain.Cart) (*domain.Order, error) {
	products, err := s.validateCart(ctx, cart)
	if err != nil {
		return nil, err
	}

	order := buildOrder(cart, products)

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		// No decrement has happened yet; products are untouched.
		return nil, &StorageError{Op: "create order", Err: err}
	}

	if err := s.decrementAll(ctx, created); err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		slog.String("order_id", created.ID.Hex()),
		slog.Int("items", len(created.Items)),
		slog.Float64("total", created.Total))

	return created, nil
}

// validateCart checks the whole cart before any mutation. Calling it twice in
// a row never changes state.
func (s *Service) validateCart(ctx context.Context, cart *domain.Cart) (map[primitive.ObjectID]*domain.Product, error) {
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ValidationError{Reason: "order must contain at least one item"}
	}
	if err := s.validate.Struct(cart); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	products := make(map[primitive.ObjectID]*domain.Product, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				return nil, &NotFoundError{ProductID: item.ProductID, Name: item.Name}
			}
			return nil, &StorageError{Op: "fetch product", Err: err}
		}

		if product.Stock < item.Quantity {
			return nil, &store.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Available: product.Stock,
				Requested: item.Quantity,
			}
		}

		products[item.ProductID] = product
	}

	return products, nil
}

// buildOrder snapshots name, price and display metadata from the live
// products so later catalog edits never rewrite order history. Client-sent
// values only fill fields the product record lacks.
func buildOrder(cart *domain.Cart, products map[primitive.ObjectID]*domain.Product) *domain.Order {
	items := make([]domain.OrderItem, 0, len(cart.Items))
	total := 0.0

	for _, line := range cart.Items {
		product := products[line.ProductID]

		item := domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Emoji:     product.Emoji,
			Image:     product.Image,
		}
		if item.Emoji == "" {
			item.Emoji = line.Emoji
		}
		if item.Image == "" {
			item.Image = line.Image
		}

		items = append(items, item)
		total += item.Price * float64(line.Quantity)
	}

	return &domain.Order{
		Customer:      cart.Customer,
		Items:         items,
		Total:         total,
		Status:        domain.StatusPending,
		PaymentMethod: domain.PaymentCashOnDelivery,
		CreatedAt:     time.Now(),
	}
}

// decrementAll applies the stock decrement for every line of a persisted
// order. On the first failure it restores every decrement already applied,
// deletes the order, and surfaces the cause.
func (s *Service) decrementAll(ctx context.Context, order *domain.Order) error {
	applied := make([]domain.OrderItem, 0, len(order.Items))

	for _, item := range order.Items {
		_, err := s.catalog.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err == nil {
			applied = append(applied, item)
			continue
		}

		s.rollback(ctx, order, applied)

		var stockErr *store.InsufficientStockError
		if errors.As(err, &stockErr) {
			return stockErr
		}
		if errors.Is(err, store.ErrProductNotFound) {
			return &NotFoundError{ProductID: item.ProductID, Name: item.Name}
		}
		return &StorageError{Op: "decrement stock", Err: err}
	}

	return nil
}

func (s *Service) rollback(ctx context.Context, order *domain.Order, applied []domain.OrderItem) {
	for _, item := range applied {
		if err := s.catalog.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("failed to restore stock during rollback",
				slog.String("order_id", order.ID.Hex()),
				slog.String("product_id", item.ProductID.Hex()),
				slog.Int("quantity", item.Quantity),
				slog.String("error", err.Error()))
		}
	}

	if err := s.orders.DeleteOrder(ctx, order.ID); err != nil {
		s.logger.Error("failed to delete order during rollback",
			slog.String("order_id", order.ID.Hex()),
			slog.String("error", err.Error()))
	}
}
