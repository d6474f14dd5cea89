package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amrtikande/shoop/internal/domain"
)

func newProduct(t *testing.T, s *MemoryStore, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), &domain.Product{
		Name:      name,
		Price:     price,
		Stock:     stock,
		Available: true,
	})
	require.NoError(t, err)
	return p
}

func TestMemoryStore_CreateAndGetProduct(t *testing.T) {
	s := NewMemoryStore()

	p := newProduct(t, s, "Mangoes", 10, 5)
	assert.False(t, p.ID.IsZero())
	assert.Equal(t, domain.DefaultEmoji, p.Emoji)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mangoes", got.Name)
	assert.Equal(t, 5, got.Stock)
}

func TestMemoryStore_GetProduct_NotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.GetProduct(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_ListProducts_NewestFirst(t *testing.T) {
	s := NewMemoryStore()
	newProduct(t, s, "First", 1, 1)
	newProduct(t, s, "Second", 2, 2)
	newProduct(t, s, "Third", 3, 3)

	products, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Third", products[0].Name)
	assert.Equal(t, "Second", products[1].Name)
	assert.Equal(t, "First", products[2].Name)
}

func TestMemoryStore_UpdateProduct_PartialFields(t *testing.T) {
	s := NewMemoryStore()
	p := newProduct(t, s, "Mangoes", 10, 5)

	newPrice := 12.5
	updated, err := s.UpdateProduct(context.Background(), p.ID, domain.ProductUpdate{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, "Mangoes", updated.Name)
	assert.Equal(t, 5, updated.Stock)
}

func TestMemoryStore_DeleteProduct(t *testing.T) {
	s := NewMemoryStore()
	p := newProduct(t, s, "Mangoes", 10, 5)

	require.NoError(t, s.DeleteProduct(context.Background(), p.ID))

	_, err := s.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	err = s.DeleteProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_DecrementStock(t *testing.T) {
	s := NewMemoryStore()
	p := newProduct(t, s, "Mangoes", 10, 5)

	updated, err := s.DecrementStock(context.Background(), p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)
	assert.True(t, updated.Available)
}

func TestMemoryStore_DecrementStock_Insufficient(t *testing.T) {
	s := NewMemoryStore()
	p := newProduct(t, s, "Mangoes", 10, 2)

	_, err := s.DecrementStock(context.Background(), p.ID, 3)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, "Mangoes", stockErr.Name)

	// A failed decrement must not change anything.
	got, _ := s.GetProduct(context.Background(), p.ID)
	assert.Equal(t, 2, got.Stock)
	assert.True(t, got.Available)
}

func TestMemoryStore_DecrementStock_NotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.DecrementStock(context.Background(), primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_DecrementStock_ZeroFlipsAvailability(t *testing.T) {
	s := NewMemoryStore()
	p := newProduct(t, s, "Mangoes", 10, 2)

	updated, err := s.DecrementStock(context.Background(), p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.False(t, updated.Available)
}

func TestMemoryStore_RestoreStock(t *testing.T) {
	s := NewMemoryStore()
	p := newProduct(t, s, "Mangoes", 10, 2)

	_, err := s.DecrementStock(context.Background(), p.ID, 2)
	require.NoError(t, err)

	require.NoError(t, s.RestoreStock(context.Background(), p.ID, 2))

	got, _ := s.GetProduct(context.Background(), p.ID)
	assert.Equal(t, 2, got.Stock)
	assert.True(t, got.Available)
}

func TestMemoryStore_ConcurrentDecrements(t *testing.T) {
	s := NewMemoryStore()
	p := newProduct(t, s, "Mangoes", 10, 5)

	const workers = 20

	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.DecrementStock(context.Background(), p.ID, 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else {
			var stockErr *InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
		}
	}

	assert.Equal(t, 5, successes)

	final, _ := s.GetProduct(context.Background(), p.ID)
	assert.Equal(t, 0, final.Stock)
	assert.False(t, final.Available)
}

func TestMemoryStore_OrderLifecycle(t *testing.T) {
	s := NewMemoryStore()

	order := &domain.Order{
		Customer: domain.Customer{Name: "Awa Diallo", Phone: "+221770000000", Address: "Dakar"},
		Items: []domain.OrderItem{
			{ProductID: primitive.NewObjectID(), Name: "Mangoes", Price: 10, Quantity: 2},
		},
		Total:         20,
		Status:        domain.StatusPending,
		PaymentMethod: domain.PaymentCashOnDelivery,
	}

	created, err := s.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Total)
	require.Len(t, got.Items, 1)

	updated, err := s.UpdateOrderStatus(context.Background(), created.ID, domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)

	require.NoError(t, s.DeleteOrder(context.Background(), created.ID))

	_, err = s.GetOrder(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	err = s.DeleteOrder(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMemoryStore_ListOrders_NewestFirst(t *testing.T) {
	s := NewMemoryStore()

	for _, total := range []float64{1, 2, 3} {
		_, err := s.CreateOrder(context.Background(), &domain.Order{
			Customer: domain.Customer{Name: "Awa", Phone: "x", Address: "y"},
			Total:    total,
			Status:   domain.StatusPending,
		})
		require.NoError(t, err)
	}

	orders, err := s.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, 3.0, orders[0].Total)
	assert.Equal(t, 1.0, orders[2].Total)
}

func TestMemoryStore_CountProducts(t *testing.T) {
	s := NewMemoryStore()

	count, err := s.CountProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	newProduct(t, s, "A", 1, 1)
	newProduct(t, s, "B", 2, 2)

	count, err = s.CountProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
