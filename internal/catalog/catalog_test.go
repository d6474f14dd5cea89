package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amrtikande/shoop/internal/cache"
	"github.com/amrtikande/shoop/internal/domain"
	"github.com/amrtikande/shoop/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockCache is an in-memory ProductCache with call counters.
type mockCache struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	list     []domain.Product
	hasList  bool

	getCalls        int
	setCalls        int
	invalidateCalls int

	err error // when set, every call fails with it
}

func newMockCache() *mockCache {
	return &mockCache{products: make(map[string]*domain.Product)}
}

func (m *mockCache) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return p, nil
}

func (m *mockCache) SetProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.err != nil {
		return m.err
	}
	m.products[p.ID.Hex()] = p
	return nil
}

func (m *mockCache) GetList(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	if !m.hasList {
		return nil, cache.ErrCacheMiss
	}
	return m.list, nil
}

func (m *mockCache) SetList(_ context.Context, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.err != nil {
		return m.err
	}
	m.list = products
	m.hasList = true
	return nil
}

func (m *mockCache) Invalidate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidateCalls++
	if m.err != nil {
		return m.err
	}
	delete(m.products, id)
	m.list = nil
	m.hasList = false
	return nil
}

// countingStore wraps a CatalogStore counting GetProduct/ListProducts calls.
type countingStore struct {
	store.CatalogStore
	mu        sync.Mutex
	getCalls  int
	listCalls int
}

func (c *countingStore) GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	c.mu.Lock()
	c.getCalls++
	c.mu.Unlock()
	return c.CatalogStore.GetProduct(ctx, id)
}

func (c *countingStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.Lock()
	c.listCalls++
	c.mu.Unlock()
	return c.CatalogStore.ListProducts(ctx)
}

func setupCatalog(t *testing.T) (*Service, *countingStore, *mockCache) {
	t.Helper()
	mem := store.NewMemoryStore()
	counting := &countingStore{CatalogStore: mem}
	mc := newMockCache()
	return NewService(counting, mc, testLogger()), counting, mc
}

func seed(t *testing.T, svc *Service, name string, stock int) *domain.Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), &domain.Product{
		Name:      name,
		Price:     10,
		Stock:     stock,
		Available: true,
	})
	require.NoError(t, err)
	return p
}

func TestGetProduct_PopulatesCacheOnMiss(t *testing.T) {
	svc, counting, mc := setupCatalog(t)
	p := seed(t, svc, "Mangoes", 5)

	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mangoes", got.Name)
	assert.Equal(t, 1, counting.getCalls)
	assert.Equal(t, 1, mc.setCalls)

	// Second read is served from the cache.
	_, err = svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.getCalls)
}

func TestGetProduct_NotFoundNotCached(t *testing.T) {
	svc, _, mc := setupCatalog(t)

	_, err := svc.GetProduct(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, store.ErrProductNotFound)
	assert.Equal(t, 0, mc.setCalls)
}

func TestListProducts_PopulatesCacheOnMiss(t *testing.T) {
	svc, counting, _ := setupCatalog(t)
	seed(t, svc, "Mangoes", 5)
	seed(t, svc, "Tea", 3)

	first, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, counting.listCalls)

	second, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, counting.listCalls)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	svc, counting, _ := setupCatalog(t)
	p := seed(t, svc, "Mangoes", 5)

	_, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)

	newName := "Organic Mangoes"
	_, err = svc.UpdateProduct(context.Background(), p.ID, domain.ProductUpdate{Name: &newName})
	require.NoError(t, err)

	// The stale entry is gone, so the next read goes to the store.
	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Organic Mangoes", got.Name)
	assert.Equal(t, 2, counting.getCalls)
}

func TestDecrementStock_InvalidatesCache(t *testing.T) {
	svc, _, mc := setupCatalog(t)
	p := seed(t, svc, "Mangoes", 5)

	_, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)

	before := mc.invalidateCalls
	_, err = svc.DecrementStock(context.Background(), p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, before+1, mc.invalidateCalls)

	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
}

func TestDecrementStock_FailureDoesNotInvalidate(t *testing.T) {
	svc, _, mc := setupCatalog(t)
	p := seed(t, svc, "Mangoes", 1)

	before := mc.invalidateCalls
	_, err := svc.DecrementStock(context.Background(), p.ID, 5)

	var stockErr *store.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, before, mc.invalidateCalls)
}

func TestRestoreStock_InvalidatesCache(t *testing.T) {
	svc, _, mc := setupCatalog(t)
	p := seed(t, svc, "Mangoes", 5)

	_, err := svc.DecrementStock(context.Background(), p.ID, 5)
	require.NoError(t, err)

	require.NoError(t, svc.RestoreStock(context.Background(), p.ID, 5))

	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	assert.True(t, got.Available)
	assert.GreaterOrEqual(t, mc.invalidateCalls, 2)
}

func TestDeleteProduct_InvalidatesCache(t *testing.T) {
	svc, _, _ := setupCatalog(t)
	p := seed(t, svc, "Mangoes", 5)

	_, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), p.ID))

	_, err = svc.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestCacheFailure_DegradesToStore(t *testing.T) {
	svc, _, mc := setupCatalog(t)
	p := seed(t, svc, "Mangoes", 5)

	mc.err = errors.New("redis: connection refused")

	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mangoes", got.Name)

	list, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNilCache_Passthrough(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := NewService(mem, nil, testLogger())

	p, err := svc.CreateProduct(context.Background(), &domain.Product{Name: "Tea", Price: 2, Stock: 3, Available: true})
	require.NoError(t, err)

	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tea", got.Name)

	_, err = svc.DecrementStock(context.Background(), p.ID, 1)
	require.NoError(t, err)
}
