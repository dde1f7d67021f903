package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliwe/storefront/internal/models"
)

type fakeCatalog struct {
	products map[int64]models.Product
	err      error
}

func (f *fakeCatalog) FindActiveByIDs(_ context.Context, ids []int64) (map[int64]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]models.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok && p.Status == models.ProductActive {
			out[id] = p
		}
	}
	return out, nil
}

func TestAddIncrementsExistingLine(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(5, 1))
	require.NoError(t, c.Add(5, 2))
	assert.Equal(t, 3, c.Quantity(5))
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Add(5, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(5, -1), ErrInvalidQuantity)
	assert.Equal(t, 0, c.Quantity(5))
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(5, 3))

	c.SetQuantity(5, 0)
	assert.Equal(t, 0, c.Quantity(5))
	assert.NotContains(t, c.Items(), int64(5))

	c.SetQuantity(7, -2)
	assert.NotContains(t, c.Items(), int64(7))
}

func TestSetQuantityReplaces(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(5, 3))
	c.SetQuantity(5, 1)
	assert.Equal(t, 1, c.Quantity(5))
}

func TestRemoveIsNoOpWhenAbsent(t *testing.T) {
	c := New()
	c.Remove(99)
	assert.Equal(t, 0, c.Count())
}

func TestClearAndCount(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(1, 2))
	require.NoError(t, c.Add(2, 3))
	assert.Equal(t, 5, c.Count())

	c.Clear()
	assert.Equal(t, 0, c.Count())
	assert.Empty(t, c.Items())
}

func TestConcurrentAddsAllLand(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Add(1, 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, c.Quantity(1))
}

func TestTotalsFreeShippingBoundaryInclusive(t *testing.T) {
	catalog := &fakeCatalog{products: map[int64]models.Product{
		1: {ID: 1, Name: "Widget", Price: 100, Status: models.ProductActive},
	}}
	c := New()
	require.NoError(t, c.Add(1, 2))

	sum, err := c.Totals(context.Background(), catalog)
	require.NoError(t, err)
	assert.Equal(t, 200.0, sum.Subtotal)
	assert.Equal(t, 0.0, sum.Shipping)
	assert.Equal(t, 200.0, sum.Total)
}

func TestTotalsFlatShippingBelowThreshold(t *testing.T) {
	catalog := &fakeCatalog{products: map[int64]models.Product{
		1: {ID: 1, Name: "Widget", Price: 199.99, Status: models.ProductActive},
	}}
	c := New()
	require.NoError(t, c.Add(1, 1))

	sum, err := c.Totals(context.Background(), catalog)
	require.NoError(t, err)
	assert.Equal(t, 199.99, sum.Subtotal)
	assert.Equal(t, 15.0, sum.Shipping)
	assert.InDelta(t, 214.99, sum.Total, 0.0001)
}

func TestTotalsExcludesMissingAndInactiveProducts(t *testing.T) {
	catalog := &fakeCatalog{products: map[int64]models.Product{
		1: {ID: 1, Name: "Widget", Price: 50, Status: models.ProductActive},
		2: {ID: 2, Name: "Retired", Price: 80, Status: models.ProductInactive},
	}}
	c := New()
	require.NoError(t, c.Add(1, 1))
	require.NoError(t, c.Add(2, 1)) // inactive
	require.NoError(t, c.Add(3, 1)) // missing

	sum, err := c.Totals(context.Background(), catalog)
	require.NoError(t, err)
	require.Len(t, sum.Lines, 1)
	assert.Equal(t, int64(1), sum.Lines[0].Product.ID)
	assert.Equal(t, 50.0, sum.Subtotal)
}

func TestTotalsPropagatesCatalogError(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("catalog down")}
	c := New()
	require.NoError(t, c.Add(1, 1))

	_, err := c.Totals(context.Background(), catalog)
	assert.Error(t, err)
}
