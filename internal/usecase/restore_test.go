package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/example/cart-state-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedItem(id string, count int) domain.CartLineItem {
	return domain.CartLineItem{
		ProductID: id,
		Product:   domain.Product{ProductID: id, InStockCount: 100},
		Count:     count,
		Source:    "cache",
	}
}

func TestRestoreEmptySnapshotIsNoop(t *testing.T) {
	repo := &fakeRepo{}
	rec := &recorder{}
	m := newTestMachine(repo, rec, nil)

	st, err := m.Dispatch(context.Background(), domain.RestoreFromCache{})
	require.NoError(t, err)

	assert.True(t, st.Empty())
	assert.Empty(t, repo.saves, "no-op restore must not persist")
	assert.Empty(t, rec.checkouts, "no-op restore must not notify checkout")
}

func TestRestoreUnreadableSnapshotIsNoop(t *testing.T) {
	repo := &fakeRepo{loadErr: errors.New("boom")}
	m := newTestMachine(repo, nil, nil)

	st, err := m.Dispatch(context.Background(), domain.RestoreFromCache{})
	require.NoError(t, err)
	assert.True(t, st.Empty())
	assert.Empty(t, repo.saves)
}

func TestRestoreDegradesGracefullyOnStockCheckFailure(t *testing.T) {
	repo := &fakeRepo{cached: []domain.CartLineItem{cachedItem("p1", 2)}}
	stocks := &fakeStocks{fn: func(context.Context, []domain.StockRequest) ([]domain.StockCorrection, error) {
		return nil, errors.New("stock service down")
	}}
	m := newTestMachine(repo, nil, stocks)

	st, err := m.Dispatch(context.Background(), domain.RestoreFromCache{})
	require.NoError(t, err, "stock-check failure must be swallowed")

	it, ok := st.Item("p1")
	require.True(t, ok)
	assert.Equal(t, 2, it.Count, "cached count kept unadjusted")
	assert.Len(t, repo.saves, 1, "restore is a real transition and persists")
}

func TestRestoreAppliesCorrections(t *testing.T) {
	repo := &fakeRepo{cached: []domain.CartLineItem{cachedItem("p", 2), cachedItem("q", 1)}}
	stocks := &fakeStocks{fn: func(_ context.Context, reqs []domain.StockRequest) ([]domain.StockCorrection, error) {
		require.Len(t, reqs, 2)
		assert.Equal(t, "cache", reqs[0].Source, "requests carry provenance")
		return []domain.StockCorrection{
			{ProductID: "p", AvailableQuantity: 0},
			{ProductID: "q", AvailableQuantity: 5},
		}, nil
	}}
	m := newTestMachine(repo, nil, stocks)

	st, err := m.Dispatch(context.Background(), domain.RestoreFromCache{})
	require.NoError(t, err)

	_, ok := st.Item("p")
	assert.False(t, ok, "zero availability removes the item")
	it, ok := st.Item("q")
	require.True(t, ok)
	assert.Equal(t, 5, it.Count, "count corrected upward")
	assert.Equal(t, 1, st.Len())
}

func TestRestoreSkipsCorrectionsForUnknownProducts(t *testing.T) {
	repo := &fakeRepo{cached: []domain.CartLineItem{cachedItem("p", 2)}}
	stocks := &fakeStocks{fn: func(context.Context, []domain.StockRequest) ([]domain.StockCorrection, error) {
		// full-list response mentioning products outside the snapshot
		return []domain.StockCorrection{
			{ProductID: "other", AvailableQuantity: 9},
			{ProductID: "p", AvailableQuantity: 2},
		}, nil
	}}
	m := newTestMachine(repo, nil, stocks)

	st, err := m.Dispatch(context.Background(), domain.RestoreFromCache{})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())
	_, ok := st.Item("other")
	assert.False(t, ok)
}

func TestRestoreKeepsPriorHint(t *testing.T) {
	repo := &fakeRepo{cached: []domain.CartLineItem{cachedItem("p", 2)}}
	m := newTestMachine(repo, nil, nil)
	ctx := context.Background()

	// decrease sets the hint before restore runs
	_, err := m.Dispatch(ctx, domain.DecreaseCount{Product: product("ghost", 1)})
	require.NoError(t, err)

	st, err := m.Dispatch(ctx, domain.RestoreFromCache{})
	require.NoError(t, err)
	assert.True(t, st.CloseCartScreenHint, "restore leaves the hint as-is")
}

func TestRestoreDiscardedWhenSessionEnds(t *testing.T) {
	repo := &fakeRepo{cached: []domain.CartLineItem{cachedItem("p", 2)}}
	ctx, cancel := context.WithCancel(context.Background())
	stocks := &fakeStocks{fn: func(context.Context, []domain.StockRequest) ([]domain.StockCorrection, error) {
		// the session tears down while the check is in flight
		cancel()
		return []domain.StockCorrection{{ProductID: "p", AvailableQuantity: 5}}, nil
	}}
	m := newTestMachine(repo, nil, stocks)

	_, err := m.Dispatch(ctx, domain.RestoreFromCache{})
	require.Error(t, err)

	assert.True(t, m.State().Empty(), "effects of a cancelled restore must not land")
	assert.Empty(t, repo.saves)
}
