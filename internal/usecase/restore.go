package usecase

import (
	"context"
	"log"

	"github.com/example/cart-state-service/internal/domain"
)

// applyRestore rebuilds the cart from the persisted snapshot for the current
// delivery area, reconciled against the stock service. An empty or unreadable
// snapshot makes the whole command a no-op. A failed stock check is swallowed:
// restoring a usable cart beats failing the restore over a peripheral call.
func (m *CartStateMachine) applyRestore(ctx context.Context, prev domain.CartState) (domain.CartState, bool) {
	if m.ports.Repo == nil {
		return prev, false
	}
	cached, err := m.ports.Repo.Load(ctx, m.areaKey)
	if err != nil {
		log.Printf("restore: load area=%s: %v", m.areaKey, err)
		return prev, false
	}
	if len(cached) == 0 {
		return prev, false
	}

	corrections := m.checkStocks(ctx, cached)

	next := prev.WithItems(cached)
	for _, corr := range corrections {
		li, ok := next.Item(corr.ProductID)
		if !ok {
			// Full-list responses may mention products outside the snapshot.
			continue
		}
		if corr.AvailableQuantity <= 0 {
			next = next.WithoutItem(corr.ProductID)
			continue
		}
		li.Count = corr.AvailableQuantity
		next = next.WithItem(li)
	}
	return next, true
}

// checkStocks translates the cached items into stock requests and queries the
// stock service. Any failure yields no corrections.
func (m *CartStateMachine) checkStocks(ctx context.Context, cached []domain.CartLineItem) []domain.StockCorrection {
	if m.ports.Stocks == nil {
		return nil
	}
	reqs := make([]domain.StockRequest, 0, len(cached))
	for _, li := range cached {
		reqs = append(reqs, domain.StockRequest{
			ProductID:     li.ProductID,
			Quantity:      li.Count,
			Source:        li.Source,
			StoryID:       li.StoryID,
			SubCategoryID: li.SubCategoryID,
			CategoryID:    li.CategoryID,
		})
	}
	corrections, err := m.ports.Stocks.CheckStocks(ctx, reqs)
	if err != nil {
		log.Printf("restore: stock check failed, keeping cached counts: %v", err)
		m.metrics.StockCheckFailed()
		return nil
	}
	return corrections
}
