package usecase

import (
	"context"
	"log"

	"github.com/example/cart-state-service/internal/domain"
)

// applyAdd adds one unit of the product, capped by its stock. Provenance on an
// existing line item wins over the command's; a brand-new out-of-stock product
// never materializes.
func (m *CartStateMachine) applyAdd(ctx context.Context, prev domain.CartState, c domain.AddItem) domain.CartState {
	wasEmpty := prev.Empty()
	next := prev

	if existing, ok := prev.Item(c.Product.ProductID); ok {
		existing.Product = c.Product
		existing.Count = min(existing.Count+1, c.Product.InStockCount)
		if existing.Count <= 0 {
			next = prev.WithoutItem(c.Product.ProductID)
		} else {
			next = prev.WithItem(existing)
		}
	} else if count := min(1, c.Product.InStockCount); count > 0 {
		next = prev.WithItem(domain.CartLineItem{
			ProductID:     c.Product.ProductID,
			Product:       c.Product,
			Count:         count,
			Source:        c.Source,
			CategoryID:    c.CategoryID,
			SubCategoryID: c.SubCategoryID,
			StoryID:       c.StoryID,
		})
	}

	if li, ok := next.Item(c.Product.ProductID); ok {
		if wasEmpty {
			m.emitAnalytics(ctx, newCartEvent(domain.EventCartCreated, &li, c.SubCategoryID))
		}
		added := newCartEvent(domain.EventItemAdded, &li, c.SubCategoryID)
		m.emitAnalytics(ctx, added)
		m.emitMarketing(ctx, added)
	}
	return next
}

// applyDecrease removes one unit; decreasing an absent product is a no-op on
// membership. The removed-event carries the pre-decrease line item, or a
// zero-count wrapper when the product was never in the cart.
func (m *CartStateMachine) applyDecrease(ctx context.Context, prev domain.CartState, c domain.DecreaseCount) domain.CartState {
	pre, present := prev.Item(c.Product.ProductID)
	if !present {
		pre = domain.CartLineItem{ProductID: c.Product.ProductID, Product: c.Product, Count: 0}
	}

	next := prev
	count := min(pre.Count-1, c.Product.InStockCount)
	if count <= 0 {
		next = prev.WithoutItem(c.Product.ProductID)
	} else {
		updated := pre
		updated.Product = c.Product
		updated.Count = count
		next = prev.WithItem(updated)
	}
	next = next.WithHint(true)

	m.emitAnalytics(ctx, newCartEvent(domain.EventItemRemoved, &pre, pre.SubCategoryID))
	return next
}

// applyAdjust overwrites counts from an authoritative stock snapshot. A
// correction for a product not in the cart is skipped with a diagnostic.
func (m *CartStateMachine) applyAdjust(prev domain.CartState, c domain.Adjust) domain.CartState {
	next := prev
	for _, corr := range c.MissingItems {
		li, ok := next.Item(corr.ProductID)
		if !ok {
			log.Printf("adjust: product %s not in cart, correction skipped", corr.ProductID)
			m.metrics.AdjustSkippedInc()
			continue
		}
		if corr.AvailableQuantity <= 0 {
			next = next.WithoutItem(corr.ProductID)
			continue
		}
		li.Count = corr.AvailableQuantity
		next = next.WithItem(li)
	}
	return next
}

// applyClear empties the cart, cancels any applied promo code and notifies the
// marketing port.
func (m *CartStateMachine) applyClear(ctx context.Context, prev domain.CartState, c domain.Clear) domain.CartState {
	next := prev.Cleared(c.CloseCartScreenHint)

	if m.ports.Promo != nil {
		if err := m.ports.Promo.Cancel(ctx); err != nil {
			log.Printf("promo cancel: %v", err)
		}
	}
	cleared := newCartEvent(domain.EventCartCleared, nil, "")
	m.emitAnalytics(ctx, cleared)
	m.emitMarketing(ctx, cleared)
	return next
}
