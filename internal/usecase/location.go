package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/example/cart-state-service/internal/domain"
)

// LocationWatcher reacts to delivery-location changes: it keeps the machine's
// persistence area key current and auto-clears the cart when the shopper moves
// between two different express zones.
type LocationWatcher struct {
	Machine *CartStateMachine

	mu   sync.Mutex
	prev domain.DeliveryLocation
	seen bool
}

// Watch subscribes the watcher and returns the subscription stop handle. The
// owning session stores the handle and releases it on teardown.
func (w *LocationWatcher) Watch(ctx context.Context, sub domain.LocationSubscriber) (func(), error) {
	return sub.Subscribe(ctx, w.HandleLocationChange)
}

// HandleLocationChange processes one location callback.
func (w *LocationWatcher) HandleLocationChange(ctx context.Context, loc domain.DeliveryLocation, _ domain.GeoPoint) error {
	w.mu.Lock()
	prev, seen := w.prev, w.seen
	w.prev, w.seen = loc, true
	w.mu.Unlock()

	w.Machine.SetAreaKey(loc.Name)
	if !seen || !domain.ShouldClearOnLocationChange(prev, loc) {
		return nil
	}

	log.Printf("location change %s -> %s: clearing express cart", prev.ID, loc.ID)
	_, err := w.Machine.Dispatch(ctx, domain.Clear{CloseCartScreenHint: true})
	return err
}
