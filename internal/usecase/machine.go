package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/cart-state-service/internal/domain"
	"github.com/example/cart-state-service/pkg/metrics"
	"github.com/google/uuid"
)

// Ports — external collaborators of the state machine. Repo is required for
// restore and persistence; the rest may be nil and are then skipped.
type Ports struct {
	Repo      domain.CartRepository
	Stocks    domain.StockChecker
	Checkout  domain.CheckoutInfo
	Promo     domain.PromoCode
	Analytics domain.AnalyticsSink
	Marketing domain.MarketingNotifier
}

// CartStateMachine — the authoritative cart reducer. Commands are serialized:
// Dispatch holds the machine lock for the whole transition, including the
// awaited stock-check call inside restore, so no two commands interleave.
// Consumers only ever receive value-copied snapshots.
type CartStateMachine struct {
	mu      sync.Mutex
	state   domain.CartState
	areaKey string
	subs    []func(domain.CartState)

	ports   Ports
	metrics *metrics.CartMetrics
}

func NewCartStateMachine(areaKey string, ports Ports, m *metrics.CartMetrics) *CartStateMachine {
	return &CartStateMachine{
		state:   domain.InitialCartState(),
		areaKey: areaKey,
		ports:   ports,
		metrics: m,
	}
}

// State returns the current snapshot.
func (m *CartStateMachine) State() domain.CartState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// AreaKey returns the delivery-area name used as the persistence key.
func (m *CartStateMachine) AreaKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.areaKey
}

// SetAreaKey switches the persistence key when the delivery area changes.
func (m *CartStateMachine) SetAreaKey(name string) {
	if name == "" {
		return
	}
	m.mu.Lock()
	m.areaKey = name
	m.mu.Unlock()
}

// Subscribe registers a snapshot observer, invoked after every transition
// while the machine lock is held; observers must not call back into Dispatch.
func (m *CartStateMachine) Subscribe(fn func(domain.CartState)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

// Dispatch applies one command to completion and returns the new snapshot.
// Every command kind produces exactly one new state, except a restore whose
// persisted snapshot is empty or unreadable (a no-op).
func (m *CartStateMachine) Dispatch(ctx context.Context, cmd domain.CartCommand) (domain.CartState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	next := prev
	changed := true

	switch c := cmd.(type) {
	case domain.AddItem:
		next = m.applyAdd(ctx, prev, c)
	case domain.DecreaseCount:
		next = m.applyDecrease(ctx, prev, c)
	case domain.Adjust:
		next = m.applyAdjust(prev, c)
	case domain.Clear:
		next = m.applyClear(ctx, prev, c)
	case domain.RestoreFromCache:
		next, changed = m.applyRestore(ctx, prev)
	default:
		return prev, fmt.Errorf("dispatch: unknown command %T: %w", cmd, domain.ErrValidation)
	}

	// The session ended while an awaited external call was in flight; the
	// transition's effects must not land on a torn-down state.
	if err := ctx.Err(); err != nil {
		return prev, err
	}
	if !changed {
		return prev, nil
	}

	m.state = next
	m.metrics.CommandProcessed(cmd.Kind())
	m.afterTransition(ctx, next)
	for _, fn := range m.subs {
		fn(next)
	}
	return next, nil
}

// afterTransition keeps downstream checkout totals in sync and persists the
// snapshot. Both calls are fire-and-forget: a failure is logged, never rolled
// back into the state.
func (m *CartStateMachine) afterTransition(ctx context.Context, next domain.CartState) {
	items := next.Items()
	if m.ports.Checkout != nil {
		if err := m.ports.Checkout.Update(ctx, items); err != nil {
			log.Printf("checkout info update: %v", err)
		}
	}
	if m.ports.Repo != nil {
		if err := m.ports.Repo.Save(ctx, m.areaKey, items); err != nil {
			log.Printf("cart save area=%s: %v", m.areaKey, err)
		}
	}
}

func (m *CartStateMachine) emitAnalytics(ctx context.Context, ev domain.CartEvent) {
	if m.ports.Analytics == nil {
		return
	}
	if err := m.ports.Analytics.Publish(ctx, ev); err != nil {
		log.Printf("analytics publish %s: %v", ev.Kind, err)
	}
}

func (m *CartStateMachine) emitMarketing(ctx context.Context, ev domain.CartEvent) {
	if m.ports.Marketing == nil {
		return
	}
	if err := m.ports.Marketing.Notify(ctx, ev); err != nil {
		log.Printf("marketing notify %s: %v", ev.Kind, err)
	}
}

func newCartEvent(kind string, item *domain.CartLineItem, subCategoryID string) domain.CartEvent {
	return domain.CartEvent{
		EventID:       uuid.NewString(),
		Kind:          kind,
		Item:          item,
		SubCategoryID: subCategoryID,
		OccurredAt:    time.Now().UTC(),
	}
}
