package domain

import (
	"context"
	"time"
)

// CartRepository — port for cart snapshot persistence, keyed by the shopper's
// current delivery-area name. Load returns nil for an unknown key.
type CartRepository interface {
	Save(ctx context.Context, areaKey string, items []CartLineItem) error
	Load(ctx context.Context, areaKey string) ([]CartLineItem, error)
}

// StockRequest — one cached line item translated into a stock-check query.
type StockRequest struct {
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	Source        string `json:"source,omitempty"`
	StoryID       string `json:"story_id,omitempty"`
	SubCategoryID string `json:"sub_category_id,omitempty"`
	CategoryID    string `json:"category_id,omitempty"`
}

// StockChecker — port to the remote stock service. Results are a sparse
// correction overlay; a full list is tolerated. Failures are swallowed by the
// restore path.
type StockChecker interface {
	CheckStocks(ctx context.Context, reqs []StockRequest) ([]StockCorrection, error)
}

// CheckoutInfo — port notified with the full item list after every transition.
type CheckoutInfo interface {
	Update(ctx context.Context, items []CartLineItem) error
}

// PromoCode — port cancelled when the cart is cleared.
type PromoCode interface {
	Cancel(ctx context.Context) error
}

// Cart event kinds emitted to the analytics and marketing ports.
const (
	EventCartCreated = "cart_created"
	EventItemAdded   = "item_added"
	EventItemRemoved = "item_removed"
	EventCartCleared = "cart_cleared"
)

// CartEvent — fire-and-forget milestone carrying line-item and provenance data.
type CartEvent struct {
	EventID       string        `json:"event_id"`
	Kind          string        `json:"kind"`
	Item          *CartLineItem `json:"item,omitempty"`
	SubCategoryID string        `json:"sub_category_id,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// AnalyticsSink — port for analytics event emission; never affects state.
type AnalyticsSink interface {
	Publish(ctx context.Context, ev CartEvent) error
}

// MarketingNotifier — port for marketing milestone emission.
type MarketingNotifier interface {
	Notify(ctx context.Context, ev CartEvent) error
}

// DeliveryLocation — shopper's delivery area as reported by the location
// service. Name doubles as the persistence area key.
type DeliveryLocation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Express bool   `json:"is_express"`
}

// GeoPoint — coordinates attached to a location change.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ShouldClearOnLocationChange reports whether a location change invalidates
// the cart: express-zone inventories are not comparable across locations, so
// only a move between two different express zones clears.
func ShouldClearOnLocationChange(prev, next DeliveryLocation) bool {
	return prev.Express && next.Express && prev.ID != next.ID
}

// LocationSubscriber — port delivering delivery-location changes. Subscribe
// returns a stop handle; the subscription also ends when ctx is done.
type LocationSubscriber interface {
	Subscribe(ctx context.Context, handler func(ctx context.Context, loc DeliveryLocation, geo GeoPoint) error) (stop func(), err error)
}

// Common domain errors
var (
	ErrNotFound   = notFoundError("not found")
	ErrValidation = validationError("invalid data")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }
