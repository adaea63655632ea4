package domain

// CartCommand — tagged command variant fed into the state machine, one
// implementation per kind.
type CartCommand interface {
	// Kind names the command for logs and metrics.
	Kind() string
}

// AddItem — add one unit of a product; provenance describes how it was added.
type AddItem struct {
	Product       Product
	SubCategoryID string
	CategoryID    string
	StoryID       string
	Source        string
}

func (AddItem) Kind() string { return "add" }

// DecreaseCount — remove one unit of a product.
type DecreaseCount struct {
	Product Product
}

func (DecreaseCount) Kind() string { return "decrease" }

// StockCorrection — authoritative available quantity for one product.
type StockCorrection struct {
	ProductID         string `json:"product_id"`
	AvailableQuantity int    `json:"available_quantity"`
}

// Adjust — overwrite counts from a freshly learned stock snapshot.
type Adjust struct {
	MissingItems []StockCorrection
}

func (Adjust) Kind() string { return "adjust" }

// Clear — drop all items and set the UI-close hint.
type Clear struct {
	CloseCartScreenHint bool
}

func (Clear) Kind() string { return "clear" }

// RestoreFromCache — rebuild the cart from the persisted snapshot for the
// current delivery area, reconciled against the stock-check service.
type RestoreFromCache struct{}

func (RestoreFromCache) Kind() string { return "restore" }
