package domain

// Product — catalog reference carried into the cart; InStockCount caps line item counts.
type Product struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name,omitempty"`
	InStockCount int    `json:"in_stock_count"`
}

// CartLineItem — one selected product. Provenance fields are set on the first
// add and never overwritten by later adds of the same product.
type CartLineItem struct {
	ProductID     string  `json:"product_id"`
	Product       Product `json:"product"`
	Count         int     `json:"count"`
	Source        string  `json:"source,omitempty"`
	CategoryID    string  `json:"category_id,omitempty"`
	SubCategoryID string  `json:"sub_category_id,omitempty"`
	StoryID       string  `json:"story_id,omitempty"`
}

// CartState — immutable cart snapshot. Items keep insertion order; every
// With*/Without* call returns a structurally independent copy, so holders of
// an older snapshot never observe later transitions.
type CartState struct {
	items []CartLineItem
	index map[string]int

	// CloseCartScreenHint signals the UI that the cart view may want to close.
	CloseCartScreenHint bool
}

// InitialCartState — empty cart, hint off.
func InitialCartState() CartState {
	return CartState{}
}

func (s CartState) Len() int { return len(s.items) }

func (s CartState) Empty() bool { return len(s.items) == 0 }

// Item returns the line item for productID, if present.
func (s CartState) Item(productID string) (CartLineItem, bool) {
	i, ok := s.index[productID]
	if !ok {
		return CartLineItem{}, false
	}
	return s.items[i], true
}

// Items returns the line items in insertion order. The slice is a copy.
func (s CartState) Items() []CartLineItem {
	out := make([]CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s CartState) clone() CartState {
	next := CartState{
		items:               make([]CartLineItem, len(s.items)),
		index:               make(map[string]int, len(s.index)),
		CloseCartScreenHint: s.CloseCartScreenHint,
	}
	copy(next.items, s.items)
	for k, v := range s.index {
		next.index[k] = v
	}
	return next
}

// WithItem upserts a line item: an existing product keeps its position, a new
// one is appended at the end.
func (s CartState) WithItem(li CartLineItem) CartState {
	next := s.clone()
	if i, ok := next.index[li.ProductID]; ok {
		next.items[i] = li
		return next
	}
	if next.index == nil {
		next.index = make(map[string]int, 1)
	}
	next.index[li.ProductID] = len(next.items)
	next.items = append(next.items, li)
	return next
}

// WithoutItem removes a line item; absent keys are a no-op.
func (s CartState) WithoutItem(productID string) CartState {
	i, ok := s.index[productID]
	if !ok {
		return s
	}
	next := CartState{
		items:               make([]CartLineItem, 0, len(s.items)-1),
		index:               make(map[string]int, len(s.index)-1),
		CloseCartScreenHint: s.CloseCartScreenHint,
	}
	next.items = append(next.items, s.items[:i]...)
	next.items = append(next.items, s.items[i+1:]...)
	for j, li := range next.items {
		next.index[li.ProductID] = j
	}
	return next
}

// WithItems replaces the whole collection (restore path), keeping the hint.
// Duplicate product ids keep the last occurrence's value at the first
// occurrence's position.
func (s CartState) WithItems(items []CartLineItem) CartState {
	next := CartState{CloseCartScreenHint: s.CloseCartScreenHint}
	for _, li := range items {
		next = next.WithItem(li)
	}
	return next
}

// WithHint returns a copy with the UI-close hint set.
func (s CartState) WithHint(hint bool) CartState {
	next := s.clone()
	next.CloseCartScreenHint = hint
	return next
}

// Cleared returns an empty cart with the caller-supplied hint.
func (s CartState) Cleared(hint bool) CartState {
	return CartState{CloseCartScreenHint: hint}
}
