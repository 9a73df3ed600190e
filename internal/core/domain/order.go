package domain

import "time"

// LineItem is a snapshot of a menu item at the moment it was added to an
// order. Name and Price are copied on purpose: later catalog edits must not
// rewrite historical orders.
type LineItem struct {
	MenuItemID int
	Name       string
	Price      float64
	Quantity   int
}

// Order is the aggregate root. Items live embedded in a single text column on
// the orders row; TotalPrice and ItemCount are cached derivations maintained
// together with every append.
type Order struct {
	ID           int
	CustomerName string
	CreatedAt    time.Time
	Items        []LineItem
	TotalPrice   float64
	ItemCount    int
}

// ItemsTotal recomputes the price sum from the line items.
func (o Order) ItemsTotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// ItemsCount recomputes the quantity sum from the line items.
func (o Order) ItemsCount() int {
	var n int
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Clone returns a copy whose Items slice does not alias the receiver's.
func (o Order) Clone() Order {
	cp := o
	if o.Items != nil {
		cp.Items = make([]LineItem, len(o.Items))
		copy(cp.Items, o.Items)
	}
	return cp
}
