// Package cart implements the storefront shopping cart: an ordered list of
// product line items with derived totals, persisted per browser session.
package cart

import (
	"github.com/pkg/errors"

	"github.com/talkincode/pedeai/internal/domain"
)

var ErrInvalidQuantity = errors.New("cart: quantity must be a positive integer")

// LineItem pairs a product with a quantity. Quantity is always positive; a
// line that would drop to zero is removed from the cart instead.
type LineItem struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart is an ordered collection of line items, at most one per product id.
// Insertion order is display order. Transitions are pure: they return a new
// Cart and never mutate the receiver, so persistence stays a separate,
// testable concern.
type Cart struct {
	Items []LineItem `json:"items"`
}

func (c Cart) clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// Find returns the line item for a product id, if present.
func (c Cart) Find(productID int64) (LineItem, bool) {
	for _, item := range c.Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

// AddItem merges quantity into an existing line for the same product, or
// appends a new line. Quantity must be positive.
func (c Cart) AddItem(product domain.Product, quantity int) (Cart, error) {
	if quantity <= 0 {
		return c, ErrInvalidQuantity
	}
	next := c.clone()
	for i := range next.Items {
		if next.Items[i].Product.ID == product.ID {
			next.Items[i].Quantity += quantity
			return next, nil
		}
	}
	next.Items = append(next.Items, LineItem{Product: product, Quantity: quantity})
	return next, nil
}

// RemoveItem drops the line for a product id. Removing an absent product is
// a no-op, not an error.
func (c Cart) RemoveItem(productID int64) Cart {
	next := Cart{Items: make([]LineItem, 0, len(c.Items))}
	for _, item := range c.Items {
		if item.Product.ID != productID {
			next.Items = append(next.Items, item)
		}
	}
	return next
}

// UpdateItemQuantity replaces the quantity of an existing line. A quantity
// of zero or less removes the line; the zero-line invariant lives here so
// callers never have to special-case deletion.
func (c Cart) UpdateItemQuantity(productID int64, quantity int) Cart {
	if quantity <= 0 {
		return c.RemoveItem(productID)
	}
	next := c.clone()
	for i := range next.Items {
		if next.Items[i].Product.ID == productID {
			next.Items[i].Quantity = quantity
			break
		}
	}
	return next
}

// Clear empties the cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

// TotalPrice recomputes the cart total from current lines.
func (c Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// TotalCount recomputes the summed item quantity.
func (c Cart) TotalCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
