package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a single cart entry. The unit price is frozen when the item is
// added; a later catalog price change never alters an un-checked-out cart.
type LineItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Cart aggregates line items for a single buyer session. It holds at most one
// line item per product id and has exactly one writer, so no locking is needed.
type Cart struct {
	items []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add merges the item into the cart. If a line with the same product id
// already exists its quantity increases and the original frozen price is kept;
// otherwise the item is appended.
func (c *Cart) Add(item LineItem) error {
	if item.ProductID == uuid.Nil {
		return fmt.Errorf("cart: product id required")
	}
	if item.VendorID == uuid.Nil {
		return fmt.Errorf("cart: vendor id required")
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("cart: quantity must be positive")
	}
	if item.UnitPrice.IsNegative() {
		return fmt.Errorf("cart: unit price cannot be negative")
	}

	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.items = append(c.items, item)
	return nil
}

// UpdateQuantity sets the quantity for the product's line item exactly.
// A quantity of zero or less removes the line item.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the product's line item if present; no-op otherwise.
func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Total sums price times quantity over all line items using frozen prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.items {
		line := c.items[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.items[i].Quantity)))
		total = total.Add(line)
	}
	return total
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of distinct line items.
func (c *Cart) Len() int {
	return len(c.items)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}
