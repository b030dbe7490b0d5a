// internal/cart/cart.go

// Package cart holds a shopper's in-progress basket before checkout turns it
// into an order. A Cart has a single owner and is not safe for concurrent use.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/spicepop/storefront/internal/models"
)

type Item struct {
	ProductID uint         `json:"productId"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	Quantity  int          `json:"quantity"`
	ImageURL  *string      `json:"imageUrl,omitempty"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart keeps lines in insertion order, at most one line per product.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) index(productID uint) int {
	for i, item := range c.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts qty units of item in the cart. An existing line for the same
// product has its quantity increased instead. qty < 1 is treated as 1.
func (c *Cart) Add(item Item, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := c.index(item.ProductID); i >= 0 {
		c.items[i].Quantity += qty
		return
	}
	item.Quantity = qty
	c.items = append(c.items, item)
}

// Remove drops the whole line for productID.
func (c *Cart) Remove(productID uint) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// UpdateQuantity sets the line quantity; zero or less removes the line.
func (c *Cart) UpdateQuantity(productID uint, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.items[i].Quantity = qty
	}
}

// Decrement takes one unit off a line, removing it with the last unit.
func (c *Cart) Decrement(productID uint) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.UpdateQuantity(productID, c.items[i].Quantity-1)
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() models.Money {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return models.NewMoney(total)
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// OrderItems snapshots the cart into order lines.
func (c *Cart) OrderItems() models.OrderItems {
	items := make(models.OrderItems, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return items
}
