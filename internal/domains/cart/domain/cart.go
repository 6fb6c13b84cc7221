package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrItemNotInCart   = errors.New("item is not in the cart")
)

// Item is one (catalog item, quantity) pair in a user's basket.
type Item struct {
	ItemID   string
	Quantity int
}

// Cart is the per-user mutable basket. Exactly one cart exists per user; it is
// emptied on successful order creation.
type Cart struct {
	UserID    string
	Items     []Item
	UpdatedAt time.Time
}

func New(userID string) *Cart {
	return &Cart{UserID: userID, UpdatedAt: time.Now().UTC()}
}

// Add puts an item in the cart. Adding an item already present increments its
// quantity rather than duplicating the line.
func (c *Cart) Add(itemID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			c.Items[i].Quantity += qty
			c.touch()
			return nil
		}
	}
	c.Items = append(c.Items, Item{ItemID: itemID, Quantity: qty})
	c.touch()
	return nil
}

// SetQuantity replaces the quantity of an existing line.
func (c *Cart) SetQuantity(itemID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			c.Items[i].Quantity = qty
			c.touch()
			return nil
		}
	}
	return ErrItemNotInCart
}

// Remove drops a line from the cart.
func (c *Cart) Remove(itemID string) error {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return ErrItemNotInCart
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
