package models

import (
	"github.com/shopspring/decimal"
)

type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps at most one line per product and never holds a line with
// quantity below one.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem increments the line for p or appends a new line with quantity 1
// and p's current price. Products without a positive price are rejected.
func (c *Cart) AddItem(p Product) error {
	if !p.Price.IsPositive() {
		return NewError(ErrValidation, "product \""+p.Name+"\" has no price")
	}
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return nil
	}
	c.lines = append(c.lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	})
	return nil
}

func (c *Cart) IncrementItem(productID int64) {
	if i := c.index(productID); i >= 0 {
		c.lines[i].Quantity++
	}
}

// DecrementItem lowers the quantity by one and drops the line at zero.
func (c *Cart) DecrementItem(productID int64) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	if c.lines[i].Quantity <= 1 {
		c.RemoveItem(productID)
		return
	}
	c.lines[i].Quantity--
}

func (c *Cart) RemoveItem(productID int64) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Quantity(productID int64) int {
	if i := c.index(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) index(productID int64) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

type CartView struct {
	Lines     []CartLine      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

func (c *Cart) View() CartView {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return CartView{Lines: c.Lines(), ItemCount: count, Total: c.Total()}
}
