package cart

import (
	"errors"

	"github.com/kittiphat/coffee-pos/internal/catalog"
	"github.com/shopspring/decimal"
)

// ErrNotInCart is returned when a removal targets a product that has no line
// in the cart. The cart is left untouched.
var ErrNotInCart = errors.New("product is not in the cart")

// Line is one product-and-quantity pairing in the cart. Quantity is always
// >= 1; a line that would drop to zero is removed instead.
type Line struct {
	Product  catalog.Product
	Quantity int
}

// Subtotal returns unit price times quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the in-progress selection for the current customer. Lines are
// keyed by product id, at most one line per id; display order is the order
// products were first added. Cart is session state for a single operator and
// is not safe for concurrent use.
type Cart struct {
	lines map[int]*Line
	order []int // product ids in first-add order
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[int]*Line)}
}

// Add puts one unit of p into the cart. If a line for p already exists its
// quantity is incremented; otherwise a new line with quantity 1 is appended.
func (c *Cart) Add(p catalog.Product) {
	if line, ok := c.lines[p.ID]; ok {
		line.Quantity++
		return
	}
	c.lines[p.ID] = &Line{Product: p, Quantity: 1}
	c.order = append(c.order, p.ID)
}

// RemoveOne takes one unit of the product with the given id out of the cart.
// A line at quantity 1 is removed entirely. Returns ErrNotInCart if no line
// exists for the id.
func (c *Cart) RemoveOne(id int) error {
	line, ok := c.lines[id]
	if !ok {
		return ErrNotInCart
	}
	if line.Quantity > 1 {
		line.Quantity--
		return nil
	}
	delete(c.lines, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// RemoveOneByName is the display-boundary variant of RemoveOne: the UI knows
// products by name. The catalog loader rejects duplicate names, so the lookup
// is unambiguous.
func (c *Cart) RemoveOneByName(name string) error {
	for id, line := range c.lines {
		if line.Product.Name == name {
			return c.RemoveOne(id)
		}
	}
	return ErrNotInCart
}

// Clear removes all lines at once.
func (c *Cart) Clear() {
	c.lines = make(map[int]*Line)
	c.order = nil
}

// Total returns the sum of line subtotals; zero for an empty cart.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Quantity returns the quantity for the product id, zero if absent.
func (c *Cart) Quantity(id int) int {
	if line, ok := c.lines[id]; ok {
		return line.Quantity
	}
	return 0
}

// Lines returns a copy of the cart lines in display order. Mutating the
// returned slice never affects the cart, and later cart mutations never
// affect a snapshot already taken.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}
