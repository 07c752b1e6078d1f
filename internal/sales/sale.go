package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/kittiphat/coffee-pos/internal/cart"
	"github.com/shopspring/decimal"
)

// Sale is an immutable record of one completed checkout. It keeps a
// denormalized name-to-quantity snapshot of what was sold; product ids and
// unit prices are not retained, only the aggregate amounts.
type Sale struct {
	id       uuid.UUID
	at       time.Time
	items    map[string]int
	order    []string // item names in cart display order, for rendering
	total    decimal.Decimal
	received decimal.Decimal
	change   decimal.Decimal
}

// NewSale freezes a snapshot of cart lines plus the payment figures. The
// lines are collapsed into a name-to-quantity mapping; the caller keeps no
// handle into the sale's internals, so clearing the cart afterwards cannot
// touch the record.
func NewSale(lines []cart.Line, total, received, change decimal.Decimal, at time.Time) *Sale {
	s := &Sale{
		id:       uuid.New(),
		at:       at,
		items:    make(map[string]int, len(lines)),
		total:    total,
		received: received,
		change:   change,
	}
	for _, line := range lines {
		if _, ok := s.items[line.Product.Name]; !ok {
			s.order = append(s.order, line.Product.Name)
		}
		s.items[line.Product.Name] += line.Quantity
	}
	return s
}

// ID returns the sale identifier.
func (s *Sale) ID() uuid.UUID { return s.id }

// Time returns the moment the sale was recorded.
func (s *Sale) Time() time.Time { return s.at }

// Items returns a copy of the name-to-quantity snapshot.
func (s *Sale) Items() map[string]int {
	out := make(map[string]int, len(s.items))
	for name, qty := range s.items {
		out[name] = qty
	}
	return out
}

// ItemNames returns the item names in the order they appeared in the cart.
func (s *Sale) ItemNames() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Quantity returns the quantity sold for an item name, zero if absent.
func (s *Sale) Quantity(name string) int { return s.items[name] }

// Total returns the amount charged for the sale.
func (s *Sale) Total() decimal.Decimal { return s.total }

// Received returns the cash handed over by the customer.
func (s *Sale) Received() decimal.Decimal { return s.received }

// Change returns the amount handed back.
func (s *Sale) Change() decimal.Decimal { return s.change }
