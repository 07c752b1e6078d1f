package checkout

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/kittiphat/coffee-pos/internal/cart"
	"github.com/kittiphat/coffee-pos/internal/receipt"
	"github.com/kittiphat/coffee-pos/internal/sales"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with nothing in
	// the cart. No sale is recorded and nothing is written.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientPayment is returned when the received cash does not
	// cover the amount due. The cart is left unchanged and no change is
	// computed.
	ErrInsufficientPayment = errors.New("received amount is less than the amount due")
)

// Recorder is the slice of the sale recorder checkout needs.
type Recorder interface {
	Record(lines []cart.Line, total, received, change decimal.Decimal) *sales.Sale
	WriteSummary(date civil.Date) error
}

var _ Recorder = (*sales.Recorder)(nil)

// Service runs the checkout flow for one register: validate the payment,
// freeze the sale, regenerate the day's summary, clear the cart and render
// the receipt.
type Service struct {
	cart     *cart.Cart
	recorder Recorder
	policy   receipt.Policy
	log      zerolog.Logger
}

// NewService wires a checkout service over the session cart and recorder.
func NewService(c *cart.Cart, rec Recorder, policy receipt.Policy, log zerolog.Logger) *Service {
	return &Service{cart: c, recorder: rec, policy: policy, log: log}
}

// Result is what one completed checkout hands back to the register.
type Result struct {
	Sale      *sales.Sale
	Receipt   string
	AmountDue decimal.Decimal
	Change    decimal.Decimal
}

// AmountDue returns the tax-inclusive amount the current cart costs. This is
// the figure payment is validated against.
func (s *Service) AmountDue() decimal.Decimal {
	return s.policy.AmountDue(s.cart.Total())
}

// Checkout completes the sale for the current cart against the received cash.
// On success the sale is recorded, the day's summary file is regenerated, the
// cart is cleared in one step and the rendered receipt is returned. On any
// validation error the cart and the sales log are untouched.
func (s *Service) Checkout(received decimal.Decimal) (*Result, error) {
	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	due := s.AmountDue()
	if received.LessThan(due) {
		return nil, fmt.Errorf("%w: received ฿%s, due ฿%s",
			ErrInsufficientPayment, received.StringFixed(2), due.StringFixed(2))
	}
	change := received.Sub(due)

	lines := s.cart.Lines()
	sale := s.recorder.Record(lines, due, received, change)

	// The summary file is a best-effort mirror, like the sales log: a write
	// failure must not undo a sale that already happened.
	if err := s.recorder.WriteSummary(civil.DateOf(sale.Time())); err != nil {
		s.log.Error().Err(err).Msg("Failed to regenerate daily summary after sale")
	}

	s.cart.Clear()

	content := receipt.Render(lines, s.policy, received, change, sale.Time(), receipt.Number(sale.ID()))
	return &Result{Sale: sale, Receipt: content, AmountDue: due, Change: change}, nil
}
