package checkout

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/kittiphat/coffee-pos/internal/cart"
	"github.com/kittiphat/coffee-pos/internal/catalog"
	"github.com/kittiphat/coffee-pos/internal/logger"
	"github.com/kittiphat/coffee-pos/internal/receipt"
	"github.com/kittiphat/coffee-pos/internal/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	espresso = catalog.Product{ID: 1, Name: "Espresso", Price: decimal.NewFromFloat(50.0)}
	latte    = catalog.Product{ID: 2, Name: "Latte", Price: decimal.NewFromFloat(65.0)}
)

func newTestService(t *testing.T, policy receipt.Policy) (*Service, *cart.Cart, *sales.Recorder) {
	t.Helper()
	log := logger.NewWithWriter(&bytes.Buffer{})
	rec, err := sales.NewRecorder(t.TempDir(), log)
	require.NoError(t, err)
	c := cart.New()
	return NewService(c, rec, policy, log), c, rec
}

func money(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestCheckout_NoTaxVariant(t *testing.T) {
	svc, c, rec := newTestService(t, receipt.Policy{TaxRate: decimal.Zero})
	c.Add(espresso)
	c.Add(espresso)
	c.Add(latte)

	require.True(t, svc.AmountDue().Equal(money(165.0)))

	res, err := svc.Checkout(money(200.0))
	require.NoError(t, err)

	assert.True(t, res.Change.Equal(money(35.0)), "change = %s", res.Change)
	assert.True(t, c.IsEmpty(), "checkout must clear the cart")
	assert.True(t, c.Total().IsZero())

	todays := rec.TodaysSales()
	require.Len(t, todays, 1)
	assert.Equal(t, map[string]int{"Espresso": 2, "Latte": 1}, todays[0].Items())
	assert.True(t, todays[0].Total().Equal(money(165.0)))
}

func TestCheckout_TaxInclusiveAmounts(t *testing.T) {
	svc, c, rec := newTestService(t, receipt.DefaultPolicy())
	c.Add(espresso)
	c.Add(espresso)
	c.Add(latte)

	res, err := svc.Checkout(money(200.0))
	require.NoError(t, err)

	// Subtotal 165.00, tax 11.55: due, change and the recorded sale total
	// must all agree on the tax-inclusive figure.
	assert.True(t, res.AmountDue.Equal(money(176.55)), "due = %s", res.AmountDue)
	assert.True(t, res.Change.Equal(money(23.45)), "change = %s", res.Change)
	assert.True(t, rec.TodaysSales()[0].Total().Equal(money(176.55)))
	assert.Contains(t, res.Receipt, "TOTAL: ฿176.55")
	assert.Contains(t, res.Receipt, "Change: ฿23.45")
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	svc, _, rec := newTestService(t, receipt.DefaultPolicy())

	res, err := svc.Checkout(money(100.0))

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, res)
	assert.Empty(t, rec.TodaysSales(), "rejected checkout must not record a sale")

	// Nothing may have been written to the sales log either.
	if _, statErr := os.Stat(rec.DailySalesPath(civil.DateOf(time.Now()))); statErr == nil {
		t.Error("rejected checkout must not touch the sales log")
	}
}

func TestCheckout_InsufficientPaymentRejected(t *testing.T) {
	tests := []struct {
		name     string
		policy   receipt.Policy
		received float64
	}{
		{name: "below subtotal without tax", policy: receipt.Policy{TaxRate: decimal.Zero}, received: 164.99},
		{name: "covers subtotal but not tax", policy: receipt.DefaultPolicy(), received: 165.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, c, rec := newTestService(t, tt.policy)
			c.Add(espresso)
			c.Add(espresso)
			c.Add(latte)

			res, err := svc.Checkout(money(tt.received))

			assert.ErrorIs(t, err, ErrInsufficientPayment)
			assert.Nil(t, res)
			assert.Equal(t, 2, c.Quantity(espresso.ID), "cart must remain unchanged")
			assert.Empty(t, rec.TodaysSales())
		})
	}
}

func TestCheckout_RegeneratesDailySummary(t *testing.T) {
	svc, c, rec := newTestService(t, receipt.Policy{TaxRate: decimal.Zero})
	c.Add(espresso)

	res, err := svc.Checkout(money(50.0))
	require.NoError(t, err)

	content, err := os.ReadFile(rec.SummaryPath(civil.DateOf(res.Sale.Time())))
	require.NoError(t, err)
	assert.Contains(t, string(content), "จำนวนธุรกรรมทั้งหมด: 1 ครั้ง")
}

func TestCheckout_ReceiptMatchesSnapshot(t *testing.T) {
	svc, c, _ := newTestService(t, receipt.DefaultPolicy())
	c.Add(latte)

	res, err := svc.Checkout(money(100.0))
	require.NoError(t, err)

	assert.Contains(t, res.Receipt, "Latte")
	assert.True(t, strings.HasPrefix(res.Receipt, strings.Repeat("=", 50)))
	assert.Contains(t, res.Receipt, "Receipt#: POS-")
}
