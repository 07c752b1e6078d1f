package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/kittiphat/coffee-pos/internal/cart"
	"github.com/shopspring/decimal"
)

const (
	width = 50

	storeName    = "Coffee POS Store"
	storeAddress = "Nonthaburi, Thailand"
	storePhone   = "Tel: +66 640-297-030"
	storeEmail   = "kittiphat@coffeepos.example"
)

// Number derives the synthetic receipt number printed on a receipt from the
// sale identifier.
func Number(saleID uuid.UUID) string {
	compact := strings.ReplaceAll(saleID.String(), "-", "")
	return "POS-" + strings.ToUpper(compact[:8])
}

// Render formats one completed sale as a fixed-width receipt. It is a pure
// formatting function: the cart snapshot and payment figures go in, text
// comes out, nothing is retained.
func Render(lines []cart.Line, policy Policy, received, change decimal.Decimal, at time.Time, number string) string {
	subtotal := decimal.Zero
	totalItems := 0
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
		totalItems += line.Quantity
	}

	var b strings.Builder
	rule := strings.Repeat("=", width) + "\n"
	thinRule := strings.Repeat("-", width) + "\n"

	b.WriteString(rule)
	b.WriteString(center(storeName) + "\n")
	b.WriteString(center(storeAddress) + "\n")
	b.WriteString(center(storePhone) + "\n")
	b.WriteString(center(storeEmail) + "\n")
	b.WriteString(rule)
	b.WriteString(center("SALES RECEIPT") + "\n")
	b.WriteString(rule)

	fmt.Fprintf(&b, "Date: %s\n", at.Format("02/01/2006 15:04:05"))
	fmt.Fprintf(&b, "Receipt#: %s\n", number)
	b.WriteString(thinRule)

	fmt.Fprintf(&b, "%-20s %5s %8s %12s\n", "Item", "Qty", "Price", "Total")
	b.WriteString(thinRule)
	for _, line := range lines {
		fmt.Fprintf(&b, "%-20s %5d %8s %12s\n",
			truncate(line.Product.Name),
			line.Quantity,
			line.Product.Price.StringFixed(2),
			line.Subtotal().StringFixed(2))
	}
	b.WriteString(thinRule)

	fmt.Fprintf(&b, "Total Items: %d\n", totalItems)
	fmt.Fprintf(&b, "Subtotal: ฿%s\n", subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Tax (%s%%): ฿%s\n", policy.RatePercent(), policy.Tax(subtotal).StringFixed(2))
	fmt.Fprintf(&b, "TOTAL: ฿%s\n", policy.AmountDue(subtotal).StringFixed(2))
	b.WriteString(thinRule)

	fmt.Fprintf(&b, "Cash Received: ฿%s\n", received.StringFixed(2))
	fmt.Fprintf(&b, "Change: ฿%s\n", change.StringFixed(2))
	b.WriteString(rule)

	b.WriteString(center("Thank You for Your Purchase!") + "\n")
	b.WriteString(center("Have a Great Day!") + "\n")
	b.WriteString(center("Visit us again soon!") + "\n")
	b.WriteString(rule)
	b.WriteString(center("** This is a computer generated receipt **") + "\n")
	b.WriteString(center("No signature required") + "\n")

	return b.String()
}

// SaveToFile writes the rendered receipt under dir with a timestamped name
// and returns the full path.
func SaveToFile(dir, content string, at time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("receipt_%s.txt", at.Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("SaveToFile: writing receipt: %w", err)
	}
	return path, nil
}

// truncate shortens names longer than the 20-column item field. Names are
// measured in runes so Thai product names are not cut mid-character.
func truncate(name string) string {
	runes := []rune(name)
	if len(runes) > 20 {
		return string(runes[:17]) + "..."
	}
	return name
}

func center(text string) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}
