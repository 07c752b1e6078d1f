package sales

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// topN is how many best sellers the daily report ranks.
const topN = 3

// RankedItem is one (name, quantity) entry of the best-seller ranking.
type RankedItem struct {
	Name     string
	Quantity int
}

// Summary is the recomputed-on-demand aggregate over one day's sales. It is
// derived data: nothing stores a Summary, every request rebuilds it from the
// in-memory sale list.
type Summary struct {
	Date         civil.Date
	Transactions int
	Revenue      decimal.Decimal
	Average      decimal.Decimal // meaningful only when Transactions > 0
	ItemTotals   map[string]int
	Ranked       []RankedItem // all items, quantity descending, then name
	Top          []RankedItem // first min(topN, len(Ranked)) of Ranked
}

// TotalItems returns the number of units sold across all items.
func (s Summary) TotalItems() int {
	n := 0
	for _, qty := range s.ItemTotals {
		n += qty
	}
	return n
}

// Summarize recomputes the daily aggregate for a date from the in-memory
// sale list. Ties in the ranking break lexicographically by name so the
// report is deterministic.
func (r *Recorder) Summarize(date civil.Date) Summary {
	recorded := r.sales[date]

	s := Summary{
		Date:         date,
		Transactions: len(recorded),
		Revenue:      decimal.Zero,
		Average:      decimal.Zero,
		ItemTotals:   make(map[string]int),
	}

	for _, sale := range recorded {
		s.Revenue = s.Revenue.Add(sale.Total())
		for name, qty := range sale.Items() {
			s.ItemTotals[name] += qty
		}
	}

	if s.Transactions > 0 {
		s.Average = s.Revenue.Div(decimal.NewFromInt(int64(s.Transactions)))
	}

	s.Ranked = make([]RankedItem, 0, len(s.ItemTotals))
	for name, qty := range s.ItemTotals {
		s.Ranked = append(s.Ranked, RankedItem{Name: name, Quantity: qty})
	}
	sort.Slice(s.Ranked, func(i, j int) bool {
		if s.Ranked[i].Quantity != s.Ranked[j].Quantity {
			return s.Ranked[i].Quantity > s.Ranked[j].Quantity
		}
		return s.Ranked[i].Name < s.Ranked[j].Name
	})

	if len(s.Ranked) > topN {
		s.Top = s.Ranked[:topN]
	} else {
		s.Top = s.Ranked
	}
	return s
}

// WriteSummary recomputes the daily aggregate and overwrites the day's
// summary file. A date with no sales log on disk gets a minimal "no sales"
// placeholder instead of a computed report.
func (r *Recorder) WriteSummary(date civil.Date) error {
	if _, err := os.Stat(r.DailySalesPath(date)); os.IsNotExist(err) {
		content := renderPlaceholder(date)
		if err := os.WriteFile(r.SummaryPath(date), []byte(content), 0o644); err != nil {
			return fmt.Errorf("WriteSummary: writing placeholder: %w", err)
		}
		return nil
	}

	content := r.renderSummary(r.Summarize(date))
	if err := os.WriteFile(r.SummaryPath(date), []byte(content), 0o644); err != nil {
		return fmt.Errorf("WriteSummary: writing summary file: %w", err)
	}
	return nil
}

// renderPlaceholder is the summary written for days with no sales at all.
func renderPlaceholder(date civil.Date) string {
	var b strings.Builder
	b.WriteString("📊 สรุปยอดขายประจำวัน\n")
	fmt.Fprintf(&b, "วันที่: %s\n", date)
	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString("ไม่มียอดขายในวันนี้\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	return b.String()
}

// renderSummary formats the full multi-section daily report.
func (r *Recorder) renderSummary(s Summary) string {
	var b strings.Builder

	b.WriteString("📊 สรุปยอดขายประจำวัน\n")
	fmt.Fprintf(&b, "วันที่: %s\n", s.Date)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("📈 ภาพรวมการขาย:\n")
	fmt.Fprintf(&b, "  จำนวนธุรกรรมทั้งหมด: %d ครั้ง\n", s.Transactions)
	fmt.Fprintf(&b, "  รายได้รวม: ฿%s\n", s.Revenue.StringFixed(2))
	if s.Transactions > 0 {
		fmt.Fprintf(&b, "  ยอดขายเฉลี่ยต่อธุรกรรม: ฿%s\n", s.Average.StringFixed(2))
	}
	b.WriteString("\n")

	b.WriteString("☕ รายการสินค้าที่ขายได้:\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	if len(s.Ranked) == 0 {
		b.WriteString("  ไม่มีสินค้าที่ขายได้ในวันนี้\n")
	} else {
		for _, item := range s.Ranked {
			fmt.Fprintf(&b, "  %-25s %3d แก้ว\n", item.Name, item.Quantity)
		}
		b.WriteString(strings.Repeat("-", 40) + "\n")
		fmt.Fprintf(&b, "  %-25s %3d แก้ว\n", "รวมทั้งหมด:", s.TotalItems())
	}
	b.WriteString("\n")

	b.WriteString("🏆 สินค้าขายดี TOP 3:\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	for _, item := range s.Top {
		fmt.Fprintf(&b, "  %s (%d แก้ว)\n", item.Name, item.Quantity)
	}
	b.WriteString("\n")

	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "📄 รายงานสร้างเมื่อ: %s\n", r.now().Format("2006-01-02 15:04:05"))

	return b.String()
}

// QuickSummary renders the short digest shown on the register terminal:
// revenue, transaction count and the medal-ranked top sellers.
func (r *Recorder) QuickSummary(date civil.Date) string {
	s := r.Summarize(date)

	if s.Transactions == 0 {
		return "🚫 ยังไม่มียอดขายในวันนี้\n"
	}

	medals := []string{"🥇", "🥈", "🥉"}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 สรุปยอดขาย %s\n", date)
	fmt.Fprintf(&b, "💰 ยอดขายรวม: ฿%s (จากธุรกรรม %d ครั้ง)\n", s.Revenue.StringFixed(2), s.Transactions)
	b.WriteString("🏆 สินค้าขายดี TOP 3:\n")
	for i, item := range s.Top {
		fmt.Fprintf(&b, "  %s %s (%d แก้ว)\n", medals[i], item.Name, item.Quantity)
	}
	return b.String()
}
