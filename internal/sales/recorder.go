package sales

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/kittiphat/coffee-pos/internal/cart"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	dailySalesPrefix = "daily_sales_"
	summaryPrefix    = "sales_summary_"
)

// Recorder owns the in-memory sale records for the session, grouped by
// calendar date, and mirrors each sale to a per-day text log on disk. The
// in-memory list is the source of truth for the session: a failed file append
// is logged and the record still succeeds.
//
// Recorder serves a single operator on a single thread and is not safe for
// concurrent use.
type Recorder struct {
	dir   string
	log   zerolog.Logger
	sales map[civil.Date][]*Sale
	now   func() time.Time
}

// NewRecorder creates a recorder that keeps its files under dir, creating the
// directory if needed.
func NewRecorder(dir string, log zerolog.Logger) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("NewRecorder: creating sales directory: %w", err)
	}
	return &Recorder{
		dir:   dir,
		log:   log,
		sales: make(map[civil.Date][]*Sale),
		now:   time.Now,
	}, nil
}

// Record freezes the given cart snapshot and payment figures into a Sale,
// appends it to the current day's in-memory list, and appends a formatted
// block to the day's sales log file.
func (r *Recorder) Record(lines []cart.Line, total, received, change decimal.Decimal) *Sale {
	at := r.now()
	sale := NewSale(lines, total, received, change, at)

	day := civil.DateOf(at)
	r.sales[day] = append(r.sales[day], sale)

	if err := r.appendToLog(day, sale); err != nil {
		r.log.Error().Err(err).Str("date", day.String()).Msg("Failed to append sale to daily log")
	}
	return sale
}

// appendToLog writes the sale block to the day's log file.
func (r *Recorder) appendToLog(day civil.Date, sale *Sale) error {
	f, err := os.OpenFile(r.DailySalesPath(day), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("appendToLog: opening log file: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "=== การขาย ณ เวลา %s ===\n", sale.Time().Format("15:04:05"))
	b.WriteString("รายการสินค้า:\n")
	for _, name := range sale.ItemNames() {
		fmt.Fprintf(&b, "  - %s จำนวน %d แก้ว\n", name, sale.Quantity(name))
	}
	fmt.Fprintf(&b, "ยอดรวม: ฿%s\n", sale.Total().StringFixed(2))
	fmt.Fprintf(&b, "เงินที่รับ: ฿%s\n", sale.Received().StringFixed(2))
	fmt.Fprintf(&b, "เงินทอน: ฿%s\n", sale.Change().StringFixed(2))
	b.WriteString(strings.Repeat("-", 48) + "\n\n")

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("appendToLog: writing sale block: %w", err)
	}
	return nil
}

// TodaysSales returns a copy of the in-memory list for the current date.
func (r *Recorder) TodaysSales() []*Sale {
	return r.SalesOn(civil.DateOf(r.now()))
}

// SalesOn returns a copy of the in-memory list for a date, never the live
// slice. Dates with no in-memory data yield an empty list; past days are not
// reloaded from disk.
func (r *Recorder) SalesOn(date civil.Date) []*Sale {
	recorded := r.sales[date]
	out := make([]*Sale, len(recorded))
	copy(out, recorded)
	return out
}

// Reset drops the in-memory records for a date. Files on disk are untouched.
func (r *Recorder) Reset(date civil.Date) {
	delete(r.sales, date)
}

// DailySalesPath returns the location of the append-only sales log for a date.
func (r *Recorder) DailySalesPath(date civil.Date) string {
	return filepath.Join(r.dir, dailySalesPrefix+date.String()+".txt")
}

// SummaryPath returns the location of the generated summary file for a date.
func (r *Recorder) SummaryPath(date civil.Date) string {
	return filepath.Join(r.dir, summaryPrefix+date.String()+".txt")
}
