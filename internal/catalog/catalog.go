package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Product is one entry of the product catalog. Products are read once at
// session start and never mutated afterwards.
type Product struct {
	ID    int
	Name  string
	Price decimal.Decimal
}

// defaultCatalog is written to disk when no catalog file exists yet, so a
// fresh install starts with a sellable menu.
var defaultCatalog = []Product{
	{ID: 1, Name: "Espresso", Price: decimal.NewFromFloat(50.0)},
	{ID: 2, Name: "Latte", Price: decimal.NewFromFloat(65.0)},
	{ID: 3, Name: "Cappuccino", Price: decimal.NewFromFloat(70.0)},
	{ID: 4, Name: "Cappuccino Freddo", Price: decimal.NewFromFloat(75.0)},
	{ID: 5, Name: "Americano", Price: decimal.NewFromFloat(45.0)},
	{ID: 6, Name: "Mocha", Price: decimal.NewFromFloat(80.0)},
	{ID: 7, Name: "Macchiato", Price: decimal.NewFromFloat(70.0)},
	{ID: 8, Name: "Flat White", Price: decimal.NewFromFloat(70.0)},
	{ID: 9, Name: "Croissant", Price: decimal.NewFromFloat(45.0)},
	{ID: 10, Name: "Danish Pastry", Price: decimal.NewFromFloat(55.0)},
	{ID: 11, Name: "Muffin", Price: decimal.NewFromFloat(40.0)},
	{ID: 12, Name: "Donut", Price: decimal.NewFromFloat(35.0)},
}

// Load reads the product catalog from path, seeding the default catalog first
// if the file does not exist. Malformed rows are skipped with a warning; a row
// whose display name duplicates an earlier row is skipped too, so that
// name-based cart removal stays unambiguous.
func Load(path string, log zerolog.Logger) ([]Product, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Seed(path); err != nil {
			return nil, fmt.Errorf("Load: seeding default catalog: %w", err)
		}
		log.Info().Str("path", path).Msg("Catalog file not found, wrote default catalog")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Load: opening catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row arity is validated per row below

	// Skip the header line.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("Load: reading header: %w", err)
	}

	var products []Product
	seenIDs := make(map[int]bool)
	seenNames := make(map[string]bool)

	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warn().Int("line", parseErr.Line).Err(err).Msg("Skipping unparseable catalog row")
				continue
			}
			return nil, fmt.Errorf("Load: reading row %d: %w", line, err)
		}

		p, err := parseRow(record)
		if err != nil {
			log.Warn().Int("line", line).Err(err).Msg("Skipping malformed catalog row")
			continue
		}
		if seenIDs[p.ID] {
			log.Warn().Int("line", line).Int("id", p.ID).Msg("Skipping catalog row with duplicate id")
			continue
		}
		if seenNames[p.Name] {
			log.Warn().Int("line", line).Str("name", p.Name).Msg("Skipping catalog row with duplicate name")
			continue
		}

		seenIDs[p.ID] = true
		seenNames[p.Name] = true
		products = append(products, p)
	}

	return products, nil
}

// parseRow converts one CSV record into a Product.
func parseRow(record []string) (Product, error) {
	if len(record) != 3 {
		return Product{}, fmt.Errorf("expected 3 fields, got %d", len(record))
	}

	id, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return Product{}, fmt.Errorf("invalid id %q: %w", record[0], err)
	}

	name := strings.TrimSpace(record[1])
	if name == "" {
		return Product{}, fmt.Errorf("empty product name")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return Product{}, fmt.Errorf("invalid price %q: %w", record[2], err)
	}
	if price.IsNegative() {
		return Product{}, fmt.Errorf("negative price %s", price)
	}

	return Product{ID: id, Name: name, Price: price}, nil
}

// Seed writes the default catalog to path, overwriting nothing that exists.
func Seed(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("Seed: creating catalog file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "name", "price"}); err != nil {
		return fmt.Errorf("Seed: writing header: %w", err)
	}
	for _, p := range defaultCatalog {
		row := []string{strconv.Itoa(p.ID), p.Name, p.Price.StringFixed(1)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("Seed: writing row for %q: %w", p.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("Seed: flushing catalog file: %w", err)
	}
	return nil
}
