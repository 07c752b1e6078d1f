package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kittiphat/coffee-pos/internal/logger"
	"github.com/shopspring/decimal"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing catalog file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantNames []string
		wantWarn  bool
	}{
		{
			name:      "valid rows",
			content:   "id,name,price\n1,Espresso,50.0\n2,Latte,65.0\n",
			wantNames: []string{"Espresso", "Latte"},
		},
		{
			name:      "malformed row skipped",
			content:   "id,name,price\n1,Espresso,50.0\nnot-a-row\n2,Latte,65.0\n",
			wantNames: []string{"Espresso", "Latte"},
			wantWarn:  true,
		},
		{
			name:      "stray quote skipped",
			content:   "id,name,price\n1,\"Espresso\"x,50.0\n2,Latte,65.0\n",
			wantNames: []string{"Latte"},
			wantWarn:  true,
		},
		{
			name:      "unterminated quote skipped",
			content:   "id,name,price\n1,Espresso,50.0\n2,\"Latte,65.0\n",
			wantNames: []string{"Espresso"},
			wantWarn:  true,
		},
		{
			name:      "non-numeric price skipped",
			content:   "id,name,price\n1,Espresso,cheap\n2,Latte,65.0\n",
			wantNames: []string{"Latte"},
			wantWarn:  true,
		},
		{
			name:      "negative price skipped",
			content:   "id,name,price\n1,Espresso,-1.0\n2,Latte,65.0\n",
			wantNames: []string{"Latte"},
			wantWarn:  true,
		},
		{
			name:      "duplicate name skipped",
			content:   "id,name,price\n1,Espresso,50.0\n2,Espresso,55.0\n",
			wantNames: []string{"Espresso"},
			wantWarn:  true,
		},
		{
			name:      "duplicate id skipped",
			content:   "id,name,price\n1,Espresso,50.0\n1,Latte,65.0\n",
			wantNames: []string{"Espresso"},
			wantWarn:  true,
		},
		{
			name:      "header only",
			content:   "id,name,price\n",
			wantNames: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := logger.NewWithWriter(buf)

			products, err := Load(writeCatalogFile(t, tt.content), log)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			var names []string
			for _, p := range products {
				names = append(names, p.Name)
			}
			if len(names) != len(tt.wantNames) {
				t.Fatalf("Load() products = %v, want names %v", names, tt.wantNames)
			}
			for i, want := range tt.wantNames {
				if names[i] != want {
					t.Errorf("product %d name = %q, want %q", i, names[i], want)
				}
			}

			if tt.wantWarn && !strings.Contains(buf.String(), "Skipping") {
				t.Errorf("expected a skip warning in log output, got: %s", buf.String())
			}
		})
	}
}

func TestLoad_SeedsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	log := logger.NewWithWriter(&bytes.Buffer{})

	products, err := Load(path, log)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(products) != 12 {
		t.Fatalf("expected 12 seeded products, got %d", len(products))
	}
	if products[0].Name != "Espresso" || !products[0].Price.Equal(decimal.NewFromFloat(50.0)) {
		t.Errorf("first seeded product = %+v, want Espresso at 50.0", products[0])
	}

	// The seed file must exist on disk after the first load.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected seeded catalog file at %s: %v", path, err)
	}
}

func TestSeed_DoesNotOverwrite(t *testing.T) {
	path := writeCatalogFile(t, "id,name,price\n1,Custom,10.0\n")
	if err := Seed(path); err == nil {
		t.Error("Seed() on an existing file should fail, got nil")
	}
}
