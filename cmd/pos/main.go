package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/kittiphat/coffee-pos/internal/cart"
	"github.com/kittiphat/coffee-pos/internal/catalog"
	"github.com/kittiphat/coffee-pos/internal/checkout"
	"github.com/kittiphat/coffee-pos/internal/logger"
	"github.com/kittiphat/coffee-pos/internal/receipt"
	"github.com/kittiphat/coffee-pos/internal/sales"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "register":
		runRegister(log)
	case "summary":
		runSummary(log)
	case "catalog":
		runCatalog(log)
	case "paths":
		runPaths(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Coffee POS")
	fmt.Println("\nUsage:")
	fmt.Println("  pos <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  register  Run the interactive register session")
	fmt.Println("  summary   Generate and print the daily summary for a date")
	fmt.Println("  catalog   Print the product catalog (seeding it if missing)")
	fmt.Println("  paths     Print where today's sales files live")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'pos <command> -h' for more information on a command.")
}

// commonFlags registers the flags every subcommand shares.
func commonFlags(fs *flag.FlagSet) (dataDir, catalogPath *string) {
	dataDir = fs.String("data", envOr("POS_DATA_DIR", "sales_data"), "directory for sales logs and summaries (or set POS_DATA_DIR)")
	catalogPath = fs.String("catalog", envOr("POS_CATALOG", "products.csv"), "path to the product catalog CSV (or set POS_CATALOG)")
	return dataDir, catalogPath
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runRegister(log zerolog.Logger) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	dataDir, catalogPath := commonFlags(fs)
	taxRate := fs.Float64("tax", 0.07, "flat tax rate applied on top of the subtotal")
	fs.Parse(os.Args[2:])

	products, err := catalog.Load(*catalogPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load product catalog")
	}
	if len(products) == 0 {
		log.Fatal().Str("path", *catalogPath).Msg("Product catalog is empty")
	}

	recorder, err := sales.NewRecorder(*dataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize sale recorder")
	}

	session := &registerSession{
		products: products,
		byID:     indexByID(products),
		cart:     cart.New(),
		recorder: recorder,
		dataDir:  *dataDir,
		out:      os.Stdout,
		log:      log,
	}
	session.checkout = checkout.NewService(
		session.cart, recorder, receipt.Policy{TaxRate: decimal.NewFromFloat(*taxRate)}, log)

	session.run(os.Stdin)
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	dataDir, _ := commonFlags(fs)
	dateStr := fs.String("date", civil.DateOf(time.Now()).String(), "date to summarize (YYYY-MM-DD)")
	fs.Parse(os.Args[2:])

	date, err := civil.ParseDate(*dateStr)
	if err != nil {
		log.Fatal().Str("date", *dateStr).Msg("Invalid date, expected YYYY-MM-DD")
	}

	recorder, err := sales.NewRecorder(*dataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize sale recorder")
	}

	if err := recorder.WriteSummary(date); err != nil {
		log.Fatal().Err(err).Msg("Failed to write daily summary")
	}

	content, err := os.ReadFile(recorder.SummaryPath(date))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read generated summary")
	}
	fmt.Print(string(content))
}

func runCatalog(log zerolog.Logger) {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	_, catalogPath := commonFlags(fs)
	fs.Parse(os.Args[2:])

	products, err := catalog.Load(*catalogPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load product catalog")
	}

	printCatalog(os.Stdout, products)
}

func runPaths(log zerolog.Logger) {
	fs := flag.NewFlagSet("paths", flag.ExitOnError)
	dataDir, _ := commonFlags(fs)
	fs.Parse(os.Args[2:])

	recorder, err := sales.NewRecorder(*dataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize sale recorder")
	}

	today := civil.DateOf(time.Now())
	fmt.Printf("Daily sales log: %s\n", recorder.DailySalesPath(today))
	fmt.Printf("Daily summary:   %s\n", recorder.SummaryPath(today))
}

func indexByID(products []catalog.Product) map[int]catalog.Product {
	m := make(map[int]catalog.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

func printCatalog(w io.Writer, products []catalog.Product) {
	fmt.Fprintf(w, "%4s  %-25s %10s\n", "ID", "Product", "Price")
	fmt.Fprintln(w, strings.Repeat("-", 43))
	for _, p := range products {
		fmt.Fprintf(w, "%4d  %-25s %10s\n", p.ID, p.Name, "฿"+p.Price.StringFixed(2))
	}
}
