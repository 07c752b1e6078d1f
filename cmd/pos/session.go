package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/kittiphat/coffee-pos/internal/cart"
	"github.com/kittiphat/coffee-pos/internal/catalog"
	"github.com/kittiphat/coffee-pos/internal/checkout"
	"github.com/kittiphat/coffee-pos/internal/receipt"
	"github.com/kittiphat/coffee-pos/internal/sales"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// registerSession is one interactive register run: a catalog, a cart and the
// checkout flow, driven line by line from the operator's terminal.
type registerSession struct {
	products []catalog.Product
	byID     map[int]catalog.Product
	cart     *cart.Cart
	recorder *sales.Recorder
	checkout *checkout.Service
	dataDir  string
	out      io.Writer
	log      zerolog.Logger

	lastReceipt string
	lastSale    time.Time
}

func (s *registerSession) run(in io.Reader) {
	fmt.Fprintln(s.out, "Coffee POS register. Type 'help' for commands.")
	printCatalog(s.out, s.products)

	scanner := bufio.NewScanner(in)
	for {
		// The prompt doubles as the register clock; printing it fresh per
		// command is all the refresh a terminal needs.
		fmt.Fprintf(s.out, "\n[%s] pos> ", time.Now().Format("15:04:05"))
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "menu", "catalog":
			printCatalog(s.out, s.products)
		case "add":
			s.handleAdd(arg)
		case "remove":
			s.handleRemove(arg)
		case "cart":
			s.printCart()
		case "pay":
			s.handlePay(arg)
		case "receipt":
			s.handleReceipt()
		case "summary":
			fmt.Fprint(s.out, s.recorder.QuickSummary(civil.DateOf(time.Now())))
		case "report":
			s.handleReport()
		case "paths":
			s.printPaths()
		case "help":
			s.printHelp()
		case "quit", "exit":
			return
		default:
			fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", cmd)
		}
	}
}

func (s *registerSession) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  menu             Show the product catalog")
	fmt.Fprintln(s.out, "  add <id>         Add one unit of a product to the cart")
	fmt.Fprintln(s.out, "  remove <id|name> Take one unit back out of the cart")
	fmt.Fprintln(s.out, "  cart             Show the current cart and amount due")
	fmt.Fprintln(s.out, "  pay <amount>     Complete the sale with the received cash")
	fmt.Fprintln(s.out, "  receipt          Reprint and save the last receipt")
	fmt.Fprintln(s.out, "  summary          Show today's quick sales digest")
	fmt.Fprintln(s.out, "  report           Write and show today's full summary file")
	fmt.Fprintln(s.out, "  paths            Show where today's sales files live")
	fmt.Fprintln(s.out, "  quit             Close the register")
}

func (s *registerSession) printPaths() {
	today := civil.DateOf(time.Now())
	fmt.Fprintf(s.out, "Daily sales log: %s\n", s.recorder.DailySalesPath(today))
	fmt.Fprintf(s.out, "Daily summary:   %s\n", s.recorder.SummaryPath(today))
}

func (s *registerSession) handleAdd(arg string) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(s.out, "Usage: add <product id> (got %q)\n", arg)
		return
	}
	p, ok := s.byID[id]
	if !ok {
		fmt.Fprintf(s.out, "No product with id %d.\n", id)
		return
	}
	s.cart.Add(p)
	fmt.Fprintf(s.out, "Added %s. In cart: %d\n", p.Name, s.cart.Quantity(p.ID))
}

func (s *registerSession) handleRemove(arg string) {
	if arg == "" {
		fmt.Fprintln(s.out, "Usage: remove <product id or name>")
		return
	}

	var err error
	if id, convErr := strconv.Atoi(arg); convErr == nil {
		err = s.cart.RemoveOne(id)
	} else {
		err = s.cart.RemoveOneByName(arg)
	}

	if errors.Is(err, cart.ErrNotInCart) {
		fmt.Fprintf(s.out, "%q is not in the cart.\n", arg)
		return
	}
	fmt.Fprintln(s.out, "Removed one unit.")
}

func (s *registerSession) printCart() {
	if s.cart.IsEmpty() {
		fmt.Fprintln(s.out, "Cart is empty.")
		return
	}
	for _, line := range s.cart.Lines() {
		fmt.Fprintf(s.out, "  %-25s x%-3d %10s\n",
			line.Product.Name, line.Quantity, "฿"+line.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(s.out, "Subtotal: ฿%s\n", s.cart.Total().StringFixed(2))
	fmt.Fprintf(s.out, "Due:      ฿%s\n", s.checkout.AmountDue().StringFixed(2))
}

func (s *registerSession) handlePay(arg string) {
	received, err := decimal.NewFromString(arg)
	if err != nil {
		fmt.Fprintf(s.out, "Usage: pay <amount> (got %q)\n", arg)
		return
	}

	res, err := s.checkout.Checkout(received)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		fmt.Fprintln(s.out, "Cart is empty! Please add some items first.")
		return
	case errors.Is(err, checkout.ErrInsufficientPayment):
		fmt.Fprintf(s.out, "Insufficient cash: %v\n", err)
		return
	case err != nil:
		fmt.Fprintf(s.out, "Checkout failed: %v\n", err)
		return
	}

	s.lastReceipt = res.Receipt
	s.lastSale = res.Sale.Time()

	fmt.Fprintln(s.out, res.Receipt)
	fmt.Fprintf(s.out, "Payment successful. Change: ฿%s\n", res.Change.StringFixed(2))
}

func (s *registerSession) handleReceipt() {
	if s.lastReceipt == "" {
		fmt.Fprintln(s.out, "No recent transaction found to print a receipt for.")
		return
	}
	fmt.Fprintln(s.out, s.lastReceipt)

	path, err := receipt.SaveToFile(s.dataDir, s.lastReceipt, s.lastSale)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to save receipt copy")
		return
	}
	fmt.Fprintf(s.out, "Receipt saved to %s\n", path)
}

func (s *registerSession) handleReport() {
	today := civil.DateOf(time.Now())
	if err := s.recorder.WriteSummary(today); err != nil {
		s.log.Error().Err(err).Msg("Failed to write daily summary")
		return
	}
	content, err := os.ReadFile(s.recorder.SummaryPath(today))
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read generated summary")
		return
	}
	fmt.Fprint(s.out, string(content))
}
