// Command cartctl drives a cart from the terminal. Without credentials it
// works on the guest cart kept in --state; with them it signs in, merges the
// guest cart and works against the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"food-order/cartclient"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

const usage = `usage: cartctl [flags] <command> [args]

commands:
  list
  add <product_id> <name> <price> [quantity]
  inc <line_id>
  dec <line_id>
  rm <line_id>
  clear
  checkout <address>
  logout

flags:
`

func main() {
	apiURL := pflag.String("api", envOr("CARTCTL_API", "http://localhost:5000"), "base URL of the food-order API")
	stateDir := pflag.String("state", envOr("CARTCTL_STATE", ".cartctl"), "directory holding the guest cart")
	email := pflag.String("email", os.Getenv("CARTCTL_EMAIL"), "sign in with this email")
	password := pflag.String("password", os.Getenv("CARTCTL_PASSWORD"), "password for --email")
	timeout := pflag.Duration("timeout", 10*time.Second, "per-request timeout")
	verbose := pflag.BoolP("verbose", "v", false, "log sync activity")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	ctx := context.Background()
	cart := cartclient.New(cartclient.NewFileStore(*stateDir), logger)
	if err := cart.Hydrate(ctx); err != nil {
		fail(err)
	}

	if *email != "" {
		client := cartclient.NewClient(*apiURL, *timeout)
		session, err := client.Login(ctx, *email, *password)
		if err != nil {
			fail(fmt.Errorf("login: %w", err))
		}
		err = cart.Login(ctx, session.UserID, client.WithToken(session.Token))
		switch {
		case errors.Is(err, cartclient.ErrMergeIncomplete) && cart.Authenticated():
			fmt.Fprintln(os.Stderr, "cartctl: warning:", err)
		case err != nil:
			fail(err)
		}
	}

	if err := run(ctx, cart, pflag.Args()); err != nil {
		fail(err)
	}
}

func run(ctx context.Context, cart *cartclient.Cart, args []string) error {
	switch args[0] {
	case "list":
	case "add":
		if len(args) < 4 {
			return fmt.Errorf("add needs <product_id> <name> <price> [quantity]")
		}
		productID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("product id: %w", err)
		}
		price, err := decimal.NewFromString(args[3])
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		quantity := 1
		if len(args) > 4 {
			if quantity, err = strconv.Atoi(args[4]); err != nil {
				return fmt.Errorf("quantity: %w", err)
			}
		}
		item := cartclient.Item{ProductID: productID, ProductName: args[2], Price: price}
		if err := cart.AddItem(ctx, item, quantity); err != nil {
			return err
		}
	case "inc", "dec", "rm":
		if len(args) < 2 {
			return fmt.Errorf("%s needs <line_id>", args[0])
		}
		lineID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("line id: %w", err)
		}
		switch args[0] {
		case "inc":
			err = cart.Increment(ctx, lineID)
		case "dec":
			err = cart.Decrement(ctx, lineID)
		default:
			err = cart.Remove(ctx, lineID)
		}
		if err != nil {
			return err
		}
	case "clear":
		if err := cart.ClearCart(ctx); err != nil {
			return err
		}
	case "checkout":
		if len(args) < 2 {
			return fmt.Errorf("checkout needs <address>")
		}
		order, err := cart.Checkout(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("order %s placed, total %s\n", order.OrderID, order.Total.StringFixed(2))
		return nil
	case "logout":
		return cart.Logout(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}

	printCart(cart)
	return nil
}

func printCart(cart *cartclient.Cart) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tPRODUCT\tNAME\tPRICE\tQTY\tSTATE")
	for _, l := range cart.Snapshot() {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%s\n", l.ID, l.ProductID, l.ProductName, l.Price.StringFixed(2), l.Quantity, l.State)
	}
	w.Flush()

	totals := cart.Totals()
	fmt.Printf("\nitems %d  subtotal %s  tax %s  delivery %s  total %s\n",
		cart.Count(),
		totals.Subtotal.StringFixed(2),
		totals.Tax.StringFixed(2),
		totals.DeliveryFee.StringFixed(2),
		totals.Total.StringFixed(2),
	)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "cartctl:", err)
	os.Exit(1)
}
