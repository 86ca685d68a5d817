// Command storefront is a terminal walkthrough of the client stack against
// a running backend: browse the catalog, fill a cart, log in and check out.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	storefront "github.com/TechNas12/samruddhi-organic"
	"github.com/TechNas12/samruddhi-organic/catalog"
	"github.com/TechNas12/samruddhi-organic/checkout"
	"github.com/TechNas12/samruddhi-organic/guard"
	"github.com/TechNas12/samruddhi-organic/locations"
	"github.com/TechNas12/samruddhi-organic/rest"
	"github.com/TechNas12/samruddhi-organic/session"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	cfg, err := storefront.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	app, err := storefront.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to build client: %v", err)
	}
	defer app.Close()

	ctx := context.Background()
	app.Bootstrap(ctx)
	if p, ok := app.UserSession.Principal(); ok {
		fmt.Printf("Welcome back, %s\n", p.Name)
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		if err := run(ctx, app, fields); err != nil {
			fmt.Println("error:", rest.Detail(err, err.Error()))
		}
	}
}

func run(ctx context.Context, app *storefront.App, args []string) error {
	switch args[0] {
	case "products":
		products, err := app.Catalog.Products(ctx, catalog.ListOptions{})
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%3d  %-30s ₹%s (stock %d)\n", p.ID, p.Name, p.Price, p.Stock)
		}
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: add <product-id> [qty]")
		}
		id, _ := strconv.ParseInt(args[1], 10, 64)
		qty := 1
		if len(args) > 2 {
			qty, _ = strconv.Atoi(args[2])
		}
		p, err := app.Catalog.Product(ctx, id)
		if err != nil {
			return err
		}
		app.Cart.Add(p.LineItem(qty))
		fmt.Printf("%d items in cart, total ₹%s\n", app.Cart.TotalItems(), app.Cart.TotalPrice())
	case "cart":
		for _, li := range app.Cart.Items() {
			fmt.Printf("%3dx %-30s ₹%s\n", li.Quantity, li.Name, li.Subtotal())
		}
		fmt.Printf("total ₹%s\n", app.Cart.TotalPrice())
	case "login":
		if len(args) < 3 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		if err := app.UserSession.Login(ctx, session.Credentials{Email: args[1], Password: args[2]}); err != nil {
			return err
		}
		p, _ := app.UserSession.Principal()
		fmt.Printf("logged in as %s\n", p.Name)
	case "logout":
		app.UserSession.Logout(ctx)
		fmt.Println("logged out")
	case "states":
		states, err := app.Locations.States(ctx)
		if err != nil {
			return err
		}
		for _, st := range states {
			fmt.Printf("%s  %s\n", st.Code, st.Name)
		}
	case "state":
		if len(args) < 2 {
			return fmt.Errorf("usage: state <code>")
		}
		states, err := app.Locations.States(ctx)
		if err != nil {
			return err
		}
		for _, st := range states {
			if strings.EqualFold(st.Code, args[1]) {
				app.Locations.SelectState(st)
				fmt.Printf("state set to %s\n", st.Name)
				return nil
			}
		}
		return fmt.Errorf("unknown state code %q", args[1])
	case "cities":
		query := ""
		if len(args) > 1 {
			query = args[1]
		}
		sel := app.Locations.Selection()
		if sel.StateCode == "" {
			return fmt.Errorf("select a state first")
		}
		cities, err := locations.NewClient(app.UserAPI).Cities(ctx, sel.StateCode, query, 20)
		if err != nil {
			return err
		}
		for _, c := range cities {
			fmt.Println(c.Name)
		}
	case "checkout":
		d := app.Checkout.Gate()
		switch d.Action {
		case guard.Redirect:
			fmt.Printf("redirect to %s\n", d.Target)
			return nil
		case guard.Wait:
			fmt.Println("session still resolving")
			return nil
		}
		draft := app.Checkout.Draft()
		if len(args) > 1 {
			draft.Notes = strings.Join(args[1:], " ")
		}
		conf, err := app.Checkout.Submit(ctx, draft)
		if err != nil {
			var missing *checkout.MissingFieldsError
			if errors.As(err, &missing) {
				return fmt.Errorf("complete your profile first: %s", strings.Join(missing.Fields, ", "))
			}
			return err
		}
		fmt.Printf("order %s placed, total ₹%s\n", conf.Order.OrderNumber, conf.Order.TotalAmount)
	case "orders":
		list, err := app.Orders.My(ctx)
		if err != nil {
			return err
		}
		for _, o := range list {
			fmt.Printf("%-14s %-10s ₹%s\n", o.OrderNumber, o.Status, o.TotalAmount)
		}
	case "quit", "exit":
		os.Exit(0)
	default:
		fmt.Println("commands: products, add, cart, login, logout, states, state, cities, checkout, orders, quit")
	}
	return nil
}
