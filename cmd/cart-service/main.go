package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"github.com/jcmexdev/foodcart/internal/config"
	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/fulfillment"
	"github.com/jcmexdev/foodcart/internal/pkg/telemetry"
	"github.com/jcmexdev/foodcart/internal/store"
)

func main() {
	telemetry.InitLogger(os.Stderr, os.Getenv("CART_LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "cart-service",
		Usage: "shopping cart and order service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file read before the environment; skipped when missing",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and the fulfillment gRPC endpoint",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply the record store migrations",
				Action: migrateCmd,
			},
			{
				Name:      "seed",
				Usage:     "load restaurants and menu items from a JSON catalog",
				ArgsUsage: "<catalog.json>",
				Action:    seedCmd,
			},
			{
				Name:      "set-status",
				Usage:     "move an order to a new status through the fulfillment endpoint",
				ArgsUsage: "<order-id> <status>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Value:   "localhost:9090",
						EnvVars: []string{"CART_FULFILLMENT_ADDR"},
						Usage:   "fulfillment gRPC address",
					},
				},
				Action: setStatusCmd,
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("cart-service failed", "error", err)
		os.Exit(1)
	}
}

func openStore(c *cli.Context) (*sqlx.DB, error) {
	driver, dsn, err := config.LoadStore(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	db, err := store.Open(c.Context, driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateCmd(c *cli.Context) error {
	db, err := openStore(c)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("migrations applied", "driver", db.DriverName())
	return nil
}

func seedCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: cart-service seed <catalog.json>", 2)
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := openStore(c)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := store.SeedCatalog(c.Context, store.NewCatalogRepository(db), f)
	if err != nil {
		return err
	}
	slog.Info("catalog seeded", "menu_items", n)
	return nil
}

func setStatusCmd(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: cart-service set-status <order-id> <status>", 2)
	}
	status, err := domain.ParseOrderStatus(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	client, err := fulfillment.Dial(c.String("addr"))
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	up, err := client.UpdateOrderStatus(ctx, c.Args().First(), status)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "order %s is now %s\n", up.OrderID, up.Label)
	return nil
}
