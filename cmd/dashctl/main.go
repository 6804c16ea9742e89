package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/intellichain/internal/client"
	"github.com/andresuchdata/intellichain/internal/config"
	"github.com/andresuchdata/intellichain/pkg/logger"
)

type contextKey string

const clientKey contextKey = "backend-client"

func newBackendFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "backend",
			Usage:   "Inventory backend base URL",
			Value:   "http://localhost:5000",
			EnvVars: []string{"BACKEND_BASE_URL"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Per-request timeout",
			Value:   10 * time.Second,
			EnvVars: []string{"BACKEND_TIMEOUT"},
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print JSON instead of tables",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "warn",
			EnvVars: []string{"LOG_LEVEL"},
		},
	}
}

func initClient(c *cli.Context) error {
	logger.SetLevel(c.String("log-level"))

	cfg := config.BackendConfig{
		BaseURL:        c.String("backend"),
		TimeoutSeconds: int(c.Duration("timeout").Seconds()),
	}
	if cfg.BaseURL == "" {
		return fmt.Errorf("backend URL is required")
	}

	c.Context = context.WithValue(c.Context, clientKey, client.New(cfg))
	return nil
}

func backendFrom(c *cli.Context) (*client.Client, error) {
	if bc, ok := c.Context.Value(clientKey).(*client.Client); ok && bc != nil {
		return bc, nil
	}
	return nil, fmt.Errorf("backend client not initialised")
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "dashctl",
		Usage:  "Inspect store inventory and run emergency rebalancing from the terminal",
		Flags:  newBackendFlags(),
		Before: initClient,
		Commands: []*cli.Command{
			storesCommand(),
			productsCommand(),
			alertsCommand(),
			overviewCommand(),
			emergencyCommand(),
			rebalanceCommand(),
			orderCommand(),
		},
	}
}

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
