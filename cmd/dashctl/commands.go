package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/intellichain/internal/alerts"
	"github.com/andresuchdata/intellichain/internal/domain"
	"github.com/andresuchdata/intellichain/internal/filter"
)

func storeFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "store", Aliases: []string{"s"}, Usage: "Store ID", Required: true}
}

func storesCommand() *cli.Command {
	return &cli.Command{
		Name:  "stores",
		Usage: "List stores with their alert counts",
		Action: func(c *cli.Context) error {
			bc, err := backendFrom(c)
			if err != nil {
				return err
			}
			stores, err := bc.Stores(c.Context)
			if err != nil {
				return fmt.Errorf("failed to load stores: %w", err)
			}
			return render(c, stores, func(t *table) {
				t.header("ID", "NAME", "LOCATION", "MANAGER", "VALUE", "ALERTS")
				for _, s := range stores {
					t.row(s.ID, s.Name, s.Location, s.Manager, s.TotalValue.StringFixed(2), s.AlertCount)
				}
			})
		},
	}
}

// loadProducts fetches a store's products and drops those with an invalid capacity.
func loadProducts(c *cli.Context, storeID string) ([]domain.Product, error) {
	bc, err := backendFrom(c)
	if err != nil {
		return nil, err
	}
	products, err := bc.StoreProducts(c.Context, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load store data: %w", err)
	}

	valid := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "skipping %s: %v\n", p.ID, err)
			continue
		}
		valid = append(valid, p)
	}
	return valid, nil
}

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "List a store's products, optionally filtered",
		Flags: []cli.Flag{
			storeFlag(),
			&cli.StringFlag{Name: "search", Usage: "Substring of name or category"},
			&cli.StringFlag{Name: "category", Usage: "Exact category"},
			&cli.StringFlag{Name: "status", Usage: "critical, low or good"},
			&cli.StringFlag{Name: "trend", Usage: "increasing, decreasing or stable"},
			&cli.StringFlag{Name: "stock-level", Usage: "high, medium or low"},
			&cli.StringFlag{Name: "holiday-impact", Usage: "high, medium or low"},
			&cli.StringFlag{Name: "last-restocked", Usage: "today, week or month"},
			&cli.StringFlag{Name: "predicted-out", Usage: "3days, week or month"},
		},
		Action: func(c *cli.Context) error {
			opts := domain.FilterOptions{
				Search:        c.String("search"),
				Category:      c.String("category"),
				Status:        c.String("status"),
				Trend:         c.String("trend"),
				StockLevel:    c.String("stock-level"),
				HolidayImpact: c.String("holiday-impact"),
				LastRestocked: c.String("last-restocked"),
				PredictedOut:  c.String("predicted-out"),
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			products, err := loadProducts(c, c.String("store"))
			if err != nil {
				return err
			}

			views := make([]domain.ProductView, 0, len(products))
			for _, p := range filter.Apply(products, opts) {
				views = append(views, domain.NewProductView(p))
			}

			return render(c, views, func(t *table) {
				t.header("ID", "NAME", "CATEGORY", "STOCK", "MIN", "MAX", "PCT", "STATUS", "LEVEL", "TREND", "HOLIDAY")
				for _, v := range views {
					t.row(v.ID, v.Name, v.Category, v.CurrentStock, v.MinThreshold, v.MaxCapacity,
						fmt.Sprintf("%.1f%%", v.StockPercentage), v.Status, v.StockLevelTier, v.Trend,
						fmt.Sprintf("%.1fx", v.HolidayImpact))
				}
			})
		},
	}
}

func alertsCommand() *cli.Command {
	return &cli.Command{
		Name:  "alerts",
		Usage: "Show low-stock alerts derived from a store's products",
		Flags: []cli.Flag{
			storeFlag(),
			&cli.BoolFlag{Name: "server", Usage: "Show the backend's alerts instead"},
		},
		Action: func(c *cli.Context) error {
			storeID := c.String("store")

			var list []domain.Alert
			if c.Bool("server") {
				bc, err := backendFrom(c)
				if err != nil {
					return err
				}
				if list, err = bc.StoreAlerts(c.Context, storeID); err != nil {
					return fmt.Errorf("failed to load store data: %w", err)
				}
			} else {
				products, err := loadProducts(c, storeID)
				if err != nil {
					return err
				}
				list = alerts.Synthesize(storeID, products, time.Now())
			}

			return render(c, list, func(t *table) {
				t.header("ID", "SEVERITY", "MESSAGE")
				for _, a := range list {
					t.row(a.ID, a.Severity, a.Message)
				}
			})
		},
	}
}

func overviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "overview",
		Usage: "Show stock overview for one store, or across all stores",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "store", Aliases: []string{"s"}, Usage: "Store ID (omit for all stores)"},
		},
		Action: func(c *cli.Context) error {
			if storeID := c.String("store"); storeID != "" {
				products, err := loadProducts(c, storeID)
				if err != nil {
					return err
				}
				overview := domain.Summarize(products)
				return render(c, overview, func(t *table) {
					t.header("TOTAL", "LOW", "CRITICAL", "AVG STOCK")
					t.row(overview.TotalProducts, overview.LowStockCount, overview.CriticalStockCount,
						fmt.Sprintf("%.1f%%", overview.AvgStockLevel))
				})
			}

			bc, err := backendFrom(c)
			if err != nil {
				return err
			}
			overview, err := bc.AnalyticsOverview(c.Context)
			if err != nil {
				return fmt.Errorf("failed to load analytics overview: %w", err)
			}
			return render(c, overview, func(t *table) {
				t.header("TOTAL", "LOW", "CRITICAL", "AVG STOCK")
				t.row(overview.TotalProducts, overview.LowStockCount, overview.CriticalStockCount,
					fmt.Sprintf("%.1f%%", overview.AvgStockLevel))
			})
		},
	}
}

func emergencyCommand() *cli.Command {
	return &cli.Command{
		Name:  "emergency",
		Usage: "Show suggested transfers and warehouse orders",
		Action: func(c *cli.Context) error {
			bc, err := backendFrom(c)
			if err != nil {
				return err
			}
			dashboard, err := bc.EmergencyDashboard(c.Context)
			if err != nil {
				return fmt.Errorf("failed to load emergency dashboard: %w", err)
			}

			return render(c, dashboard, func(t *table) {
				t.line("Critical shortages: %d  Pending transfers: %d  Pending warehouse orders: %d",
					dashboard.CriticalShortages, dashboard.PendingTransfers, dashboard.PendingWarehouseOrders)
				t.line("")
				t.header("FROM", "TO", "PRODUCT", "QTY", "DISTANCE", "PRIORITY")
				for _, s := range dashboard.RebalanceSuggestions {
					t.row(s.FromStore, s.ToStore, s.ProductName, s.TransferQty, fmt.Sprintf("%.1fkm", s.Distance), fmt.Sprintf("%.2f", s.Priority))
				}
				t.flush()
				t.line("")
				t.header("STORE", "PRODUCT", "QTY", "URGENCY", "DELIVERY", "WAREHOUSE")
				for _, o := range dashboard.WarehouseOrders {
					t.row(o.StoreID, o.ProductName, o.OrderQty, o.Urgency, o.EstimatedDelivery, o.WarehouseLocation)
				}
			})
		},
	}
}

func rebalanceCommand() *cli.Command {
	return &cli.Command{
		Name:  "rebalance",
		Usage: "Execute a store-to-store transfer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "Source store ID", Required: true},
			&cli.StringFlag{Name: "to", Usage: "Destination store ID", Required: true},
			&cli.StringFlag{Name: "product", Usage: "Product name", Required: true},
			&cli.Float64Flag{Name: "qty", Usage: "Units to transfer", Required: true},
		},
		Action: func(c *cli.Context) error {
			suggestion := domain.RebalanceSuggestion{
				FromStore:   c.String("from"),
				ToStore:     c.String("to"),
				ProductName: c.String("product"),
				TransferQty: c.Float64("qty"),
			}
			if err := suggestion.Validate(); err != nil {
				return err
			}

			bc, err := backendFrom(c)
			if err != nil {
				return err
			}
			result, err := bc.ExecuteRebalance(c.Context, suggestion)
			if err != nil {
				return fmt.Errorf("failed to execute transfer: %w", err)
			}
			return render(c, result, func(t *table) {
				t.line("%s (%s)", result.Message, result.TransferID)
			})
		},
	}
}

func orderCommand() *cli.Command {
	return &cli.Command{
		Name:  "order",
		Usage: "Place a warehouse replenishment order",
		Flags: []cli.Flag{
			storeFlag(),
			&cli.StringFlag{Name: "product", Usage: "Product name", Required: true},
			&cli.StringFlag{Name: "product-id", Usage: "Product ID"},
			&cli.Float64Flag{Name: "qty", Usage: "Units to order", Required: true},
			&cli.StringFlag{Name: "urgency", Usage: "high or medium", Value: "medium"},
		},
		Action: func(c *cli.Context) error {
			order := domain.WarehouseOrder{
				StoreID:     c.String("store"),
				ProductName: c.String("product"),
				ProductID:   c.String("product-id"),
				OrderQty:    c.Float64("qty"),
				Urgency:     c.String("urgency"),
			}
			if err := order.Validate(); err != nil {
				return err
			}

			bc, err := backendFrom(c)
			if err != nil {
				return err
			}
			result, err := bc.PlaceWarehouseOrder(c.Context, order)
			if err != nil {
				return fmt.Errorf("failed to place warehouse order: %w", err)
			}
			return render(c, result, func(t *table) {
				t.line("%s (%s)", result.Message, result.OrderID)
			})
		},
	}
}
