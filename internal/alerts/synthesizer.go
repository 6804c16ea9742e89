// Package alerts derives low-stock alerts from the product list of a store.
package alerts

import (
	"fmt"
	"time"

	"github.com/andresuchdata/intellichain/internal/domain"
)

// Synthesize emits one low_stock alert per product at or below 50% of capacity.
// Severity is high at or below 25%, medium otherwise. Products with an invalid
// capacity are skipped.
func Synthesize(storeID string, products []domain.Product, now time.Time) []domain.Alert {
	alerts := make([]domain.Alert, 0)
	for _, p := range products {
		pct, err := domain.StockPercentage(p)
		if err != nil || pct > 50 {
			continue
		}

		severity := domain.SeverityMedium
		if pct <= 25 {
			severity = domain.SeverityHigh
		}

		alerts = append(alerts, domain.Alert{
			ID:        "alert-" + p.ID,
			StoreID:   storeID,
			ProductID: p.ID,
			Type:      domain.AlertLowStock,
			Message:   fmt.Sprintf("%s running low - only %d units left", p.Name, p.CurrentStock),
			Severity:  severity,
			Timestamp: domain.NewTimestamp(now),
		})
	}
	return alerts
}

// ApplyAlertCount returns a copy of stores with the alert count of storeID replaced by n.
func ApplyAlertCount(stores []domain.Store, storeID string, n int) []domain.Store {
	out := make([]domain.Store, len(stores))
	copy(out, stores)
	for i := range out {
		if out[i].ID == storeID {
			out[i].AlertCount = n
		}
	}
	return out
}
