package sampleapi

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/intellichain/internal/domain"
)

// Rebalancer proposes store-to-store transfers and warehouse replenishment
// for products at or below their minimum threshold.
type Rebalancer struct {
	SafetyBuffer        float64
	MaxTransferDistance float64
}

func NewRebalancer() *Rebalancer {
	return &Rebalancer{
		SafetyBuffer:        0.2,
		MaxTransferDistance: 50,
	}
}

type shortage struct {
	storeID string
	qty     float64
	urgency float64
}

type surplus struct {
	storeID string
	qty     float64
}

// PriorityScore is shortage × urgency / surplus. An empty surplus is the
// highest possible priority.
func PriorityScore(shortageQty, urgency, surplusQty float64) float64 {
	if surplusQty == 0 {
		return math.MaxFloat64
	}
	return shortageQty * urgency / surplusQty
}

// FindOpportunities matches each shortage with the nearest store holding a
// surplus of the same product within the transfer radius. Results are sorted
// by priority, highest first.
func (r *Rebalancer) FindOpportunities(ds *Dataset) []domain.RebalanceSuggestion {
	groups := make(map[string][]ProductRecord)
	names := make([]string, 0)
	for _, p := range ds.Products {
		if _, ok := groups[p.Name]; !ok {
			names = append(names, p.Name)
		}
		groups[p.Name] = append(groups[p.Name], p)
	}
	sort.Strings(names)

	suggestions := make([]domain.RebalanceSuggestion, 0)
	for _, name := range names {
		var shortages []shortage
		var surpluses []surplus

		for _, p := range groups[name] {
			safetyLevel := float64(p.MinThreshold) * (1 + r.SafetyBuffer)
			current := float64(p.CurrentStock)

			switch {
			case p.CurrentStock <= p.MinThreshold:
				urgency := 2.0
				if current <= float64(p.MinThreshold)*0.5 {
					urgency = 3
				}
				shortages = append(shortages, shortage{storeID: p.StoreID, qty: safetyLevel - current, urgency: urgency})
			case current > safetyLevel:
				surpluses = append(surpluses, surplus{storeID: p.StoreID, qty: current - safetyLevel})
			}
		}

		for _, short := range shortages {
			var best *domain.RebalanceSuggestion
			bestDistance := math.Inf(1)

			for _, sur := range surpluses {
				if sur.storeID == short.storeID {
					continue
				}
				distance := ds.Distance(short.storeID, sur.storeID)
				if distance > r.MaxTransferDistance || distance >= bestDistance {
					continue
				}
				qty := math.Min(short.qty, sur.qty)
				if qty <= 0 {
					continue
				}
				best = &domain.RebalanceSuggestion{
					FromStore:   sur.storeID,
					ToStore:     short.storeID,
					ProductName: name,
					TransferQty: roundTo(qty, 1),
					Distance:    distance,
					Priority:    roundTo(PriorityScore(short.qty, short.urgency, sur.qty), 2),
				}
				bestDistance = distance
			}

			if best != nil {
				suggestions = append(suggestions, *best)
			}
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority > suggestions[j].Priority
	})
	return suggestions
}

// WarehouseOrders proposes a refill up to max capacity, capped by warehouse
// stock, for every product at or below its threshold. High urgency orders
// come first and are delivered in 24 hours, the rest in 48.
func (r *Rebalancer) WarehouseOrders(ds *Dataset, now time.Time) []domain.WarehouseOrder {
	orders := make([]domain.WarehouseOrder, 0)
	for _, p := range ds.Products {
		if p.CurrentStock > p.MinThreshold {
			continue
		}
		item, ok := ds.WarehouseItem(p.Name)
		if !ok || item.AvailableStock <= 0 {
			continue
		}

		qty := min(p.MaxCapacity-p.CurrentStock, item.AvailableStock)

		urgency := "medium"
		delivery := 48 * time.Hour
		if float64(p.CurrentStock) <= float64(p.MinThreshold)*0.5 {
			urgency = "high"
			delivery = 24 * time.Hour
		}

		orders = append(orders, domain.WarehouseOrder{
			StoreID:           p.StoreID,
			ProductName:       p.Name,
			ProductID:         p.ID,
			OrderQty:          float64(qty),
			Urgency:           urgency,
			EstimatedDelivery: now.Add(delivery).Format("2006-01-02T15:04:05"),
			WarehouseLocation: item.WarehouseLocation,
		})
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Urgency == "high" && orders[j].Urgency != "high"
	})
	return orders
}

func roundTo(v float64, places int) float64 {
	if v == math.MaxFloat64 {
		return v
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
