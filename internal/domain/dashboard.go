package domain

import (
	"fmt"
	"math"
	"strings"
)

// FilterOptions holds the dashboard filters. An empty field means no constraint.
type FilterOptions struct {
	Search        string `json:"search" form:"search"`
	Category      string `json:"category" form:"category"`
	Status        string `json:"status" form:"status"`
	Trend         string `json:"trend" form:"trend"`
	StockLevel    string `json:"stockLevel" form:"stockLevel"`
	HolidayImpact string `json:"holidayImpact" form:"holidayImpact"`
	LastRestocked string `json:"lastRestocked" form:"lastRestocked"`
	PredictedOut  string `json:"predictedOut" form:"predictedOut"`
}

// Restock windows look back from now; predicted-out windows look ahead.
var restockWindows = map[string]struct{}{"today": {}, "week": {}, "month": {}}
var predictedOutWindows = map[string]struct{}{"3days": {}, "week": {}, "month": {}}

func (f FilterOptions) IsEmpty() bool {
	return f == FilterOptions{}
}

// Validate rejects tier and window values the filter engine would silently ignore.
func (f FilterOptions) Validate() error {
	if f.Status != "" {
		if _, ok := ParseStatusTier(f.Status); !ok {
			return fmt.Errorf("%w: status %q", ErrInvalidFilter, f.Status)
		}
	}
	if f.Trend != "" {
		if _, ok := ParseTrend(f.Trend); !ok {
			return fmt.Errorf("%w: trend %q", ErrInvalidFilter, f.Trend)
		}
	}
	if f.StockLevel != "" {
		if _, ok := ParseStockLevelTier(f.StockLevel); !ok {
			return fmt.Errorf("%w: stockLevel %q", ErrInvalidFilter, f.StockLevel)
		}
	}
	if f.HolidayImpact != "" {
		if _, ok := ParseHolidayImpactTier(f.HolidayImpact); !ok {
			return fmt.Errorf("%w: holidayImpact %q", ErrInvalidFilter, f.HolidayImpact)
		}
	}
	if f.LastRestocked != "" {
		if _, ok := restockWindows[strings.ToLower(f.LastRestocked)]; !ok {
			return fmt.Errorf("%w: lastRestocked %q", ErrInvalidFilter, f.LastRestocked)
		}
	}
	if f.PredictedOut != "" {
		if _, ok := predictedOutWindows[strings.ToLower(f.PredictedOut)]; !ok {
			return fmt.Errorf("%w: predictedOut %q", ErrInvalidFilter, f.PredictedOut)
		}
	}
	return nil
}

// InventoryOverview represents the counter cards above the product table
type InventoryOverview struct {
	TotalProducts      int     `json:"total_products"`
	LowStockCount      int     `json:"low_stock_count"`
	CriticalStockCount int     `json:"critical_stock_count"`
	AvgStockLevel      float64 `json:"avg_stock_level"`
}

// Summarize computes the overview for a product list. Products with an invalid
// capacity are counted in the total but contribute nothing else.
func Summarize(products []Product) InventoryOverview {
	overview := InventoryOverview{TotalProducts: len(products)}
	if len(products) == 0 {
		return overview
	}

	var sum float64
	for _, p := range products {
		pct, err := StockPercentage(p)
		if err != nil {
			continue
		}
		sum += pct
		switch ClassifyStatus(pct) {
		case StatusCritical:
			overview.CriticalStockCount++
		case StatusLow:
			overview.LowStockCount++
		}
	}
	overview.AvgStockLevel = math.Round(sum/float64(len(products))*10) / 10

	return overview
}

// ProductView is a product annotated with its derived tiers for display.
type ProductView struct {
	Product
	StockPercentage   float64           `json:"stock_percentage"`
	Status            StatusTier        `json:"status"`
	StockLevelTier    StockLevelTier    `json:"stock_level"`
	HolidayImpactTier HolidayImpactTier `json:"holiday_impact_tier"`
	BelowThreshold    bool              `json:"below_threshold"`
	HolidaySurge      bool              `json:"holiday_surge"`
}

// NewProductView annotates a product. The product must have passed Validate.
func NewProductView(p Product) ProductView {
	pct, _ := StockPercentage(p)
	return ProductView{
		Product:           p,
		StockPercentage:   math.Round(pct*10) / 10,
		Status:            ClassifyStatus(pct),
		StockLevelTier:    ClassifyStockLevel(pct),
		HolidayImpactTier: p.ImpactTier(),
		BelowThreshold:    p.IsBelowThreshold(),
		HolidaySurge:      p.HasHolidaySurge(),
	}
}

// Page represents a paginated slice of items
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the 1-based page of items. Out-of-range pages are clamped.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
