// Package filter narrows a product list by the dashboard filter options.
package filter

import (
	"strings"
	"time"

	"github.com/andresuchdata/intellichain/internal/domain"
)

// Predicate reports whether a product passes one filter criterion.
type Predicate func(p domain.Product) bool

// Engine applies FilterOptions to product lists. Now anchors the date windows.
type Engine struct {
	Now func() time.Time
}

// NewEngine creates an engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{Now: time.Now}
}

// Apply returns the products matching every active option, in their original order.
func Apply(products []domain.Product, opts domain.FilterOptions) []domain.Product {
	return NewEngine().Apply(products, opts)
}

func (e *Engine) Apply(products []domain.Product, opts domain.FilterOptions) []domain.Product {
	predicates := e.Predicates(opts)

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesAll(p, predicates) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Predicates builds one predicate per non-empty option. Unknown tier values
// are treated as no constraint; trend is compared exactly, so an unknown trend
// matches nothing.
func (e *Engine) Predicates(opts domain.FilterOptions) []Predicate {
	var predicates []Predicate

	if opts.Search != "" {
		predicates = append(predicates, Search(opts.Search))
	}
	if opts.Category != "" {
		predicates = append(predicates, Category(opts.Category))
	}
	if tier, ok := domain.ParseStatusTier(opts.Status); ok {
		predicates = append(predicates, Status(tier))
	}
	if opts.Trend != "" {
		predicates = append(predicates, TrendIs(domain.Trend(opts.Trend)))
	}
	if tier, ok := domain.ParseStockLevelTier(opts.StockLevel); ok {
		predicates = append(predicates, StockLevel(tier))
	}
	if tier, ok := domain.ParseHolidayImpactTier(opts.HolidayImpact); ok {
		predicates = append(predicates, HolidayImpact(tier))
	}

	now := time.Now
	if e != nil && e.Now != nil {
		now = e.Now
	}
	if from, ok := restockedSince(opts.LastRestocked, now()); ok {
		predicates = append(predicates, RestockedSince(from))
	}
	if until, ok := predictedOutBefore(opts.PredictedOut, now()); ok {
		predicates = append(predicates, PredictedOutBefore(until))
	}

	return predicates
}

func matchesAll(p domain.Product, predicates []Predicate) bool {
	for _, pred := range predicates {
		if !pred(p) {
			return false
		}
	}
	return true
}

// Search matches a case-insensitive substring of the name or category.
func Search(term string) Predicate {
	needle := strings.ToLower(term)
	return func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle)
	}
}

func Category(category string) Predicate {
	return func(p domain.Product) bool {
		return p.Category == category
	}
}

func Status(tier domain.StatusTier) Predicate {
	return func(p domain.Product) bool {
		status, err := p.Status()
		return err == nil && status == tier
	}
}

func TrendIs(trend domain.Trend) Predicate {
	return func(p domain.Product) bool {
		return p.Trend == trend
	}
}

func StockLevel(tier domain.StockLevelTier) Predicate {
	return func(p domain.Product) bool {
		level, err := p.StockLevel()
		return err == nil && level == tier
	}
}

func HolidayImpact(tier domain.HolidayImpactTier) Predicate {
	return func(p domain.Product) bool {
		return p.ImpactTier() == tier
	}
}

// RestockedSince keeps products restocked on or after from.
func RestockedSince(from time.Time) Predicate {
	return func(p domain.Product) bool {
		at, ok := p.RestockedAt()
		return ok && !at.Before(from)
	}
}

// PredictedOutBefore keeps products predicted to run out no later than until.
func PredictedOutBefore(until time.Time) Predicate {
	return func(p domain.Product) bool {
		at, ok := p.PredictedOutAt()
		return ok && !at.After(until)
	}
}

func restockedSince(window string, now time.Time) (time.Time, bool) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(window) {
	case "today":
		return startOfDay, true
	case "week":
		return startOfDay.AddDate(0, 0, -7), true
	case "month":
		return startOfDay.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}

func predictedOutBefore(window string, now time.Time) (time.Time, bool) {
	switch strings.ToLower(window) {
	case "3days":
		return now.AddDate(0, 0, 3), true
	case "week":
		return now.AddDate(0, 0, 7), true
	case "month":
		return now.AddDate(0, 1, 0), true
	}
	return time.Time{}, false
}

// Categories returns the distinct categories in first-seen order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}
