package domain

import "fmt"

// StatusTier is the urgency classification of a product's stock percentage.
type StatusTier string

const (
	StatusCritical StatusTier = "critical"
	StatusLow      StatusTier = "low"
	StatusGood     StatusTier = "good"
)

// StockLevelTier is the fill-level classification used for filtering.
// Its thresholds differ from StatusTier on purpose.
type StockLevelTier string

const (
	StockLevelHigh   StockLevelTier = "high"
	StockLevelMedium StockLevelTier = "medium"
	StockLevelLow    StockLevelTier = "low"
)

type HolidayImpactTier string

const (
	HolidayImpactHigh   HolidayImpactTier = "high"
	HolidayImpactMedium HolidayImpactTier = "medium"
	HolidayImpactLow    HolidayImpactTier = "low"
)

var statusTiers = map[string]StatusTier{
	"critical": StatusCritical,
	"low":      StatusLow,
	"good":     StatusGood,
}

var stockLevelTiers = map[string]StockLevelTier{
	"high":   StockLevelHigh,
	"medium": StockLevelMedium,
	"low":    StockLevelLow,
}

var holidayImpactTiers = map[string]HolidayImpactTier{
	"high":   HolidayImpactHigh,
	"medium": HolidayImpactMedium,
	"low":    HolidayImpactLow,
}

var trends = map[string]Trend{
	"increasing": TrendIncreasing,
	"decreasing": TrendDecreasing,
	"stable":     TrendStable,
}

// ParseStatusTier returns the tier for a given label (exact, lower case).
func ParseStatusTier(label string) (StatusTier, bool) {
	tier, ok := statusTiers[label]
	return tier, ok
}

// ParseStockLevelTier returns the tier for a given label (exact, lower case).
func ParseStockLevelTier(label string) (StockLevelTier, bool) {
	tier, ok := stockLevelTiers[label]
	return tier, ok
}

// ParseHolidayImpactTier returns the tier for a given label (exact, lower case).
func ParseHolidayImpactTier(label string) (HolidayImpactTier, bool) {
	tier, ok := holidayImpactTiers[label]
	return tier, ok
}

// ParseTrend returns the trend for a given label (exact, lower case).
func ParseTrend(label string) (Trend, bool) {
	trend, ok := trends[label]
	return trend, ok
}

// Validate rejects records whose percentage cannot be computed.
func (p Product) Validate() error {
	if p.MaxCapacity <= 0 {
		return fmt.Errorf("product %s: %w (got %d)", p.ID, ErrInvalidCapacity, p.MaxCapacity)
	}
	return nil
}

// StockPercentage is currentStock / maxCapacity * 100. It is not clamped to 100.
func StockPercentage(p Product) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return float64(p.CurrentStock) / float64(p.MaxCapacity) * 100, nil
}

// ClassifyStatus maps a stock percentage to critical (<=25), low (<=50) or good.
func ClassifyStatus(pct float64) StatusTier {
	switch {
	case pct <= 25:
		return StatusCritical
	case pct <= 50:
		return StatusLow
	default:
		return StatusGood
	}
}

// ClassifyStockLevel maps a stock percentage to high (>75), medium (25..75) or low (<25).
func ClassifyStockLevel(pct float64) StockLevelTier {
	switch {
	case pct > 75:
		return StockLevelHigh
	case pct >= 25:
		return StockLevelMedium
	default:
		return StockLevelLow
	}
}

// ClassifyHolidayImpact maps a demand multiplier to high (>2), medium (1.5..2) or low (<1.5).
func ClassifyHolidayImpact(impact float64) HolidayImpactTier {
	switch {
	case impact > 2:
		return HolidayImpactHigh
	case impact >= 1.5:
		return HolidayImpactMedium
	default:
		return HolidayImpactLow
	}
}

func (p Product) Status() (StatusTier, error) {
	pct, err := StockPercentage(p)
	if err != nil {
		return "", err
	}
	return ClassifyStatus(pct), nil
}

func (p Product) StockLevel() (StockLevelTier, error) {
	pct, err := StockPercentage(p)
	if err != nil {
		return "", err
	}
	return ClassifyStockLevel(pct), nil
}

func (p Product) ImpactTier() HolidayImpactTier {
	return ClassifyHolidayImpact(p.HolidayImpact)
}

// IsBelowThreshold reports whether stock has reached the reorder threshold.
func (p Product) IsBelowThreshold() bool {
	return p.CurrentStock <= p.MinThreshold
}

// HasHolidaySurge marks products highlighted for holiday demand.
func (p Product) HasHolidaySurge() bool {
	return p.HolidayImpact > 1.5
}
