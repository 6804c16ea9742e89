package sampleapi

import (
	"math"
	"time"
)

// Predictor estimates when a product runs out from its daily sales.
type Predictor struct {
	// Horizon is the number of future days projected.
	Horizon int
}

func NewPredictor() *Predictor {
	return &Predictor{Horizon: 30}
}

// PredictShortage fits a least-squares line to the sales history, projects it
// forward and returns the first day cumulative sales cover currentStock.
// Empty stock runs out tomorrow; a thin or zero history never runs out
// within the horizon.
func (p *Predictor) PredictShortage(sales []int, currentStock int, now time.Time) time.Time {
	horizon := p.Horizon
	if horizon <= 0 {
		horizon = 30
	}

	if currentStock <= 0 {
		return now.AddDate(0, 0, 1)
	}

	total := 0
	for _, s := range sales {
		total += s
	}
	if len(sales) < 5 || total == 0 {
		return now.AddDate(0, 0, horizon)
	}

	intercept, slope := fitLine(sales)

	cumulative := 0.0
	for i := 0; i < horizon; i++ {
		x := float64(len(sales) + i)
		cumulative += math.Max(0, intercept+slope*x)
		if cumulative >= float64(currentStock) {
			// Never earlier than two days out.
			day := max(i+1, 2)
			return now.AddDate(0, 0, day)
		}
	}

	return now.AddDate(0, 0, horizon)
}

// fitLine returns the ordinary least-squares intercept and slope of ys over x = 0..n-1.
func fitLine(ys []int) (float64, float64) {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += float64(y)
		sumXY += x * float64(y)
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return sumY / n, 0
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return intercept, slope
}
