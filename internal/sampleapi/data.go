// Package sampleapi serves an in-memory inventory backend for local runs and tests.
package sampleapi

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/intellichain/internal/domain"
)

type StoreRecord struct {
	ID         string
	Name       string
	Location   string
	Manager    string
	TotalValue decimal.Decimal
}

// ProductRecord is one product stocked by one store, plus its sales history
// (oldest day first).
type ProductRecord struct {
	ID            string
	StoreID       string
	Name          string
	Category      string
	CurrentStock  int
	MinThreshold  int
	MaxCapacity   int
	Price         decimal.Decimal
	LastRestocked string
	Trend         domain.Trend
	HolidayImpact float64
	DailySales    []int
}

type WarehouseItem struct {
	ProductName       string
	AvailableStock    int
	WarehouseLocation string
}

type Holiday struct {
	Name       string
	Date       time.Time
	Multiplier float64
	Categories []string
}

// Dataset is the backend's read-only data.
type Dataset struct {
	Stores    []StoreRecord
	Products  []ProductRecord
	Warehouse []WarehouseItem
	Holidays  []Holiday
	distances map[string]float64
}

// unknownDistance keeps unlisted store pairs out of any transfer radius.
const unknownDistance = 999

func distanceKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// SetDistance records a symmetric distance in kilometres.
func (d *Dataset) SetDistance(a, b string, km float64) {
	if d.distances == nil {
		d.distances = make(map[string]float64)
	}
	d.distances[distanceKey(a, b)] = km
}

func (d *Dataset) Distance(a, b string) float64 {
	if km, ok := d.distances[distanceKey(a, b)]; ok {
		return km
	}
	return unknownDistance
}

func (d *Dataset) Store(id string) (StoreRecord, bool) {
	for _, s := range d.Stores {
		if s.ID == id {
			return s, true
		}
	}
	return StoreRecord{}, false
}

// StoreProducts returns the products of one store in dataset order.
func (d *Dataset) StoreProducts(storeID string) []ProductRecord {
	out := make([]ProductRecord, 0)
	for _, p := range d.Products {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out
}

func (d *Dataset) WarehouseItem(productName string) (WarehouseItem, bool) {
	for _, w := range d.Warehouse {
		if w.ProductName == productName {
			return w, true
		}
	}
	return WarehouseItem{}, false
}

// HolidayMultiplier returns the multiplier of the first upcoming holiday that
// affects category, or 1.
func (d *Dataset) HolidayMultiplier(category string, now time.Time) float64 {
	upcoming := make([]Holiday, 0, len(d.Holidays))
	for _, h := range d.Holidays {
		if h.Date.After(now) {
			upcoming = append(upcoming, h)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })

	for _, h := range upcoming {
		for _, c := range h.Categories {
			if strings.EqualFold(c, category) {
				return h.Multiplier
			}
		}
	}
	return 1
}

type baseProduct struct {
	name     string
	category string
	price    string
}

var baseProducts = []baseProduct{
	{"Milk (1 Gallon)", "Dairy", "3.49"},
	{"Bread (Whole Wheat)", "Bakery", "2.99"},
	{"Bananas (per lb)", "Produce", "0.68"},
	{"Ground Beef (1 lb)", "Meat", "5.99"},
	{"Coca Cola (12 pack)", "Beverages", "4.99"},
}

var trendChoices = []domain.Trend{domain.TrendIncreasing, domain.TrendDecreasing, domain.TrendStable}

// NewDataset generates three stores with five products each. The same seed
// and clock always produce the same data.
func NewDataset(seed int64, now time.Time) *Dataset {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))

	ds := &Dataset{
		Stores: []StoreRecord{
			{ID: "S001", Name: "Walmart Supercenter - Downtown", Location: "Downtown Plaza, NY", Manager: "Sarah Johnson", TotalValue: decimal.NewFromInt(125000)},
			{ID: "S002", Name: "Walmart Neighborhood Market - Eastside", Location: "Eastside Mall, NY", Manager: "Mike Chen", TotalValue: decimal.NewFromInt(98000)},
			{ID: "S003", Name: "Walmart Supercenter - Westfield", Location: "Westfield Avenue, NY", Manager: "Emily Rodriguez", TotalValue: decimal.NewFromInt(142000)},
		},
	}

	for _, store := range ds.Stores {
		for i, base := range baseProducts {
			sales := make([]int, 30)
			for day := range sales {
				sales[day] = 1 + rng.IntN(19)
			}
			ds.Products = append(ds.Products, ProductRecord{
				ID:            fmt.Sprintf("P%03d_%s", i+1, store.ID),
				StoreID:       store.ID,
				Name:          base.name,
				Category:      base.category,
				CurrentStock:  10 + rng.IntN(190),
				MinThreshold:  20 + rng.IntN(30),
				MaxCapacity:   100 + rng.IntN(200),
				Price:         decimal.RequireFromString(base.price),
				LastRestocked: now.AddDate(0, 0, -(1 + rng.IntN(6))).Format("2006-01-02"),
				Trend:         trendChoices[rng.IntN(len(trendChoices))],
				HolidayImpact: math.Round((1+rng.Float64()*2)*10) / 10,
				DailySales:    sales,
			})
		}
	}

	for _, base := range baseProducts {
		ds.Warehouse = append(ds.Warehouse, WarehouseItem{
			ProductName:       base.name,
			AvailableStock:    warehouseStock[base.name],
			WarehouseLocation: "Central Warehouse",
		})
	}

	ds.SetDistance("S001", "S002", 15.5)
	ds.SetDistance("S001", "S003", 22.3)
	ds.SetDistance("S002", "S003", 18.7)

	year := now.Year()
	ds.Holidays = []Holiday{
		{Name: "Christmas", Date: time.Date(year, 12, 25, 0, 0, 0, 0, time.Local), Multiplier: 2.5, Categories: []string{"Food", "Beverages", "Seasonal"}},
		{Name: "Thanksgiving", Date: thanksgiving(year), Multiplier: 3.0, Categories: []string{"Food", "Beverages"}},
		{Name: "New Year", Date: time.Date(year, 12, 31, 0, 0, 0, 0, time.Local), Multiplier: 1.8, Categories: []string{"Beverages", "Seasonal"}},
	}

	return ds
}

var warehouseStock = map[string]int{
	"Milk (1 Gallon)":     500,
	"Bread (Whole Wheat)": 300,
	"Bananas (per lb)":    800,
	"Ground Beef (1 lb)":  200,
	"Coca Cola (12 pack)": 400,
}

// thanksgiving is the fourth Thursday of November.
func thanksgiving(year int) time.Time {
	first := time.Date(year, time.November, 1, 0, 0, 0, 0, time.Local)
	offset := (int(time.Thursday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+21)
}
