package sampleapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 12, 20, 10, 0, 0, 0, time.Local)

func fixtureDataset() *Dataset {
	ds := &Dataset{
		Stores: []StoreRecord{{ID: "S001"}, {ID: "S002"}, {ID: "S003"}},
		Products: []ProductRecord{
			{ID: "P001_S001", StoreID: "S001", Name: "Milk", CurrentStock: 10, MinThreshold: 40, MaxCapacity: 100},
			{ID: "P001_S002", StoreID: "S002", Name: "Milk", CurrentStock: 150, MinThreshold: 30, MaxCapacity: 200},
			{ID: "P001_S003", StoreID: "S003", Name: "Milk", CurrentStock: 200, MinThreshold: 30, MaxCapacity: 250},
			{ID: "P002_S002", StoreID: "S002", Name: "Bread", CurrentStock: 25, MinThreshold: 30, MaxCapacity: 100},
		},
		Warehouse: []WarehouseItem{
			{ProductName: "Milk", AvailableStock: 500, WarehouseLocation: "Central Warehouse"},
			{ProductName: "Bread", AvailableStock: 300, WarehouseLocation: "Central Warehouse"},
		},
	}
	ds.SetDistance("S001", "S002", 15.5)
	ds.SetDistance("S001", "S003", 22.3)
	ds.SetDistance("S002", "S003", 18.7)
	return ds
}

func TestFindOpportunities_PicksNearestSurplus(t *testing.T) {
	suggestions := NewRebalancer().FindOpportunities(fixtureDataset())

	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, "S002", s.FromStore)
	assert.Equal(t, "S001", s.ToStore)
	assert.Equal(t, "Milk", s.ProductName)
	assert.Equal(t, 38.0, s.TransferQty)
	assert.Equal(t, 15.5, s.Distance)
	assert.Equal(t, 1.0, s.Priority)
}

func TestFindOpportunities_RespectsMaxDistance(t *testing.T) {
	ds := fixtureDataset()
	ds.SetDistance("S001", "S002", 75)
	ds.SetDistance("S001", "S003", 60)

	assert.Empty(t, NewRebalancer().FindOpportunities(ds))
}

func TestDistance_UnknownPair(t *testing.T) {
	ds := fixtureDataset()
	assert.Equal(t, 15.5, ds.Distance("S002", "S001"))
	assert.Equal(t, float64(unknownDistance), ds.Distance("S001", "S999"))
}

func TestPriorityScore(t *testing.T) {
	assert.Equal(t, 6.0, PriorityScore(10, 3, 5))
	assert.Greater(t, PriorityScore(10, 3, 0), 1e300)
}

func TestWarehouseOrders_HighUrgencyFirst(t *testing.T) {
	orders := NewRebalancer().WarehouseOrders(fixtureDataset(), fixedNow)

	require.Len(t, orders, 2)

	assert.Equal(t, "P001_S001", orders[0].ProductID)
	assert.Equal(t, "high", orders[0].Urgency)
	assert.Equal(t, 90.0, orders[0].OrderQty)
	assert.Equal(t, "2024-12-21T10:00:00", orders[0].EstimatedDelivery)

	assert.Equal(t, "P002_S002", orders[1].ProductID)
	assert.Equal(t, "medium", orders[1].Urgency)
	assert.Equal(t, 75.0, orders[1].OrderQty)
	assert.Equal(t, "2024-12-22T10:00:00", orders[1].EstimatedDelivery)
}

func TestWarehouseOrders_CappedByWarehouseStock(t *testing.T) {
	ds := fixtureDataset()
	ds.Warehouse[0].AvailableStock = 12
	ds.Warehouse[1].AvailableStock = 0

	orders := NewRebalancer().WarehouseOrders(ds, fixedNow)

	require.Len(t, orders, 1)
	assert.Equal(t, 12.0, orders[0].OrderQty)
}

func TestPredictShortage(t *testing.T) {
	p := NewPredictor()
	steady := []int{10, 10, 10, 10, 10, 10}

	assert.Equal(t, fixedNow.AddDate(0, 0, 1), p.PredictShortage(steady, 0, fixedNow))
	assert.Equal(t, fixedNow.AddDate(0, 0, 2), p.PredictShortage(steady, 5, fixedNow))
	assert.Equal(t, fixedNow.AddDate(0, 0, 3), p.PredictShortage(steady, 25, fixedNow))
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), p.PredictShortage(steady, 1000, fixedNow))
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), p.PredictShortage([]int{4, 4}, 5, fixedNow))
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), p.PredictShortage([]int{0, 0, 0, 0, 0}, 5, fixedNow))
}

func TestNewDataset_Deterministic(t *testing.T) {
	a := NewDataset(42, fixedNow)
	b := NewDataset(42, fixedNow)

	require.Len(t, a.Stores, 3)
	require.Len(t, a.Products, 15)
	assert.Equal(t, a.Products, b.Products)

	for _, p := range a.Products {
		assert.GreaterOrEqual(t, p.CurrentStock, 10)
		assert.GreaterOrEqual(t, p.MaxCapacity, 100)
		assert.Len(t, p.DailySales, 30)
	}
}

func TestHolidayMultiplier(t *testing.T) {
	ds := NewDataset(1, time.Date(2024, 11, 1, 0, 0, 0, 0, time.Local))

	assert.Equal(t, 3.0, ds.HolidayMultiplier("Beverages", time.Date(2024, 11, 1, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, 1.0, ds.HolidayMultiplier("Dairy", time.Date(2024, 11, 1, 0, 0, 0, 0, time.Local)))
}
