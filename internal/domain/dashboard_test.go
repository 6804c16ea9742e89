package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/intellichain/internal/domain"
)

func TestSummarize(t *testing.T) {
	products := []domain.Product{
		{ID: "a", CurrentStock: 10, MaxCapacity: 100}, // critical
		{ID: "b", CurrentStock: 40, MaxCapacity: 100}, // low
		{ID: "c", CurrentStock: 90, MaxCapacity: 100}, // good
	}

	overview := domain.Summarize(products)
	assert.Equal(t, 3, overview.TotalProducts)
	assert.Equal(t, 1, overview.CriticalStockCount)
	assert.Equal(t, 1, overview.LowStockCount)
	assert.InDelta(t, 46.7, overview.AvgStockLevel, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, domain.InventoryOverview{}, domain.Summarize(nil))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	page := domain.Paginate(items, 2, 5)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, page.Items)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 12, page.Total)

	last := domain.Paginate(items, 9, 5)
	assert.Equal(t, 3, last.Page)
	assert.Equal(t, []int{11, 12}, last.Items)

	first := domain.Paginate(items, 0, 5)
	assert.Equal(t, 1, first.Page)

	empty := domain.Paginate([]int{}, 1, 5)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestFilterOptions_Validate(t *testing.T) {
	require.NoError(t, domain.FilterOptions{}.Validate())
	require.NoError(t, domain.FilterOptions{Status: "low", StockLevel: "high", HolidayImpact: "medium", Trend: "stable"}.Validate())

	err := domain.FilterOptions{Status: "urgent"}.Validate()
	require.ErrorIs(t, err, domain.ErrInvalidFilter)

	err = domain.FilterOptions{PredictedOut: "year"}.Validate()
	require.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestProduct_DecodesBackendPayload(t *testing.T) {
	payload := `{"id":"P001_S001","name":"Milk (1 Gallon)","category":"Dairy","currentStock":12,
		"minThreshold":30,"maxCapacity":200,"price":3.49,"lastRestocked":"2024-06-01",
		"predictedOutOfStock":"2024-06-03T10:15:00.123456","trend":"decreasing","holidayImpact":2.5}`

	var p domain.Product
	require.NoError(t, json.Unmarshal([]byte(payload), &p))
	assert.True(t, p.Price.Equal(decimal.RequireFromString("3.49")))
	assert.Equal(t, domain.TrendDecreasing, p.Trend)

	out, ok := p.PredictedOutAt()
	require.True(t, ok)
	assert.Equal(t, 3, out.Day())

	restocked, ok := p.RestockedAt()
	require.True(t, ok)
	assert.Equal(t, 2024, restocked.Year())
}

func TestSession_StoreLabel(t *testing.T) {
	store := domain.Store{Name: "Downtown"}

	var anonymous *domain.Session
	assert.Equal(t, "Downtown", anonymous.StoreLabel(store))

	warehouse := &domain.Session{Role: domain.RoleWarehouseManager}
	assert.Equal(t, "Downtown - Warehouse", warehouse.StoreLabel(store))
}

func TestAlert_DecodesZonelessTimestamp(t *testing.T) {
	payload := `{"id":"alert_P001_S001","storeId":"S001","productId":"P001_S001","type":"low_stock",
		"message":"Milk (1 Gallon) running low - only 12 units left","severity":"high",
		"timestamp":"2024-12-20T10:15:30.123456"}`

	var alert domain.Alert
	require.NoError(t, json.Unmarshal([]byte(payload), &alert))

	assert.Equal(t, 2024, alert.Timestamp.Year())
	assert.Equal(t, 15, alert.Timestamp.Minute())
	assert.Equal(t, domain.SeverityHigh, alert.Severity)

	var bad domain.Alert
	assert.Error(t, json.Unmarshal([]byte(`{"timestamp":"yesterday"}`), &bad))
}
