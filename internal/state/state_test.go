package state_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/intellichain/internal/domain"
	"github.com/andresuchdata/intellichain/internal/state"
)

var loadedAt = time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *state.Store {
	t.Helper()
	st := state.NewStore()
	st.Dispatch(state.StoresLoaded{Stores: []domain.Store{
		{ID: "S001", Name: "Downtown Store", AlertCount: 9},
		{ID: "S002", Name: "Mall Location", AlertCount: 1},
	}})
	st.Dispatch(state.StoreSelected{StoreID: "S001"})
	return st
}

func products() []domain.Product {
	return []domain.Product{
		{ID: "P1", Name: "Milk", Category: "Dairy", CurrentStock: 5, MaxCapacity: 100, Trend: domain.TrendDecreasing},
		{ID: "P2", Name: "Bread", Category: "Bakery", CurrentStock: 60, MaxCapacity: 100, Trend: domain.TrendStable},
		{ID: "P3", Name: "Broken", Category: "Dairy", CurrentStock: 3, MaxCapacity: 0},
	}
}

func TestDataLoaded_AppliesLatestBatch(t *testing.T) {
	st := seededStore(t)
	token := st.BeginBatch("S001")
	assert.True(t, st.Snapshot().Loading)

	s := st.Dispatch(state.DataLoaded{
		StoreID:      "S001",
		Token:        token,
		Products:     products(),
		ServerAlerts: []domain.Alert{{ID: "server-1"}, {ID: "server-2"}},
		Insights:     []domain.AIInsight{{Title: "Holiday Demand Surge"}},
		At:           loadedAt,
	})

	assert.False(t, s.Loading)
	assert.Equal(t, loadedAt, s.LastUpdated)
	assert.Len(t, s.Products, 2)
	assert.Equal(t, []string{"P3"}, s.Rejected)
	require.Len(t, s.Alerts, 1)
	assert.Equal(t, "alert-P1", s.Alerts[0].ID)
	assert.Equal(t, domain.SeverityHigh, s.Alerts[0].Severity)
	assert.Len(t, s.Insights, 1)
	assert.Equal(t, []string{"Dairy", "Bakery"}, s.Categories)
	assert.Len(t, s.Filtered, 2)

	store, ok := s.SelectedStore()
	require.True(t, ok)
	assert.Equal(t, 1, store.AlertCount)
	assert.Equal(t, 1, s.Stores[1].AlertCount)
}

func TestDataLoaded_StaleTokenDiscarded(t *testing.T) {
	st := seededStore(t)
	first := st.BeginBatch("S001")
	second := st.BeginBatch("S001")

	st.Dispatch(state.DataLoaded{StoreID: "S001", Token: second, Products: products()[:1], At: loadedAt})
	s := st.Dispatch(state.DataLoaded{StoreID: "S001", Token: first, Products: products()[:2], At: loadedAt.Add(time.Second)})

	assert.Equal(t, 1, s.Discarded)
	assert.Len(t, s.Products, 1)
	assert.Equal(t, loadedAt, s.LastUpdated)
}

func TestDataLoaded_OtherStoreDiscarded(t *testing.T) {
	st := seededStore(t)
	token := st.BeginBatch("S001")
	st.Dispatch(state.StoreSelected{StoreID: "S002"})

	s := st.Dispatch(state.DataLoaded{StoreID: "S001", Token: token, Products: products(), At: loadedAt})

	assert.Equal(t, 1, s.Discarded)
	assert.Empty(t, s.Products)
}

func TestDataLoaded_LateBatchForPreviousStoreDoesNotSupersede(t *testing.T) {
	st := seededStore(t)
	st.Dispatch(state.StoreSelected{StoreID: "S002"})
	current := st.BeginBatch("S002")
	late := st.BeginBatch("S001")

	s := st.Dispatch(state.DataLoaded{StoreID: "S002", Token: current, Products: products()[:2], At: loadedAt})
	assert.Equal(t, 0, s.Discarded)
	assert.False(t, s.Loading)
	assert.Len(t, s.Products, 2)

	s = st.Dispatch(state.DataLoaded{StoreID: "S001", Token: late, Products: products()[:1], At: loadedAt})
	assert.Equal(t, 1, s.Discarded)
	assert.Equal(t, "S002", s.SelectedStoreID)
	assert.Len(t, s.Products, 2)
}

func TestDataLoadFailed_KeepsPreviousData(t *testing.T) {
	st := seededStore(t)
	token := st.BeginBatch("S001")
	st.Dispatch(state.DataLoaded{StoreID: "S001", Token: token, Products: products(), At: loadedAt})

	token = st.BeginBatch("S001")
	s := st.Dispatch(state.DataLoadFailed{StoreID: "S001", Token: token, Err: errors.New("boom")})

	assert.Equal(t, state.BannerStoreDataFailed, s.Error)
	assert.False(t, s.Loading)
	assert.Len(t, s.Products, 2)

	token = st.BeginBatch("S001")
	s = st.Dispatch(state.DataLoaded{StoreID: "S001", Token: token, Products: products(), At: loadedAt})
	assert.Empty(t, s.Error)
}

func TestBatchCancelled_ClearsLoadingOnly(t *testing.T) {
	st := seededStore(t)
	token := st.BeginBatch("S001")

	s := st.Dispatch(state.BatchCancelled{StoreID: "S001", Token: token})
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, 0, s.Discarded)
}

func TestStoresLoadFailed_SetsBanner(t *testing.T) {
	s := state.Reduce(state.State{}, state.StoresLoadFailed{Err: errors.New("down")})
	assert.Equal(t, state.BannerStoresFailed, s.Error)
}

func TestFiltersChanged_RecomputesFiltered(t *testing.T) {
	st := seededStore(t)
	token := st.BeginBatch("S001")
	st.Dispatch(state.DataLoaded{StoreID: "S001", Token: token, Products: products(), At: loadedAt})

	s := st.Dispatch(state.FiltersChanged{Filters: domain.FilterOptions{Status: "critical"}, At: loadedAt})
	require.Len(t, s.Filtered, 1)
	assert.Equal(t, "P1", s.Filtered[0].ID)

	s = st.Dispatch(state.FiltersChanged{Filters: domain.FilterOptions{}, At: loadedAt})
	assert.Equal(t, s.Products, s.Filtered)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := state.State{
		Stores:          []domain.Store{{ID: "S001", AlertCount: 7}},
		SelectedStoreID: "S001",
		LatestTokens:    map[string]uint64{"S001": 3},
	}

	after := state.Reduce(before, state.DataLoaded{StoreID: "S001", Token: 3, Products: products(), At: loadedAt})

	assert.Equal(t, 7, before.Stores[0].AlertCount)
	assert.Empty(t, before.Products)
	assert.Equal(t, 1, after.Stores[0].AlertCount)

	issued := state.Reduce(before, state.BatchIssued{StoreID: "S001", Token: 4})
	assert.Equal(t, uint64(3), before.LatestToken("S001"))
	assert.Equal(t, uint64(4), issued.LatestToken("S001"))
}

func TestSession_LoginLogout(t *testing.T) {
	st := state.NewStore()

	s := st.Dispatch(state.LoggedIn{Session: domain.Session{Username: "ana", Role: domain.RoleWarehouseManager}})
	require.NotNil(t, s.Session)
	assert.True(t, s.Session.IsWarehouseManager())

	s = st.Dispatch(state.LoggedOut{})
	assert.Nil(t, s.Session)
}

func TestSnapshot_IsolatedFromLaterDispatch(t *testing.T) {
	st := seededStore(t)
	snap := st.Snapshot()
	snap.Stores[0].Name = "changed"

	assert.Equal(t, "Downtown Store", st.Snapshot().Stores[0].Name)
}

func TestBeginBatch_TokensAreMonotonic(t *testing.T) {
	st := seededStore(t)

	var wg sync.WaitGroup
	tokens := make(chan uint64, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens <- st.BeginBatch("S001")
		}()
	}
	wg.Wait()
	close(tokens)

	seen := map[uint64]bool{}
	for tok := range tokens {
		assert.False(t, seen[tok], "token %d issued twice", tok)
		seen[tok] = true
	}
	assert.Equal(t, uint64(50), st.Snapshot().LatestToken("S001"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "timer_tick", state.Name(state.TimerTick{}))
	assert.Equal(t, "unknown", state.Name(nil))
}
