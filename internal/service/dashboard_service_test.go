package service

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/intellichain/internal/client"
	"github.com/andresuchdata/intellichain/internal/config"
	"github.com/andresuchdata/intellichain/internal/domain"
	"github.com/andresuchdata/intellichain/internal/sampleapi"
	"github.com/andresuchdata/intellichain/internal/state"
)

var testNow = time.Date(2024, 12, 20, 10, 0, 0, 0, time.Local)

type fakeStoreBackend struct {
	stores   func(ctx context.Context) ([]domain.Store, error)
	products func(ctx context.Context, storeID string) ([]domain.Product, error)
	alerts   func(ctx context.Context, storeID string) ([]domain.Alert, error)
	insights func(ctx context.Context, storeID string) ([]domain.AIInsight, error)
}

func (f *fakeStoreBackend) Stores(ctx context.Context) ([]domain.Store, error) {
	return f.stores(ctx)
}

func (f *fakeStoreBackend) StoreProducts(ctx context.Context, storeID string) ([]domain.Product, error) {
	return f.products(ctx, storeID)
}

func (f *fakeStoreBackend) StoreAlerts(ctx context.Context, storeID string) ([]domain.Alert, error) {
	return f.alerts(ctx, storeID)
}

func (f *fakeStoreBackend) StoreInsights(ctx context.Context, storeID string) ([]domain.AIInsight, error) {
	return f.insights(ctx, storeID)
}

func healthyBackend() *fakeStoreBackend {
	return &fakeStoreBackend{
		stores: func(ctx context.Context) ([]domain.Store, error) {
			return []domain.Store{{ID: "s1", Name: "Downtown"}, {ID: "s2", Name: "Eastside"}}, nil
		},
		products: func(ctx context.Context, storeID string) ([]domain.Product, error) {
			return []domain.Product{
				{ID: storeID + "-p1", Name: "Milk", Category: "Dairy", CurrentStock: 5, MaxCapacity: 100},
				{ID: storeID + "-p2", Name: "Bread", Category: "Bakery", CurrentStock: 60, MaxCapacity: 100},
			}, nil
		},
		alerts: func(ctx context.Context, storeID string) ([]domain.Alert, error) {
			return []domain.Alert{{ID: "server-alert"}}, nil
		},
		insights: func(ctx context.Context, storeID string) ([]domain.AIInsight, error) {
			return []domain.AIInsight{{Title: "Stock Shortage Prediction"}}, nil
		},
	}
}

func newTestService(backend StoreBackend) *DashboardService {
	return NewDashboardService(backend, state.NewStore(), config.DashboardConfig{}).
		WithClock(func() time.Time { return testNow })
}

func TestLoadStores_SelectsFirstStore(t *testing.T) {
	svc := newTestService(healthyBackend())

	require.NoError(t, svc.LoadStores(context.Background()))

	s := svc.State()
	assert.Equal(t, "s1", s.SelectedStoreID)
	assert.Len(t, s.Products, 2)
	require.Len(t, s.Alerts, 1)
	assert.Equal(t, "alert-s1-p1", s.Alerts[0].ID)
	assert.Equal(t, 1, s.Stores[0].AlertCount)
	assert.Equal(t, testNow, s.LastUpdated)
	assert.Empty(t, s.Error)
}

func TestLoadStores_Failure(t *testing.T) {
	backend := healthyBackend()
	backend.stores = func(ctx context.Context) ([]domain.Store, error) {
		return nil, fmt.Errorf("stores: %w: 500", domain.ErrBackendStatus)
	}
	svc := newTestService(backend)

	err := svc.LoadStores(context.Background())

	assert.ErrorIs(t, err, domain.ErrBackendStatus)
	assert.Equal(t, state.BannerStoresFailed, svc.State().Error)
}

func TestLoadStoreData_AlertsNotFoundFailsWholeBatch(t *testing.T) {
	backend := healthyBackend()
	backend.stores = func(ctx context.Context) ([]domain.Store, error) {
		return []domain.Store{{ID: "s1"}}, nil
	}
	backend.alerts = func(ctx context.Context, storeID string) ([]domain.Alert, error) {
		return nil, fmt.Errorf("store_alerts: %w: 404", domain.ErrBackendStatus)
	}
	svc := newTestService(backend)

	err := svc.LoadStores(context.Background())

	require.Error(t, err)
	s := svc.State()
	assert.Equal(t, "s1", s.SelectedStoreID)
	assert.Equal(t, state.BannerStoreDataFailed, s.Error)
	assert.Empty(t, s.Products)
	assert.Empty(t, s.Insights)
	assert.False(t, s.Loading)
}

func TestLoadStoreData_AgainstSampleBackend(t *testing.T) {
	handler := sampleapi.NewHandler(sampleapi.NewDataset(3, testNow)).WithClock(func() time.Time { return testNow })
	srv := httptest.NewServer(handler.Router())
	defer srv.Close()

	svc := newTestService(client.New(config.BackendConfig{BaseURL: srv.URL}))
	require.NoError(t, svc.LoadStores(context.Background()))
	require.NoError(t, svc.SelectStore(context.Background(), "S002"))

	s := svc.State()
	assert.Equal(t, "S002", s.SelectedStoreID)
	assert.Len(t, s.Products, 5)
	assert.Len(t, s.Insights, 3)
	store, ok := s.SelectedStore()
	require.True(t, ok)
	assert.Equal(t, len(s.Alerts), store.AlertCount)
}

func TestLoadStoreData_StaleBatchDiscarded(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32

	backend := healthyBackend()
	backend.products = func(ctx context.Context, storeID string) ([]domain.Product, error) {
		if calls.Add(1) == 1 {
			<-release
			return []domain.Product{{ID: "old", Name: "Old", CurrentStock: 1, MaxCapacity: 10}}, nil
		}
		return []domain.Product{{ID: "new", Name: "New", CurrentStock: 9, MaxCapacity: 10}}, nil
	}
	svc := newTestService(backend)
	svc.store.Dispatch(state.StoresLoaded{Stores: []domain.Store{{ID: "s1"}}})
	svc.store.Dispatch(state.StoreSelected{StoreID: "s1"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = svc.LoadStoreData(context.Background(), "s1")
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, svc.LoadStoreData(context.Background(), "s1"))
	close(release)
	wg.Wait()

	s := svc.State()
	require.Len(t, s.Products, 1)
	assert.Equal(t, "new", s.Products[0].ID)
	assert.Equal(t, 1, s.Discarded)
}

func TestLoadStoreData_RejectsInvalidCapacity(t *testing.T) {
	backend := healthyBackend()
	backend.products = func(ctx context.Context, storeID string) ([]domain.Product, error) {
		return []domain.Product{
			{ID: "ok", CurrentStock: 10, MaxCapacity: 100},
			{ID: "zero", CurrentStock: 10, MaxCapacity: 0},
		}, nil
	}
	svc := newTestService(backend)

	require.NoError(t, svc.LoadStores(context.Background()))

	s := svc.State()
	assert.Equal(t, []string{"zero"}, s.Rejected)
	require.Len(t, s.Products, 1)
	assert.Equal(t, "ok", s.Products[0].ID)
}

func TestSelectStore_Unknown(t *testing.T) {
	svc := newTestService(healthyBackend())
	require.NoError(t, svc.LoadStores(context.Background()))

	err := svc.SelectStore(context.Background(), "s9")

	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
	assert.Equal(t, "s1", svc.State().SelectedStoreID)
}

func TestUpdateFilters(t *testing.T) {
	svc := newTestService(healthyBackend())
	require.NoError(t, svc.LoadStores(context.Background()))

	_, err := svc.UpdateFilters(domain.FilterOptions{Status: "urgent"})
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)

	s, err := svc.UpdateFilters(domain.FilterOptions{Status: "critical"})
	require.NoError(t, err)
	require.Len(t, s.Filtered, 1)
	assert.Equal(t, "s1-p1", s.Filtered[0].ID)

	s = svc.ClearFilters()
	assert.Len(t, s.Filtered, 2)
}

func TestRun_RefreshesUntilCancelled(t *testing.T) {
	var loads atomic.Int32
	backend := healthyBackend()
	products := backend.products
	backend.products = func(ctx context.Context, storeID string) ([]domain.Product, error) {
		loads.Add(1)
		return products(ctx, storeID)
	}
	svc := newTestService(backend)
	svc.interval = 10 * time.Millisecond
	require.NoError(t, svc.LoadStores(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return loads.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresh loop did not stop")
	}
}

func TestLoadStoreData_CancelledContextKeepsBannerClear(t *testing.T) {
	backend := healthyBackend()
	svc := newTestService(backend)
	require.NoError(t, svc.LoadStores(context.Background()))

	started := make(chan struct{})
	backend.products = func(ctx context.Context, storeID string) ([]domain.Product, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.LoadStoreData(ctx, "s1") }()

	<-started
	assert.True(t, svc.State().Loading)
	cancel()

	assert.ErrorIs(t, <-errCh, context.Canceled)
	s := svc.State()
	assert.Empty(t, s.Error)
	assert.False(t, s.Loading)
	assert.Len(t, s.Products, 2)
}

func TestLoginLogout(t *testing.T) {
	svc := newTestService(healthyBackend())

	_, err := svc.Login("", domain.RoleStoreManager, "")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
	_, err = svc.Login("ana", domain.Role("admin"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	s, err := svc.Login("ana", domain.RoleWarehouseManager, "Central")
	require.NoError(t, err)
	require.NotNil(t, s.Session)
	assert.NotEmpty(t, s.Session.ID)
	assert.Equal(t, testNow, s.Session.LoggedInAt)
	assert.True(t, s.Session.IsWarehouseManager())

	assert.Nil(t, svc.Logout().Session)
}
