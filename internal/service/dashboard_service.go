package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/intellichain/internal/config"
	"github.com/andresuchdata/intellichain/internal/domain"
	"github.com/andresuchdata/intellichain/internal/metrics"
	"github.com/andresuchdata/intellichain/internal/state"
)

// StoreBackend is the read side of the inventory backend.
type StoreBackend interface {
	Stores(ctx context.Context) ([]domain.Store, error)
	StoreProducts(ctx context.Context, storeID string) ([]domain.Product, error)
	StoreAlerts(ctx context.Context, storeID string) ([]domain.Alert, error)
	StoreInsights(ctx context.Context, storeID string) ([]domain.AIInsight, error)
}

// DashboardService fetches store data into the state store and keeps it
// fresh on a fixed interval.
type DashboardService struct {
	backend  StoreBackend
	store    *state.Store
	interval time.Duration
	now      func() time.Time

	reset    chan struct{}
	inflight sync.WaitGroup
}

func NewDashboardService(backend StoreBackend, store *state.Store, cfg config.DashboardConfig) *DashboardService {
	return &DashboardService{
		backend:  backend,
		store:    store,
		interval: cfg.RefreshInterval(),
		now:      time.Now,
		reset:    make(chan struct{}, 1),
	}
}

// WithClock replaces the service clock.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

func (s *DashboardService) State() state.State {
	return s.store.Snapshot()
}

// LoadStores fetches the store list and selects the first store.
func (s *DashboardService) LoadStores(ctx context.Context) error {
	stores, err := s.backend.Stores(ctx)
	if err != nil {
		log.Error().Err(err).Msg("dashboard: load stores failed")
		s.store.Dispatch(state.StoresLoadFailed{Err: err})
		return fmt.Errorf("load stores: %w", err)
	}

	s.store.Dispatch(state.StoresLoaded{Stores: stores})
	log.Info().Int("stores", len(stores)).Msg("dashboard: stores loaded")

	if len(stores) == 0 {
		return nil
	}
	return s.SelectStore(ctx, stores[0].ID)
}

// SelectStore switches the active store, restarts the refresh interval and
// loads the store's data.
func (s *DashboardService) SelectStore(ctx context.Context, storeID string) error {
	if !s.store.Snapshot().HasStore(storeID) {
		return fmt.Errorf("select %s: %w", storeID, domain.ErrStoreNotFound)
	}

	s.store.Dispatch(state.StoreSelected{StoreID: storeID})
	select {
	case s.reset <- struct{}{}:
	default:
	}

	return s.LoadStoreData(ctx, storeID)
}

// LoadStoreData fetches products, alerts and insights concurrently. Either all
// three are applied or none is.
func (s *DashboardService) LoadStoreData(ctx context.Context, storeID string) error {
	token := s.store.BeginBatch(storeID)
	logger := log.With().Str("store_id", storeID).Uint64("token", token).Logger()

	var (
		products []domain.Product
		alerts   []domain.Alert
		insights []domain.AIInsight
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.backend.StoreProducts(gctx, storeID)
		return err
	})
	g.Go(func() error {
		var err error
		alerts, err = s.backend.StoreAlerts(gctx, storeID)
		return err
	})
	g.Go(func() error {
		var err error
		insights, err = s.backend.StoreInsights(gctx, storeID)
		return err
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			logger.Debug().Err(err).Msg("dashboard: load store data cancelled")
			s.store.Dispatch(state.BatchCancelled{StoreID: storeID, Token: token})
			metrics.StoreDataBatches.WithLabelValues(metrics.OutcomeCancelled).Inc()
			return ctx.Err()
		}
		logger.Error().Err(err).Msg("dashboard: load store data failed")
		next := s.store.Dispatch(state.DataLoadFailed{StoreID: storeID, Token: token, Err: err})
		s.record(next, storeID, token, metrics.OutcomeFailed)
		return fmt.Errorf("load store %s: %w", storeID, err)
	}

	next := s.store.Dispatch(state.DataLoaded{
		StoreID:      storeID,
		Token:        token,
		Products:     products,
		ServerAlerts: alerts,
		Insights:     insights,
		At:           s.now(),
	})
	if s.record(next, storeID, token, metrics.OutcomeLoaded) {
		logger.Debug().Msg("dashboard: newer batch issued, response discarded")
		return nil
	}

	if len(next.Rejected) > 0 {
		metrics.RejectedProducts.Add(float64(len(next.Rejected)))
		logger.Warn().Strs("product_ids", next.Rejected).Msg("dashboard: products with invalid capacity rejected")
	}
	logger.Debug().
		Int("products", len(next.Products)).
		Int("server_alerts", len(alerts)).
		Int("alerts", len(next.Alerts)).
		Msg("dashboard: store data loaded")

	return nil
}

// record counts the batch outcome and reports whether the response was stale.
func (s *DashboardService) record(next state.State, storeID string, token uint64, outcome string) bool {
	if next.IsStale(storeID, token) {
		metrics.StoreDataBatches.WithLabelValues(metrics.OutcomeDiscarded).Inc()
		metrics.DiscardedResponses.Inc()
		return true
	}
	metrics.StoreDataBatches.WithLabelValues(outcome).Inc()
	return false
}

// Refresh reloads the selected store, if any.
func (s *DashboardService) Refresh(ctx context.Context) error {
	storeID := s.store.Snapshot().SelectedStoreID
	if storeID == "" {
		return nil
	}
	return s.LoadStoreData(ctx, storeID)
}

// Run refreshes the selected store on every tick until ctx is done. Ticks do
// not wait for earlier batches. Selecting a store restarts the interval. On
// return every batch started by the loop has finished.
func (s *DashboardService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval).Msg("dashboard: refresh loop started")

	for {
		select {
		case <-ctx.Done():
			s.inflight.Wait()
			log.Info().Msg("dashboard: refresh loop stopped")
			return
		case <-s.reset:
			ticker.Reset(s.interval)
		case <-ticker.C:
			s.store.Dispatch(state.TimerTick{At: s.now()})
			s.inflight.Add(1)
			go func() {
				defer s.inflight.Done()
				_ = s.Refresh(ctx)
			}()
		}
	}
}

// UpdateFilters validates and applies new filter options.
func (s *DashboardService) UpdateFilters(opts domain.FilterOptions) (state.State, error) {
	if err := opts.Validate(); err != nil {
		return state.State{}, err
	}
	return s.store.Dispatch(state.FiltersChanged{Filters: opts, At: s.now()}), nil
}

func (s *DashboardService) ClearFilters() state.State {
	return s.store.Dispatch(state.FiltersChanged{At: s.now()})
}

// Login records a local session. Nothing is sent to the backend.
func (s *DashboardService) Login(username string, role domain.Role, location string) (state.State, error) {
	if username == "" {
		return state.State{}, fmt.Errorf("%w: username is required", domain.ErrInvalidSession)
	}
	parsed, ok := domain.ParseRole(string(role))
	if !ok {
		return state.State{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidSession, role)
	}

	session := domain.Session{
		ID:         uuid.NewString(),
		Username:   username,
		Role:       parsed,
		Location:   location,
		LoggedInAt: s.now(),
	}
	log.Info().Str("session_id", session.ID).Str("role", string(parsed)).Msg("dashboard: session started")
	return s.store.Dispatch(state.LoggedIn{Session: session}), nil
}

func (s *DashboardService) Logout() state.State {
	return s.store.Dispatch(state.LoggedOut{})
}
