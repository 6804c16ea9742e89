package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/intellichain/internal/cache"
	"github.com/andresuchdata/intellichain/internal/domain"
)

// EmergencyBackend is the rebalancing side of the inventory backend.
type EmergencyBackend interface {
	EmergencyDashboard(ctx context.Context) (*domain.EmergencyDashboard, error)
	AnalyticsOverview(ctx context.Context) (*domain.AnalyticsOverview, error)
	ExecuteRebalance(ctx context.Context, suggestion domain.RebalanceSuggestion) (*domain.CommandResult, error)
	PlaceWarehouseOrder(ctx context.Context, order domain.WarehouseOrder) (*domain.CommandResult, error)
}

type EmergencyService struct {
	backend EmergencyBackend
	cache   cache.DashboardCache

	mu        sync.Mutex
	executing map[string]struct{}
}

func NewEmergencyService(backend EmergencyBackend, cacheImpl cache.DashboardCache) *EmergencyService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &EmergencyService{
		backend:   backend,
		cache:     cacheImpl,
		executing: make(map[string]struct{}),
	}
}

func (s *EmergencyService) Dashboard(ctx context.Context) (*domain.EmergencyDashboard, error) {
	if dashboard, ok, err := s.cache.GetEmergency(ctx); err == nil && ok {
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("emergency: cache get dashboard failed")
	}

	dashboard, err := s.backend.EmergencyDashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("emergency dashboard: %w", err)
	}
	if dashboard.RebalanceSuggestions == nil {
		dashboard.RebalanceSuggestions = make([]domain.RebalanceSuggestion, 0)
	}
	if dashboard.WarehouseOrders == nil {
		dashboard.WarehouseOrders = make([]domain.WarehouseOrder, 0)
	}

	if err := s.cache.SetEmergency(ctx, dashboard); err != nil {
		log.Warn().Err(err).Msg("emergency: cache set dashboard failed")
	}
	return dashboard, nil
}

// Overview returns the cross-store analytics shown next to the panel.
func (s *EmergencyService) Overview(ctx context.Context) (*domain.AnalyticsOverview, error) {
	if overview, ok, err := s.cache.GetOverview(ctx); err == nil && ok {
		return overview, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("emergency: cache get overview failed")
	}

	overview, err := s.backend.AnalyticsOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics overview: %w", err)
	}

	if err := s.cache.SetOverview(ctx, overview); err != nil {
		log.Warn().Err(err).Msg("emergency: cache set overview failed")
	}
	return overview, nil
}

func (s *EmergencyService) ExecuteRebalance(ctx context.Context, suggestion domain.RebalanceSuggestion) (*domain.CommandResult, error) {
	if err := suggestion.Validate(); err != nil {
		return nil, err
	}

	key := "transfer:" + suggestion.Key()
	if !s.begin(key) {
		return nil, fmt.Errorf("transfer %s: %w", suggestion.Key(), domain.ErrCommandInFlight)
	}
	defer s.end(key)

	result, err := s.backend.ExecuteRebalance(ctx, suggestion)
	if err != nil {
		log.Error().Err(err).Str("transfer", suggestion.Key()).Msg("emergency: execute rebalance failed")
		return nil, fmt.Errorf("execute rebalance: %w", err)
	}

	log.Info().
		Str("transfer_id", result.TransferID).
		Str("from_store", suggestion.FromStore).
		Str("to_store", suggestion.ToStore).
		Float64("qty", suggestion.TransferQty).
		Msg("emergency: transfer initiated")

	s.invalidate(ctx)
	return result, nil
}

func (s *EmergencyService) PlaceWarehouseOrder(ctx context.Context, order domain.WarehouseOrder) (*domain.CommandResult, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	key := "order:" + order.Key()
	if !s.begin(key) {
		return nil, fmt.Errorf("order %s: %w", order.Key(), domain.ErrCommandInFlight)
	}
	defer s.end(key)

	result, err := s.backend.PlaceWarehouseOrder(ctx, order)
	if err != nil {
		log.Error().Err(err).Str("order", order.Key()).Msg("emergency: place warehouse order failed")
		return nil, fmt.Errorf("place warehouse order: %w", err)
	}

	log.Info().
		Str("order_id", result.OrderID).
		Str("store_id", order.StoreID).
		Str("urgency", order.Urgency).
		Float64("qty", order.OrderQty).
		Msg("emergency: warehouse order placed")

	s.invalidate(ctx)
	return result, nil
}

func (s *EmergencyService) begin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.executing[key]; busy {
		return false
	}
	s.executing[key] = struct{}{}
	return true
}

func (s *EmergencyService) end(key string) {
	s.mu.Lock()
	delete(s.executing, key)
	s.mu.Unlock()
}

func (s *EmergencyService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("emergency: cache invalidation failed")
	}
}
