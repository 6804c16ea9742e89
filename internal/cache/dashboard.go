package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/intellichain/internal/config"
	"github.com/andresuchdata/intellichain/internal/domain"
)

const (
	keyPrefix    = "intellichain:"
	emergencyKey = keyPrefix + "emergency:dashboard"
	analyticsKey = keyPrefix + "analytics:overview"
)

// DashboardCache holds backend reads that are shared by every dashboard user.
// Commands that change stock must call InvalidateAll.
type DashboardCache interface {
	GetEmergency(ctx context.Context) (*domain.EmergencyDashboard, bool, error)
	SetEmergency(ctx context.Context, dashboard *domain.EmergencyDashboard) error
	GetOverview(ctx context.Context) (*domain.AnalyticsOverview, bool, error)
	SetOverview(ctx context.Context, overview *domain.AnalyticsOverview) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache returns a redis-backed cache when caching is enabled and
// a no-op cache otherwise.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetEmergency(ctx context.Context) (*domain.EmergencyDashboard, bool, error) {
	var dashboard domain.EmergencyDashboard
	ok, err := getJSON(ctx, c.client, emergencyKey, &dashboard)
	if err != nil || !ok {
		return nil, false, err
	}
	return &dashboard, true, nil
}

func (c *redisDashboardCache) SetEmergency(ctx context.Context, dashboard *domain.EmergencyDashboard) error {
	return setJSON(ctx, c.client, emergencyKey, dashboard, c.ttl)
}

func (c *redisDashboardCache) GetOverview(ctx context.Context) (*domain.AnalyticsOverview, bool, error) {
	var overview domain.AnalyticsOverview
	ok, err := getJSON(ctx, c.client, analyticsKey, &overview)
	if err != nil || !ok {
		return nil, false, err
	}
	return &overview, true, nil
}

func (c *redisDashboardCache) SetOverview(ctx context.Context, overview *domain.AnalyticsOverview) error {
	return setJSON(ctx, c.client, analyticsKey, overview, c.ttl)
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, keyPrefix)
}

func (n *noopDashboardCache) GetEmergency(ctx context.Context) (*domain.EmergencyDashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetEmergency(ctx context.Context, dashboard *domain.EmergencyDashboard) error {
	return nil
}

func (n *noopDashboardCache) GetOverview(ctx context.Context) (*domain.AnalyticsOverview, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetOverview(ctx context.Context, overview *domain.AnalyticsOverview) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}
