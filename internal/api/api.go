package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andresuchdata/intellichain/internal/api/handlers"
	"github.com/andresuchdata/intellichain/internal/api/middleware"
	"github.com/andresuchdata/intellichain/internal/config"
	"github.com/andresuchdata/intellichain/internal/service"
)

type Services struct {
	Dashboard *service.DashboardService
	Emergency *service.EmergencyService
}

func NewRouter(services *Services, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	apiGroup.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if services == nil {
		return router
	}

	if services.Dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard, cfg.Dashboard)
		dashboardGroup := apiGroup.Group("/dashboard")
		{
			dashboardGroup.GET("", dashboardHandler.GetDashboard)
			dashboardGroup.GET("/products", dashboardHandler.GetProducts)
			dashboardGroup.GET("/alerts", dashboardHandler.GetAlerts)
			dashboardGroup.PUT("/filters", dashboardHandler.UpdateFilters)
			dashboardGroup.DELETE("/filters", dashboardHandler.ClearFilters)
			dashboardGroup.PUT("/store/:id", dashboardHandler.SelectStore)
			dashboardGroup.POST("/refresh", dashboardHandler.Refresh)
		}

		sessionHandler := handlers.NewSessionHandler(services.Dashboard)
		apiGroup.POST("/session/login", sessionHandler.Login)
		apiGroup.DELETE("/session", sessionHandler.Logout)
	}

	if services.Emergency != nil {
		emergencyHandler := handlers.NewEmergencyHandler(services.Emergency)
		emergencyGroup := apiGroup.Group("/emergency")
		{
			emergencyGroup.GET("", emergencyHandler.GetDashboard)
			emergencyGroup.POST("/rebalance", emergencyHandler.ExecuteRebalance)
			emergencyGroup.POST("/orders", emergencyHandler.PlaceWarehouseOrder)
		}
		apiGroup.GET("/analytics/overview", emergencyHandler.GetOverview)
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	normalized, allowAll := normalizeAllowedOrigins(allowedOrigins)
	if allowAll {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	} else if len(normalized) > 0 {
		corsConfig.AllowOrigins = normalized
	}
	return corsConfig
}

// normalizeAllowedOrigins accepts repeated and comma-separated origins. "*"
// allows every origin.
func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			switch trimmed {
			case "":
			case "*":
				allowAll = true
			default:
				parsed = append(parsed, trimmed)
			}
		}
	}
	return parsed, allowAll
}
