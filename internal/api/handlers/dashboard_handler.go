package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/intellichain/internal/config"
	"github.com/andresuchdata/intellichain/internal/domain"
	"github.com/andresuchdata/intellichain/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
	pages   config.DashboardConfig
}

func NewDashboardHandler(service *service.DashboardService, pages config.DashboardConfig) *DashboardHandler {
	if pages.ProductsPageSize <= 0 {
		pages.ProductsPageSize = 10
	}
	if pages.AlertsPageSize <= 0 {
		pages.AlertsPageSize = 5
	}
	return &DashboardHandler{service: service, pages: pages}
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
		return parsed
	}
	return fallback
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, newDashboardView(h.service.State(), h.pages.AlertsPageSize))
}

// GetProducts returns one page of the filtered products with their tiers.
func (h *DashboardHandler) GetProducts(c *gin.Context) {
	page := parsePositiveIntWithDefault(c.Query("page"), 1)
	size := parsePositiveIntWithDefault(c.Query("page_size"), h.pages.ProductsPageSize)

	s := h.service.State()
	c.JSON(http.StatusOK, domain.Paginate(productViews(s.Filtered), page, size))
}

func (h *DashboardHandler) GetAlerts(c *gin.Context) {
	page := parsePositiveIntWithDefault(c.Query("page"), 1)

	s := h.service.State()
	c.JSON(http.StatusOK, domain.Paginate(s.Alerts, page, h.pages.AlertsPageSize))
}

func (h *DashboardHandler) UpdateFilters(c *gin.Context) {
	var opts domain.FilterOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter payload", "details": err.Error()})
		return
	}

	s, err := h.service.UpdateFilters(opts)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update filters"})
		return
	}

	c.JSON(http.StatusOK, newDashboardView(s, h.pages.AlertsPageSize))
}

func (h *DashboardHandler) ClearFilters(c *gin.Context) {
	c.JSON(http.StatusOK, newDashboardView(h.service.ClearFilters(), h.pages.AlertsPageSize))
}

// SelectStore switches the store and waits for its data. A failed load is
// reported through the dashboard error banner, not the status code.
func (h *DashboardHandler) SelectStore(c *gin.Context) {
	storeID := c.Param("id")
	if err := h.service.SelectStore(c.Request.Context(), storeID); errors.Is(err, domain.ErrStoreNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "store not found", "store_id": storeID})
		return
	}

	c.JSON(http.StatusOK, newDashboardView(h.service.State(), h.pages.AlertsPageSize))
}

func (h *DashboardHandler) Refresh(c *gin.Context) {
	_ = h.service.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, newDashboardView(h.service.State(), h.pages.AlertsPageSize))
}
