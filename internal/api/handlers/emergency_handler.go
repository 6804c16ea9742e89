package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/intellichain/internal/domain"
	"github.com/andresuchdata/intellichain/internal/service"
)

type EmergencyHandler struct {
	service *service.EmergencyService
}

func NewEmergencyHandler(service *service.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{service: service}
}

func (h *EmergencyHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch emergency dashboard", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *EmergencyHandler) GetOverview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch analytics overview", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *EmergencyHandler) ExecuteRebalance(c *gin.Context) {
	var suggestion domain.RebalanceSuggestion
	if err := c.ShouldBindJSON(&suggestion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transfer payload", "details": err.Error()})
		return
	}

	result, err := h.service.ExecuteRebalance(c.Request.Context(), suggestion)
	if err != nil {
		commandError(c, err, "failed to execute transfer")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *EmergencyHandler) PlaceWarehouseOrder(c *gin.Context) {
	var order domain.WarehouseOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload", "details": err.Error()})
		return
	}

	result, err := h.service.PlaceWarehouseOrder(c.Request.Context(), order)
	if err != nil {
		commandError(c, err, "failed to place warehouse order")
		return
	}
	c.JSON(http.StatusOK, result)
}

func commandError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCommand):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCommandInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": message, "details": err.Error()})
	}
}
