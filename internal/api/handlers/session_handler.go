package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/intellichain/internal/domain"
	"github.com/andresuchdata/intellichain/internal/service"
)

type SessionHandler struct {
	service *service.DashboardService
}

func NewSessionHandler(service *service.DashboardService) *SessionHandler {
	return &SessionHandler{service: service}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Location string `json:"location"`
}

// Login starts a cosmetic session. The role only changes what the UI shows.
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and role are required"})
		return
	}

	s, err := h.service.Login(req.Username, domain.Role(req.Role), req.Location)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSession) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	c.JSON(http.StatusOK, s.Session)
}

func (h *SessionHandler) Logout(c *gin.Context) {
	h.service.Logout()
	c.Status(http.StatusNoContent)
}
