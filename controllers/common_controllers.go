package controllers

import (
	"net/http"
	"time"

	"urc/models"
	"urc/services"
)

// HealthHandler reports the service and backend status
func (c *Controller) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "healthy",
		"service": "urc-gateway",
		"uptime":  time.Since(c.startTime).String(),
		"endpoints": []string{
			"/health",
			"/api/test",
			"/api/pengajuan",
			"/api/pengajuan/{id}/status",
			"/api/relawan",
			"/api/relawan/{name}",
		},
		"web_app": c.gateway.GetStatus(r.Context()),
	}

	c.writeJSON(w, http.StatusOK, health)
}

// TestHandler checks connectivity with the web app
func (c *Controller) TestHandler(w http.ResponseWriter, r *http.Request) {
	result := c.gateway.TestConnection(r.Context())

	c.writeJSON(w, http.StatusOK, models.ConnectionStatus{
		Status:    models.StatusSuccess,
		Result:    result,
		Connected: result == services.ConnectedResult,
	})
}
