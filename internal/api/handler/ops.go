// Package handler provides HTTP handlers for the TasteTrail API.
package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tastetrail/tastetrail/internal/api/models"
	"github.com/tastetrail/tastetrail/internal/api/response"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version     string
	buildTime   string
	datasetSize func() int
	geocoder    func() gobreaker.State
}

// NewOpsHandler creates a new OpsHandler. datasetSize reports the number
// of loaded places; geocoderState reports the geocoding circuit breaker
// state and may be nil when no provider is configured.
func NewOpsHandler(version, buildTime string, datasetSize func() int, geocoderState func() gobreaker.State) *OpsHandler {
	return &OpsHandler{
		version:     version,
		buildTime:   buildTime,
		datasetSize: datasetSize,
		geocoder:    geocoderState,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Ready means
// the place dataset is loaded.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	code := http.StatusOK
	if h.datasetSize == nil || h.datasetSize() == 0 {
		status = models.HealthStatusFail
		code = http.StatusServiceUnavailable
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, code, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem and provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	overall := models.HealthStatusOK

	var size int
	if h.datasetSize != nil {
		size = h.datasetSize()
	}
	datasetStatus := models.HealthStatusOK
	if size == 0 {
		datasetStatus = models.HealthStatusFail
		overall = models.HealthStatusFail
	}
	datasetDetail := fmt.Sprintf("%d places loaded", size)

	subsystems := []models.SubsystemStatus{
		{Name: "poi-dataset", Status: datasetStatus, Detail: &datasetDetail},
	}

	var providers []models.ProviderStatus
	if h.geocoder != nil {
		state := h.geocoder()
		providerStatus := models.HealthStatusOK
		switch state {
		case gobreaker.StateOpen:
			providerStatus = models.HealthStatusFail
			if overall == models.HealthStatusOK {
				overall = models.HealthStatusDegraded
			}
		case gobreaker.StateHalfOpen:
			providerStatus = models.HealthStatusDegraded
			if overall == models.HealthStatusOK {
				overall = models.HealthStatusDegraded
			}
		}
		msg := "circuit " + state.String()
		providers = append(providers, models.ProviderStatus{
			Provider: "kakao",
			Status:   providerStatus,
			Message:  &msg,
		})
	}

	status := models.SystemStatus{
		Status:     overall,
		Time:       now,
		Subsystems: subsystems,
		Providers:  providers,
	}
	response.JSON(w, r, http.StatusOK, status)
}
