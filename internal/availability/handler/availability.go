package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"trimly/internal/availability/service"
	apperrors "trimly/pkg/errors"
	httputil "trimly/pkg/http"
	"trimly/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// GetDayAvailability handles GET /api/v1/availability?date=YYYY-MM-DD&duration=30.
// Passing view=operator returns slots with time-off blocks ignored.
func (h *AvailabilityHandler) GetDayAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	date := query.Get("date")
	if date == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("date parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDayAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	durationStr := query.Get("duration")
	if durationStr == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("duration parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDayAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	durationMin, err := strconv.Atoi(durationStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid duration parameter: %s", durationStr))); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDayAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	operatorView := query.Get("view") == "operator"

	availability, err := h.service.GetDayAvailability(r.Context(), date, durationMin, operatorView)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDayAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "GetDayAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.GetDayAvailability)
}
