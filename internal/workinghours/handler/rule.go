package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"trimly/internal/workinghours/service"
	httputil "trimly/pkg/http"
	"trimly/pkg/logger"
	"trimly/pkg/model"
)

type RuleHandler struct {
	service service.RuleService
	log     *logger.Logger
}

func NewRuleHandler(service service.RuleService, log *logger.Logger) *RuleHandler {
	return &RuleHandler{
		service: service,
		log:     log,
	}
}

func (h *RuleHandler) GetWeeklySchedule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	schedule, err := h.service.GetWeeklySchedule(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetWeeklySchedule", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetWeeklySchedule", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RuleHandler) ReplaceWeeklySchedule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var schedule model.WeeklySchedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ReplaceWeeklySchedule", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.ReplaceWeeklySchedule(r.Context(), &schedule); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ReplaceWeeklySchedule", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "ReplaceWeeklySchedule", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RuleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/working-hours", h.GetWeeklySchedule)
	router.PUT("/api/v1/working-hours", h.ReplaceWeeklySchedule)
}
