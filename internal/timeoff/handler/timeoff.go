package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"trimly/internal/timeoff/service"
	httputil "trimly/pkg/http"
	"trimly/pkg/logger"
	"trimly/pkg/model"
)

type TimeOffHandler struct {
	service service.TimeOffService
	log     *logger.Logger
}

func NewTimeOffHandler(service service.TimeOffService, log *logger.Logger) *TimeOffHandler {
	return &TimeOffHandler{
		service: service,
		log:     log,
	}
}

func (h *TimeOffHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var block model.TimeOffBlock
	if err := json.NewDecoder(r.Body).Decode(&block); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &block); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, block); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *TimeOffHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fromParam := r.URL.Query().Get("from")
	toParam := r.URL.Query().Get("to")
	if fromParam != "" || toParam != "" {
		h.getInRange(w, r, fromParam, toParam)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	blocks, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, blocks, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *TimeOffHandler) getInRange(w http.ResponseWriter, r *http.Request, fromParam, toParam string) {
	if fromParam == "" || toParam == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "from and to parameters must be provided together",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "GetInRange", "operation", "WriteJSON", "error", err)
		}
		return
	}

	from, err := time.Parse(time.RFC3339, fromParam)
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "from must be an RFC3339 timestamp",
		}); writeErr != nil {
			h.log.Error("failed to write bad request response", "handler", "GetInRange", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	to, err := time.Parse(time.RFC3339, toParam)
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "to must be an RFC3339 timestamp",
		}); writeErr != nil {
			h.log.Error("failed to write bad request response", "handler", "GetInRange", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	blocks, err := h.service.GetInRange(r.Context(), from, to)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetInRange", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, blocks); err != nil {
		h.log.Error("failed to write success response", "handler", "GetInRange", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TimeOffHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "ID parameter is required",
		}); err != nil {
			h.log.Error("failed to write bad request response", "handler", "Delete", "operation", "WriteJSON", "error", err)
		}
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *TimeOffHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/time-off", h.Create)
	router.GET("/api/v1/time-off", h.GetAll)
	router.DELETE("/api/v1/time-off/id/:id", h.Delete)
}
