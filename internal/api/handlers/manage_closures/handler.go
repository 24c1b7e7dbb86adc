package manage_closures

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fairwaylabs/teesheet-service/internal/api/handlers"
	"github.com/fairwaylabs/teesheet-service/internal/api/middleware"
	"github.com/fairwaylabs/teesheet-service/internal/domain"
	"github.com/fairwaylabs/teesheet-service/internal/service/schedule"
)

const (
	msgInvalidSheetID     = "invalid sheet ID"
	msgInvalidClosureID   = "invalid closure ID"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidTimes       = "invalid closure times, expected RFC3339"
	msgInvalidRange       = "closure range is empty"
	msgForbidden          = "staff role required"
	msgClosureNotFound    = "closure not found"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/sheets/{sheetId}/closures
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sheetID, err := strconv.ParseInt(vars["sheetId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /sheets/{id}/closures - Invalid sheet ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSheetID)
		return
	}

	if middleware.GetUserRole(r.Context()) != domain.RoleStaff {
		h.logger.Warn("POST /sheets/{id}/closures - Staff role required: sheet=%d", sheetID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req CreateClosureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sheets/{id}/closures - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	closure, err := req.ToDomain(sheetID)
	if err != nil {
		h.logger.Warn("POST /sheets/{id}/closures - Invalid times: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimes)
		return
	}

	created, err := h.service.CreateClosure(r.Context(), closure)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrConfigurationInvalid):
			h.logger.Warn("POST /sheets/{id}/closures - Empty range: sheet=%d", sheetID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("POST /sheets/{id}/closures - Failed to create: sheet=%d, error=%v", sheetID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sheets/{id}/closures - Closure created: sheet=%d, closure_id=%d", sheetID, created.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(created))
}

// HandleDelete DELETE /api/v1/closures/{closureId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	closureID, err := strconv.ParseInt(vars["closureId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /closures/{id} - Invalid closure ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClosureID)
		return
	}

	if middleware.GetUserRole(r.Context()) != domain.RoleStaff {
		h.logger.Warn("DELETE /closures/{id} - Staff role required: closure=%d", closureID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	if err := h.service.DeleteClosure(r.Context(), closureID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrVersionNotFound):
			h.logger.Warn("DELETE /closures/{id} - Closure not found: closure=%d", closureID)
			handlers.RespondNotFound(w, msgClosureNotFound)

		default:
			h.logger.Error("DELETE /closures/{id} - Failed to delete: closure=%d, error=%v", closureID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /closures/{id} - Closure deleted: closure=%d", closureID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
