package compile_windows

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fairwaylabs/teesheet-service/internal/api/handlers"
	"github.com/fairwaylabs/teesheet-service/internal/domain"
	"github.com/fairwaylabs/teesheet-service/internal/service/windows"
)

const (
	msgInvalidSheetID = "invalid sheet ID"
	msgMissingDate    = "missing date query parameter"
	msgInvalidDate    = "invalid date, expected YYYY-MM-DD"
	msgSheetNotFound  = "sheet not found"
)

type Handler struct {
	service WindowService
	logger  Logger
}

func NewHandler(service WindowService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/sheets/{sheetId}/windows/compiled
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sheetID, err := strconv.ParseInt(vars["sheetId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /sheets/{id}/windows/compiled - Invalid sheet ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSheetID)
		return
	}

	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		h.logger.Warn("GET /sheets/{id}/windows/compiled - Missing date: sheet=%d", sheetID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		h.logger.Warn("GET /sheets/{id}/windows/compiled - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	resolved, err := h.service.Resolve(r.Context(), sheetID, date)
	if err != nil {
		h.respondServiceError(w, sheetID, rawDate, err)
		return
	}

	compiled, err := h.service.Compile(r.Context(), sheetID, date, resolved.Windows)
	if err != nil {
		h.respondServiceError(w, sheetID, rawDate, err)
		return
	}

	h.logger.Info("GET /sheets/{id}/windows/compiled - Compiled %d windows: sheet=%d, date=%s, source=%s",
		len(compiled), sheetID, rawDate, resolved.Source)
	handlers.RespondJSON(w, http.StatusOK, FromCompiledWindows(resolved.Source, compiled))
}

func (h *Handler) respondServiceError(w http.ResponseWriter, sheetID int64, rawDate string, err error) {
	switch {
	case errors.Is(err, windows.ErrSheetNotFound):
		h.logger.Warn("GET /sheets/{id}/windows/compiled - Sheet not found: sheet=%d", sheetID)
		handlers.RespondNotFound(w, msgSheetNotFound)

	default:
		h.logger.Error("GET /sheets/{id}/windows/compiled - Failed: sheet=%d, date=%s, error=%v",
			sheetID, rawDate, err)
		handlers.RespondInternalError(w)
	}
}
