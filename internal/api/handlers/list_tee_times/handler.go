package list_tee_times

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fairwaylabs/teesheet-service/internal/api/handlers"
	"github.com/fairwaylabs/teesheet-service/internal/domain"
	listTeeTimes "github.com/fairwaylabs/teesheet-service/internal/usecase/list_tee_times"
)

const (
	msgInvalidSheetID = "invalid sheet ID"
	msgInvalidSideID  = "invalid side ID"
	msgMissingDate    = "missing date query parameter"
	msgInvalidDate    = "invalid date, expected YYYY-MM-DD"
	msgSheetNotFound  = "sheet not found"
	msgSideNotFound   = "side not found"
)

type Handler struct {
	useCase ListTeeTimesUseCase
	logger  Logger
}

func NewHandler(useCase ListTeeTimesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/sheets/{sheetId}/tee-times
// Query params: date (required, YYYY-MM-DD), sideId, onlyAvailable
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sheetID, err := strconv.ParseInt(vars["sheetId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /sheets/{id}/tee-times - Invalid sheet ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSheetID)
		return
	}

	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		h.logger.Warn("GET /sheets/{id}/tee-times - Missing date: sheet=%d", sheetID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		h.logger.Warn("GET /sheets/{id}/tee-times - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &listTeeTimes.Request{
		SheetID:       sheetID,
		Date:          date,
		OnlyAvailable: r.URL.Query().Get("onlyAvailable") == "true",
	}
	if rawSide := r.URL.Query().Get("sideId"); rawSide != "" {
		sideID, err := strconv.ParseInt(rawSide, 10, 64)
		if err != nil {
			h.logger.Warn("GET /sheets/{id}/tee-times - Invalid side ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSideID)
			return
		}
		req.SideID = &sideID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, listTeeTimes.ErrSheetNotFound):
			h.logger.Warn("GET /sheets/{id}/tee-times - Sheet not found: sheet=%d", sheetID)
			handlers.RespondNotFound(w, msgSheetNotFound)

		case errors.Is(err, listTeeTimes.ErrSideNotFound):
			h.logger.Warn("GET /sheets/{id}/tee-times - Side not found: sheet=%d", sheetID)
			handlers.RespondNotFound(w, msgSideNotFound)

		case errors.Is(err, listTeeTimes.ErrInvalidInput):
			h.logger.Warn("GET /sheets/{id}/tee-times - Invalid input: sheet=%d, error=%v", sheetID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /sheets/{id}/tee-times - Failed to list: sheet=%d, date=%s, error=%v",
				sheetID, rawDate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /sheets/{id}/tee-times - Retrieved %d slots: sheet=%d, date=%s",
		len(result.Slots), sheetID, rawDate)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
