package generate_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fairwaylabs/teesheet-service/internal/api/handlers"
	"github.com/fairwaylabs/teesheet-service/internal/api/middleware"
	"github.com/fairwaylabs/teesheet-service/internal/domain"
	generateSlots "github.com/fairwaylabs/teesheet-service/internal/usecase/generate_slots"
)

const (
	msgInvalidSheetID     = "invalid sheet ID"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date, expected YYYY-MM-DD"
	msgForbidden          = "staff role required"
	msgSheetNotFound      = "sheet not found"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sheets/{sheetId}/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sheetID, err := strconv.ParseInt(vars["sheetId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /sheets/{id}/slots/generate - Invalid sheet ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSheetID)
		return
	}

	if middleware.GetUserRole(r.Context()) != domain.RoleStaff {
		h.logger.Warn("POST /sheets/{id}/slots/generate - Staff role required: sheet=%d", sheetID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sheets/{id}/slots/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /sheets/{id}/slots/generate - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &generateSlots.Request{
		SheetID: sheetID,
		Date:    date,
	})
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrSheetNotFound):
			h.logger.Warn("POST /sheets/{id}/slots/generate - Sheet not found: sheet=%d", sheetID)
			handlers.RespondNotFound(w, msgSheetNotFound)

		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /sheets/{id}/slots/generate - Invalid input: sheet=%d, error=%v", sheetID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /sheets/{id}/slots/generate - Failed to generate: sheet=%d, date=%s, error=%v",
				sheetID, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sheets/{id}/slots/generate - Pass complete: sheet=%d, date=%s, generated=%d, retired=%d",
		sheetID, req.Date, result.Generated, result.Retired)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
