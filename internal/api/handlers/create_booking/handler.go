package create_booking

import (
	"errors"
	"net/http"

	"github.com/fairwaylabs/teesheet-service/internal/api/handlers"
	"github.com/fairwaylabs/teesheet-service/internal/api/middleware"
	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "missing user ID"
	msgInvalidRequest     = "invalid booking request"
	msgSheetNotFound      = "sheet not found"
	msgTeeTimeNotFound    = "tee time not found"
	msgAccessDenied       = "booking class not allowed on this slot"
	msgMinPlayersNotMet   = "not enough players for this slot"
	msgWindowNotOpen      = "booking window is not open yet"
	msgWindowHasPassed    = "tee time has already passed"
	msgWalkRideNotAllowed = "walk/ride selection not allowed on this slot"
	msgReroundUnavailable = "no reround slot available for eighteen holes"
	msgCapacityExceeded   = "tee time does not have enough free capacity"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(ownerID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings - Capacity exceeded: owner=%d, tee_time=%d", ownerID, req.TeeTimeID)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		case errors.Is(err, createBooking.ErrSheetNotFound):
			h.logger.Warn("POST /bookings - Sheet not found: sheet=%d", req.SheetID)
			handlers.RespondNotFound(w, msgSheetNotFound)

		case errors.Is(err, createBooking.ErrTeeTimeNotFound):
			h.logger.Warn("POST /bookings - Tee time not found: tee_time=%d", req.TeeTimeID)
			handlers.RespondNotFound(w, msgTeeTimeNotFound)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: owner=%d, class=%s", ownerID, req.ClassCode)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, createBooking.ErrMinimumPlayersNotMet):
			h.logger.Warn("POST /bookings - Minimum players not met: owner=%d, players=%d", ownerID, len(req.Players))
			handlers.RespondBadRequest(w, msgMinPlayersNotMet)

		case errors.Is(err, createBooking.ErrWindowNotOpen):
			h.logger.Warn("POST /bookings - Booking window not open: owner=%d, tee_time=%d", ownerID, req.TeeTimeID)
			handlers.RespondBadRequest(w, msgWindowNotOpen)

		case errors.Is(err, createBooking.ErrWindowHasPassed):
			h.logger.Warn("POST /bookings - Window has passed: owner=%d, tee_time=%d", ownerID, req.TeeTimeID)
			handlers.RespondBadRequest(w, msgWindowHasPassed)

		case errors.Is(err, createBooking.ErrWalkRideNotAllowed):
			h.logger.Warn("POST /bookings - Walk/ride not allowed: owner=%d, tee_time=%d", ownerID, req.TeeTimeID)
			handlers.RespondBadRequest(w, msgWalkRideNotAllowed)

		case errors.Is(err, createBooking.ErrReroundUnavailable):
			h.logger.Warn("POST /bookings - Reround unavailable: owner=%d, tee_time=%d", ownerID, req.TeeTimeID)
			handlers.RespondError(w, http.StatusConflict, msgReroundUnavailable)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: owner=%d, error=%v", ownerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: owner=%d, tee_time=%d, error=%v",
				ownerID, req.TeeTimeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, owner=%d, tee_time=%d",
		result.ID, ownerID, req.TeeTimeID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
