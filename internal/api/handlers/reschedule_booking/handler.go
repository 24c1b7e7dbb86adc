package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fairwaylabs/teesheet-service/internal/api/handlers"
	"github.com/fairwaylabs/teesheet-service/internal/api/middleware"
	rescheduleBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID   = "invalid booking ID"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "missing user ID"
	msgBookingNotFound    = "booking not found"
	msgBookingNotActive   = "booking is not active"
	msgForbidden          = "access denied"
	msgTeeTimeNotFound    = "tee time not found"
	msgWindowNotOpen      = "booking window is not open yet"
	msgWindowHasPassed    = "tee time has already passed"
	msgReroundUnavailable = "no reround slot available at the new time"
	msgCapacityExceeded   = "new tee time does not have enough free capacity"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role := middleware.GetUserRole(r.Context())

	result, err := h.useCase.Execute(r.Context(), &rescheduleBooking.Request{
		BookingID:    bookingID,
		ActorID:      actorID,
		Role:         role,
		NewTeeTimeID: req.NewTeeTimeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrCapacityExceeded):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Capacity exceeded: booking_id=%d, tee_time=%d",
				bookingID, req.NewTeeTimeID)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrBookingNotActive):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not active: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgBookingNotActive)

		case errors.Is(err, rescheduleBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Access denied: booking_id=%d, actor=%d", bookingID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleBooking.ErrTeeTimeNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Tee time not found: tee_time=%d", req.NewTeeTimeID)
			handlers.RespondNotFound(w, msgTeeTimeNotFound)

		case errors.Is(err, rescheduleBooking.ErrWindowNotOpen):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Window not open: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgWindowNotOpen)

		case errors.Is(err, rescheduleBooking.ErrWindowHasPassed):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Window has passed: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgWindowHasPassed)

		case errors.Is(err, rescheduleBooking.ErrReroundUnavailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Reround unavailable: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgReroundUnavailable)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: booking_id=%d, tee_time=%d",
		bookingID, req.NewTeeTimeID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
