package promote_waitlist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fairwaylabs/teesheet-service/internal/api/handlers"
	"github.com/fairwaylabs/teesheet-service/internal/api/middleware"
	"github.com/fairwaylabs/teesheet-service/internal/domain"
	promoteWaitlist "github.com/fairwaylabs/teesheet-service/internal/usecase/promote_waitlist"
)

const (
	msgInvalidWaitlistID = "invalid waitlist entry ID"
	msgForbidden         = "staff role required"
	msgEntryNotFound     = "waitlist entry not found"
	msgEntryNotWaiting   = "waitlist entry is not waiting"
	msgNotOldestEntry    = "an older entry is still waiting for this tee time"
	msgCapacityExceeded  = "tee time does not have enough free capacity"
)

type Handler struct {
	useCase PromoteWaitlistUseCase
	logger  Logger
}

func NewHandler(useCase PromoteWaitlistUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/waitlist/{waitlistId}/promote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	waitlistID, err := strconv.ParseInt(vars["waitlistId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /waitlist/{id}/promote - Invalid waitlist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWaitlistID)
		return
	}

	if middleware.GetUserRole(r.Context()) != domain.RoleStaff {
		h.logger.Warn("POST /waitlist/{id}/promote - Staff role required: waitlist_id=%d", waitlistID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &promoteWaitlist.Request{WaitlistID: waitlistID})
	if err != nil {
		switch {
		case errors.Is(err, promoteWaitlist.ErrEntryNotFound):
			h.logger.Warn("POST /waitlist/{id}/promote - Entry not found: waitlist_id=%d", waitlistID)
			handlers.RespondNotFound(w, msgEntryNotFound)

		case errors.Is(err, promoteWaitlist.ErrEntryNotWaiting):
			h.logger.Warn("POST /waitlist/{id}/promote - Entry not waiting: waitlist_id=%d", waitlistID)
			handlers.RespondError(w, http.StatusConflict, msgEntryNotWaiting)

		case errors.Is(err, promoteWaitlist.ErrNotOldestEntry):
			h.logger.Warn("POST /waitlist/{id}/promote - Not oldest entry: waitlist_id=%d", waitlistID)
			handlers.RespondError(w, http.StatusConflict, msgNotOldestEntry)

		case errors.Is(err, promoteWaitlist.ErrCapacityExceeded):
			h.logger.Warn("POST /waitlist/{id}/promote - Capacity exceeded: waitlist_id=%d", waitlistID)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		case errors.Is(err, promoteWaitlist.ErrInvalidInput):
			h.logger.Warn("POST /waitlist/{id}/promote - Invalid input: waitlist_id=%d, error=%v", waitlistID, err)
			handlers.RespondBadRequest(w, msgInvalidWaitlistID)

		default:
			h.logger.Error("POST /waitlist/{id}/promote - Failed to promote: waitlist_id=%d, error=%v",
				waitlistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waitlist/{id}/promote - Promoted: waitlist_id=%d, booking_id=%d",
		waitlistID, result.Booking.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
