package join_waitlist

import (
	"errors"
	"net/http"

	"github.com/fairwaylabs/teesheet-service/internal/api/handlers"
	"github.com/fairwaylabs/teesheet-service/internal/api/middleware"
	joinWaitlist "github.com/fairwaylabs/teesheet-service/internal/usecase/join_waitlist"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "missing user ID"
	msgTeeTimeNotFound    = "tee time not found"
	msgOfferExpired       = "offer has expired"
	msgCapacityExceeded   = "tee time does not have enough free capacity"
	msgInvalidRequest     = "invalid waitlist request"
)

type Handler struct {
	useCase JoinWaitlistUseCase
	logger  Logger
}

func NewHandler(useCase JoinWaitlistUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleJoin POST /api/v1/waitlist
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req JoinWaitlistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waitlist - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /waitlist - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Join(r.Context(), req.ToUseCaseRequest(ownerID))
	if err != nil {
		switch {
		case errors.Is(err, joinWaitlist.ErrTeeTimeNotFound):
			h.logger.Warn("POST /waitlist - Tee time not found: tee_time=%d", req.TeeTimeID)
			handlers.RespondNotFound(w, msgTeeTimeNotFound)

		case errors.Is(err, joinWaitlist.ErrInvalidInput):
			h.logger.Warn("POST /waitlist - Invalid input: owner=%d, error=%v", ownerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /waitlist - Failed to join: owner=%d, tee_time=%d, error=%v",
				ownerID, req.TeeTimeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waitlist - Joined: waitlist_id=%d, owner=%d, offered=%t",
		result.WaitlistID, ownerID, result.Offered)
	handlers.RespondJSON(w, http.StatusCreated, FromJoinResponse(result))
}

// HandleAccept POST /api/v1/waitlist/accept
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req AcceptOfferRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waitlist/accept - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /waitlist/accept - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Accept(r.Context(), &joinWaitlist.AcceptRequest{
		WaitlistID:  req.WaitlistID,
		AcceptToken: req.AcceptToken,
		OwnerID:     ownerID,
		Players:     req.Players,
	})
	if err != nil {
		switch {
		case errors.Is(err, joinWaitlist.ErrOfferExpired):
			h.logger.Warn("POST /waitlist/accept - Offer expired: owner=%d", ownerID)
			handlers.RespondError(w, http.StatusGone, msgOfferExpired)

		case errors.Is(err, joinWaitlist.ErrCapacityExceeded):
			h.logger.Warn("POST /waitlist/accept - Capacity exceeded: owner=%d", ownerID)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		case errors.Is(err, joinWaitlist.ErrEntryNotFound):
			h.logger.Warn("POST /waitlist/accept - Entry not found: owner=%d", ownerID)
			handlers.RespondError(w, http.StatusGone, msgOfferExpired)

		case errors.Is(err, joinWaitlist.ErrInvalidInput):
			h.logger.Warn("POST /waitlist/accept - Invalid input: owner=%d, error=%v", ownerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /waitlist/accept - Failed to accept: owner=%d, error=%v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waitlist/accept - Offer accepted: waitlist_id=%d, booking_id=%d, owner=%d",
		result.WaitlistID, result.Booking.ID, ownerID)
	handlers.RespondJSON(w, http.StatusCreated, FromAcceptResponse(result))
}
