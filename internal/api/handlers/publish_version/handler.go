package publish_version

import (
	"context"
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
	msgInvalidID            = "invalid resource ID"
	msgForbidden            = "staff role required"
	msgVersionNotFound      = "version not found"
	msgVersionPublished     = "version is already published"
	msgConfigurationInvalid = "version failed publish validation"
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

// HandleTemplate POST /api/v1/templates/{templateId}/versions/{versionId}/publish
func (h *Handler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	h.publish(w, r, "templateId", "POST /templates/{id}/versions/{vid}/publish", h.service.PublishTemplateVersion)
}

// HandleSeason POST /api/v1/seasons/{seasonId}/versions/{versionId}/publish
func (h *Handler) HandleSeason(w http.ResponseWriter, r *http.Request) {
	h.publish(w, r, "seasonId", "POST /seasons/{id}/versions/{vid}/publish", h.service.PublishSeasonVersion)
}

// HandleOverride POST /api/v1/overrides/{overrideId}/versions/{versionId}/publish
func (h *Handler) HandleOverride(w http.ResponseWriter, r *http.Request) {
	h.publish(w, r, "overrideId", "POST /overrides/{id}/versions/{vid}/publish", h.service.PublishOverrideVersion)
}

func (h *Handler) publish(
	w http.ResponseWriter,
	r *http.Request,
	parentVar, route string,
	publish func(ctx context.Context, parentID, versionID int64) error,
) {
	vars := mux.Vars(r)
	parentID, err := strconv.ParseInt(vars[parentVar], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid %s: %v", route, parentVar, err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}
	versionID, err := strconv.ParseInt(vars["versionId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid version ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if middleware.GetUserRole(r.Context()) != domain.RoleStaff {
		h.logger.Warn("%s - Staff role required: id=%d, version=%d", route, parentID, versionID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	if err := publish(r.Context(), parentID, versionID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrVersionNotFound):
			h.logger.Warn("%s - Version not found: id=%d, version=%d", route, parentID, versionID)
			handlers.RespondNotFound(w, msgVersionNotFound)

		case errors.Is(err, schedule.ErrVersionPublished):
			h.logger.Warn("%s - Already published: id=%d, version=%d", route, parentID, versionID)
			handlers.RespondError(w, http.StatusConflict, msgVersionPublished)

		case errors.Is(err, schedule.ErrConfigurationInvalid):
			h.logger.Warn("%s - Validation failed: id=%d, version=%d, error=%v", route, parentID, versionID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgConfigurationInvalid)

		default:
			h.logger.Error("%s - Failed to publish: id=%d, version=%d, error=%v", route, parentID, versionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Version published: id=%d, version=%d", route, parentID, versionID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
