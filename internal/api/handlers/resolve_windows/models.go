package resolve_windows

import (
	"github.com/fairwaylabs/teesheet-service/internal/service/windows/models"
)

// WindowResponse is one abstract window picked for the date.
type WindowResponse struct {
	SideID            *int64  `json:"sideId,omitempty"`
	TemplateVersionID int64   `json:"templateVersionId"`
	Position          int     `json:"position"`
	StartMode         string  `json:"startMode"`
	StartClock        *string `json:"startClock,omitempty"`
	StartOffsetMins   *int    `json:"startOffsetMins,omitempty"`
	EndMode           string  `json:"endMode"`
	EndClock          *string `json:"endClock,omitempty"`
	EndOffsetMins     *int    `json:"endOffsetMins,omitempty"`
	StartSlotsEnabled bool    `json:"startSlotsEnabled"`
}

// ResolveWindowsResponse reports the governing layer and its windows.
type ResolveWindowsResponse struct {
	Source  string           `json:"source"`
	Windows []WindowResponse `json:"windows"`
}

// FromResolveResult maps the service result onto the HTTP model.
func FromResolveResult(result *models.ResolveResult) *ResolveWindowsResponse {
	windows := make([]WindowResponse, 0, len(result.Windows))
	for _, w := range result.Windows {
		resp := WindowResponse{
			SideID:            w.SideID,
			TemplateVersionID: w.TemplateVersionID,
			Position:          w.Position,
			StartMode:         string(w.StartMode),
			StartOffsetMins:   w.StartOffsetMins,
			EndMode:           string(w.EndMode),
			EndOffsetMins:     w.EndOffsetMins,
			StartSlotsEnabled: w.StartSlotsEnabled,
		}
		if w.StartClock != nil {
			clock := string(*w.StartClock)
			resp.StartClock = &clock
		}
		if w.EndClock != nil {
			clock := string(*w.EndClock)
			resp.EndClock = &clock
		}
		windows = append(windows, resp)
	}
	return &ResolveWindowsResponse{
		Source:  string(result.Source),
		Windows: windows,
	}
}
