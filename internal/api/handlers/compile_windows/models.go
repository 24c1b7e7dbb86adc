package compile_windows

import (
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// CompiledWindowResponse is one concrete window ready for generation.
type CompiledWindowResponse struct {
	SideID            int64  `json:"sideId"`
	TemplateVersionID int64  `json:"templateVersionId"`
	Start             string `json:"start"`
	End               string `json:"end"`
	IntervalMins      int    `json:"intervalMins"`
	StartSlotsEnabled bool   `json:"startSlotsEnabled"`
}

// CompileWindowsResponse reports the governing layer and the compiled
// per-side windows.
type CompileWindowsResponse struct {
	Source  string                   `json:"source"`
	Windows []CompiledWindowResponse `json:"windows"`
}

// FromCompiledWindows maps compiled windows onto the HTTP model.
func FromCompiledWindows(source domain.WindowSource, compiled []domain.CompiledWindow) *CompileWindowsResponse {
	windows := make([]CompiledWindowResponse, 0, len(compiled))
	for _, w := range compiled {
		windows = append(windows, CompiledWindowResponse{
			SideID:            w.SideID,
			TemplateVersionID: w.TemplateVersionID,
			Start:             w.Start.Format(time.RFC3339),
			End:               w.End.Format(time.RFC3339),
			IntervalMins:      w.IntervalMins,
			StartSlotsEnabled: w.StartSlotsEnabled,
		})
	}
	return &CompileWindowsResponse{
		Source:  string(source),
		Windows: windows,
	}
}
