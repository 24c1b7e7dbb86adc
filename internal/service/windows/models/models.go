package models

import (
	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// ResolveResult is the resolver's answer for one (sheet, date) pair. An
// override source with zero windows is an explicitly closed day.
type ResolveResult struct {
	Source  domain.WindowSource
	Windows []domain.ResolvedWindow
}
