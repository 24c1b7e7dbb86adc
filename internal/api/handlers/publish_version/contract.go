package publish_version

import (
	"context"
)

type ScheduleService interface {
	PublishTemplateVersion(ctx context.Context, templateID, versionID int64) error
	PublishSeasonVersion(ctx context.Context, seasonID, versionID int64) error
	PublishOverrideVersion(ctx context.Context, overrideID, versionID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
