package interfaces

import (
	"context"
	"streamwatch/internal/models"
	"streamwatch/internal/subscription"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
	RunOnce(ctx context.Context, source string) (models.CycleReport, error)
	ValidateTokens(ctx context.Context) (subscription.ValidationReport, error)
}
