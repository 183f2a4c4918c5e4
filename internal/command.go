package internal

import (
	"context"
	"streamwatch/internal/models"
	"streamwatch/internal/providers"
	storeinterfaces "streamwatch/internal/store/interfaces"
	"streamwatch/internal/subscription"
	"streamwatch/internal/watcher"
	"streamwatch/internal/watcher/interfaces"
)

// Command runs a single operation against the state store and exits.
// It backs the tick and validate-tokens CLI commands.
type Command struct {
	scheduler interfaces.SchedulerInterface
	backend   storeinterfaces.BackendInterface
	logger    providers.Logger
}

func NewCommand(scheduler interfaces.SchedulerInterface, backend storeinterfaces.BackendInterface, logger providers.Logger) *Command {
	return &Command{scheduler: scheduler, backend: backend, logger: logger}
}

func (c *Command) Tick(ctx context.Context) (models.CycleReport, error) {
	if err := c.scheduler.Restore(); err != nil {
		c.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	defer c.close()
	return c.scheduler.RunOnce(ctx, watcher.SourceCLI)
}

func (c *Command) ValidateTokens(ctx context.Context) (subscription.ValidationReport, error) {
	if err := c.scheduler.Restore(); err != nil {
		c.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	defer c.close()
	return c.scheduler.ValidateTokens(ctx)
}

func (c *Command) close() {
	if err := c.backend.Close(); err != nil {
		c.logger.Errorf(providers.TypeApp, "Closing state store: %s", err)
	}
}
