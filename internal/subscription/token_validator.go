package subscription

import (
	"context"
	"streamwatch/internal/providers"
	"streamwatch/internal/structures"
)

const defaultBatchSize = 200

type TokenCheckerInterface interface {
	FindUnregistered(ctx context.Context, tokens []string) ([]string, error)
}

type TokenValidatorInterface interface {
	Validate(ctx context.Context) (ValidationReport, error)
}

type ValidationReport struct {
	Checked       int `json:"checked"`
	Pruned        int `json:"pruned"`
	FailedBatches int `json:"failedBatches"`
}

type TokenValidator struct {
	registry  RegistryInterface
	checker   TokenCheckerInterface
	topics    TopicManagerInterface
	batchSize int
	logger    providers.Logger
}

func NewTokenValidator(conf *structures.Config, registry RegistryInterface, checker TokenCheckerInterface, topics TopicManagerInterface, logger providers.Logger) TokenValidatorInterface {
	size := conf.Watcher.TokenBatchSize
	if size <= 0 {
		size = defaultBatchSize
	}
	return &TokenValidator{
		registry:  registry,
		checker:   checker,
		topics:    topics,
		batchSize: size,
		logger:    logger,
	}
}

// Validate checks every registered token in fixed-size batches and prunes
// the ones reported unregistered. A failed batch is logged and skipped.
func (v *TokenValidator) Validate(ctx context.Context) (ValidationReport, error) {
	var report ValidationReport

	tokens, err := v.registry.ListSubscribers(ctx)
	if err != nil {
		return report, err
	}

	for start := 0; start < len(tokens); start += v.batchSize {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		end := min(start+v.batchSize, len(tokens))
		batch := tokens[start:end]

		dead, err := v.checker.FindUnregistered(ctx, batch)
		if err != nil {
			report.FailedBatches++
			v.logger.Errorf(providers.TypeNotify, "Token batch %d-%d failed: %s", start, end, err)
			continue
		}
		report.Checked += len(batch)
		for _, token := range dead {
			if v.prune(ctx, token) {
				report.Pruned++
			}
		}
	}

	v.logger.Infof(providers.TypeNotify, "Token validation: checked=%d pruned=%d failedBatches=%d",
		report.Checked, report.Pruned, report.FailedBatches)
	return report, nil
}

func (v *TokenValidator) prune(ctx context.Context, token string) bool {
	channels, err := v.registry.GetSubscription(ctx, token)
	if err != nil {
		v.logger.Warnf(providers.TypeNotify, "Unable to read subscription of a dead token: %s", err)
	}
	for _, id := range channels {
		if err := v.topics.UnsubscribeFromTopic(ctx, token, id); err != nil {
			v.logger.Debugf(providers.TypeNotify, "Unsubscribe dead token from %s: %s", id, err)
		}
	}
	if err := v.registry.DeleteSubscription(ctx, token); err != nil {
		v.logger.Errorf(providers.TypeNotify, "Unable to remove dead token: %s", err)
		return false
	}
	return true
}
