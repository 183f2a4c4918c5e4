package notify

import (
	"context"
	"streamwatch/internal/models"
	"streamwatch/internal/providers"
	"streamwatch/internal/structures"
)

const (
	SinkPush      = "push"
	SinkBot       = "bot"
	SinkMicroblog = "microblog"
	SinkWebhook   = "webhook"
)

type PushSenderInterface interface {
	Send(ctx context.Context, payload models.PushPayload) error
}

type BotSenderInterface interface {
	SendEmbed(ctx context.Context, channel models.MonitoredChannel, msg models.Message) error
}

type MicroblogPosterInterface interface {
	Post(ctx context.Context, text string) error
}

type WebhookSenderInterface interface {
	Execute(ctx context.Context, hook models.Webhook, channel models.MonitoredChannel, msg models.Message) error
}

// WebhookRegistryInterface is the part of the state store the router needs
// to enumerate and prune webhooks.
type WebhookRegistryInterface interface {
	ListWebhooks(ctx context.Context, channelID string) ([]models.Webhook, error)
	DeleteWebhook(ctx context.Context, channelID, key string) error
}

// Sinks holds the enabled delivery capabilities. A nil field is a disabled
// sink and is not dispatched to.
type Sinks struct {
	Push      PushSenderInterface
	Bot       BotSenderInterface
	Microblog MicroblogPosterInterface
	Webhooks  WebhookSenderInterface
}

// SinkResult is the outcome of one dispatch task.
type SinkResult struct {
	Sink string
	Err  error
}

func (r SinkResult) OK() bool {
	return r.Err == nil
}

// NewSinks wires the sinks enabled in the configuration.
func NewSinks(conf *structures.Config, push PushClientInterface, logger providers.Logger) (Sinks, error) {
	var sinks Sinks
	if conf.Notify.Push.Enabled {
		sinks.Push = push
	}
	if conf.Notify.Bot.Enabled {
		bot, err := NewDiscordBot(conf)
		if err != nil {
			return sinks, err
		}
		sinks.Bot = bot
	}
	if conf.Notify.Microblog.Enabled {
		sinks.Microblog = NewMicroblogClient(conf)
	}
	if conf.Notify.Webhook.Enabled {
		hooks, err := NewDiscordWebhooks()
		if err != nil {
			return sinks, err
		}
		sinks.Webhooks = hooks
	}
	logger.Infof(providers.TypeApp, "Notification sinks: push=%t bot=%t microblog=%t webhooks=%t",
		sinks.Push != nil, sinks.Bot != nil, sinks.Microblog != nil, sinks.Webhooks != nil)
	return sinks, nil
}
