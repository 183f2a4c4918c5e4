package notify

import (
	"context"
	"errors"
	"fmt"
	"streamwatch/internal/models"
	"streamwatch/internal/providers"
	"streamwatch/internal/structures"
	"strconv"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// dryRunLimit is the largest batch SendEachDryRun accepts.
const dryRunLimit = 500

// PushClientInterface covers topic sends, topic membership and token
// liveness checks on the push service.
type PushClientInterface interface {
	PushSenderInterface
	SubscribeToTopic(ctx context.Context, token, topic string) error
	UnsubscribeFromTopic(ctx context.Context, token, topic string) error
	FindUnregistered(ctx context.Context, tokens []string) ([]string, error)
}

type fcmMessaging interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendEachDryRun(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
}

type FCMClient struct {
	client fcmMessaging
	ttl    time.Duration
	logger providers.Logger
}

// NewPushClient returns a Firebase Cloud Messaging client, or a no-op client
// when push is disabled.
func NewPushClient(conf *structures.Config, logger providers.Logger) (PushClientInterface, error) {
	if !conf.Notify.Push.Enabled {
		return &noopPushClient{}, nil
	}

	ctx := context.Background()
	var opts []option.ClientOption
	if conf.Notify.Push.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(conf.Notify.Push.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return newFCMClient(client, conf.Notify.Push.TTL, logger), nil
}

func newFCMClient(client fcmMessaging, ttl time.Duration, logger providers.Logger) *FCMClient {
	return &FCMClient{client: client, ttl: ttl, logger: logger}
}

func (c *FCMClient) Send(ctx context.Context, payload models.PushPayload) error {
	ttl := c.ttl
	msg := &messaging.Message{
		Topic: payload.Topic,
		Data:  payload.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			TTL:      &ttl,
		},
		Webpush: &messaging.WebpushConfig{
			Headers: map[string]string{
				"Urgency": "high",
				"TTL":     strconv.Itoa(int(ttl.Seconds())),
			},
		},
	}
	id, err := c.client.Send(ctx, msg)
	if err != nil {
		if messaging.IsUnregistered(err) {
			return Permanent(err)
		}
		return Transient(err)
	}
	c.logger.Debugf(providers.TypeNotify, "Push to topic %s accepted as %s", payload.Topic, id)
	return nil
}

func (c *FCMClient) SubscribeToTopic(ctx context.Context, token, topic string) error {
	resp, err := c.client.SubscribeToTopic(ctx, []string{token}, topic)
	return topicResult(resp, err)
}

func (c *FCMClient) UnsubscribeFromTopic(ctx context.Context, token, topic string) error {
	resp, err := c.client.UnsubscribeFromTopic(ctx, []string{token}, topic)
	return topicResult(resp, err)
}

func topicResult(resp *messaging.TopicManagementResponse, err error) error {
	if err != nil {
		return err
	}
	if resp != nil && resp.FailureCount > 0 {
		reason := "unknown"
		if len(resp.Errors) > 0 && resp.Errors[0] != nil {
			reason = resp.Errors[0].Reason
		}
		return errors.New("topic management failed: " + reason)
	}
	return nil
}

// FindUnregistered dry-runs a message to every token and returns the tokens
// the push service reports as no longer registered.
func (c *FCMClient) FindUnregistered(ctx context.Context, tokens []string) ([]string, error) {
	var dead []string
	for start := 0; start < len(tokens); start += dryRunLimit {
		end := min(start+dryRunLimit, len(tokens))
		chunk := tokens[start:end]

		messages := make([]*messaging.Message, len(chunk))
		for i, token := range chunk {
			messages[i] = &messaging.Message{Token: token, Data: map[string]string{"validate": "true"}}
		}
		resp, err := c.client.SendEachDryRun(ctx, messages)
		if err != nil {
			return dead, err
		}
		for i, r := range resp.Responses {
			if i < len(chunk) && r != nil && !r.Success && messaging.IsUnregistered(r.Error) {
				dead = append(dead, chunk[i])
			}
		}
	}
	return dead, nil
}

type noopPushClient struct{}

func (n *noopPushClient) Send(_ context.Context, _ models.PushPayload) error {
	return nil
}

func (n *noopPushClient) SubscribeToTopic(_ context.Context, _, _ string) error {
	return nil
}

func (n *noopPushClient) UnsubscribeFromTopic(_ context.Context, _, _ string) error {
	return nil
}

func (n *noopPushClient) FindUnregistered(_ context.Context, _ []string) ([]string, error) {
	return nil, nil
}
