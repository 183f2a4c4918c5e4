package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"streamwatch/internal/models"
	"streamwatch/internal/structures"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	discordUnknownWebhook      = 10015
	discordInvalidWebhookToken = 50027

	channelURLBase = "https://twitch.tv/"
)

type discordAPI interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordBot posts embeds to one announcement channel.
type DiscordBot struct {
	api       discordAPI
	channelID string
}

func NewDiscordBot(conf *structures.Config) (*DiscordBot, error) {
	session, err := discordgo.New("Bot " + conf.Notify.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &DiscordBot{api: session, channelID: conf.Notify.Bot.ChannelID}, nil
}

func (b *DiscordBot) SendEmbed(ctx context.Context, channel models.MonitoredChannel, msg models.Message) error {
	_, err := b.api.ChannelMessageSendEmbed(b.channelID, embed(channel, msg), discordgo.WithContext(ctx))
	return classifyDiscordError(err)
}

// DiscordWebhooks executes registered webhooks. Webhook calls carry their
// own token so the session is unauthenticated.
type DiscordWebhooks struct {
	api discordAPI
}

func NewDiscordWebhooks() (*DiscordWebhooks, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &DiscordWebhooks{api: session}, nil
}

func (w *DiscordWebhooks) Execute(ctx context.Context, hook models.Webhook, channel models.MonitoredChannel, msg models.Message) error {
	params := &discordgo.WebhookParams{
		Username: channel.Name,
		Embeds:   []*discordgo.MessageEmbed{embed(channel, msg)},
	}
	_, err := w.api.WebhookExecute(hook.ID, hook.Token, false, params, discordgo.WithContext(ctx))
	return classifyDiscordError(err)
}

func embed(channel models.MonitoredChannel, msg models.Message) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Body,
		URL:         channelURLBase + channel.TwitchLogin,
		Color:       channel.ColorValue(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// classifyDiscordError marks unknown or invalid webhooks as permanent.
func classifyDiscordError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordUnknownWebhook, discordInvalidWebhookToken:
				return Permanent(err)
			}
		}
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return Permanent(err)
		}
	}
	return Transient(err)
}
