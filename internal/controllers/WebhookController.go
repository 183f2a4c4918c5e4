package controllers

import (
	"context"
	"net/http"
	"streamwatch/internal/models"
	"streamwatch/internal/providers"
	"streamwatch/internal/structures"
	"time"

	json "github.com/goccy/go-json"
)

type WebhookStoreInterface interface {
	PutWebhook(ctx context.Context, channelID string, hook models.Webhook) error
}

type WebhookController struct {
	conf   *structures.Config
	roster models.Roster
	store  WebhookStoreInterface
	logger providers.Logger
}

type webhookRequest struct {
	Channel string `json:"channel"`
	ID      string `json:"id"`
	Token   string `json:"token"`
}

func NewWebhookController(conf *structures.Config, roster models.Roster, store WebhookStoreInterface, logger providers.Logger) *WebhookController {
	return &WebhookController{conf: conf, roster: roster, store: store, logger: logger}
}

// Register stores a Discord webhook for one channel. The webhook id is the
// registration key, so registering the same webhook twice overwrites it.
func (wc *WebhookController) Register(w http.ResponseWriter, r *http.Request) {
	if !authorized(r, wc.conf.Trigger.AccessKey) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request: invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ID == "" || req.Token == "" {
		http.Error(w, "Bad Request: id and token are required", http.StatusBadRequest)
		return
	}
	if !wc.roster.Has(req.Channel) {
		http.Error(w, "Bad Request: unknown channel", http.StatusBadRequest)
		return
	}

	hook := models.Webhook{Key: req.ID, ID: req.ID, Token: req.Token, CreatedAt: time.Now().UTC()}
	if err := wc.store.PutWebhook(r.Context(), req.Channel, hook); err != nil {
		wc.logger.Errorf(providers.TypePost, "Webhook registration for %s failed: %s", req.Channel, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	wc.logger.Infof(providers.TypePost, "Registered webhook %s for %s", req.ID, req.Channel)
	writeJSON(w, http.StatusCreated, map[string]string{"key": hook.Key})
}
