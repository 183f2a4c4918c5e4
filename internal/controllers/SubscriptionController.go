package controllers

import (
	"errors"
	"net/http"
	"streamwatch/internal/providers"
	"streamwatch/internal/subscription"

	json "github.com/goccy/go-json"
)

type SubscriptionController struct {
	manager subscription.ManagerInterface
	logger  providers.Logger
}

type subscriptionRequest struct {
	Token    string   `json:"token"`
	Channels []string `json:"channels"`
}

type subscriptionResponse struct {
	Token    string   `json:"token"`
	Channels []string `json:"channels"`
	Added    []string `json:"added,omitempty"`
	Removed  []string `json:"removed,omitempty"`
	Failed   []string `json:"failed,omitempty"`
}

func NewSubscriptionController(manager subscription.ManagerInterface, logger providers.Logger) *SubscriptionController {
	return &SubscriptionController{manager: manager, logger: logger}
}

func (sc *SubscriptionController) Get(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	channels, err := sc.manager.Get(r.Context(), token)
	if errors.Is(err, subscription.ErrEmptyIdentity) {
		http.Error(w, "Bad Request: token is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		sc.logger.Errorf(providers.TypeGet, "Subscription lookup failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, subscriptionResponse{Token: token, Channels: channels})
}

// Put replaces the token's channel set. Topic calls that failed are listed
// in the response; the stored set is already updated at that point.
func (sc *SubscriptionController) Put(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request: invalid JSON", http.StatusBadRequest)
		return
	}

	result, err := sc.manager.Update(r.Context(), req.Token, req.Channels)
	switch {
	case errors.Is(err, subscription.ErrEmptyIdentity):
		http.Error(w, "Bad Request: token is required", http.StatusBadRequest)
		return
	case errors.Is(err, subscription.ErrUnknownChannel):
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		sc.logger.Errorf(providers.TypePost, "Subscription update failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	channels, err := sc.manager.Get(r.Context(), req.Token)
	if err != nil {
		channels = req.Channels
	}
	resp := subscriptionResponse{
		Token:    req.Token,
		Channels: channels,
		Added:    result.Added,
		Removed:  result.Removed,
	}
	for _, call := range result.Failed {
		resp.Failed = append(resp.Failed, call.Channel)
	}
	writeJSON(w, http.StatusOK, resp)
}
