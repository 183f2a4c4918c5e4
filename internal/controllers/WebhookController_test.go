package controllers

import (
	"net/http"
	"net/http/httptest"
	"streamwatch/internal/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhook_Register(t *testing.T) {
	store := &mockWebhookStore{}
	wc := NewWebhookController(tickConfig("k"), testRoster, store, &testutil.MockLogger{})

	body := strings.NewReader(`{"channel":"ine","id":"1234","token":"abcd"}`)
	rr := httptest.NewRecorder()
	wc.Register(rr, httptest.NewRequest(http.MethodPost, "/webhooks?key=k", body))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"key":"1234"}`, rr.Body.String())
	require.Len(t, store.hooks["ine"], 1)
	hook := store.hooks["ine"][0]
	assert.Equal(t, "1234", hook.Key)
	assert.Equal(t, "abcd", hook.Token)
	assert.False(t, hook.CreatedAt.IsZero())
}

func TestWebhook_RegisterRejects(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		body   string
		status int
	}{
		{"no key", "/webhooks", `{"channel":"ine","id":"1","token":"a"}`, http.StatusForbidden},
		{"bad json", "/webhooks?key=k", `nope`, http.StatusBadRequest},
		{"missing token", "/webhooks?key=k", `{"channel":"ine","id":"1"}`, http.StatusBadRequest},
		{"unknown channel", "/webhooks?key=k", `{"channel":"nobody","id":"1","token":"a"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockWebhookStore{}
			wc := NewWebhookController(tickConfig("k"), testRoster, store, &testutil.MockLogger{})

			rr := httptest.NewRecorder()
			wc.Register(rr, httptest.NewRequest(http.MethodPost, tt.url, strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rr.Code)
			assert.Empty(t, store.hooks)
		})
	}
}

func TestWebhook_RegisterStoreFailure(t *testing.T) {
	store := &mockWebhookStore{err: errBackend}
	logger := &testutil.MockLogger{}
	wc := NewWebhookController(tickConfig("k"), testRoster, store, logger)

	body := strings.NewReader(`{"channel":"ine","id":"1","token":"a"}`)
	rr := httptest.NewRecorder()
	wc.Register(rr, httptest.NewRequest(http.MethodPost, "/webhooks?key=k", body))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.True(t, logger.Contains("error", "backend down"))
}
