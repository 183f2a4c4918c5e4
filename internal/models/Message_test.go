package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPushPayload(t *testing.T) {
	d := ChangeDecision{
		ChannelID:     "ine",
		OnlineChanged: true,
		State:         StreamState{Online: true, Title: "Ranked", Category: "Valorant"},
	}
	p := NewPushPayload(d, Message{Title: "아이네 went live notification", Body: "Ranked\nValorant"})

	assert.Equal(t, "ine", p.Topic)
	assert.Equal(t, map[string]string{
		"id":              "ine",
		"online":          "true",
		"title":           "Ranked",
		"category":        "Valorant",
		"onlineChanged":   "true",
		"titleChanged":    "false",
		"categoryChanged": "false",
	}, p.Data)
}
