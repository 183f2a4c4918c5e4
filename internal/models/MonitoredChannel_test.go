package models

import (
	"streamwatch/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRoster(t *testing.T) {
	conf := &structures.Config{Channels: []structures.ChannelConfig{
		{ID: "jururu", Name: "주르르", TwitchLogin: "cotton__123", Color: "#800080"},
		{ID: "ine", TwitchLogin: "vo_ine"},
	}}

	roster := NewRoster(conf)
	assert.Len(t, roster, 2)
	assert.Equal(t, "ine", roster[1].Name, "name falls back to id")

	ch, ok := roster.Get("jururu")
	assert.True(t, ok)
	assert.Equal(t, "cotton__123", ch.TwitchLogin)
	assert.False(t, roster.Has("lilpa"))
}

func TestMonitoredChannel_ColorValue(t *testing.T) {
	assert.Equal(t, 0x800080, MonitoredChannel{Color: "#800080"}.ColorValue())
	assert.Equal(t, 0xF0A957, MonitoredChannel{Color: "#f0a957"}.ColorValue())
	assert.Equal(t, 0, MonitoredChannel{Color: ""}.ColorValue())
	assert.Equal(t, 0, MonitoredChannel{Color: "#zzzzzz"}.ColorValue())
}
