package controllers

import (
	"fmt"
	"net/http"
	"streamwatch/internal/services"
	"time"
)

type HealthController struct {
	streams   services.StreamServiceInterface
	feed      services.FeedServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status          string  `json:"status"`
	Uptime          string  `json:"uptime"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	Channels        int     `json:"channels"`
	LiveSubscribers int     `json:"live_subscribers"`
	LastRun         string  `json:"last_run,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:          "ok",
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		Channels:        len(hc.streams.Roster()),
		LiveSubscribers: hc.feed.Subscribers(),
	}
	if last, ok := hc.streams.LastRun(r.Context()); ok {
		resp.LastRun = last.UTC().Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(streams services.StreamServiceInterface, feed services.FeedServiceInterface) *HealthController {
	return &HealthController{
		streams:   streams,
		feed:      feed,
		startTime: time.Now(),
	}
}
