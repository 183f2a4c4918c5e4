package models

import "time"

// Webhook is a registered delivery endpoint for one channel.
type Webhook struct {
	Key       string    `json:"key"`
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}
