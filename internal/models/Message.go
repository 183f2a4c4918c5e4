package models

import "strconv"

// Message is the sink-agnostic rendering of one ChangeDecision.
type Message struct {
	Title string
	Body  string
	Kinds []ChangeKind
}

// PushPayload is the data map delivered to a channel topic. Values are
// strings because push data payloads only carry strings.
type PushPayload struct {
	Topic string
	Title string
	Body  string
	Data  map[string]string
}

func NewPushPayload(d ChangeDecision, msg Message) PushPayload {
	return PushPayload{
		Topic: d.ChannelID,
		Title: msg.Title,
		Body:  msg.Body,
		Data: map[string]string{
			"id":              d.ChannelID,
			"online":          strconv.FormatBool(d.State.Online),
			"title":           d.State.Title,
			"category":        d.State.Category,
			"onlineChanged":   strconv.FormatBool(d.OnlineChanged),
			"titleChanged":    strconv.FormatBool(d.TitleChanged),
			"categoryChanged": strconv.FormatBool(d.CategoryChanged),
		},
	}
}
