package models

import "time"

// StreamState is the persisted state of record for one channel.
type StreamState struct {
	Online   bool   `json:"online"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// FieldTimes holds epoch-millisecond timestamps per mutable field.
type FieldTimes struct {
	Title    int64 `json:"title"`
	Category int64 `json:"category"`
}

// PriorChangeMarker remembers the value each field had before its last
// change, and when that change happened.
type PriorChangeMarker struct {
	Title    string     `json:"title"`
	Category string     `json:"category"`
	Time     FieldTimes `json:"time"`
}

func (m PriorChangeMarker) TitleAt() time.Time {
	return time.UnixMilli(m.Time.Title)
}

func (m PriorChangeMarker) CategoryAt() time.Time {
	return time.UnixMilli(m.Time.Category)
}

type ChangeKind string

const (
	ChangeOnline   ChangeKind = "online"
	ChangeOffline  ChangeKind = "offline"
	ChangeTitle    ChangeKind = "title"
	ChangeCategory ChangeKind = "category"
)

// ChangeDecision is the post-suppression verdict for one channel in one
// pass. It is never persisted.
type ChangeDecision struct {
	ChannelID       string      `json:"id"`
	OnlineChanged   bool        `json:"onlineChanged"`
	TitleChanged    bool        `json:"titleChanged"`
	CategoryChanged bool        `json:"categoryChanged"`
	State           StreamState `json:"state"`
	// InGrace is set while the channel is inside the offline grace window.
	InGrace bool `json:"inGrace"`
	// Persisted reports whether State was written to the store.
	Persisted bool `json:"persisted"`
}

// Notify is the final eligibility gate. Going offline alone and category
// changes while genuinely offline are never announced.
func (d ChangeDecision) Notify() bool {
	return (d.OnlineChanged && d.State.Online) ||
		d.TitleChanged ||
		(d.CategoryChanged && (d.State.Online || d.InGrace))
}

// Changes lists the change kinds in their fixed presentation order.
func (d ChangeDecision) Changes() []ChangeKind {
	var kinds []ChangeKind
	if d.OnlineChanged {
		if d.State.Online {
			kinds = append(kinds, ChangeOnline)
		} else {
			kinds = append(kinds, ChangeOffline)
		}
	}
	if d.TitleChanged {
		kinds = append(kinds, ChangeTitle)
	}
	if d.CategoryChanged {
		kinds = append(kinds, ChangeCategory)
	}
	return kinds
}
