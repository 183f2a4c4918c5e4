package notify

import (
	"streamwatch/internal/models"
	"strings"
	"unicode/utf8"
)

const ellipsis = "…"

var kindLabels = map[models.ChangeKind]string{
	models.ChangeOnline:   "went live",
	models.ChangeOffline:  "went offline",
	models.ChangeTitle:    "title",
	models.ChangeCategory: "category",
}

// Compose renders a decision as "{name} {kinds} notification" with the new
// title and category on separate body lines, each only when it changed.
func Compose(channel models.MonitoredChannel, d models.ChangeDecision) models.Message {
	kinds := d.Changes()
	labels := make([]string, 0, len(kinds))
	for _, k := range kinds {
		labels = append(labels, kindLabels[k])
	}

	var body []string
	if d.TitleChanged {
		body = append(body, d.State.Title)
	}
	if d.CategoryChanged {
		body = append(body, d.State.Category)
	}

	return models.Message{
		Title: channel.Name + " " + strings.Join(labels, ", ") + " notification",
		Body:  strings.Join(body, "\n"),
		Kinds: kinds,
	}
}

// ComposeMicroblog renders the post text. The body is cut and ends with an
// ellipsis so that head, body and tail together stay within maxLen runes.
func ComposeMicroblog(channel models.MonitoredChannel, d models.ChangeDecision, linkBase string, maxLen int) string {
	msg := Compose(channel, d)
	head := msg.Title
	if msg.Body != "" {
		head += "\n"
	}
	tail := ""
	if linkBase != "" {
		tail = "\n" + linkBase + channel.TwitchLogin
	}
	return fitRunes(head, msg.Body, tail, maxLen)
}

func fitRunes(head, body, tail string, maxLen int) string {
	if maxLen <= 0 {
		return head + body + tail
	}
	full := head + body + tail
	if utf8.RuneCountInString(full) <= maxLen {
		return full
	}
	budget := maxLen - utf8.RuneCountInString(head) - utf8.RuneCountInString(tail) - 1
	if budget < 0 {
		return truncateRunes(full, maxLen-1) + ellipsis
	}
	return head + truncateRunes(body, budget) + ellipsis + tail
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
