package notify

import (
	"streamwatch/internal/models"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

var ine = models.MonitoredChannel{ID: "ine", Name: "아이네", TwitchLogin: "vo_ine", Color: "#8a2be2"}

func TestCompose_OrderAndBody(t *testing.T) {
	d := models.ChangeDecision{
		ChannelID:       "ine",
		OnlineChanged:   true,
		TitleChanged:    true,
		CategoryChanged: true,
		State:           models.StreamState{Online: true, Title: "Just Chatting Time", Category: "Just Chatting"},
	}
	msg := Compose(ine, d)

	assert.Equal(t, []models.ChangeKind{models.ChangeOnline, models.ChangeTitle, models.ChangeCategory}, msg.Kinds)
	assert.Equal(t, "아이네 went live, title, category notification", msg.Title)
	assert.Equal(t, "Just Chatting Time\nJust Chatting", msg.Body)
}

func TestCompose_OnlyChangedFieldsInBody(t *testing.T) {
	d := models.ChangeDecision{
		CategoryChanged: true,
		State:           models.StreamState{Online: true, Title: "same title", Category: "Valorant"},
	}
	msg := Compose(ine, d)

	assert.Equal(t, "아이네 category notification", msg.Title)
	assert.Equal(t, "Valorant", msg.Body)
}

func TestCompose_WentOffline(t *testing.T) {
	msg := Compose(ine, models.ChangeDecision{OnlineChanged: true})
	assert.Equal(t, []models.ChangeKind{models.ChangeOffline}, msg.Kinds)
	assert.Empty(t, msg.Body)
}

func TestComposeMicroblog_FitsUntouched(t *testing.T) {
	d := models.ChangeDecision{TitleChanged: true, State: models.StreamState{Online: true, Title: "short"}}
	text := ComposeMicroblog(ine, d, "https://twitch.tv/", 140)

	assert.Equal(t, "아이네 title notification\nshort\nhttps://twitch.tv/vo_ine", text)
	assert.NotContains(t, text, ellipsis)
}

func TestComposeMicroblog_TruncatesToBudget(t *testing.T) {
	d := models.ChangeDecision{
		TitleChanged: true,
		State:        models.StreamState{Online: true, Title: strings.Repeat("가나다라", 60)},
	}
	text := ComposeMicroblog(ine, d, "https://twitch.tv/", 140)

	assert.Equal(t, 140, utf8.RuneCountInString(text))
	assert.True(t, strings.HasPrefix(text, "아이네 title notification\n"))
	assert.True(t, strings.HasSuffix(text, ellipsis+"\nhttps://twitch.tv/vo_ine"))
}

func TestComposeMicroblog_DecorationLongerThanBudget(t *testing.T) {
	d := models.ChangeDecision{TitleChanged: true, State: models.StreamState{Title: "title"}}
	text := ComposeMicroblog(ine, d, "https://twitch.tv/", 10)

	assert.Equal(t, 10, utf8.RuneCountInString(text))
	assert.True(t, strings.HasSuffix(text, ellipsis))
}

func TestComposeMicroblog_NoLimit(t *testing.T) {
	long := strings.Repeat("x", 500)
	d := models.ChangeDecision{TitleChanged: true, State: models.StreamState{Title: long}}
	text := ComposeMicroblog(ine, d, "", 0)
	assert.Contains(t, text, long)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "아이", truncateRunes("아이네", 2))
	assert.Equal(t, "아이네", truncateRunes("아이네", 5))
	assert.Equal(t, "", truncateRunes("아이네", 0))
}
