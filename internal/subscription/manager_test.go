package subscription

import (
	"context"
	"errors"
	"sort"
	"streamwatch/internal/models"
	"streamwatch/internal/store"
	"streamwatch/internal/testutil"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTopics struct {
	mu           sync.Mutex
	subscribed   []string
	unsubscribed []string
	fail         map[string]bool
}

func (f *fakeTopics) SubscribeToTopic(_ context.Context, _ string, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, topic)
	if f.fail[topic] {
		return errors.New("topic error")
	}
	return nil
}

func (f *fakeTopics) UnsubscribeFromTopic(_ context.Context, _ string, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, topic)
	if f.fail[topic] {
		return errors.New("topic error")
	}
	return nil
}

func (f *fakeTopics) sorted() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := append([]string(nil), f.subscribed...)
	unsub := append([]string(nil), f.unsubscribed...)
	sort.Strings(sub)
	sort.Strings(unsub)
	return sub, unsub
}

var roster = models.Roster{
	{ID: "jururu"}, {ID: "jingburger"}, {ID: "viichan"},
	{ID: "gosegu"}, {ID: "lilpa"}, {ID: "ine"},
}

func newTestManager(topics *fakeTopics) (*Manager, *store.StateStore) {
	st := store.NewStateStore(store.NewMemoryBackend())
	return NewManager(st, topics, roster, &testutil.MockLogger{}).(*Manager), st
}

func TestDiff(t *testing.T) {
	toAdd, toRemove := Diff([]string{"ine", "lilpa", "gosegu"}, []string{"ine", "viichan", "jururu"})
	assert.Equal(t, []string{"jururu", "viichan"}, toAdd)
	assert.Equal(t, []string{"gosegu", "lilpa"}, toRemove)

	toAdd, toRemove = Diff(nil, nil)
	assert.Empty(t, toAdd)
	assert.Empty(t, toRemove)
}

func TestManager_UpdateAppliesDelta(t *testing.T) {
	ctx := context.Background()
	topics := &fakeTopics{}
	m, st := newTestManager(topics)
	require.NoError(t, st.PutSubscription(ctx, "tok", []string{"ine", "lilpa"}))

	result, err := m.Update(ctx, "tok", []string{"ine", "viichan", "viichan"})
	require.NoError(t, err)
	assert.Equal(t, []string{"viichan"}, result.Added)
	assert.Equal(t, []string{"lilpa"}, result.Removed)
	assert.Empty(t, result.Failed)

	sub, unsub := topics.sorted()
	assert.Equal(t, []string{"viichan"}, sub)
	assert.Equal(t, []string{"lilpa"}, unsub)

	stored, err := m.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"ine", "viichan"}, stored)
}

func TestManager_FailuresAreIsolated(t *testing.T) {
	ctx := context.Background()
	topics := &fakeTopics{fail: map[string]bool{"jururu": true, "lilpa": true}}
	m, st := newTestManager(topics)
	require.NoError(t, st.PutSubscription(ctx, "tok", []string{"lilpa", "gosegu"}))

	result, err := m.Update(ctx, "tok", []string{"jururu", "jingburger", "ine"})
	require.NoError(t, err)

	sub, unsub := topics.sorted()
	assert.Equal(t, []string{"ine", "jingburger", "jururu"}, sub)
	assert.Equal(t, []string{"gosegu", "lilpa"}, unsub)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, "jururu", result.Failed[0].Channel)
	assert.True(t, result.Failed[0].Subscribe)
	assert.Equal(t, "lilpa", result.Failed[1].Channel)
	assert.False(t, result.Failed[1].Subscribe)
}

func TestManager_EmptySetRemovesRecord(t *testing.T) {
	ctx := context.Background()
	topics := &fakeTopics{}
	m, st := newTestManager(topics)
	require.NoError(t, st.PutSubscription(ctx, "tok", []string{"ine"}))

	_, err := m.Update(ctx, "tok", nil)
	require.NoError(t, err)

	subscribers, err := st.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Empty(t, subscribers)
	_, unsub := topics.sorted()
	assert.Equal(t, []string{"ine"}, unsub)
}

func TestManager_RejectsBadInput(t *testing.T) {
	topics := &fakeTopics{}
	m, _ := newTestManager(topics)

	_, err := m.Update(context.Background(), "", []string{"ine"})
	assert.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = m.Update(context.Background(), "tok", []string{"ine", "nobody"})
	assert.ErrorIs(t, err, ErrUnknownChannel)

	sub, _ := topics.sorted()
	assert.Empty(t, sub)

	_, err = m.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyIdentity)
}
