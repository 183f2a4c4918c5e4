package controllers

import (
	"context"
	"errors"
	"streamwatch/internal/models"
	"streamwatch/internal/services"
	"streamwatch/internal/subscription"
	"sync"
	"time"
)

var testRoster = models.Roster{
	{ID: "ine", Name: "INE", TwitchLogin: "vo_ine", Color: "#8a2be2"},
	{ID: "jingburger", Name: "JINGBURGER", TwitchLogin: "jingburger", Color: "#f0a957"},
}

type mockStreamService struct {
	mu      sync.Mutex
	views   []services.StreamView
	err     error
	calls   int
	lastRun time.Time
	onList  func()
}

func (m *mockStreamService) List(_ context.Context) ([]services.StreamView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.onList != nil {
		m.onList()
	}
	return m.views, m.err
}

func (m *mockStreamService) Roster() models.Roster {
	return testRoster
}

func (m *mockStreamService) LastRun(_ context.Context) (time.Time, bool) {
	return m.lastRun, !m.lastRun.IsZero()
}

type mockFeed struct {
	mu          sync.Mutex
	ch          chan []byte
	subscribed  chan struct{}
	subscribers int
	generation  uint64
}

func newMockFeed() *mockFeed {
	return &mockFeed{ch: make(chan []byte, 4), subscribed: make(chan struct{}, 1)}
}

func (m *mockFeed) OnDecision(_ models.MonitoredChannel, _ models.ChangeDecision) {}

func (m *mockFeed) Subscribe() (<-chan []byte, func()) {
	m.mu.Lock()
	m.subscribers++
	m.mu.Unlock()
	select {
	case m.subscribed <- struct{}{}:
	default:
	}
	return m.ch, func() {
		m.mu.Lock()
		m.subscribers--
		m.mu.Unlock()
	}
}

func (m *mockFeed) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscribers
}

func (m *mockFeed) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// persisted simulates a decision being written mid-request.
func (m *mockFeed) persisted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
}

type mockScheduler struct {
	report models.CycleReport
	err    error
	source string
	calls  int
}

func (m *mockScheduler) Init()          {}
func (m *mockScheduler) Stop()          {}
func (m *mockScheduler) Restore() error { return nil }
func (m *mockScheduler) Persist() error { return nil }

func (m *mockScheduler) RunOnce(_ context.Context, source string) (models.CycleReport, error) {
	m.calls++
	m.source = source
	return m.report, m.err
}

func (m *mockScheduler) ValidateTokens(_ context.Context) (subscription.ValidationReport, error) {
	return subscription.ValidationReport{}, nil
}

type mockManager struct {
	sets   map[string][]string
	result subscription.UpdateResult
	err    error
}

func newMockManager() *mockManager {
	return &mockManager{sets: make(map[string][]string)}
}

func (m *mockManager) Get(_ context.Context, identity string) ([]string, error) {
	if identity == "" {
		return nil, subscription.ErrEmptyIdentity
	}
	if m.err != nil {
		return nil, m.err
	}
	if ids, ok := m.sets[identity]; ok {
		return ids, nil
	}
	return []string{}, nil
}

func (m *mockManager) Update(_ context.Context, identity string, ids []string) (subscription.UpdateResult, error) {
	if identity == "" {
		return subscription.UpdateResult{}, subscription.ErrEmptyIdentity
	}
	if m.err != nil {
		return subscription.UpdateResult{}, m.err
	}
	m.sets[identity] = ids
	return m.result, nil
}

type mockWebhookStore struct {
	hooks map[string][]models.Webhook
	err   error
}

func (m *mockWebhookStore) PutWebhook(_ context.Context, channelID string, hook models.Webhook) error {
	if m.err != nil {
		return m.err
	}
	if m.hooks == nil {
		m.hooks = make(map[string][]models.Webhook)
	}
	m.hooks[channelID] = append(m.hooks[channelID], hook)
	return nil
}

var errBackend = errors.New("backend down")
