package controllers

import (
	"net/http"
	"net/http/httptest"
	"streamwatch/internal/models"
	"streamwatch/internal/structures"
	"streamwatch/internal/testutil"
	"streamwatch/internal/watcher"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickConfig(key string) *structures.Config {
	return &structures.Config{Trigger: structures.TriggerConfig{AccessKey: key}}
}

func TestTick_RunsPass(t *testing.T) {
	sched := &mockScheduler{report: models.CycleReport{Source: watcher.SourceTrigger, Checked: 6, Changed: 1}}
	tc := NewTickController(tickConfig("s3cret"), sched, &testutil.MockLogger{})

	rr := httptest.NewRecorder()
	tc.Tick(rr, httptest.NewRequest(http.MethodPost, "/tick?key=s3cret", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, sched.calls)
	assert.Equal(t, watcher.SourceTrigger, sched.source)

	var report models.CycleReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 6, report.Checked)
	assert.Equal(t, 1, report.Changed)
}

func TestTick_Forbidden(t *testing.T) {
	tests := []struct {
		name      string
		accessKey string
		url       string
	}{
		{"wrong key", "s3cret", "/tick?key=nope"},
		{"missing key", "s3cret", "/tick"},
		{"disabled trigger", "", "/tick?key="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &mockScheduler{}
			logger := &testutil.MockLogger{}
			tc := NewTickController(tickConfig(tt.accessKey), sched, logger)

			rr := httptest.NewRecorder()
			tc.Tick(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, http.StatusForbidden, rr.Code)
			assert.Zero(t, sched.calls)
			assert.Equal(t, 1, logger.Count("warn"))
		})
	}
}

func TestTick_SchedulerErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"too soon", watcher.ErrTooSoon, http.StatusTooManyRequests},
		{"already running", watcher.ErrPassRunning, http.StatusConflict},
		{"persist failed", errBackend, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &mockScheduler{report: models.CycleReport{Skipped: true}, err: tt.err}
			tc := NewTickController(tickConfig("k"), sched, &testutil.MockLogger{})

			rr := httptest.NewRecorder()
			tc.Tick(rr, httptest.NewRequest(http.MethodGet, "/tick?key=k", nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}
