package watcher

import (
	"streamwatch/internal/models"
	"streamwatch/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)

func testSuppressor() *FlapSuppressor {
	return NewFlapSuppressor(&structures.Config{Watcher: structures.WatcherConfig{
		OfflineGrace: 90 * time.Second,
		RevertWindow: 12 * time.Second,
	}})
}

func TestFlapSuppressor_GoingOfflineWritesMarker(t *testing.T) {
	v := testSuppressor().Apply(Observation{
		Stored: models.StreamState{Online: true, Title: "T", Category: "C"},
		Raw:    models.StreamState{Online: false, Title: "T", Category: "C"},
		Now:    t0,
	})

	assert.True(t, v.WriteOfflineMarker)
	assert.True(t, v.Decision.OnlineChanged)
	assert.False(t, v.Decision.State.Online)
	assert.False(t, v.Decision.Notify())
	assert.False(t, v.WriteMarker)
}

func TestFlapSuppressor_OnlineWithinGrace(t *testing.T) {
	tests := []struct {
		name     string
		since    time.Duration
		expected bool
	}{
		{"10s after going offline", 10 * time.Second, false},
		{"just inside the window", 89 * time.Second, false},
		{"at the window edge", 90 * time.Second, true},
		{"120s after going offline", 120 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := testSuppressor().Apply(Observation{
				Stored:    models.StreamState{Online: false, Title: "T"},
				Raw:       models.StreamState{Online: true, Title: "T"},
				OfflineAt: t0,
				Now:       t0.Add(tt.since),
			})
			assert.Equal(t, tt.expected, v.Decision.OnlineChanged)
			assert.Equal(t, tt.expected, v.Decision.Notify())
			assert.True(t, v.Decision.State.Online)
		})
	}
}

func TestFlapSuppressor_GraceOverrideKeepsOnline(t *testing.T) {
	v := testSuppressor().Apply(Observation{
		Stored:    models.StreamState{Online: false, Title: "T", Category: "Just Chatting"},
		Raw:       models.StreamState{Online: false, Title: "T", Category: "Valorant"},
		OfflineAt: t0,
		Now:       t0.Add(30 * time.Second),
	})

	assert.True(t, v.Decision.State.Online)
	assert.False(t, v.Decision.OnlineChanged)
	assert.True(t, v.Decision.CategoryChanged)
	assert.True(t, v.Decision.InGrace)
	assert.True(t, v.Decision.Notify())
}

func TestFlapSuppressor_CategoryWhileGenuinelyOffline(t *testing.T) {
	v := testSuppressor().Apply(Observation{
		Stored: models.StreamState{Online: false, Title: "T", Category: "Just Chatting"},
		Raw:    models.StreamState{Online: false, Title: "T", Category: "Valorant"},
		Now:    t0,
	})

	assert.False(t, v.Decision.CategoryChanged)
	assert.False(t, v.Decision.Notify())
	assert.Equal(t, "Valorant", v.Decision.State.Category)
	assert.True(t, v.WriteMarker)
	assert.Equal(t, "Just Chatting", v.Marker.Category)
}

func TestFlapSuppressor_CategoryAfterGraceExpired(t *testing.T) {
	v := testSuppressor().Apply(Observation{
		Stored:    models.StreamState{Online: false, Category: "A"},
		Raw:       models.StreamState{Online: false, Category: "B"},
		OfflineAt: t0,
		Now:       t0.Add(5 * time.Minute),
	})
	assert.False(t, v.Decision.State.Online)
	assert.False(t, v.Decision.Notify())
}

func TestFlapSuppressor_Revert(t *testing.T) {
	prior := models.PriorChangeMarker{Title: "A", Time: models.FieldTimes{Title: t0.UnixMilli()}}
	obs := Observation{
		Stored:   models.StreamState{Online: true, Title: "B"},
		Raw:      models.StreamState{Online: true, Title: "A"},
		Prior:    prior,
		HasPrior: true,
	}

	obs.Now = t0.Add(5 * time.Second)
	v := testSuppressor().Apply(obs)
	assert.False(t, v.Decision.TitleChanged)
	assert.Equal(t, "A", v.Decision.State.Title)
	assert.Equal(t, "B", v.Marker.Title)
	assert.Equal(t, obs.Now.UnixMilli(), v.Marker.Time.Title)

	obs.Now = t0.Add(20 * time.Second)
	v = testSuppressor().Apply(obs)
	assert.True(t, v.Decision.TitleChanged)
}

func TestFlapSuppressor_RevertToDifferentValueIsAChange(t *testing.T) {
	v := testSuppressor().Apply(Observation{
		Stored:   models.StreamState{Online: true, Title: "B"},
		Raw:      models.StreamState{Online: true, Title: "C"},
		Prior:    models.PriorChangeMarker{Title: "A", Time: models.FieldTimes{Title: t0.UnixMilli()}},
		HasPrior: true,
		Now:      t0.Add(time.Second),
	})
	assert.True(t, v.Decision.TitleChanged)
}

func TestFlapSuppressor_MarkerKeepsUnchangedField(t *testing.T) {
	prior := models.PriorChangeMarker{Title: "old", Category: "cat0", Time: models.FieldTimes{Title: 1, Category: 2}}
	v := testSuppressor().Apply(Observation{
		Stored:   models.StreamState{Online: true, Title: "T1", Category: "cat1"},
		Raw:      models.StreamState{Online: true, Title: "T2", Category: "cat1"},
		Prior:    prior,
		HasPrior: true,
		Now:      t0,
	})

	assert.Equal(t, "T1", v.Marker.Title)
	assert.Equal(t, t0.UnixMilli(), v.Marker.Time.Title)
	assert.Equal(t, "cat0", v.Marker.Category)
	assert.Equal(t, int64(2), v.Marker.Time.Category)
}
