package watcher

import (
	"streamwatch/internal/models"
	"streamwatch/internal/structures"
	"time"
)

// Observation is everything the suppressor needs for one channel in one
// pass. OfflineAt is zero when no offline marker exists.
type Observation struct {
	Stored    models.StreamState
	Raw       models.StreamState
	OfflineAt time.Time
	Prior     models.PriorChangeMarker
	HasPrior  bool
	Now       time.Time
}

// Verdict is the suppressed decision plus the marker writes it requires.
type Verdict struct {
	Decision models.ChangeDecision
	// WriteOfflineMarker is set on a raw online to offline transition.
	WriteOfflineMarker bool
	Marker             models.PriorChangeMarker
	WriteMarker        bool
}

type FlapSuppressor struct {
	grace  time.Duration
	revert time.Duration
}

func NewFlapSuppressor(conf *structures.Config) *FlapSuppressor {
	return &FlapSuppressor{grace: conf.Watcher.OfflineGrace, revert: conf.Watcher.RevertWindow}
}

// Apply turns a raw diff into a notification verdict.
//
// A channel reported online again within the grace window of its last
// offline transition is not announced as going live. Title and category
// activity while reported offline inside the grace window keeps the channel
// online: the effective state is persisted as online. A field flipping back
// to the value it had before its previous change, within the revert window,
// is not announced. Category changes count only while online or in grace.
func (f *FlapSuppressor) Apply(o Observation) Verdict {
	var v Verdict

	onlineChanged := o.Stored.Online != o.Raw.Online
	titleChanged := o.Stored.Title != o.Raw.Title
	categoryChanged := o.Stored.Category != o.Raw.Category

	offlineAt := o.OfflineAt
	if onlineChanged && !o.Raw.Online {
		v.WriteOfflineMarker = true
		offlineAt = o.Now
	}
	inGrace := !offlineAt.IsZero() && o.Now.Sub(offlineAt) < f.grace

	effective := o.Raw
	notifyOnline := onlineChanged
	if onlineChanged && o.Raw.Online && inGrace {
		notifyOnline = false
	}
	if !o.Raw.Online && inGrace && (titleChanged || categoryChanged) {
		effective.Online = true
		notifyOnline = false
	}

	notifyTitle := titleChanged && !f.reverted(o, o.Raw.Title, o.Prior.Title, o.Prior.TitleAt())
	notifyCategory := categoryChanged && !f.reverted(o, o.Raw.Category, o.Prior.Category, o.Prior.CategoryAt())

	v.Marker = o.Prior
	if titleChanged {
		v.Marker.Title = o.Stored.Title
		v.Marker.Time.Title = o.Now.UnixMilli()
		v.WriteMarker = true
	}
	if categoryChanged {
		v.Marker.Category = o.Stored.Category
		v.Marker.Time.Category = o.Now.UnixMilli()
		v.WriteMarker = true
	}

	notifyCategory = notifyCategory && (effective.Online || inGrace)

	v.Decision = models.ChangeDecision{
		OnlineChanged:   notifyOnline,
		TitleChanged:    notifyTitle,
		CategoryChanged: notifyCategory,
		State:           effective,
		InGrace:         inGrace,
	}
	return v
}

func (f *FlapSuppressor) reverted(o Observation, value, priorValue string, priorAt time.Time) bool {
	return o.HasPrior && value == priorValue && o.Now.Sub(priorAt) < f.revert
}
