package models

import "streamwatch/internal/structures"

// MonitoredChannel is one roster entry. The roster is loaded once at start
// and never mutated.
type MonitoredChannel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TwitchLogin string `json:"twitchLogin"`
	Color       string `json:"color"`
}

// ColorValue returns the display color as a 0xRRGGBB integer, 0 when unset.
func (c MonitoredChannel) ColorValue() int {
	if len(c.Color) != 7 || c.Color[0] != '#' {
		return 0
	}
	v := 0
	for _, r := range c.Color[1:] {
		v <<= 4
		switch {
		case r >= '0' && r <= '9':
			v |= int(r - '0')
		case r >= 'a' && r <= 'f':
			v |= int(r-'a') + 10
		case r >= 'A' && r <= 'F':
			v |= int(r-'A') + 10
		default:
			return 0
		}
	}
	return v
}

type Roster []MonitoredChannel

func NewRoster(conf *structures.Config) Roster {
	roster := make(Roster, 0, len(conf.Channels))
	for _, ch := range conf.Channels {
		name := ch.Name
		if name == "" {
			name = ch.ID
		}
		roster = append(roster, MonitoredChannel{
			ID:          ch.ID,
			Name:        name,
			TwitchLogin: ch.TwitchLogin,
			Color:       ch.Color,
		})
	}
	return roster
}

func (r Roster) Get(id string) (MonitoredChannel, bool) {
	for _, ch := range r {
		if ch.ID == id {
			return ch, true
		}
	}
	return MonitoredChannel{}, false
}

func (r Roster) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}
