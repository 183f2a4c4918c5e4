package providers

import (
	"fmt"
	"github.com/gookit/validate"
	"regexp"
	"streamwatch/internal/structures"
)

var (
	channelIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	colorPattern     = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}
	return c.validateChannels()
}

// validateChannels checks the roster, which the struct rules cannot reach.
func (c *CnfValidator) validateChannels() error {
	seen := make(map[string]struct{}, len(c.conf.Channels))
	for i, ch := range c.conf.Channels {
		if !channelIDPattern.MatchString(ch.ID) {
			return fmt.Errorf("channels[%d]: invalid id %q", i, ch.ID)
		}
		if _, dup := seen[ch.ID]; dup {
			return fmt.Errorf("channels[%d]: duplicate id %q", i, ch.ID)
		}
		seen[ch.ID] = struct{}{}
		if ch.TwitchLogin == "" {
			return fmt.Errorf("channels[%d]: twitchLogin is required", i)
		}
		if ch.Color != "" && !colorPattern.MatchString(ch.Color) {
			return fmt.Errorf("channels[%d]: invalid color %q", i, ch.Color)
		}
	}
	return nil
}
