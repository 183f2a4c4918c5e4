package models

import (
	"errors"
	"strings"
)

const (
	StreamPrefix       = "stream/"
	OffTimePrefix      = "offtime/"
	PrevPrefix         = "prev/"
	WebhooksPrefix     = "webhooks/"
	SubscriptionPrefix = "subscriptions/"
	LastRunKey         = "lastRunTime"
)

func StreamKey(channelID string) string       { return StreamPrefix + channelID }
func OffTimeKey(channelID string) string      { return OffTimePrefix + channelID }
func PrevKey(channelID string) string         { return PrevPrefix + channelID }
func WebhookPrefix(channelID string) string   { return WebhooksPrefix + channelID + "/" }
func SubscriptionKey(identity string) string  { return SubscriptionPrefix + EncodeKey(identity) }
func WebhookKey(channelID, key string) string { return WebhookPrefix(channelID) + EncodeKey(key) }

var ErrInvalidKeyEncoding = errors.New("invalid key encoding")

const hexDigits = "0123456789ABCDEF"

func keepByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '-' || b == '_'
}

// EncodeKey makes an arbitrary identity safe as a single store path segment.
// Bytes in [A-Za-z0-9_-] are kept; every other byte, '.' included, becomes
// '.' followed by two upper-case hex digits. DecodeKey reverses it.
func EncodeKey(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if keepByte(b) {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('.')
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0f])
	}
	return sb.String()
}

func DecodeKey(s string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b != '.' {
			if !keepByte(b) {
				return "", ErrInvalidKeyEncoding
			}
			sb.WriteByte(b)
			continue
		}
		if i+2 >= len(s) {
			return "", ErrInvalidKeyEncoding
		}
		hi := strings.IndexByte(hexDigits, s[i+1])
		lo := strings.IndexByte(hexDigits, s[i+2])
		if hi < 0 || lo < 0 {
			return "", ErrInvalidKeyEncoding
		}
		sb.WriteByte(byte(hi<<4 | lo))
		i += 2
	}
	return sb.String(), nil
}
