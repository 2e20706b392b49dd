package core

import "strings"

// BulletDelimiter separates answer segments in a model reply.
const BulletDelimiter = "* "

// ParseAnswer splits a reply into trimmed, non-empty bullet segments.
func ParseAnswer(raw string) []string {
	segments := []string{}
	if raw == "" {
		return segments
	}
	for _, part := range strings.Split(raw, BulletDelimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}
