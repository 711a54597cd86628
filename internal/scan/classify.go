// Package scan implements the scan-to-record pipeline: payload classification,
// WiFi payload parsing and deduplicated recording.
package scan

import (
	"fmt"
	"regexp"
	"strings"

	"qrscan_bot/internal/model"
)

var (
	websitePattern = regexp.MustCompile(`^(https?|ftp)://.*$`)
	wifiPattern    = regexp.MustCompile(`^WIFI:.*$`)
)

// Classify returns the tag for a raw decoded payload. Rules are applied in
// order and the first match wins; anything else, including an empty payload,
// is Text.
func Classify(payload string) model.Tag {
	switch {
	case websitePattern.MatchString(payload):
		return model.TagWebsite
	case wifiPattern.MatchString(payload):
		return model.TagWiFi
	default:
		return model.TagText
	}
}

// ParseTag parses a user-supplied category name. "all" and the empty string
// return the zero Tag, meaning no restriction.
func ParseTag(s string) (model.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	for _, t := range model.Tags {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown category %q, use: all, text, website, wifi", s)
}
