// Package model defines the domain types used across the application.
package model

// Tag is the category of a scanned payload.
type Tag string

// Supported tags. The string values are persisted as-is.
const (
	TagText    Tag = "Text"
	TagWebsite Tag = "Website"
	TagWiFi    Tag = "WiFi"
)

// Tags lists every tag in display order.
var Tags = []Tag{TagText, TagWebsite, TagWiFi}

// Scan is a single entry of the scan history.
type Scan struct {
	ID       int64
	ChatID   int64
	Details  string
	Tag      Tag
	DateTime string
}

// ScanQuery restricts a history listing. Zero values mean no restriction.
type ScanQuery struct {
	Tag    Tag
	Search string
}
