package rss

import "time"

// Feed is a fully resolved podcast feed: every field has already been
// through fallback resolution, none are optional at render time.
type Feed struct {
	Title       string
	Link        string
	Description string
	Language    string
	Author      string
	ImageURL    string
	Items       []Item
}

type Item struct {
	GUID        string
	Title       string
	Description string
	PubDate     time.Time
	Duration    int64 // seconds
	Enclosure   Enclosure
}

// Enclosure is the media file attached to an item.
type Enclosure struct {
	URL    string
	Length int64
	Type   string
}
