package rss

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func sampleFeed() Feed {
	return Feed{
		Title:       "Example Show",
		Link:        "https://podimo.com/shows/abc-123",
		Description: "A show about examples",
		Language:    "nl-NL",
		Author:      "Example Author",
		ImageURL:    "https://cdn.example.com/cover.jpg",
		Items: []Item{
			{
				GUID:        "ep-2",
				Title:       "Second Episode",
				Description: "The newer one",
				PubDate:     time.Date(2023, 5, 2, 9, 0, 0, 0, time.UTC),
				Duration:    3725,
				Enclosure: Enclosure{
					URL:    "https://cdn.example.com/ep2.mp3",
					Length: 2048,
					Type:   "audio/mpeg",
				},
			},
			{
				GUID:        "ep-1",
				Title:       "First Episode",
				Description: "The older one",
				PubDate:     time.Date(2023, 5, 1, 9, 0, 0, 0, time.UTC),
				Enclosure: Enclosure{
					URL:  "https://cdn.example.com/ep1.mp3",
					Type: "audio/mpeg",
				},
			},
		},
	}
}

func TestRenderParsesBack(t *testing.T) {
	doc, err := Render(sampleFeed())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(doc))
	if err != nil {
		t.Fatalf("parse rendered feed: %v", err)
	}

	if parsed.Title != "Example Show" {
		t.Fatalf("title = %q", parsed.Title)
	}
	if parsed.Link != "https://podimo.com/shows/abc-123" {
		t.Fatalf("link = %q", parsed.Link)
	}
	if parsed.Language != "nl-NL" {
		t.Fatalf("language = %q", parsed.Language)
	}
	if parsed.Image == nil || parsed.Image.URL != "https://cdn.example.com/cover.jpg" {
		t.Fatalf("image = %+v", parsed.Image)
	}
	if len(parsed.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(parsed.Items))
	}

	first := parsed.Items[0]
	if first.GUID != "ep-2" {
		t.Fatalf("guid = %q", first.GUID)
	}
	if first.PublishedParsed == nil || !first.PublishedParsed.Equal(time.Date(2023, 5, 2, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("published = %v", first.PublishedParsed)
	}
	if len(first.Enclosures) != 1 {
		t.Fatalf("enclosures = %+v", first.Enclosures)
	}
	enc := first.Enclosures[0]
	if enc.URL != "https://cdn.example.com/ep2.mp3" || enc.Length != "2048" || enc.Type != "audio/mpeg" {
		t.Fatalf("enclosure = %+v", enc)
	}
	if first.ITunesExt == nil || first.ITunesExt.Duration != "01:02:05" {
		t.Fatalf("itunes extension = %+v", first.ITunesExt)
	}
}

func TestRenderOmitsEmptyOptionalElements(t *testing.T) {
	feed := sampleFeed()
	feed.ImageURL = ""
	feed.Language = ""

	doc, err := Render(feed)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	s := string(doc)
	if strings.Contains(s, "<image>") || strings.Contains(s, "itunes:image") {
		t.Fatal("image elements present for an imageless feed")
	}
	if strings.Contains(s, "<language>") {
		t.Fatal("language element present for an empty language")
	}
	if !strings.HasPrefix(s, "<?xml") {
		t.Fatal("missing xml declaration")
	}
}

func TestRenderMarksGUIDNotPermalink(t *testing.T) {
	doc, err := Render(sampleFeed())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(doc), `<guid isPermaLink="false">ep-2</guid>`) {
		t.Fatalf("guid element not marked non-permalink:\n%s", doc)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{5, "00:00:05"},
		{65, "00:01:05"},
		{3725, "01:02:05"},
		{36000, "10:00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.seconds); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
