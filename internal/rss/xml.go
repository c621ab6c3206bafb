package rss

import (
	"encoding/xml"
	"fmt"
	"time"
)

const itunesNamespace = "http://www.itunes.com/dtds/podcast-1.0.dtd"

type rssXML struct {
	XMLName     xml.Name   `xml:"rss"`
	Version     string     `xml:"version,attr"`
	ItunesXMLNS string     `xml:"xmlns:itunes,attr"`
	Channel     channelXML `xml:"channel"`
}

type channelXML struct {
	Title        string       `xml:"title"`
	Link         string       `xml:"link"`
	Description  string       `xml:"description"`
	Language     string       `xml:"language,omitempty"`
	ItunesAuthor string       `xml:"itunes:author,omitempty"`
	Image        *imageXML    `xml:"image,omitempty"`
	ItunesImage  *itunesImage `xml:"itunes:image,omitempty"`
	Items        []itemXML    `xml:"item"`
}

type imageXML struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type itemXML struct {
	Title          string       `xml:"title"`
	GUID           guidXML      `xml:"guid"`
	Description    string       `xml:"description"`
	PubDate        string       `xml:"pubDate"`
	Enclosure      enclosureXML `xml:"enclosure"`
	ItunesDuration string       `xml:"itunes:duration,omitempty"`
}

type guidXML struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type enclosureXML struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// Render serializes feed as RSS 2.0 with the itunes podcast namespace.
func Render(feed Feed) ([]byte, error) {
	items := make([]itemXML, 0, len(feed.Items))
	for _, it := range feed.Items {
		item := itemXML{
			Title:       it.Title,
			GUID:        guidXML{IsPermaLink: false, Value: it.GUID},
			Description: it.Description,
			PubDate:     it.PubDate.UTC().Format(time.RFC1123Z),
			Enclosure: enclosureXML{
				URL:    it.Enclosure.URL,
				Length: it.Enclosure.Length,
				Type:   it.Enclosure.Type,
			},
		}
		if it.Duration > 0 {
			item.ItunesDuration = formatDuration(it.Duration)
		}
		items = append(items, item)
	}

	out := rssXML{
		Version:     "2.0",
		ItunesXMLNS: itunesNamespace,
		Channel: channelXML{
			Title:        feed.Title,
			Link:         feed.Link,
			Description:  feed.Description,
			Language:     feed.Language,
			ItunesAuthor: feed.Author,
			Items:        items,
		},
	}
	if feed.ImageURL != "" {
		out.Channel.Image = &imageXML{URL: feed.ImageURL, Title: feed.Title, Link: feed.Link}
		out.Channel.ItunesImage = &itunesImage{Href: feed.ImageURL}
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), b...), nil
}

// formatDuration renders whole seconds as HH:MM:SS.
func formatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
