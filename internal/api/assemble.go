package api

import (
	"regexp"
	"time"

	"github.com/ThijsRay/podimo/internal/podimo"
	"github.com/ThijsRay/podimo/internal/rss"
)

const showLinkBase = "https://podimo.com/shows/"

// Stream manifests live under /hls-media/<id>/main.m3u8 and have a direct
// mp3 twin under /audios/<id>.mp3 on the same host.
var hlsManifestPattern = regexp.MustCompile(`/hls-media/([^/]+)/main\.m3u8$`)

// assembleFeed merges the catalog with probed media metadata into a
// renderable feed. Nullable show fields fall back to the first episode's
// corresponding field; episodes without a usable media locator are skipped.
func assembleFeed(podcastID string, data *podimo.CatalogResponse, locale string, head map[string]podimo.HeadInfo) rss.Feed {
	show := data.Podcast

	var first *podimo.Episode
	if len(data.Episodes) > 0 {
		first = &data.Episodes[0]
	}

	title := strOr(show.Title, "")
	if title == "" && first != nil {
		title = strOr(first.PodcastName, "")
	}

	description := strOr(show.Description, "")
	if description == "" {
		description = title
	}

	image := ""
	if show.Images != nil {
		image = show.Images.CoverImageURL
	}
	if image == "" && first != nil {
		image = strOr(first.ImageURL, "")
	}

	language := strOr(show.Language, "")
	if language == "" {
		language = locale
	}

	author := strOr(show.AuthorName, "")
	if author == "" && first != nil {
		author = strOr(first.Artist, "")
	}

	feed := rss.Feed{
		Title:       title,
		Link:        showLinkBase + podcastID,
		Description: description,
		Language:    language,
		Author:      author,
		ImageURL:    image,
	}

	for _, ep := range data.Episodes {
		mediaURL := resolveMediaURL(ep)
		if mediaURL == "" {
			continue
		}

		info := head[ep.ID]
		feed.Items = append(feed.Items, rss.Item{
			GUID:        ep.ID,
			Title:       strOr(ep.Title, ""),
			Description: strOr(ep.Description, ""),
			PubDate:     parseEpisodeTime(ep.Datetime),
			Duration:    episodeDuration(ep),
			Enclosure: rss.Enclosure{
				URL:    mediaURL,
				Length: info.ContentLength,
				Type:   info.ContentType,
			},
		})
	}
	return feed
}

// resolveMediaURL picks the direct audio locator when present, else the
// stream locator with HLS manifests rewritten to their direct-file twin.
// An empty result means the episode carries no playable media.
func resolveMediaURL(ep podimo.Episode) string {
	if ep.Audio != nil && ep.Audio.URL != "" {
		return ep.Audio.URL
	}
	if ep.StreamMedia != nil && ep.StreamMedia.URL != "" {
		return rewriteHLS(ep.StreamMedia.URL)
	}
	return ""
}

func rewriteHLS(mediaURL string) string {
	return hlsManifestPattern.ReplaceAllString(mediaURL, "/audios/$1.mp3")
}

func episodeDuration(ep podimo.Episode) int64 {
	if ep.Audio != nil && ep.Audio.Duration != nil {
		return int64(*ep.Audio.Duration)
	}
	if ep.StreamMedia != nil && ep.StreamMedia.Duration != nil {
		return int64(*ep.StreamMedia.Duration)
	}
	return 0
}

func parseEpisodeTime(datetime *string) time.Time {
	if datetime == nil {
		return time.Now().UTC()
	}
	t, err := time.Parse(time.RFC3339Nano, *datetime)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}

func strOr(p *string, fallback string) string {
	if p != nil && *p != "" {
		return *p
	}
	return fallback
}
