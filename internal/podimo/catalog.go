package podimo

import (
	"context"
	"net/http"
	"regexp"
)

// catalogPageSize caps how many episodes one feed request pulls; episodes
// are returned newest first.
const catalogPageSize = 500

const queryCatalog = `
query ChannelEpisodesQuery($podcastId: String!, $limit: Int!, $offset: Int!, $sorting: PodcastEpisodeSorting) {
  episodes: podcastEpisodes(
    podcastId: $podcastId
    converted: true
    published: true
    limit: $limit
    offset: $offset
    sorting: $sorting
  ) {
    ...EpisodeBase
  }
  podcast: podcastById(podcastId: $podcastId) {
    title
    description
    webAddress
    authorName
    language
    images {
        coverImageUrl
    }
  }
}

fragment EpisodeBase on PodcastEpisode {
  id
  artist
  podcastName
  imageUrl
  description
  datetime
  title
  audio {
    url
    duration
  }
  streamMedia {
    duration
    url
  }
}`

var podcastIDPattern = regexp.MustCompile(`^[0-9a-fA-F-]+$`)

// ValidPodcastID reports whether id matches the hex-and-hyphen shape of
// Podimo podcast identifiers.
func ValidPodcastID(id string) bool {
	return id != "" && podcastIDPattern.MatchString(id)
}

// Catalog fetches the episode list and show metadata for one podcast id
// using an already-acquired bearer token.
func (c *Client) Catalog(ctx context.Context, token, locale, podcastID string, jar http.CookieJar) (*CatalogResponse, error) {
	req := GraphQLRequest{
		Query:         queryCatalog,
		OperationName: "ChannelEpisodesQuery",
		Variables: map[string]any{
			"podcastId": podcastID,
			"limit":     catalogPageSize,
			"offset":    0,
			"sorting":   "PUBLISHED_DESCENDING",
		},
	}

	var resp CatalogResponse
	if err := c.execute(ctx, req, token, locale, jar, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
