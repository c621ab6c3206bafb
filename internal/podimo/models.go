package podimo

// CatalogResponse is the episodes+show payload of ChannelEpisodesQuery.
type CatalogResponse struct {
	Episodes []Episode `json:"episodes"`
	Podcast  Show      `json:"podcast"`
}

// Show holds show-level metadata. Every field can be null upstream; the feed
// assembler resolves fallbacks before rendering.
type Show struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	WebAddress  *string     `json:"webAddress"`
	AuthorName  *string     `json:"authorName"`
	Language    *string     `json:"language"`
	Images      *ShowImages `json:"images"`
}

type ShowImages struct {
	CoverImageURL string `json:"coverImageUrl"`
}

type Episode struct {
	ID          string  `json:"id"`
	Artist      *string `json:"artist"`
	PodcastName *string `json:"podcastName"`
	ImageURL    *string `json:"imageUrl"`
	Description *string `json:"description"`
	Datetime    *string `json:"datetime"`
	Title       *string `json:"title"`
	Audio       *Media  `json:"audio"`
	StreamMedia *Media  `json:"streamMedia"`
}

// Media is an audio locator. Duration is in seconds.
type Media struct {
	URL      string   `json:"url"`
	Duration *float64 `json:"duration"`
}

type tokenPayload struct {
	Token string `json:"token"`
}

type preregisterResponse struct {
	TokenWithPreregisterUser tokenPayload `json:"tokenWithPreregisterUser"`
}

type onboardingResponse struct {
	UserOnboardingFlow struct {
		ID string `json:"id"`
	} `json:"userOnboardingFlow"`
}

type authorizeResponse struct {
	TokenWithCredentials tokenPayload `json:"tokenWithCredentials"`
}
