package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ThijsRay/podimo/internal/podimo"
)

// FeedBuilder is implemented by FeedService. Handlers depend on the
// interface so tests can stub feed assembly.
type FeedBuilder interface {
	BuildFeed(ctx context.Context, creds podimo.Credentials, podcastID string) ([]byte, error)
}

// Handlers exposes the feed service over two URL schemes: credentials in
// the path, and credentials via HTTP Basic Auth.
type Handlers struct {
	svc           FeedBuilder
	host          string
	protocol      string
	defaultRegion string
	defaultLocale string
}

func NewHandlers(svc FeedBuilder, host, protocol, defaultRegion, defaultLocale string) *Handlers {
	return &Handlers{
		svc:           svc,
		host:          host,
		protocol:      protocol,
		defaultRegion: defaultRegion,
		defaultLocale: defaultLocale,
	}
}

func (h *Handlers) example() string {
	return fmt.Sprintf(`Example
------------
Username: example@example.com
Password: this-is-my-password
Podcast ID: 12345-abcdef

The URL will be
%s://%s/feed/example%%40example.com/this-is-my-password/12345-abcdef.xml

Note that the username and password should be URL encoded.
`, h.protocol, h.host)
}

// Index serves a small form that builds the feed URL for the user.
func (h *Handlers) Index(c *gin.Context) {
	errMsg := ""
	if c.Request.Method == http.MethodPost {
		email := c.PostForm("email")
		password := c.PostForm("password")
		podcastID := c.PostForm("podcast_id")

		if email == "" {
			errMsg += "Email is required<br />"
		}
		if password == "" {
			errMsg += "Password is required<br />"
		}
		if podcastID == "" {
			errMsg += "Podcast ID is required<br />"
		}

		if errMsg == "" {
			c.Redirect(http.StatusFound, fmt.Sprintf("/feed/%s/%s/%s.xml",
				url.PathEscape(email), url.PathEscape(password), url.PathEscape(podcastID)))
			return
		}
	}

	form := fmt.Sprintf(`%s<br />
<form action="/" method="post">
    <label for="email">Your Podimo email address</label><br />
    <input type="email" required placeholder="Podimo email address" name="email"><br />
    <br />
    <label for="password">Your Podimo password</label><br />
    <input type="password" required placeholder="Podimo password" name="password"><br />
    <br />
    <label for="podcast_id">Podcast ID (https://podimo.com/nl/shows/<b>THIS IS THE ID</b>)</label><br />
    <input placeholder="Podcast ID" required name="podcast_id"><br />
    <br />
    <input type="submit" value="Create RSS URL (may take some time)" />
</form>
`, errMsg)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(form))
}

// Feed serves the path-based scheme /feed/:email/:password/:id.xml.
func (h *Handlers) Feed(c *gin.Context) {
	email := c.Param("email")
	password := c.Param("password")
	podcastID := strings.TrimSuffix(c.Param("id"), ".xml")
	h.serveFeed(c, email, password, podcastID)
}

// BasicFeed serves /basic/:id.xml with credentials from the Authorization
// header, for podcast players that support Basic Auth but not long URLs.
func (h *Handlers) BasicFeed(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		c.Header("WWW-Authenticate", `Basic realm="podimo"`)
		c.String(http.StatusUnauthorized,
			"401 Unauthorized.\nYou need to login with the correct credentials for Podimo.\n\n%s", h.example())
		return
	}
	podcastID := strings.TrimSuffix(c.Param("id"), ".xml")
	h.serveFeed(c, email, password, podcastID)
}

func (h *Handlers) serveFeed(c *gin.Context, email, password, podcastID string) {
	creds := podimo.Credentials{
		Email:    email,
		Password: password,
		Region:   c.DefaultQuery("region", h.defaultRegion),
		Locale:   c.DefaultQuery("locale", h.defaultLocale),
	}

	feed, err := h.svc.BuildFeed(c.Request.Context(), creds, podcastID)
	if err != nil {
		h.respondFeedError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/xml; charset=utf-8", feed)
}
