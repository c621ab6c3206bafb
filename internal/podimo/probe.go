package podimo

import (
	"context"
	"log"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ThijsRay/podimo/internal/cache"
)

const (
	probeTimeout   = 3 * time.Second
	probeBatchSize = 5

	defaultContentType = "audio/mpeg"
)

// HeadInfo is the probed size and MIME type of one episode's media file.
type HeadInfo struct {
	ContentLength int64
	ContentType   string
}

// Prober resolves media metadata with HEAD requests. Results are cached by
// episode id: media URLs are not credential-scoped and file sizes rarely
// change, so entries are shared across accounts.
type Prober struct {
	cache  *cache.TTLCache[string, HeadInfo]
	client *http.Client
	limit  int
}

func NewProber(c *cache.TTLCache[string, HeadInfo]) *Prober {
	return &Prober{
		cache: c,
		client: &http.Client{
			Timeout: probeTimeout,
		},
		limit: probeBatchSize,
	}
}

// Probe returns the media metadata for one episode, from cache when possible.
func (p *Prober) Probe(ctx context.Context, episodeID, rawURL string) (HeadInfo, error) {
	if info, ok := p.cache.Get(episodeID); ok {
		return info, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return HeadInfo{}, err
	}
	req.Header.Set("user-unique-id", randomHexID(deviceIDLength))

	resp, err := p.client.Do(req)
	if err != nil {
		return HeadInfo{}, err
	}
	resp.Body.Close()

	info := HeadInfo{ContentType: contentTypeFor(rawURL, resp.Header.Get("Content-Type"))}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			info.ContentLength = n
		}
	}

	p.cache.Put(episodeID, info)
	return info, nil
}

// ProbeAll resolves metadata for a whole feed with at most limit probes in
// flight. A probe that fails or times out degrades that one episode to a
// zero length and an extension-derived type; siblings are unaffected.
func (p *Prober) ProbeAll(ctx context.Context, targets map[string]string) map[string]HeadInfo {
	var mu sync.Mutex
	out := make(map[string]HeadInfo, len(targets))

	g := new(errgroup.Group)
	g.SetLimit(p.limit)
	for episodeID, mediaURL := range targets {
		episodeID, mediaURL := episodeID, mediaURL
		g.Go(func() error {
			info, err := p.Probe(ctx, episodeID, mediaURL)
			if err != nil {
				log.Printf("podimo: head probe for episode %s: %v", episodeID, err)
				info = HeadInfo{ContentType: contentTypeFor(mediaURL, "")}
			}
			mu.Lock()
			out[episodeID] = info
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// audioTypes maps the media extensions Podimo serves to MIME types. The
// stdlib table lacks most audio types on a bare system, so they are spelled
// out here.
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".wav":  "audio/wav",
	".flac": "audio/flac",
}

// contentTypeFor prefers the URL's file extension over the response header,
// with audio/mpeg as the final fallback.
func contentTypeFor(rawURL, headerType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.ToLower(path.Ext(u.Path))
		if t, ok := audioTypes[ext]; ok {
			return t
		}
		if ext != "" {
			if t := mime.TypeByExtension(ext); t != "" {
				return t
			}
		}
	}
	if headerType != "" {
		return headerType
	}
	return defaultContentType
}
