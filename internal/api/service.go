package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ThijsRay/podimo/internal/podimo"
	"github.com/ThijsRay/podimo/internal/rss"
	"github.com/ThijsRay/podimo/internal/store"
)

// FeedService is the authenticated client layer: it validates credentials,
// acquires and caches bearer tokens, fetches catalogs, probes media files
// and assembles the resulting feed.
type FeedService struct {
	Client  *podimo.Client
	Prober  *podimo.Prober
	Caches  *Caches
	Tokens  store.TokenStore // optional on-disk persistence, may be nil
	Regions []string
	Locales []string

	// LoginDelay pauses fresh handshakes so the proxy is a poor vehicle
	// for credential stuffing. Cached tokens skip the delay.
	LoginDelay time.Duration
}

// Authenticate returns a valid bearer token for creds, reusing a cached one
// when available and running the login handshake otherwise.
func (s *FeedService) Authenticate(ctx context.Context, creds podimo.Credentials) (string, error) {
	if err := creds.Validate(s.Regions, s.Locales); err != nil {
		return "", err
	}

	key := creds.CacheKey()
	if token, ok := s.Caches.Tokens.Get(key); ok {
		return token, nil
	}

	if s.Tokens != nil {
		if t, err := s.Tokens.Get(ctx, key); err == nil {
			s.Caches.Tokens.PutExpiring(key, t.Value, time.Until(t.ExpiresAt))
			return t.Value, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Printf("token store read: %v", err)
		}
	}

	if s.LoginDelay > 0 {
		select {
		case <-time.After(s.LoginDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	jar := s.Caches.Jars.Jar(key)
	token, err := s.Client.Login(ctx, creds, jar)
	if err != nil {
		return "", err
	}

	s.Caches.Tokens.Put(key, token)
	if s.Tokens != nil {
		t := store.Token{Key: key, Value: token, ExpiresAt: time.Now().Add(s.Caches.TokenTTL)}
		if err := s.Tokens.Put(ctx, t); err != nil {
			log.Printf("token store write: %v", err)
		}
	}
	return token, nil
}

// BuildFeed renders the RSS document for one podcast id on behalf of creds.
func (s *FeedService) BuildFeed(ctx context.Context, creds podimo.Credentials, podcastID string) ([]byte, error) {
	if !podimo.ValidPodcastID(podcastID) {
		return nil, fmt.Errorf("%w: invalid podcast id format", podimo.ErrInvalidInput)
	}

	token, err := s.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	data, err := s.catalog(ctx, token, creds, podcastID)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]string, len(data.Episodes))
	for _, ep := range data.Episodes {
		if mediaURL := resolveMediaURL(ep); mediaURL != "" {
			targets[ep.ID] = mediaURL
		}
	}
	head := s.Prober.ProbeAll(ctx, targets)

	feed := assembleFeed(podcastID, data, creds.Locale, head)
	return rss.Render(feed)
}

// catalog serves the episode list from cache when possible. The catalog
// cache is keyed by podcast id alone: the data is identical for every
// account that can read it.
func (s *FeedService) catalog(ctx context.Context, token string, creds podimo.Credentials, podcastID string) (*podimo.CatalogResponse, error) {
	if data, remaining, ok := s.Caches.Catalog.GetWithTTL(podcastID); ok {
		log.Printf("got podcast %s from cache (%s left)", podcastID, remaining.Round(time.Second))
		return data, nil
	}

	jar := s.Caches.Jars.Jar(creds.CacheKey())
	data, err := s.Client.Catalog(ctx, token, creds.Locale, podcastID, jar)
	if err != nil {
		return nil, err
	}
	log.Printf("fetched podcast %s directly", podcastID)

	s.Caches.Catalog.Put(podcastID, data)
	return data, nil
}
