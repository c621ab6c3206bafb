package podimo

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const keyCooldown = 24 * time.Hour

// KeyPool tracks a set of unblocking-proxy API keys. A key that triggers a
// blocked response is taken out of rotation for keyCooldown.
type KeyPool struct {
	mu          sync.Mutex
	keys        []string
	availableAt map[string]time.Time

	now func() time.Time // overridable in tests
}

func NewKeyPool(keys []string) *KeyPool {
	p := &KeyPool{
		availableAt: make(map[string]time.Time),
		now:         time.Now,
	}
	for _, k := range keys {
		if k != "" {
			p.keys = append(p.keys, k)
		}
	}
	return p
}

func (p *KeyPool) Len() int {
	return len(p.keys)
}

// Next returns the first key that is neither in skip nor cooling down.
func (p *KeyPool) Next(skip map[string]bool) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, k := range p.keys {
		if skip[k] {
			continue
		}
		if until, ok := p.availableAt[k]; ok && p.now().Before(until) {
			continue
		}
		delete(p.availableAt, k)
		return k, true
	}
	return "", false
}

// MarkBlocked takes key out of rotation for the cooldown period.
func (p *KeyPool) MarkBlocked(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.availableAt[key] = p.now().Add(keyCooldown)
}

// PoolTransport routes requests through an unblocking relay, rotating over a
// key pool. On a blocked response the key cools down and the next available
// key is tried; a visited set guarantees the loop terminates even when every
// key ends up blocked.
type PoolTransport struct {
	Relay  string // relay endpoint, e.g. https://api.scraperapi.com/
	Target string // the GraphQL URL the relay should hit
	Pool   *KeyPool

	client *http.Client
}

func NewPoolTransport(relay, target string, pool *KeyPool) *PoolTransport {
	return &PoolTransport{
		Relay:  relay,
		Target: target,
		Pool:   pool,
		client: &http.Client{Timeout: relayReadTimeout},
	}
}

func (t *PoolTransport) RoundTrip(ctx context.Context, body []byte, headers map[string]string, jar http.CookieJar) (int, []byte, error) {
	_ = jar // session cookies do not survive a relay hop

	visited := make(map[string]bool)
	attempted := false
	var lastStatus int
	var lastBody []byte

	for {
		key, ok := t.Pool.Next(visited)
		if !ok {
			if attempted {
				return lastStatus, lastBody, nil
			}
			return 0, nil, ErrNoActiveKeys
		}
		visited[key] = true
		attempted = true

		status, resp, err := relayRequest(ctx, t.client, t.Relay, key, t.Target, body, headers)
		if err != nil {
			return 0, nil, err
		}
		if status == http.StatusForbidden {
			t.Pool.MarkBlocked(key)
			log.Printf("podimo: api key blocked, cooling down for %s", keyCooldown)
			lastStatus, lastBody = status, resp
			continue
		}
		return status, resp, nil
	}
}

// RelayTransport routes every request through a single unblocking relay
// service with one API key and no rotation.
type RelayTransport struct {
	Relay  string
	Target string
	APIKey string

	client *http.Client
}

func NewRelayTransport(relay, target, apiKey string) *RelayTransport {
	return &RelayTransport{
		Relay:  relay,
		Target: target,
		APIKey: apiKey,
		client: &http.Client{Timeout: relayReadTimeout},
	}
}

func (t *RelayTransport) RoundTrip(ctx context.Context, body []byte, headers map[string]string, jar http.CookieJar) (int, []byte, error) {
	_ = jar
	return relayRequest(ctx, t.client, t.Relay, t.APIKey, t.Target, body, headers)
}

// relayRequest posts the original request body to the relay, which forwards
// it to the target URL with the original headers preserved.
func relayRequest(ctx context.Context, client *http.Client, relay, apiKey, target string, body []byte, headers map[string]string) (int, []byte, error) {
	q := url.Values{}
	q.Set("api_key", apiKey)
	q.Set("url", target)
	q.Set("keep_headers", "true")

	endpoint := relay
	if strings.Contains(endpoint, "?") {
		endpoint += "&"
	} else {
		endpoint += "?"
	}
	endpoint += q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, b, nil
}
