package podimo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	connectTimeout    = 6 * time.Second
	directReadTimeout = 12 * time.Second
	relayReadTimeout  = 30 * time.Second
)

// GraphQLRequest is one query+variables document posted to the upstream API.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Transport delivers one serialized request to the upstream API and returns
// the raw status and body. Implementations decide how the bytes travel:
// directly, through a rotating key pool, or through an unblocking relay.
type Transport interface {
	RoundTrip(ctx context.Context, body []byte, headers map[string]string, jar http.CookieJar) (status int, response []byte, err error)
}

// Client executes GraphQL operations against the Podimo API.
type Client struct {
	Transport Transport
	Debug     bool
}

func NewClient(t Transport) *Client {
	return &Client{Transport: t}
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute posts req and decodes the data envelope into out. A non-200 status
// becomes an UpstreamError, a null data payload becomes ErrNoData, and a
// GraphQL-level error is surfaced with its message.
func (c *Client) execute(ctx context.Context, req GraphQLRequest, auth, locale string, jar http.CookieJar, out any) error {
	if c.Debug && req.OperationName != "" {
		log.Printf("podimo: %s", req.OperationName)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	headers := identityHeaders(auth, locale)
	headers["content-type"] = "application/json"

	status, resp, err := c.Transport.RoundTrip(ctx, body, headers, jar)
	if err != nil {
		return fmt.Errorf("podimo request: %w", err)
	}
	if status != http.StatusOK {
		return &UpstreamError{Status: status, Excerpt: queryExcerpt(req.Query)}
	}

	var env gqlEnvelope
	if err := json.Unmarshal(resp, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Errors) > 0 {
		msg := env.Errors[0].Message
		if strings.Contains(msg, "not found") {
			return fmt.Errorf("%w: %s", ErrPodcastNotFound, msg)
		}
		return fmt.Errorf("graphql error: %s", msg)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrNoData
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data payload: %w", err)
		}
	}
	return nil
}

// DirectTransport posts straight to the GraphQL endpoint with the caller's
// cookie jar, so upstream session cookies persist per credential.
type DirectTransport struct {
	Endpoint string
	base     http.RoundTripper
}

func NewDirectTransport(endpoint string) *DirectTransport {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &DirectTransport{
		Endpoint: endpoint,
		base: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: connectTimeout,
			ForceAttemptHTTP2:   true,
		},
	}
}

func (t *DirectTransport) RoundTrip(ctx context.Context, body []byte, headers map[string]string, jar http.CookieJar) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	// The jar is per credential, so the http.Client is built per call
	// around the shared connection pool.
	client := &http.Client{
		Transport: t.base,
		Jar:       jar,
		Timeout:   directReadTimeout,
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
