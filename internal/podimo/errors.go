package podimo

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput marks request input rejected before any upstream call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoAnonymousToken means the pre-registration step returned no token.
	ErrNoAnonymousToken = errors.New("upstream did not provide an anonymous token")

	// ErrAuthFailed covers the final authorization step returning an empty
	// token. The upstream does not let us tell a wrong password apart from
	// a transient outage, so neither do we.
	ErrAuthFailed = errors.New("invalid credentials or upstream unreachable")

	// ErrNoData means a 200 response whose data envelope was null.
	ErrNoData = errors.New("upstream returned no data")

	// ErrPodcastNotFound means the upstream explicitly reported an unknown
	// podcast id.
	ErrPodcastNotFound = errors.New("podcast not found")

	// ErrNoActiveKeys means every key in the rotation pool is cooling down.
	ErrNoActiveKeys = errors.New("no active api keys available")
)

// UpstreamError is a non-200 response from the upstream API. Excerpt holds a
// truncated piece of the query that failed, for diagnostics.
type UpstreamError struct {
	Status  int
	Excerpt string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream http %d (query %q)", e.Status, e.Excerpt)
}

// Blocked reports whether the response looks like an anti-bot rejection.
func (e *UpstreamError) Blocked() bool {
	return e.Status == http.StatusForbidden
}

const excerptLen = 80

func queryExcerpt(query string) string {
	q := query
	if len(q) > excerptLen {
		q = q[:excerptLen]
	}
	return q
}
