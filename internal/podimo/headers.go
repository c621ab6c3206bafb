package podimo

import (
	"fmt"
	"math/rand"
	"strings"
)

// The upstream API refuses requests that do not look like they come from the
// mobile app, so every request carries the app's client signature together
// with a freshly randomized device id.
const (
	headerUserOS      = "android"
	headerUserAgent   = "Podimo/2.45.1 build 566/Android 33"
	headerUserVersion = "2.45.1"

	deviceIDLength = 16
)

// identityHeaders builds the device-identity headers for one request.
// authorization may be empty for anonymous calls.
func identityHeaders(authorization, locale string) map[string]string {
	headers := map[string]string{
		"user-os":        headerUserOS,
		"user-agent":     headerUserAgent,
		"user-version":   headerUserVersion,
		"user-locale":    locale,
		"user-unique-id": randomHexID(deviceIDLength),
	}
	if authorization != "" {
		headers["authorization"] = authorization
	}
	return headers
}

func randomHexID(length int) string {
	const hexChars = "1234567890abcdef"
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(hexChars[rand.Intn(len(hexChars))])
	}
	return b.String()
}

// randomFlyerID fabricates an installation identifier in the shape the
// mobile app reports, two dash-joined 13-digit numbers.
func randomFlyerID() string {
	a := 1000000000000 + rand.Int63n(9000000000000)
	b := 1000000000000 + rand.Int63n(9000000000000)
	return fmt.Sprintf("%d-%d", a, b)
}
