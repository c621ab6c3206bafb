package cache

import (
	"net/http"
	"net/http/cookiejar"
	"sync"
)

// JarRegistry hands out one cookie jar per credential key. Jars are created
// on first use and live for the lifetime of the process so that upstream
// session cookies survive between requests for the same account.
type JarRegistry struct {
	mu   sync.Mutex
	jars map[string]http.CookieJar
}

func NewJarRegistry() *JarRegistry {
	return &JarRegistry{jars: make(map[string]http.CookieJar)}
}

// Jar returns the cookie jar for key, creating it if necessary.
func (r *JarRegistry) Jar(key string) http.CookieJar {
	r.mu.Lock()
	defer r.mu.Unlock()

	if jar, ok := r.jars[key]; ok {
		return jar
	}
	jar, _ := cookiejar.New(nil) // err is always nil for nil options
	r.jars[key] = jar
	return jar
}
