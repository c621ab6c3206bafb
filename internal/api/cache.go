package api

import (
	"time"

	"github.com/ThijsRay/podimo/internal/cache"
	"github.com/ThijsRay/podimo/internal/podimo"
)

// Caches bundles the process-wide cache tiers. It is constructed once at
// startup and injected into the feed service, so tests run against isolated
// instances instead of package globals.
type Caches struct {
	TokenTTL time.Duration

	Tokens  *cache.TTLCache[string, string]
	Catalog *cache.TTLCache[string, *podimo.CatalogResponse]
	Head    *cache.TTLCache[string, podimo.HeadInfo]
	Jars    *cache.JarRegistry
}

func NewCaches(tokenTTL, catalogTTL, headTTL time.Duration) *Caches {
	return &Caches{
		TokenTTL: tokenTTL,
		Tokens:   cache.NewTTL[string, string](tokenTTL),
		Catalog:  cache.NewTTL[string, *podimo.CatalogResponse](catalogTTL),
		Head:     cache.NewTTL[string, podimo.HeadInfo](headTTL),
		Jars:     cache.NewJarRegistry(),
	}
}
