package main

import (
	"log"

	"github.com/ThijsRay/podimo/internal/api"
	"github.com/ThijsRay/podimo/internal/config"
	"github.com/ThijsRay/podimo/internal/logging"
	"github.com/ThijsRay/podimo/internal/podimo"
	"github.com/ThijsRay/podimo/internal/store"
)

type app struct {
	config   *config.Config
	handlers *api.Handlers
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logging.Configure(cfg.Log.File)

	client := podimo.NewClient(newTransport(cfg))
	client.Debug = cfg.Podimo.Debug

	caches := api.NewCaches(cfg.Cache.TokenTTL, cfg.Cache.CatalogTTL, cfg.Cache.HeadTTL)
	prober := podimo.NewProber(caches.Head)

	var tokens store.TokenStore
	if cfg.Store.TokenDBPath != "" {
		s, err := store.Open(cfg.Store.TokenDBPath)
		if err != nil {
			log.Printf("warning: failed to open token database, persistence disabled: %v", err)
		} else {
			defer s.Close()
			tokens = s
			log.Printf("token database initialized at %s", cfg.Store.TokenDBPath)
		}
	}

	svc := &api.FeedService{
		Client:     client,
		Prober:     prober,
		Caches:     caches,
		Tokens:     tokens,
		Regions:    cfg.Podimo.Regions,
		Locales:    cfg.Podimo.Locales,
		LoginDelay: cfg.Podimo.LoginDelay,
	}

	handlers := api.NewHandlers(svc,
		cfg.Server.Hostname, cfg.Server.Protocol,
		cfg.Podimo.Regions[0], cfg.Podimo.Locales[0])

	app := &app{config: cfg, handlers: handlers}

	log.Printf("listening on %s (strategy=%s)", cfg.Server.Bind, cfg.Podimo.Strategy)
	log.Fatal(app.serve())
}

func newTransport(cfg *config.Config) podimo.Transport {
	switch cfg.Podimo.Strategy {
	case config.StrategyPool:
		pool := podimo.NewKeyPool(cfg.Podimo.APIKeys)
		return podimo.NewPoolTransport(cfg.Podimo.RelayURL, cfg.Podimo.GraphQLURL, pool)
	case config.StrategyRelay:
		return podimo.NewRelayTransport(cfg.Podimo.RelayURL, cfg.Podimo.GraphQLURL, cfg.Podimo.APIKeys[0])
	default:
		return podimo.NewDirectTransport(cfg.Podimo.GraphQLURL)
	}
}
