package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lootscout/lootscout/internal/api/handlers"
	"github.com/lootscout/lootscout/internal/api/middleware"
	"github.com/lootscout/lootscout/internal/cache"
	"github.com/lootscout/lootscout/internal/config"
	"github.com/lootscout/lootscout/internal/provider"
	"github.com/lootscout/lootscout/internal/provider/catalog"
	"github.com/lootscout/lootscout/internal/provider/ebay"
	"github.com/lootscout/lootscout/internal/provider/jjgames"
	"github.com/lootscout/lootscout/internal/provider/script"
	"github.com/lootscout/lootscout/internal/provider/vgny"
	"github.com/lootscout/lootscout/internal/search"
	"github.com/lootscout/lootscout/internal/store"
	"github.com/lootscout/lootscout/internal/trending"
	"github.com/lootscout/lootscout/pkg/logger"
	domain "github.com/lootscout/lootscout/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and trending scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	results := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)

	providers, err := buildProviders(cfg, results, log)
	if err != nil {
		return fmt.Errorf("building providers: %w", err)
	}
	if len(providers) == 0 {
		return errors.New("no providers enabled; enable at least one under providers in the config")
	}

	svc := search.NewService(providers, search.Options{
		ProviderTimeout:    cfg.Providers.Timeout,
		MergePolicy:        cfg.Search.MergePolicy,
		DefaultSort:        cfg.Search.DefaultSort,
		EmptyQueryCatalog:  cfg.Search.EmptyQuery == "catalog",
		DefaultLimit:       cfg.Search.DefaultLimit,
		MaxLimit:           cfg.Search.MaxLimit,
		ProviderMaxResults: cfg.Providers.MaxResults,
	}, logger.Component(log, "search"))

	trendingSvc := trending.NewService(
		st,
		cfg.Trending.AutoWindow,
		cfg.Trending.AutoLimit,
		logger.Component(log, "trending"),
	)
	scheduler, err := trending.NewScheduler(
		trendingSvc,
		cfg.Trending.RefreshInterval,
		logger.Component(log, "trending"),
		trending.WithWarm(func(ctx context.Context) {
			if _, err := svc.Search(ctx, search.Request{Query: "trending"}); err != nil {
				log.Warn("trending cache prewarm failed", "error", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("creating trending scheduler: %w", err)
	}
	scheduler.Start(context.Background())

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	sessions := search.NewSessions(svc, 1024, time.Hour)

	api := humaecho.New(e, huma.DefaultConfig("LootScout API", Version))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(sessions))
	handlers.RegisterFavoriteRoutes(api, handlers.NewFavoritesHandler(st))
	handlers.RegisterTrendingRoutes(api, handlers.NewTrendingHandler(trendingSvc))
	handlers.RegisterCacheRoutes(api, handlers.NewCacheHandler(results))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server",
		"addr", addr,
		"providers", len(providers),
		"cache_ttl", cfg.Cache.TTL.String(),
	)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	<-scheduler.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildProviders assembles the enabled source adapters in config order,
// each behind the shared result cache. Config order is merge order:
// later sources win title collisions under the default policy.
func buildProviders(
	cfg *config.Config,
	results *cache.Results,
	log *slog.Logger,
) ([]provider.Provider, error) {
	var providers []provider.Provider

	if cfg.Providers.Ebay.Enabled {
		limiter := ebay.NewRateLimiter(
			cfg.Providers.Ebay.RateLimit.PerSecond,
			cfg.Providers.Ebay.RateLimit.Burst,
			cfg.Providers.Ebay.RateLimit.DailyLimit,
		)
		client := ebay.New(cfg.Providers.Ebay.AppID,
			ebay.WithEndpoint(cfg.Providers.Ebay.EndpointURL),
			ebay.WithCategoryID(cfg.Providers.Ebay.CategoryID),
			ebay.WithRateLimiter(limiter),
		)
		providers = append(providers, provider.Cached(client, results))
	}

	if cfg.Providers.JJGames.Enabled {
		client := jjgames.New(
			jjgames.WithBaseURL(cfg.Providers.JJGames.BaseURL),
			jjgames.WithStoreID(cfg.Providers.JJGames.StoreID),
		)
		providers = append(providers, provider.Cached(client, results))
	}

	if cfg.Providers.VGNY.Enabled {
		scraper := vgny.New(vgny.WithBaseURL(cfg.Providers.VGNY.BaseURL))
		providers = append(providers, provider.Cached(scraper, results))
	}

	if cfg.Providers.DKOldies.Enabled {
		p := script.New(
			domain.SourceDKOldies,
			cfg.Providers.DKOldies.Command,
			cfg.Providers.DKOldies.Args,
			logger.Component(log, "dkoldies"),
		)
		providers = append(providers, provider.Cached(p, results))
	}

	if cfg.Providers.LukieGames.Enabled {
		p := script.New(
			domain.SourceLukieGames,
			cfg.Providers.LukieGames.Command,
			cfg.Providers.LukieGames.Args,
			logger.Component(log, "lukiegames"),
		)
		providers = append(providers, provider.Cached(p, results))
	}

	if cfg.Providers.Catalog.Enabled {
		var (
			p   *catalog.Provider
			err error
		)
		if path := cfg.Providers.Catalog.Path; path != "" {
			p, err = catalog.NewFromFile(path)
		} else {
			p, err = catalog.New()
		}
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		providers = append(providers, provider.Cached(p, results))
	}

	return reorderProviders(providers, cfg.Search.ProviderOrder), nil
}

// reorderProviders applies the configured combine order: named sources
// first in the given order, the rest keeping their default position.
func reorderProviders(providers []provider.Provider, order []domain.Source) []provider.Provider {
	if len(order) == 0 {
		return providers
	}

	byName := make(map[domain.Source]provider.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}

	out := make([]provider.Provider, 0, len(providers))
	placed := make(map[domain.Source]bool, len(order))
	for _, name := range order {
		if p, ok := byName[name]; ok && !placed[name] {
			out = append(out, p)
			placed[name] = true
		}
	}
	for _, p := range providers {
		if !placed[p.Name()] {
			out = append(out, p)
		}
	}
	return out
}
