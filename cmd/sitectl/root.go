package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitecms/internal/config"
	"sitecms/internal/logging"
	"sitecms/internal/sitesync"
)

type rootOptions struct {
	endpoint  string
	timeout   time.Duration
	cachePath string
	cacheKey  string
	token     string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "sitectl",
		Short:        "Operate on the site content document",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.endpoint, "endpoint", cfg.Sync.Endpoint, "persistence endpoint URL (SITE_ENDPOINT)")
	pf.DurationVar(&opts.timeout, "timeout", cfg.Sync.Timeout, "load timeout (SITE_TIMEOUT)")
	pf.StringVar(&opts.cachePath, "cache", cfg.Sync.CachePath, "sqlite cache file; empty keeps the cache in memory (SITE_CACHE_PATH)")
	pf.StringVar(&opts.cacheKey, "cache-key", cfg.Sync.CacheKey, "cache entry key (SITE_CACHE_KEY)")
	pf.StringVar(&opts.token, "token", "", "editor session token sent with saves")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newPullCmd(opts),
		newPushCmd(opts),
		newLeadCmd(opts),
		newSetHeroCmd(opts),
		newSetCategoriesCmd(opts),
		newRemoveCmd(opts),
		newSetImageCmd(opts),
		newHashPasswordCmd(),
	)
	return root
}

// newClient builds a synchronizer client from the resolved flags. The returned func
// releases the cache and flushes the logger.
func newClient(ctx context.Context, opts *rootOptions) (*sitesync.Client, *zap.Logger, func(), error) {
	logger, err := logging.New(config.LogConfig{Level: opts.logLevel, Format: "console"}, time.Local)
	if err != nil {
		return nil, nil, nil, err
	}

	var cache sitesync.Cache = sitesync.NewMemoryCache()
	closeCache := func() {}
	if opts.cachePath != "" {
		sc, err := sitesync.OpenSQLiteCache(ctx, opts.cachePath)
		if err != nil {
			return nil, nil, nil, err
		}
		cache = sc
		closeCache = func() {
			if err := sc.Close(); err != nil {
				logger.Warn("cache_close_failed", zap.Error(err))
			}
		}
	}

	client, err := sitesync.New(sitesync.Config{
		Endpoint: opts.endpoint,
		Timeout:  opts.timeout,
		CacheKey: opts.cacheKey,
	}, sitesync.WithCache(cache), sitesync.WithLogger(logger))
	if err != nil {
		closeCache()
		return nil, nil, nil, err
	}
	return client, logger, func() {
		closeCache()
		_ = logger.Sync()
	}, nil
}

func withToken(ctx context.Context, opts *rootOptions) context.Context {
	if opts.token == "" {
		return ctx
	}
	return sitesync.WithBearer(ctx, opts.token)
}

func errorf(format string, args ...any) error {
	return fmt.Errorf("sitectl: "+format, args...)
}
