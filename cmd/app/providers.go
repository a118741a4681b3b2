package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
	"github.com/yanqian/lunar-calendar/internal/infra/config"
	"github.com/yanqian/lunar-calendar/internal/infra/geocode/nominatim"
	"github.com/yanqian/lunar-calendar/internal/infra/placecache"
	"github.com/yanqian/lunar-calendar/internal/infra/presetrepo"
)

func provideLunarConfig(cfg *config.Config) lunar.Config {
	return lunar.Config{
		Workers:  cfg.Calendar.Workers,
		PlaceTTL: cfg.PlaceCache.TTL,
	}
}

// provideGeocoder returns a nil resolver when geocoding is switched off; the
// service then labels custom coordinates as unknown.
func provideGeocoder(cfg *config.Config, logger *slog.Logger) lunar.PlaceResolver {
	if !cfg.Geocoder.Enabled {
		logger.Info("geocoder disabled")
		return nil
	}
	return nominatim.NewClient(nominatim.Options{
		BaseURL:   cfg.Geocoder.BaseURL,
		UserAgent: cfg.Geocoder.UserAgent,
		Zoom:      cfg.Geocoder.Zoom,
		Timeout:   cfg.Geocoder.Timeout,
	}, logger)
}

func providePlaceCache(cfg *config.Config, logger *slog.Logger) (lunar.PlaceCache, func()) {
	noop := func() {}
	if !cfg.PlaceCache.Redis.Enabled {
		return placecache.NewMemoryStore(), noop
	}
	opt, err := buildValkeyOptions(cfg.PlaceCache.Redis.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return placecache.NewMemoryStore(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return placecache.NewMemoryStore(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return placecache.NewMemoryStore(), noop
	}
	logger.Info("place cache valkey store enabled", "addr", cfg.PlaceCache.Redis.Addr)
	return placecache.NewValkeyStore(client, cfg.PlaceCache.Redis.Prefix), client.Close
}

func providePresetRepository(cfg *config.Config, logger *slog.Logger) (lunar.PresetRepository, func()) {
	noop := func() {}
	fallback := presetrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Presets.Postgres.DSN)
	if dsn == "" {
		logger.Info("presets postgres dsn not set, using memory repository")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback, noop
	}
	if cfg.Presets.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Presets.Postgres.MaxConns
	}
	if cfg.Presets.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Presets.Postgres.MinConns
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback, noop
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback, noop
	}
	repo := presetrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx, lunar.DefaultPresets()); err != nil {
		logger.Error("preset schema setup failed, using memory repository", "error", err)
		pool.Close()
		return fallback, noop
	}
	logger.Info("presets postgres repository enabled")
	return repo, pool.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
