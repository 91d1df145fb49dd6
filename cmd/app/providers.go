package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
	"github.com/yanqian/aqi-advisor/internal/domain/auth"
	"github.com/yanqian/aqi-advisor/internal/infra/airnow"
	"github.com/yanqian/aqi-advisor/internal/infra/aqistore"
	"github.com/yanqian/aqi-advisor/internal/infra/config"
	"github.com/yanqian/aqi-advisor/internal/infra/geo/nominatim"
	"github.com/yanqian/aqi-advisor/internal/infra/notify"
	"github.com/yanqian/aqi-advisor/internal/infra/tempo"
	"github.com/yanqian/aqi-advisor/internal/infra/userrepo"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideAuthRepository(cfg *config.Config, logger *slog.Logger) auth.Repository {
	fallback := userrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Auth.Postgres.DSN)
	if dsn == "" {
		logger.Info("auth postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Auth.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Auth.Postgres.MaxConns
	}
	if cfg.Auth.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Auth.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("auth postgres repository enabled")
	return userrepo.NewPostgresRepository(pool)
}

func provideAdvisorConfig(cfg *config.Config) advisor.Config {
	return advisor.Config{
		CacheTTL:        cfg.Cache.TTL,
		NotifyEnabled:   cfg.Notify.Enabled,
		NotifyThreshold: cfg.Notify.SeverityThreshold,
	}
}

func provideEngine() *advisor.Engine {
	return advisor.NewEngine(nil)
}

func provideGeocoder(cfg *config.Config) advisor.Geocoder {
	return nominatim.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.UserAgent)
}

func provideAQIClient(cfg *config.Config) advisor.AQIClient {
	return airnow.NewClient(cfg.AirNow.APIKey, cfg.AirNow.BaseURL, cfg.AirNow.DistanceKm)
}

func provideNO2Client(cfg *config.Config) advisor.NO2Client {
	if !cfg.Tempo.Enabled {
		return nil
	}
	return tempo.NewClient(cfg.Tempo.BaseURL)
}

func providePayloadCache(cfg *config.Config, logger *slog.Logger) advisor.PayloadCache {
	if cfg.Cache.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return aqistore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return aqistore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("valkey payload cache enabled", "addr", cfg.Cache.Redis.Addr)
			return aqistore.NewValkeyStore(client, "aqi")
		}
	}
	return aqistore.NewMemoryStore()
}

func provideNotifier(cfg *config.Config, logger *slog.Logger) advisor.Notifier {
	if cfg.Notify.Enabled && strings.TrimSpace(cfg.Notify.APIKey) != "" {
		return notify.NewTextbeltDispatcher(cfg.Notify.BaseURL, cfg.Notify.APIKey)
	}
	return notify.NewLogDispatcher(logger)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
