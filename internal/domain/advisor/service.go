package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/aqi-advisor/internal/observability"
)

// Service exposes personalized air quality recommendations.
type Service interface {
	Recommend(ctx context.Context, profile UserHealthProfile) (Recommendation, error)
}

// Geocoder resolves a free-text location to coordinates. A nil result with a
// nil error means the location could not be resolved.
type Geocoder interface {
	Locate(ctx context.Context, city, state, country string) (*Coordinates, error)
}

// AQIClient fetches a live air quality observation for coordinates.
type AQIClient interface {
	Fetch(ctx context.Context, lat, lon float64) (*AqiPayload, error)
}

// NO2Client supplies a supplemental NO2 reading when the primary source has
// none.
type NO2Client interface {
	Fetch(ctx context.Context, lat, lon float64) (*PollutantSample, error)
}

// PayloadCache stores fetched observations keyed by location.
type PayloadCache interface {
	Get(ctx context.Context, key string) (*AqiPayload, bool, error)
	Save(ctx context.Context, key string, payload *AqiPayload, ttl time.Duration) error
}

// Notifier delivers an urgent advisory out of band.
type Notifier interface {
	Send(ctx context.Context, phone, message string) error
}

// Config tunes the orchestration around the engine.
type Config struct {
	CacheTTL        time.Duration
	NotifyEnabled   bool
	NotifyThreshold float64
}

type service struct {
	cfg       Config
	engine    *Engine
	geocoder  Geocoder
	aqiClient AQIClient
	no2Client NO2Client
	cache     PayloadCache
	notifier  Notifier
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewService wires up the advisor domain.
func NewService(cfg Config, engine *Engine, geocoder Geocoder, aqiClient AQIClient, no2Client NO2Client, cache PayloadCache, notifier Notifier, metrics *observability.Metrics, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		engine:    engine,
		geocoder:  geocoder,
		aqiClient: aqiClient,
		no2Client: no2Client,
		cache:     cache,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger.With("component", "advisor.service"),
	}
}

// Recommend geocodes the profile location, fetches live air quality data and
// runs the engine. Every upstream failure degrades to a nil payload so a
// recommendation is always produced; the returned error is reserved for
// context cancellation.
func (s *service) Recommend(ctx context.Context, profile UserHealthProfile) (Recommendation, error) {
	payload := s.fetchPayload(ctx, profile)
	if err := ctx.Err(); err != nil {
		return Recommendation{}, err
	}

	rec := s.engine.Generate(profile, payload)
	s.metrics.RecommendationsGenerated.WithLabelValues(string(rec.PresetBucket), rec.AQICategory).Inc()
	s.logger.Info("recommendation generated",
		"userId", rec.UserID, "bucket", rec.PresetBucket, "category", rec.AQICategory, "severity", rec.SeverityScore)

	s.maybeNotify(ctx, profile, rec)
	return rec, nil
}

func (s *service) fetchPayload(ctx context.Context, profile UserHealthProfile) *AqiPayload {
	coords, err := s.geocoder.Locate(ctx, profile.City, profile.State, profile.Country)
	if err != nil {
		s.metrics.UpstreamErrors.WithLabelValues("geocode").Inc()
		s.logger.Warn("geocoding failed, continuing without air data", "error", err)
		return nil
	}
	if coords == nil {
		return nil
	}

	key := cacheKey(*coords)
	if cached, ok, cacheErr := s.cache.Get(ctx, key); cacheErr == nil && ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached
	} else if cacheErr != nil {
		s.logger.Warn("payload cache read failed", "error", cacheErr)
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	payload, err := s.aqiClient.Fetch(ctx, coords.Lat, coords.Lon)
	if err != nil {
		s.metrics.UpstreamErrors.WithLabelValues("airnow").Inc()
		s.logger.Warn("aqi fetch failed, continuing without air data", "error", err)
		payload = nil
	}

	payload = s.supplementNO2(ctx, *coords, payload)
	if payload != nil {
		if err := s.cache.Save(ctx, key, payload, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("payload cache write failed", "error", err)
		}
	}
	return payload
}

// supplementNO2 merges a TEMPO NO2 estimate when the primary observation is
// missing one, creating a payload with an unknown overall AQI if the primary
// fetch produced nothing at all.
func (s *service) supplementNO2(ctx context.Context, coords Coordinates, payload *AqiPayload) *AqiPayload {
	if s.no2Client == nil {
		return payload
	}
	if payload != nil {
		if _, ok := payload.PollutantLevels["NO2"]; ok {
			return payload
		}
	}
	sample, err := s.no2Client.Fetch(ctx, coords.Lat, coords.Lon)
	if err != nil {
		s.metrics.UpstreamErrors.WithLabelValues("tempo").Inc()
		s.logger.Warn("tempo no2 fetch failed", "error", err)
		return payload
	}
	if sample == nil {
		return payload
	}
	if payload == nil {
		payload = &AqiPayload{PollutantLevels: map[string]PollutantSample{}}
	}
	if payload.PollutantLevels == nil {
		payload.PollutantLevels = map[string]PollutantSample{}
	}
	payload.PollutantLevels["NO2"] = *sample
	return payload
}

// maybeNotify dispatches the short advisory by SMS when the severity tier
// crosses the urgent threshold. Notification policy lives here, not in the
// engine.
func (s *service) maybeNotify(ctx context.Context, profile UserHealthProfile, rec Recommendation) {
	if !s.cfg.NotifyEnabled || s.notifier == nil {
		return
	}
	if rec.SeverityScore < s.cfg.NotifyThreshold || profile.Phone == "" {
		return
	}
	if err := s.notifier.Send(ctx, profile.Phone, rec.RecommendationShort); err != nil {
		s.metrics.UpstreamErrors.WithLabelValues("sms").Inc()
		s.logger.Warn("sms dispatch failed", "userId", profile.UserID, "error", err)
		return
	}
	s.metrics.SMSDispatched.Inc()
	s.logger.Info("urgent advisory dispatched", "userId", profile.UserID, "severity", rec.SeverityScore)
}

// cacheKey rounds coordinates to two decimals (~1km) so nearby lookups share
// one upstream observation.
func cacheKey(coords Coordinates) string {
	return fmt.Sprintf("aqi:%.2f:%.2f", coords.Lat, coords.Lon)
}
