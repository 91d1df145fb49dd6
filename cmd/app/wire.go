//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/aqi-advisor/internal/bootstrap"
	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
	"github.com/yanqian/aqi-advisor/internal/domain/auth"
	"github.com/yanqian/aqi-advisor/internal/infra/config"
	httpiface "github.com/yanqian/aqi-advisor/internal/interface/http"
	"github.com/yanqian/aqi-advisor/internal/observability"
	"github.com/yanqian/aqi-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		observability.NewMetrics,
		provideAuthConfig,
		provideAuthRepository,
		provideAdvisorConfig,
		provideEngine,
		provideGeocoder,
		provideAQIClient,
		provideNO2Client,
		providePayloadCache,
		provideNotifier,
		auth.NewService,
		advisor.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
