//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/lunar-calendar/internal/bootstrap"
	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
	"github.com/yanqian/lunar-calendar/internal/infra/config"
	httpiface "github.com/yanqian/lunar-calendar/internal/interface/http"
	"github.com/yanqian/lunar-calendar/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideLunarConfig,
		provideGeocoder,
		providePlaceCache,
		providePresetRepository,
		lunar.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
