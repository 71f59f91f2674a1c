package app

import (
	"context"

	"github.com/Desperationis/penguin/config"
	"github.com/Desperationis/penguin/pkg/logger"
	"github.com/Desperationis/penguin/rest"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

func NewRestApp(configName string, configDirPath string) (*fx.App, error) {
	cfg, err := config.InitConfig(configName, configDirPath)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.Logging.Level)

	cfgModule, err := ConfigModule(cfg)
	if err != nil {
		return nil, err
	}
	svcModule, err := ServiceModule()
	if err != nil {
		return nil, err
	}
	handlerModule, err := HandlerModule(fx.Options(cfgModule, svcModule))
	if err != nil {
		return nil, err
	}

	app := fx.New(
		handlerModule,
		fx.Invoke(StartRestApp),
	)
	return app, nil
}

func StartRestApp(lc fx.Lifecycle, cfg config.ServerConfig, handler *rest.Handler) error {
	engine := echo.New()
	engine.HideBanner = true
	if err := handler.SetupRoutes(engine); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			serverHost := cfg.Host
			if serverHost == "" {
				serverHost = ":9999"
			}
			go func() {
				logger.Logger(ctx).Info().Msgf("starting introspection server on %s", serverHost)
				if err := engine.Start(serverHost); err != nil {
					logger.Logger(ctx).Fatal().Err(err).Msgf("start rest server fail on %s", serverHost)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Logger(ctx).Info().Msg("shutting down introspection server")
			return engine.Shutdown(ctx)
		},
	})

	return nil
}
