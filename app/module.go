package app

import (
	"github.com/Desperationis/penguin/config"
	"github.com/Desperationis/penguin/domain"
	"github.com/Desperationis/penguin/rest"
	"github.com/Desperationis/penguin/service"
	"go.uber.org/fx"
)

func ConfigModule(cfg config.Config) (fx.Option, error) {
	return fx.Options(
		fx.Provide(func() config.Config {
			return cfg
		}),
		fx.Provide(func(cfg config.Config) config.ServerConfig {
			return cfg.Server
		}),
		fx.Provide(func(cfg config.Config) config.ProbeConfig {
			return cfg.Probe
		}),
		fx.Provide(func(cfg config.Config) config.TokenConfig {
			return cfg.Token
		}),
	), nil
}

// ServiceModule creates an Fx module that provides the service layer, return domain.Service
func ServiceModule() (fx.Option, error) {
	return fx.Options(
		fx.Provide(service.NewService),
		fx.Provide(func(svc *service.Service) domain.Service {
			return svc
		}),
	), nil
}

// HandlerModule creates an Fx module that provides the REST handler, return *rest.Handler
func HandlerModule(opts fx.Option) (fx.Option, error) {
	return fx.Options(
		opts,
		fx.Provide(rest.NewHandler),
	), nil
}
