package router

import (
	"github.com/oksasatya/go-account-service/internal/container"
	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/internal/router/modules"
)

// InitModules builds the HTTP handlers from a built container and adds
// their modules to the registry. Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	handler := handlers.NewUserHandler(c.Service, c.Logger, c.Cookies, cfg.ActivationRedirectURL, cfg.ImageMaxBytes)

	limits := modules.Limits{}
	if cfg.RateLimitEnabled {
		limits.Redis = c.Redis
	}
	if cfg.RateLimitBypassPrivate {
		limits.Allow = middleware.AllowPrivateIP()
	}

	r.Add(modules.NewUserModule(handler, c.JWT, limits))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limits))
	}
}
