// Package di provides dependency injection container setup for the SunLib server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/sunlibapp/sunlib-server/internal/config"
	"github.com/sunlibapp/sunlib-server/internal/di/providers"
	"github.com/sunlibapp/sunlib-server/internal/logger"
	"github.com/sunlibapp/sunlib-server/internal/service"
)

// NewContainer creates and configures the dependency injection container.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideActivityStore)

	// Business services
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideActivityService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideEngagementService)
	do.Provide(injector, providers.ProvidePurchaseService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideSocialService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.CatalogHandle](injector)
	_ = do.MustInvoke[*providers.ActivityStoreHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.ActivityService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.EngagementService](injector)
	_ = do.MustInvoke[*service.PurchaseService](injector)
	_ = do.MustInvoke[*service.ReviewService](injector)
	_ = do.MustInvoke[*service.SocialService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
