package providers

import (
	"github.com/samber/do/v2"

	"github.com/sunlibapp/sunlib-server/internal/logger"
	"github.com/sunlibapp/sunlib-server/internal/service"
)

// ProvideUserService provides the user account service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	catalog := do.MustInvoke[*CatalogHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(catalog.Store, log.Logger), nil
}

// ProvideActivityService provides the activity feed service.
func ProvideActivityService(i do.Injector) (*service.ActivityService, error) {
	activityStore := do.MustInvoke[*ActivityStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewActivityService(activityStore.Store, log.Logger), nil
}

// ProvideBookService provides the book catalog service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	catalog := do.MustInvoke[*CatalogHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(catalog.Store, log.Logger), nil
}

// ProvideEngagementService provides the reading engagement service.
func ProvideEngagementService(i do.Injector) (*service.EngagementService, error) {
	catalog := do.MustInvoke[*CatalogHandle](i)
	activityService := do.MustInvoke[*service.ActivityService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEngagementService(catalog.Store, activityService, log.Logger), nil
}

// ProvidePurchaseService provides the purchase request service.
func ProvidePurchaseService(i do.Injector) (*service.PurchaseService, error) {
	catalog := do.MustInvoke[*CatalogHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPurchaseService(catalog.Store, log.Logger), nil
}

// ProvideReviewService provides the book review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	catalog := do.MustInvoke[*CatalogHandle](i)
	activityService := do.MustInvoke[*service.ActivityService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(catalog.Store, activityService, log.Logger), nil
}

// ProvideSocialService provides the follow graph service.
func ProvideSocialService(i do.Injector) (*service.SocialService, error) {
	catalog := do.MustInvoke[*CatalogHandle](i)
	activityService := do.MustInvoke[*service.ActivityService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSocialService(catalog.Store, activityService, log.Logger), nil
}
