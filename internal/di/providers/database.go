package providers

import (
	"github.com/samber/do/v2"

	"github.com/sunlibapp/sunlib-server/internal/config"
	"github.com/sunlibapp/sunlib-server/internal/logger"
	"github.com/sunlibapp/sunlib-server/internal/store"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
)

// CatalogHandle wraps the SQLite catalog store with Shutdownable.
type CatalogHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	return h.Close()
}

// ProvideCatalog provides the primary catalog database.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s, err := sqlite.Open(cfg.Storage.CatalogPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog database opened", "path", cfg.Storage.CatalogPath())

	return &CatalogHandle{Store: s}, nil
}

// ActivityStoreHandle wraps the Badger activity log store with Shutdownable.
type ActivityStoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *ActivityStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideActivityStore provides the append-only activity log store.
func ProvideActivityStore(i do.Injector) (*ActivityStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s, err := store.New(cfg.Storage.ActivityPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Activity store opened", "path", cfg.Storage.ActivityPath())

	return &ActivityStoreHandle{Store: s}, nil
}
