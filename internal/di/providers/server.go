package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/sunlibapp/sunlib-server/internal/api"
	"github.com/sunlibapp/sunlib-server/internal/config"
	"github.com/sunlibapp/sunlib-server/internal/logger"
	"github.com/sunlibapp/sunlib-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	catalog := do.MustInvoke[*CatalogHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := api.Services{
		User:       do.MustInvoke[*service.UserService](i),
		Book:       do.MustInvoke[*service.BookService](i),
		Engagement: do.MustInvoke[*service.EngagementService](i),
		Purchase:   do.MustInvoke[*service.PurchaseService](i),
		Review:     do.MustInvoke[*service.ReviewService](i),
		Social:     do.MustInvoke[*service.SocialService](i),
		Activity:   do.MustInvoke[*service.ActivityService](i),
	}

	handler := api.NewServer(catalog.Store, services, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
