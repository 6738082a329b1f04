package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stockfront/internal/backend"
	"stockfront/internal/cart"
	"stockfront/internal/checkout"
	"stockfront/internal/config"
	"stockfront/internal/domain"
	"stockfront/internal/httpserver"
	"stockfront/internal/localstore"
	"stockfront/internal/recommend"
	"stockfront/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	snapshots, err := localstore.New(cfg.StateDir, logger)
	if err != nil {
		logger.Fatalf("open state dir: %v", err)
	}

	client, err := backend.NewClient(cfg.BackendURL, &http.Client{Timeout: cfg.RequestTimeout}, logger)
	if err != nil {
		logger.Fatalf("init backend client: %v", err)
	}

	cartStore := cart.New(snapshots, logger)
	sessionStore := session.New(snapshots, backend.NewIdentityClient(client), logger)
	orchestrator := checkout.New(cartStore, backend.NewPaymentClient(client), sessionStore, logger)
	defer orchestrator.Close()

	catalog := backend.NewCatalogClient(client)

	// One startup round trip: validate the cached token. A rejected token just
	// drops the session; an unreachable backend keeps the cached identity.
	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	if err := sessionStore.Restore(restoreCtx); err != nil && !errors.Is(err, domain.ErrUnauthorized) {
		logger.Printf("session restore: %v", err)
	}
	cancelRestore()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Cart:      cartStore,
		Session:   sessionStore,
		Checkout:  orchestrator,
		Catalog:   catalog,
		Recommend: recommend.New(backend.NewRecommendClient(client), catalog, logger),
		Admin:     backend.NewAdminClient(client),
	}, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
