package server

import (
	"context"
	"net/http"

	"github.com/KapuKapu/bimiTool/internal/config"
	"github.com/KapuKapu/bimiTool/internal/store"
	"github.com/sirupsen/logrus"
)

// Start serves the ledger API until ctx is done, then shuts down gracefully.
func Start(ctx context.Context, storeHandler store.LedgerHandler, cfg *config.Config, logger *logrus.Logger) {
	handler := newHandler(storeHandler, cfg, logger)
	s := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		WriteTimeout: cfg.Server.WriteTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	m := &middleware{
		logger: logger,
	}
	handler.initRouter(m)

	go func() {
		err := s.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Error starting server: ", err)
		}
	}()

	logger.Infof("Server started on %s", cfg.Server.Addr)

	waitForShutdown(ctx, s, cfg, logger)
	logger.Info("Exiting...")
}

func waitForShutdown(ctx context.Context, s *http.Server, cfg *config.Config, logger *logrus.Logger) {
	<-ctx.Done()
	logger.Info("Trying graceful shutdown server")

	ctxShutDown, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.Shutdown(ctxShutDown); err != nil {
		logger.Errorf("Server shutdown failed: %s", err)
		return
	}
	logger.Info("Server stopped")
}
