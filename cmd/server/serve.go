package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/riteshkumar/clientes-api/internal/handler"
	"github.com/riteshkumar/clientes-api/internal/repository"
	"github.com/riteshkumar/clientes-api/internal/service"
)

func serve(ctx context.Context, rt *app) error {
	// Initialise repos
	txManager := repository.NewTxManager(rt.db)
	balanceRepo := repository.NewBalanceRepository()
	transactionRepo := repository.NewTransactionRepository()

	// Initialise services
	transactionService := service.NewTransactionService(txManager, balanceRepo, transactionRepo, rt.logger)
	statementService := service.NewStatementService(txManager, balanceRepo, transactionRepo, rt.logger)

	// Initialise handlers
	clientHandler := handler.NewClientHandler(transactionService, statementService, rt.logger)
	healthHandler := handler.NewHealthHandler(rt.db, rt.logger)

	router := handler.NewRouter(rt.logger, rt.cfg.HTTP.RequestTimeout, clientHandler, healthHandler)

	port := strconv.Itoa(rt.cfg.HTTP.Port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  rt.cfg.HTTP.ReadTimeout,
		WriteTimeout: rt.cfg.HTTP.WriteTimeout,
		IdleTimeout:  rt.cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rt.logger.Info("starting server on port " + port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Wait for interrupt signal (or a listener failure) to gracefully shutdown the server
	g.Go(func() error {
		<-gctx.Done()
		rt.logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			rt.logger.Error("server forced to shutdown", "error", err.Error())
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	rt.logger.Info("server exited gracefully")
	return nil
}
