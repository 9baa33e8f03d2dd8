package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mahdibiabani/stone-store/internal/config"
	"github.com/mahdibiabani/stone-store/internal/domain"
	"github.com/mahdibiabani/stone-store/internal/handler"
	"github.com/mahdibiabani/stone-store/internal/outbox"
	"github.com/mahdibiabani/stone-store/internal/repository"
	"github.com/mahdibiabani/stone-store/internal/service"
	"github.com/mahdibiabani/stone-store/internal/zarinpal"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.FromEnv()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := repository.ApplySchema(ctx, pool); err != nil {
		return fmt.Errorf("repository.ApplySchema: %w", err)
	}

	orderRepo := repository.NewOrder(pool)
	cartRepo := repository.NewCart(pool)
	stoneRepo := repository.NewStone(pool)
	quoteRepo := repository.NewQuote(pool)
	userRepo := repository.NewUser(pool)

	gateway := zarinpal.New(zarinpal.Config{
		MerchantID:  cfg.MerchantID,
		Sandbox:     cfg.ZarinPalSandbox,
		CallbackURL: cfg.CallbackURL,
		Mock:        cfg.MockPayment,
		MockBaseURL: cfg.BaseURL,
	})

	codes := domain.NewCodeGenerator(nil)

	checkout := service.NewCheckout(orderRepo, cartRepo, gateway, codes, logger)
	payments := service.NewPayment(orderRepo, gateway, codes, logger)
	accounts := service.NewAccount(userRepo, nil, logger)

	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return fmt.Errorf("amqp.Dial: %w", err)
		}
		defer conn.Close()

		processor, err := outbox.New(pool, conn, logger)
		if err != nil {
			return fmt.Errorf("outbox.New: %w", err)
		}
		processor.Start(ctx)
	}

	srv := handler.NewServer(checkout, payments, accounts,
		stoneRepo, cartRepo, orderRepo, quoteRepo,
		cfg.MockPayment, cfg.CallbackURL, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "mock_payment", cfg.MockPayment)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}

	logger.Info("shut down cleanly")
	return nil
}
