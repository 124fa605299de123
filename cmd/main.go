package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
	"schoolbooks/internal/fiscal"
	"schoolbooks/internal/httpapi"
	"schoolbooks/internal/storage/memory"
	pgstore "schoolbooks/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLoggerFromEnv()
	slog.SetDefault(logger)

	var srvMux http.Handler
	var closeFn func()

	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		// Use Postgres store when DATABASE_URL is provided
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = func() { pg.Close() }
		// Optional dev seed for compose/local
		if devSeedEnabled() {
			if err := pg.SeedDev(ctx); err != nil {
				logger.Error("dev seed failed", "err", err)
			} else {
				logger.Info("DEV seed (postgres)")
			}
		}
		srvMux = httpapi.New(pg, logger).Handler()
		logger.Info("storage backend: postgres")
	} else {
		// Default to in-memory store, optionally seeded for local poking
		store := memory.New()
		if devSeedEnabled() {
			seedMemory(store)
			logger.Info("DEV seed (memory)")
		}
		srvMux = httpapi.New(store, logger).Handler()
		logger.Info("storage backend: memory")
	}

	addr := strings.TrimSpace(os.Getenv("ADDR"))
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           srvMux,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("books service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

func devSeedEnabled() bool {
	dev := strings.ToLower(strings.TrimSpace(os.Getenv("DEV_SEED")))
	return dev == "1" || dev == "true" || dev == "yes"
}

// seedMemory loads a fee rule, a registry record and a couple of entries so
// the dashboard and listings have something to show.
func seedMemory(store *memory.Store) {
	now := time.Now().UTC()
	// Allocate the custom id through the store counter, same as the registry
	// service, so customers created later cannot collide with the seed.
	n, _ := store.NextSequence(context.Background(), "customer:"+fiscal.Label(now))
	store.SeedCustomer(books.Customer{
		CustomID:     fmt.Sprintf("ID-%04d", n),
		AccountHead:  "Boarder",
		AccountClass: "G_3",
		Gender:       "M",
		Name:         "Aung Aung",
		EntryDate:    now,
	})
	store.SeedRule(books.Rule{
		AccountHead:     "Boarder",
		AccountClass:    "G_3",
		RegistrationFee: decimal.NewFromInt(20000),
		ServicesFee:     decimal.NewFromInt(5000),
		Date:            time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Remark:          "dev seed",
	})
	store.SeedEntry(books.Entry{
		Book:        books.BookBank,
		Date:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		VoucherNo:   "BK-010425-001",
		AccountHead: "Deposit",
		Description: "dev seed",
		Method:      books.MethodBank,
		Debit:       decimal.NewFromInt(100000),
		EntryDate:   now,
	})
	store.SeedEntry(books.Entry{
		Book:        books.BookCash,
		Date:        time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		VoucherNo:   "CSH-020425-001",
		AccountHead: "Withdrawal",
		Description: "dev seed",
		Method:      books.MethodCash,
		Credit:      decimal.NewFromInt(30000),
		Transfer:    books.TagKitchenExp,
		EntryDate:   now,
	})
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLoggerFromEnv() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
