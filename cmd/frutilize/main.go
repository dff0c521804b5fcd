package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/frutilize/internal/auth"
	"github.com/vasiliy-maslov/frutilize/internal/cart"
	"github.com/vasiliy-maslov/frutilize/internal/checkout"
	"github.com/vasiliy-maslov/frutilize/internal/config"
	"github.com/vasiliy-maslov/frutilize/internal/customer"
	"github.com/vasiliy-maslov/frutilize/internal/db"
	"github.com/vasiliy-maslov/frutilize/internal/handler"
	"github.com/vasiliy-maslov/frutilize/internal/order"
	"github.com/vasiliy-maslov/frutilize/internal/report"
	"github.com/vasiliy-maslov/frutilize/internal/transport"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "frutilize").Logger()

	log.Info().Msg("Frutilize starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	store, err := db.New(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer store.Close()

	if err := db.Seed(context.Background(), store.DB, db.AdminSeed{
		Username: cfg.Seed.AdminUsername,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed database")
	}

	sessions, err := auth.NewSessionStore(cfg.Session.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load session store")
	}

	customerRepo := customer.NewRepository(store.DB)
	orderRepo := order.NewRepository(store.DB)
	orderSvc := order.NewService(orderRepo)
	checkoutSvc := checkout.NewService(store.DB)
	authSvc := auth.NewService(auth.NewRepository(store.DB))
	carts := cart.NewStore()

	reportGen := report.NewGenerator(store.DB, cfg.Report.Timezone)
	scheduler := report.NewScheduler(
		reportGen,
		report.NewScheduleRepository(store.DB),
		report.DirWriter{Dir: cfg.Report.Dir},
		cfg.Report.Timezone,
	)
	scheduler.Start()
	defer scheduler.Stop()

	router := transport.NewRouter(transport.Handlers{
		Catalog:  handler.NewCatalogHandler(),
		Cart:     handler.NewCartHandler(carts),
		Customer: handler.NewCustomerHandler(customerRepo, orderSvc),
		Checkout: handler.NewCheckoutHandler(checkoutSvc, carts, cfg.Store.WhatsAppPhone, cfg.Report.Timezone),
		Auth:     handler.NewAuthHandler(authSvc, sessions),
		Admin:    handler.NewAdminHandler(orderSvc, reportGen, cfg.Report.Timezone),
		Sessions: sessions,
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}

	log.Info().Msg("Frutilize stopped gracefully")
}
