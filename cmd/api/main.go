package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"staybook/internal/config"
	"staybook/internal/db"
	"staybook/internal/httpserver"
	bookingrepo "staybook/internal/repository/booking"
	cartrepo "staybook/internal/repository/cart"
	cityrepo "staybook/internal/repository/city"
	hotelrepo "staybook/internal/repository/hotel"
	roomrepo "staybook/internal/repository/room"
	availabilitysvc "staybook/internal/service/availability"
	bookingsvc "staybook/internal/service/booking"
	cartsvc "staybook/internal/service/cart"
	searchsvc "staybook/internal/service/search"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DB())
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	cityRepo := cityrepo.NewPostgres(dbpool)
	hotelRepo := hotelrepo.NewPostgres(dbpool, logger)
	roomRepo := roomrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	bookingRepo := bookingrepo.NewPostgres(dbpool, logger)

	availabilityService := availabilitysvc.New(roomRepo, bookingRepo)
	cartService := cartsvc.New(cartRepo, roomRepo, availabilityService, logger)
	bookingService := bookingsvc.New(bookingRepo, logger)
	searchService := searchsvc.New(hotelRepo, bookingRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:         cartService,
		BookingSvc:      bookingService,
		AvailabilitySvc: availabilityService,
		SearchSvc:       searchService,
		CityRepo:        cityRepo,
		HotelRepo:       hotelRepo,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

func buildLogger(cfg config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}
