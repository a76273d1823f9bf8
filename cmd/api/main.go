package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "geocode-map/docs"
	"geocode-map/internal/config"
	"geocode-map/internal/geocoder"
	"geocode-map/internal/handler"
	"geocode-map/internal/i18n"
	"geocode-map/internal/jobs"
	"geocode-map/internal/logger"
	"geocode-map/internal/middleware"
	"geocode-map/internal/models"
	"geocode-map/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title        geocode-map API
// @version      1.0
// @description  Click a point on the map and read its address.
// @BasePath     /
func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	log.Logger = logger.New(cfg.LogLevel, cfg.Environment, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := i18n.New(cfg.Locale)

	// Geocoder, once per process
	stack, err := geocoder.NewFromConfig(ctx, cfg, loc, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot initialize geocoder")
	}
	defer stack.Close()

	// Initialize layers
	ordering := service.LastClickWins
	if cfg.GeocodeOrdering == config.OrderingLastResolved {
		ordering = service.LastResolvedWins
	}
	mapService := service.NewMapService(stack.Geocoder, service.MapOptions{
		Center:   models.Coordinate{Lat: cfg.MapCenterLat, Lon: cfg.MapCenterLon},
		Zoom:     cfg.MapZoom,
		Ordering: ordering,
		Timeout:  cfg.GeocoderTimeout,
		IdleTTL:  cfg.SessionIdleTTL,
	}, log.Logger)
	defer mapService.Close()

	reverseGeocodeService := service.NewReverseGeoCodeService(stack.Geocoder)

	mapHandler := handler.NewMapHandler(mapService, loc, stack.WidgetKey, log.Logger)
	reverseGeocodeHandler := handler.NewReverseGeocodeHandler(reverseGeocodeService)

	// Housekeeping
	scheduler, err := jobs.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create scheduler")
	}
	if err := scheduler.Housekeeping(ctx, jobs.Interval, mapService, stack); err != nil {
		log.Fatal().Err(err).Msg("cannot schedule housekeeping")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown failed")
		}
	}()

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/", mapHandler.Page)
	r.GET("/reverse-geocode", reverseGeocodeHandler.ReverseGeocode)

	sessions := r.Group("/api/sessions")
	sessions.POST("", mapHandler.OpenSession)
	sessions.GET("/:id", mapHandler.GetSession)
	sessions.POST("/:id/clicks", mapHandler.Click)
	sessions.GET("/:id/panel", mapHandler.Panel)
	sessions.GET("/:id/events", mapHandler.Events)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end with the process context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("address", cfg.ServerAddress).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}
