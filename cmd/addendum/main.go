package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate_addendum/internal/app/service"
	"estate_addendum/internal/infrastructure/configloader"
	"estate_addendum/internal/infrastructure/draftstore"
	"estate_addendum/internal/infrastructure/httpclient"
	providerclient "estate_addendum/internal/infrastructure/network/client"
	networkdefinition "estate_addendum/internal/infrastructure/network/definition"
	"estate_addendum/internal/infrastructure/restapi"
	"estate_addendum/internal/pkg/logger"
	"estate_addendum/internal/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/config.yml"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := configloader.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// Bridge the default slog logger into zap so library code logging via
	// slog lands in the same sink.
	slogHandler := slogzap.Option{Level: slog.LevelDebug, Logger: zapLogger}.NewZapHandler()
	slog.SetDefault(slog.New(slogHandler))

	appLogger := logger.NewZapAdapter(zapLogger)
	appLogger.Info("Estate addendum service starting", "configPath", configPath)

	metrics.MustRegister()

	networkRegistry, err := networkdefinition.NewRegistry(cfg.Networks, appLogger)
	if err != nil {
		zapLogger.Fatal("Failed to build network registry", zap.Error(err))
	}
	appLogger.Info("Network registry initialized", "networkCount", len(networkRegistry.All()))

	resolver := providerclient.NewResolver(networkRegistry, cfg.RPCClient, appLogger)

	priceClient := httpclient.NewCoinGeckoClient(cfg.CoinGecko, zapLogger)
	priceService := service.NewPriceService(priceClient, cfg.PriceSvc, appLogger)

	normalizer := service.NewNormalizer(networkRegistry.All())
	aggregator := service.NewAggregator(networkRegistry, resolver, normalizer, priceService, cfg.Aggregator, appLogger)
	sessionRegistry := service.NewSessionRegistry(appLogger)
	documentBuilder := service.NewDocumentBuilder(appLogger)
	documentCompiler := service.NewDocumentCompiler(cfg.Compiler, appLogger)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	draftStore, err := draftstore.NewRedisStore(startupCtx, cfg.Redis, zapLogger)
	startupCancel()
	if err != nil {
		zapLogger.Fatal("Failed to connect draft store", zap.Error(err))
	}
	defer draftStore.Close()
	appLogger.Info("Draft store connected", "addr", cfg.Redis.Addr)

	sessionHandler := restapi.NewSessionHandler(sessionRegistry, networkRegistry)
	portfolioHandler := restapi.NewPortfolioHandler(sessionRegistry, aggregator)
	networkHandler := restapi.NewNetworkHandler(networkRegistry)
	documentHandler := restapi.NewDocumentHandler(documentBuilder, documentCompiler, aggregator, draftStore, cfg, appLogger)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // Adjust for production
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	restapi.RegisterRoutes(router, sessionHandler, portfolioHandler, networkHandler, documentHandler)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	appLogger.Info("Shutdown signal received, stopping HTTP server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	} else {
		appLogger.Info("HTTP server stopped")
	}
}
