// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/storepulse/storepulse/internal/api"
	"github.com/storepulse/storepulse/internal/cache"
	"github.com/storepulse/storepulse/internal/catalog"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/repository/postgres"
	"github.com/storepulse/storepulse/internal/search"
	"github.com/storepulse/storepulse/internal/service"
	"github.com/storepulse/storepulse/internal/storage"
	"github.com/storepulse/storepulse/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("timezone", cfg.Report.Timezone).Msg("Invalid reporting timezone")
	}

	store, err := buildStore(cfg, loc)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize catalog store")
	}

	searchCache, err := cache.NewSearchCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		searchCache = cache.NewNoopSearchCache()
	}

	var uploader storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		uploader = client
	}

	engine := search.NewEngine(search.NewScorer(cfg.Search.Scorer), search.Options{
		FuzzyThreshold:    cfg.Search.FuzzyThreshold,
		PageSize:          cfg.Search.PageSize,
		AutocompleteLimit: cfg.Search.AutocompleteLimit,
	})

	services := &api.Services{
		SearchService: service.NewSearchService(store, engine, searchCache),
		AlertService:  service.NewAlertService(store, cfg.Forecast, loc),
		ReportService: service.NewReportService(store, cfg.Report, loc, uploader),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func buildStore(cfg *config.Config, loc *time.Location) (catalog.Store, error) {
	data := config.LoadData()
	switch data.Source {
	case "postgres":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewCatalogRepository(db), nil
	case "csv":
		products, err := catalog.LoadProductsCSV(data.ProductsFile)
		if err != nil {
			return nil, err
		}
		transactions, err := catalog.LoadTransactionsCSV(data.TransactionsFile, loc)
		if err != nil {
			return nil, err
		}
		store := catalog.NewMemoryStore()
		store.SetProducts(products)
		store.SetTransactions(transactions)
		logger.Log.Info().
			Int("products", len(products)).
			Int("transactions", len(transactions)).
			Msg("Catalog loaded from CSV")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown data source %q (expected csv or postgres)", data.Source)
	}
}
