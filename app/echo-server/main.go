package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myBookShelf/app/echo-server/router"
	"myBookShelf/business/catalog"
	"myBookShelf/business/ratings"
	"myBookShelf/business/recommend"
	"myBookShelf/internal/middleware"
	psqlRepo "myBookShelf/internal/repository/postgres"
	redisRepo "myBookShelf/internal/repository/redis"
	"myBookShelf/internal/repository/snapshot"
	"myBookShelf/internal/rest"
	"myBookShelf/pkg/config"
	"myBookShelf/pkg/database"
	redisdb "myBookShelf/pkg/database/redis"
	"myBookShelf/pkg/logger"
	"myBookShelf/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting MyBookShelf", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Load the offline artifacts. All three are read fully into
	// memory here and shared read-only for the process lifetime.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer loadCancel()

	snap, err := snapshot.LoadCatalog(loadCtx, cfg.Artifacts.SnapshotPath)
	if err != nil {
		logger.Fatal("Failed to load catalog snapshot", "error", err)
	}
	logger.Info("Catalog snapshot loaded", "books", len(snap.Books), "ratings", len(snap.Ratings))

	modelData, err := snapshot.LoadFactorModel(loadCtx, cfg.Artifacts.ModelPath)
	if err != nil {
		logger.Fatal("Failed to load factor model", "error", err)
	}
	logger.Info("Factor model loaded", "users", len(modelData.UserFactors), "items", len(modelData.ItemFactors))

	simBundle, err := snapshot.LoadSimilarity(loadCtx, cfg.Artifacts.SimilarityPath)
	if err != nil {
		logger.Fatal("Failed to load similarity bundle", "error", err)
	}
	logger.Info("Similarity bundle loaded", "rows", len(simBundle.RowTitles))

	// Optional popular-list cache
	var popularCache recommend.PopularCache
	if cfg.Redis.Enabled {
		redisClient, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer func() {
			_ = redisdb.CloseRedisClient(redisClient)
		}()
		popularCache = redisRepo.NewPopularCache(redisClient)
		logger.Info("Redis popular cache enabled")
	}

	// Init repo
	ratingRepo := psqlRepo.NewRatingRepository(db)

	// Init service
	catalogService := catalog.NewService(snap.Books)
	staticSet := ratings.NewStaticSet(snap.Ratings)
	ratingService := ratings.NewService(staticSet, ratingRepo, catalogService)

	predictor := recommend.NewFactorModel(recommend.FactorModelParams{
		GlobalMean:  modelData.GlobalMean,
		UserBiases:  modelData.UserBiases,
		UserFactors: modelData.UserFactors,
		ItemBiases:  modelData.ItemBiases,
		ItemFactors: modelData.ItemFactors,
	})
	popularity := recommend.NewPopularityRanker(snap.Ratings, catalogService)
	similarity := recommend.NewSimilarityIndex(simBundle.RowTitles, simBundle.Matrix, simBundle.Books)

	recommendService := recommend.NewService(
		ratingService,
		catalogService,
		predictor,
		popularity,
		similarity,
		popularCache,
		recommend.DefaultConfig(),
	)

	// Init handler
	recommendHandler := rest.NewRecommendHandler(recommendService)
	ratingHandler := rest.NewRatingHandler(ratingService)
	bookHandler := rest.NewBookHandler(catalogService, recommendService, ratingService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(echomiddleware.CORS())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	router.SetupRecommendationRoutes(api, recommendHandler)
	router.SetupBookRoutes(api, bookHandler, recommendHandler)
	router.SetupRatingRoutes(api, ratingHandler)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("HTTP server listening", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
	}
}
