package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"widgetchat/internal/api"
	"widgetchat/internal/config"
	"widgetchat/internal/providers"
	"widgetchat/internal/redis"
	"widgetchat/internal/service/ai"
	"widgetchat/internal/service/assistant"
	"widgetchat/internal/service/dispatch"
	"widgetchat/internal/storage"
	"widgetchat/internal/widgets"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.Load()
	if !cfg.BasicConfig.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Printf("database driver: %s", cfg.Database.Driver)
	db, err := storage.Open(cfg.Database, cfg.BasicConfig.Debug)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer storage.Close(db)
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// redis is an optional front layer for the widget cache
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rdb, err = redis.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("create redis client: %v", err)
		}
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := providers.NewHTTPClient()
	var searcher providers.Searcher
	if cfg.APIKeys.NewsWebSearch {
		if ws := providers.NewWebSearch(ctx, cfg.APIKeys.GoogleSearch, cfg.APIKeys.GoogleSearchEngineID); ws != nil {
			searcher = ws
		}
	}
	dispatcher := dispatch.New(
		providers.NewWeatherClient(cfg.APIKeys.OpenWeather, httpClient),
		providers.NewStockClient(cfg.APIKeys.AlphaVantage, httpClient),
		providers.NewNewsClient(cfg.APIKeys.News, httpClient, searcher),
		providers.NewClockSource(),
		providers.NewBankingClient(cfg.Banking.BaseURL, cfg.Banking.MockEnabled, httpClient),
	)

	chatModel, err := ai.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("init chat model: %v", err)
	}
	if chatModel == nil {
		log.Printf("no chat model configured, using keyword dispatch")
	}
	processor, err := ai.NewProcessor(chatModel, dispatcher, cfg.Widgets.MaxWidgetsPerResponse)
	if err != nil {
		log.Fatalf("init message processor: %v", err)
	}

	registry := widgets.DefaultRegistry()
	registry.SetDefaultRefreshInterval(cfg.Widgets.CacheTTL)
	assistantService := assistant.NewService(db, processor, dispatcher, registry, rdb)
	assistantService.StartCachePurger(ctx, cfg.Widgets.CachePurgeInterval)

	handlers := api.NewHandler(assistantService, cfg.BasicConfig.Debug)
	router := gin.New()
	router.Use(gin.Logger(), handlers.Recovery())
	handlers.RegisterRoutes(router)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.BasicConfig.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8000"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
