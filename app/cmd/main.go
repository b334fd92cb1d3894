package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sitebuilder/app/config"
	"sitebuilder/app/usecase"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/billing"
	"sitebuilder/internal/infrastructure/llm"
	"sitebuilder/internal/infrastructure/metrics"
	"sitebuilder/internal/infrastructure/store/filesystem"
	mongorepo "sitebuilder/internal/infrastructure/store/mongodb"
	"sitebuilder/internal/infrastructure/store/postgres"
	"sitebuilder/internal/infrastructure/transport"
)

type stores struct {
	projects repository.ProjectRepository
	pages    repository.PageRepository
	payments repository.PaymentRepository
	close    func(ctx context.Context) error
}

func main() {
	// load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	st, err := openStores(cfg, logger)
	if err != nil {
		logger.Error("open store failed", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}

	projectFiles, err := filesystem.NewFileRepository(cfg.Storage.ProjectsDir)
	if err != nil {
		logger.Error("init project folders failed", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Storage.MediaDir, 0o755); err != nil {
		logger.Error("init media dir failed", "err", err)
		os.Exit(1)
	}

	// LLM providers; those without credentials report unavailable
	p := cfg.Providers
	generators := []repository.HTMLGenerator{
		llm.NewOpenAIGenerator(p.OpenAI.APIKey, p.OpenAI.BaseURL, p.OpenAI.Model, p.OpenAI.Temperature),
		llm.NewGeminiGenerator(p.Gemini.APIKey, p.Gemini.Model),
		llm.NewAnthropicGenerator(p.Anthropic.APIKey, p.Anthropic.BaseURL, p.Anthropic.Model, p.Anthropic.MaxTokens),
		llm.NewOllamaGenerator(p.Ollama.Host, p.Ollama.Model),
	}
	for _, g := range generators {
		logger.Info("provider registered", "provider", g.Provider(), "available", g.Available())
	}

	// Usecases / services
	generationSvc := usecase.NewGenerationService(generators, p.Default, logger)
	projectSvc := usecase.NewProjectService(st.projects, st.pages, projectFiles, generationSvc, logger)

	gateway := billing.NewStripeGateway(
		cfg.Billing.SecretKey,
		cfg.Billing.WebhookSecret,
		cfg.Server.FrontendURL,
		cfg.Billing.Currency,
		cfg.Billing.ProductName,
	)
	checkoutSvc := usecase.NewCheckoutService(gateway, st.payments, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Transport (HTTP handlers)
	handler := transport.NewSiteBuilderHandler(generationSvc, projectSvc, checkoutSvc, logger)

	// Router and server
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	r.PathPrefix("/media/").Handler(http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Storage.MediaDir))))
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Stripe-Signature"}),
	)(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Server.MetricsAddr != "" {
		go func() {
			logger.Info("starting metrics server", "addr", cfg.Server.MetricsAddr)
			if err := metrics.StartMetricsServer(cfg.Server.MetricsAddr); err != nil {
				logger.Error("metrics server failed", "err", err)
			}
		}()
	}

	// Start HTTP server
	go func() {
		logger.Info("starting HTTP server", "addr", addr, "app_url", cfg.Server.AppURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", "err", err)
			cancel()
		}
	}()

	// OS signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	// Shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}

	logger.Info("closing store", "driver", cfg.Store.Driver)
	if err := st.close(shutdownCtx); err != nil {
		logger.Error("store close error", "err", err)
	}

	logger.Info("service stopped")
}

func openStores(cfg *config.Config, logger *slog.Logger) (*stores, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := postgres.NewStore(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := pg.CreateSchema(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
		logger.Info("connected to postgres")
		return &stores{
			projects: pg.Projects(),
			pages:    pg.Pages(),
			payments: pg.Payments(),
			close: func(context.Context) error {
				pg.Close()
				return nil
			},
		}, nil

	default:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo ping: %w", err)
		}
		logger.Info("connected to mongo", "uri", cfg.Mongo.URI)
		db := client.Database(cfg.Mongo.Database)
		return &stores{
			projects: mongorepo.NewMongoProjectRepo(db),
			pages:    mongorepo.NewMongoPageRepo(db),
			payments: mongorepo.NewMongoPaymentRepo(db),
			close:    client.Disconnect,
		}, nil
	}
}
