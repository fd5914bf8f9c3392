package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ruralpay/ledgersim/docs"
	"github.com/ruralpay/ledgersim/internal/config"
	"github.com/ruralpay/ledgersim/internal/database"
	"github.com/ruralpay/ledgersim/internal/handlers"
	"github.com/ruralpay/ledgersim/internal/logger"
	mW "github.com/ruralpay/ledgersim/internal/middleware"
	"github.com/ruralpay/ledgersim/internal/services"
	"github.com/ruralpay/ledgersim/internal/store"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Ledger Simulator API
// @version 1.0
// @description Tool surface over an in-memory banking ledger
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	if err := config.Init(".env"); err != nil {
		panic(err)
	}
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Must(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port

	// Snapshot source
	var snapshots *database.SnapshotRepository
	if cfg.Snapshot.Source == config.SnapshotSourcePostgres {
		db, err := database.InitDB(log)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer db.Close()
		snapshots, err = openRepository(db)
		if err != nil {
			log.Fatal("Failed to prepare snapshot table", zap.Error(err))
		}
	}

	st, err := loadStore(cfg, snapshots, log)
	if err != nil {
		log.Fatal("Failed to load ledger snapshot", zap.Error(err))
	}
	stats := st.Statistics()
	log.Info("Ledger loaded",
		zap.String("source", cfg.Snapshot.Source),
		zap.Int("customers", stats.NumCustomers),
		zap.Int("accounts", stats.NumAccounts),
		zap.Int("transactions", stats.NumTransactions),
		zap.Int("swift_messages", stats.NumSwiftMessages),
	)

	// Queue publishing is optional
	var queue services.SettlementQueue
	var depth handlers.QueueDepther
	redisClient := database.InitRedis(log)
	if redisClient != nil {
		defer redisClient.Close()
		redisQueue := services.NewRedisQueue(redisClient, cfg.Queue.SettlementKey, cfg.Queue.FraudReviewKey)
		queue = redisQueue
		depth = redisQueue
	}

	ledgerService := services.NewLedgerService(st, queue, log)
	queryService := services.NewQueryService(st)
	toolkit := services.NewToolkit(ledgerService, queryService)
	toolHandler := handlers.NewToolHandler(toolkit, queryService, log)
	policyHandler := handlers.NewPolicyHandler(cfg.Policy.Path)
	healthHandler := handlers.NewHealthHandler(depth, log)

	// Setup router
	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(mW.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))

	r.Get("/health", healthHandler.GetHealth)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:"+cfg.Server.Port+"/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tools", toolHandler.ListTools)
		r.Post("/tools/{toolName}", toolHandler.InvokeTool)
		r.Get("/statistics", toolHandler.GetStatistics)
		r.Get("/policy", policyHandler.GetPolicy)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if cfg.Snapshot.SaveOnShutdown {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer saveCancel()
		if err := saveStore(saveCtx, cfg, snapshots, st); err != nil {
			log.Error("Failed to save ledger snapshot", zap.Error(err))
		} else {
			log.Info("Ledger snapshot saved", zap.String("source", cfg.Snapshot.Source))
		}
	}

	log.Info("Server stopped")
}

func openRepository(db *sql.DB) (*database.SnapshotRepository, error) {
	repo := database.NewSnapshotRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func loadStore(cfg *config.Config, snapshots *database.SnapshotRepository, log *zap.Logger) (*store.Store, error) {
	switch cfg.Snapshot.Source {
	case config.SnapshotSourcePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		st, err := snapshots.LoadLatest(ctx)
		if errors.Is(err, database.ErrNoSnapshot) {
			log.Warn("No snapshot stored yet, starting with an empty ledger")
			return store.New(), nil
		}
		return st, err
	default:
		return store.LoadSnapshotFile(cfg.Snapshot.Path)
	}
}

func saveStore(ctx context.Context, cfg *config.Config, snapshots *database.SnapshotRepository, st *store.Store) error {
	switch cfg.Snapshot.Source {
	case config.SnapshotSourcePostgres:
		_, err := snapshots.Save(ctx, st, cfg.Snapshot.Keep)
		return err
	default:
		return st.SaveSnapshotFile(cfg.Snapshot.Path)
	}
}
