package main

// GET /cart - For listing cart products with subtotals and total
// POST /cart/products/{id} - To add one unit of a product to the cart
// DELETE /cart/products/{id} - To remove a product from the cart
// PUT /cart/products/{id} - To set a product amount, body {"amount": n}
// GET /healthz - Liveness
// GET /api/... - Fixture catalog, only when CATALOG_SEED_FILE is set

// --- EMBED MIGRATIONS ---
import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rocketcart/catalog"
	"rocketcart/config"
	"rocketcart/handler"
	"rocketcart/logger"
	"rocketcart/notify"
	"rocketcart/service"
	"rocketcart/store"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Options{Service: "rocketcart", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(finish(log, run(cfg, log)))
}

// finish logs how run ended and flushes the logger before the process exits.
func finish(log *zap.Logger, err error) int {
	defer log.Sync()

	if err != nil {
		log.Error("cart service stopped", zap.Error(err))
		return 1
	}
	log.Info("bye")
	return 0
}

func run(cfg config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Store ---
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	// --- Router ---
	r := mux.NewRouter()

	if cfg.CatalogSeedFile != "" {
		seed, err := catalog.LoadSeed(cfg.CatalogSeedFile)
		if err != nil {
			return err
		}
		r.PathPrefix("/api/").Handler(http.StripPrefix("/api", catalog.NewHandler(seed)))
		log.Info("serving fixture catalog", zap.String("seed", cfg.CatalogSeedFile), zap.Int("products", len(seed.Products)))
	}

	// --- Catalog client ---
	client, err := catalog.NewClient(cfg.CatalogBaseURL(), cfg.CatalogTimeout, log.Named("catalog"))
	if err != nil {
		return err
	}

	// --- Service ---
	svc, err := service.NewService(ctx, client, st, notify.NewLogNotifier(log.Named("notify")), log.Named("cart"))
	if err != nil {
		return err
	}
	var serviceInterface service.ServiceInterface = svc

	// --- Handlers ---
	h := handler.NewHandler(serviceInterface, log.Named("http"))
	h.RegisterRoutes(r)

	// --- Server ---
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server starting",
			zap.String("addr", addr),
			zap.String("catalog", cfg.CatalogBaseURL()),
			zap.String("storage", cfg.StorageDriver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return store.NewMemoryStore(cfg.StorageKey), nil

	case config.DriverFile:
		return store.NewFileStore(cfg.StorageFile, cfg.StorageKey)

	case config.DriverPostgres:
		pg, err := store.NewPostgresStore(cfg.PostgresDSN, cfg.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}

		// --- RUN MIGRATIONS ---
		if _, err := pg.DB.ExecContext(ctx, migrationSQL); err != nil {
			pg.Close()
			return nil, fmt.Errorf("failed running migrations: %w", err)
		}
		log.Info("database migrations executed")
		return pg, nil

	case config.DriverRedis:
		return store.NewRedisStore(ctx, cfg.RedisAddr, cfg.StorageKey)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
