package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/auth"
	"Boltcalc/internal/calc/pin"
	"Boltcalc/internal/calc/premium/batch"
	"Boltcalc/internal/calc/premium/importer"
	"Boltcalc/internal/config"
	"Boltcalc/internal/logger"
	"Boltcalc/internal/material"
	"Boltcalc/internal/metrics"
	"Boltcalc/internal/oracle"
	"Boltcalc/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func instrument(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			route := r.URL.Path
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m.ObserveRequest(route, rec.status)
		})
	}
}

type deps struct {
	cfg     config.Config
	log     *zap.Logger
	users   repo.Repository
	store   material.Store
	catalog *material.Catalog
	table   *oracle.Table
	metrics *metrics.Metrics
}

func HandleList(router *mux.Router, d deps) {
	authEnv := &auth.Authenv{JWTkey: []byte(d.cfg.TokenKey), Repo: d.users, Log: d.log}
	limiter := auth.NewIPRateLimiter(5, 10)

	router.Handle("/metrics", d.metrics.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware, instrument(d.metrics))

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	engine := pin.New(d.table,
		pin.WithMaxIterations(d.cfg.MaxIterations),
		pin.WithMaxLengthAttempts(d.cfg.MaxLengthAttempts),
		pin.WithLogger(d.log),
	)
	materialH := &material.Handler{Catalog: d.catalog, Store: d.store, Log: d.log}
	pinH := &pin.Handler{Engine: engine, Catalog: d.catalog, Log: d.log, Metrics: d.metrics}
	batchH := &batch.Handler{Engine: engine, Catalog: d.catalog, Log: d.log}
	importH := &importer.Handler{Engine: engine, Catalog: d.catalog, Log: d.log}

	secureApi.HandleFunc("/materials", materialH.List).Methods("GET")
	secureApi.HandleFunc("/materials", materialH.Create).Methods("POST")

	secureApi.HandleFunc("/tools/pin/calc", pinH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/pin/report", pinH.Report).Methods("POST")
	secureApi.HandleFunc("/tools/pin/cad", pinH.CAD).Methods("POST")
	secureApi.HandleFunc("/tools/pin/batch", batchH.Pins).Methods("POST")
	secureApi.HandleFunc("/tools/pin/import", importH.Pins).Methods("POST")
}

// materialStore picks MATERIAL_FILE when it exists and the database
// otherwise. An empty database is seeded with the default materials.
func materialStore(ctx context.Context, cfg config.Config, db *repo.SQLRepository) (material.Store, bool, error) {
	if cfg.MaterialFile != "" {
		if _, err := os.Stat(cfg.MaterialFile); err == nil {
			return material.FileStore{Path: cfg.MaterialFile}, true, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
	}
	mats, err := db.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(mats) == 0 {
		for _, m := range material.Defaults() {
			if err := db.Save(ctx, m); err != nil {
				return nil, false, err
			}
		}
	}
	return db, false, nil
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if cfg.TokenKey == "" {
		return apperr.Validation("main", "TOKEN_KEY environment variable is not set")
	}

	db, err := repo.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	store, watched, err := materialStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	catalog, err := material.LoadCatalog(ctx, store)
	if err != nil {
		return err
	}
	if watched {
		if err := material.Watch(ctx, cfg.MaterialFile, catalog, log); err != nil {
			return err
		}
	}

	table := oracle.DefaultTable()
	if cfg.TablesFile != "" {
		if table, err = oracle.LoadWorkbook(cfg.TablesFile); err != nil {
			return err
		}
	}
	log.Info("loaded data",
		zap.Int("materials", catalog.Len()),
		zap.Bool("material_file", watched),
		zap.Strings("standards", table.Standards()))

	router := mux.NewRouter()
	HandleList(router, deps{
		cfg:     cfg,
		log:     log,
		users:   db,
		store:   store,
		catalog: catalog,
		table:   table,
		metrics: metrics.New(nil),
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLS()))
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	wg.Wait()
	log.Info("server stopped")
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
