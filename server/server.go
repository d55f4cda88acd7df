package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"tracklist/cache"
	"tracklist/config"
	"tracklist/core/broadcast"
	"tracklist/core/catalog"
	"tracklist/core/tracklist"
	"tracklist/core/view"
	"tracklist/db"
	"tracklist/logger"
	"tracklist/repository"
	"tracklist/storage"
	"tracklist/web"

	"github.com/gorilla/mux"
)

// NewRouter wires every route onto a gorilla/mux router.
func NewRouter(h *APIHandler, static *StaticHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogMiddleware)

	router.HandleFunc("/", static.IndexHandler(web.IndexFile)).Methods(http.MethodGet)
	router.HandleFunc("/tracks", h.ListTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/search", h.SearchHandler).Methods(http.MethodGet)
	router.HandleFunc("/sort/{key}", h.SortHandler).Methods(http.MethodPost)
	router.HandleFunc("/play/{id}", h.PlayHandler).Methods(http.MethodPost)
	router.HandleFunc("/events", h.EventsHandler).Methods(http.MethodGet)

	router.PathPrefix("/").Handler(static)
	return router
}

// requestLogMiddleware does not wrap the ResponseWriter so /events can still hijack it.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Duration("elapsed", time.Since(start)))
	})
}

// Start opens the catalog and optional backends, binds 127.0.0.1:cfg.Port
// and serves until SIGINT/SIGTERM. A bind failure is returned immediately.
func Start(cfg *config.Config) error {
	gdb, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(gdb)

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	events := broadcast.New(cfg.EventBacklog)
	state := view.NewState()
	pipeline := tracklist.NewPipeline(repository.NewGormTrackRepository(gdb))

	var assets storage.AssetStore
	if cfg.MinioEnabled() {
		initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		store, err := storage.NewMinioAssetStore(initCtx, cfg)
		cancel()
		if err != nil {
			logger.Warn("MinIO unavailable, serving embedded assets only", logger.ErrorField(err))
		} else {
			assets = store
		}
	}

	if cfg.RedisEnabled() {
		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, event relay disabled", logger.ErrorField(err))
		} else {
			defer client.Close()
			relay := cache.NewEventRelay(client, cfg.RedisEventsChannel, events)
			go func() {
				if err := relay.Run(ctx); err != nil {
					logger.Error("redis event relay stopped", logger.ErrorField(err))
				}
			}()
		}
	}

	if cfg.WatchCatalog && (cfg.DBDriver == db.DriverSQLite || cfg.DBDriver == "") {
		watcher, err := catalog.NewWatcher(cfg.DBPath, events, catalog.DefaultDebounce)
		if err != nil {
			logger.Warn("catalog watcher disabled", logger.ErrorField(err))
		} else {
			go watcher.Run(ctx)
		}
	}

	go broadcast.RunTicker(ctx, events, cfg.TickInterval)

	apiHandler := NewAPIHandler(state, pipeline, events, assets, cfg)
	staticHandler := NewStaticHandler(web.Assets, assets)

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s, maybe another service is already using the port: %w", addr, err)
	}

	// 设置服务器超时
	// No WriteTimeout: /events is long-lived.
	server := &http.Server{
		Handler:     NewRouter(apiHandler, staticHandler),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			logger.String("url", "http://"+addr),
			logger.Bool("debug", cfg.DebugMode))
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	// Hijacked live connections end when ctx is cancelled on return.
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
