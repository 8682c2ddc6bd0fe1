package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tuneshelf/config"
	"tuneshelf/logger"
	"tuneshelf/storage"
	"tuneshelf/store"

	"github.com/gorilla/mux"
)

// Start initializes storage and the stores, restores any prior session
// and serves the API until interrupted.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
	})

	st, err := storage.Open(cfg)
	if err != nil {
		logger.Fatal("failed to open storage", logger.ErrorField(err))
	}
	defer st.Close()
	logger.Info("storage opened", logger.String("driver", cfg.StorageDriver))

	accounts := store.NewAccountStore(st)
	library := store.NewLibraryStore(st)

	// Restore the session snapshot left by the previous run, and prime
	// the visible set for that account.
	if user, err := accounts.RestoreSession(context.Background()); err != nil {
		logger.Fatal("failed to restore session", logger.ErrorField(err))
	} else if user != nil {
		if _, err := library.LoadForOwner(context.Background(), user.Email); err != nil {
			logger.Fatal("failed to load library", logger.ErrorField(err))
		}
		logger.Info("session restored", logger.String("email", user.Email))
	}

	apiHandler := NewAPIHandler(accounts, library)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      NewRouter(apiHandler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}
	logger.Info("server stopped")
}

// NewRouter builds the API router. Split out of Start so tests can
// mount the handlers without a listening socket.
func NewRouter(apiHandler *APIHandler) *mux.Router {
	router := mux.NewRouter()

	router.Use(corsMiddleware)

	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", apiHandler.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/session", apiHandler.SessionHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/songs", apiHandler.RequireAccount(apiHandler.ListSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs", apiHandler.RequireAccount(apiHandler.CreateSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/{id}", apiHandler.RequireAccount(apiHandler.UpdateSongHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/songs/{id}", apiHandler.RequireAccount(apiHandler.DeleteSongHandler)).Methods(http.MethodDelete)

	router.HandleFunc("/api/health", apiHandler.HealthHandler).Methods(http.MethodGet)

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
