package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/cbodonnell/tetris/pkg/api/handlers"
	"github.com/cbodonnell/tetris/pkg/api/middleware"
	"github.com/cbodonnell/tetris/pkg/highscores"
	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/network"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
	// cancel ends the live feed connections, which Shutdown does not wait for
	cancel context.CancelFunc
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port              int
	TLS               *TLSConfig
	AllowedOrigins    []string
	Leaderboard       *highscores.Leaderboard
	SubscriberManager *network.SubscriberManager
	// BroadcastScoresChan receives the leaderboard after every successful submission
	BroadcastScoresChan chan<- []models.HighScore
}

// NewAPIServer creates a new http.Server for handling high score requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	ctx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
		cancel: cancel,
	}
}

// NewRouter routes the high score endpoints. /api/tetris/highscores is an
// alias of /scores.
func NewRouter(opts NewAPIServerOptions) http.Handler {
	cors := middleware.NewCORSMiddleware(opts.AllowedOrigins)

	scores := cors(gzhttp.GzipHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			handlers.HandleListScores(opts.Leaderboard)(w, r)
		case http.MethodPost:
			handlers.HandleSubmitScore(opts.Leaderboard, opts.BroadcastScoresChan)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	router := mux.NewRouter()
	router.Handle("/scores", scores)
	router.Handle("/api/tetris/highscores", scores)
	router.Handle("/scores/live", handlers.HandleLiveScores(opts.Leaderboard, opts.SubscriberManager, opts.AllowedOrigins)).Methods(http.MethodGet)
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware)

	return router
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop closes the live feed connections and gracefully shuts down the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	s.cancel()
	return s.server.Shutdown(ctx)
}
