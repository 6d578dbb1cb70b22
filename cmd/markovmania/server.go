package main

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/CTAG07/MarkovMania/pkg/history"
)

// Server wires the App and the API handlers together behind one mux.
type Server struct {
	app        *App
	logger     *slog.Logger
	authAPI    *AuthAPI
	markovAPI  *MarkovAPI
	historyAPI *HistoryAPI
	serverAPI  *ServerAPI
	apiMux     *http.ServeMux
}

func NewServer(cm *ConfigManager, app *App, db *sql.DB, store *history.Store, logger *slog.Logger, actionChan chan string) *Server {
	cfg := cm.Get()

	server := &Server{
		app:        app,
		logger:     logger,
		authAPI:    NewAuthAPI(db, logger),
		markovAPI:  NewMarkovAPI(app, cfg.Server.MaxCorpusBytes, logger),
		historyAPI: NewHistoryAPI(store, logger),
		serverAPI:  NewServerAPI(cm, actionChan, logger),
		apiMux:     http.NewServeMux(),
	}

	apiMux := http.NewServeMux()

	server.authAPI.RegisterRoutes(apiMux)
	server.markovAPI.RegisterRoutes(apiMux)
	server.historyAPI.RegisterRoutes(apiMux)
	server.serverAPI.RegisterRoutes(apiMux)

	// Make sure api functions must pass through authentication first
	authedAPI := server.authAPI.Authenticate(apiMux)

	server.apiMux.HandleFunc("/api/health", handleHealth)
	server.apiMux.Handle("/api/", authedAPI)

	return server
}

// ServeHTTP makes the Server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.apiMux.ServeHTTP(w, r)
}
