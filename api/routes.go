package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"consolidate/api/records"
	"consolidate/internal/config"
	"consolidate/internal/ingest"
	"consolidate/internal/store"
)

// NewRouter wires every API route.
func NewRouter(st *store.Store, ing *ingest.Ingestor, log *logrus.Logger) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/files/upload", records.UploadFile(ing, log)).Methods("POST")
	router.HandleFunc("/api/data/list", records.ListData(st, log)).Methods("GET")
	router.HandleFunc("/api/data/delete-all", records.DeleteAllData(st, log)).Methods("DELETE")
	router.HandleFunc("/api/heartbeat", HeartbeatHandler).Methods("GET")

	return router
}

// HeartbeatHandler reports process liveness.
func HeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// WithCORS wraps the router with the configured cross-origin policy.
func WithCORS(cfg *config.Config, h http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(h)
}
