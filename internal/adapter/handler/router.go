package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// NewRouter mounts the API, health and metrics endpoints behind the tracing
// middleware.
func NewRouter(serviceName string, events *EventHandler, orders *OrderHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(otelmux.Middleware(serviceName))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	events.Register(router)
	orders.Register(router)

	return router
}
