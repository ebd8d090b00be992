package collector

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// newAdminServer builds the collector's operator-facing HTTP surface:
// a liveness probe, Prometheus metrics scraped off this Collector's own
// registry, and a swagger UI pointed at a static openapi.yaml.
func (c *Collector) newAdminServer() *http.Server {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", c.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(c.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.PathPrefix("/docs/").Handler(httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))
	r.PathPrefix("/openapi.yaml").Handler(http.FileServer(http.Dir("./docs")))

	return &http.Server{Addr: c.cfg.AdminAddr, Handler: r}
}

func (c *Collector) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	c.mu.Lock()
	subs := c.subscribers
	c.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"subscribers": subs,
	})
}
