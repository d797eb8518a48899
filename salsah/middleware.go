package salsah

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	metrics "github.com/rcrowley/go-metrics"
)

func (th *Handler) EnforceDataLoaded(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !th.service.IsDataLoaded() {
			w.Header().Set("Content-Type", "application/json")
			writeJSONMessageWithStatus(w, "Data not loaded", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HTTPMetrics times every request, one timer per route template.
func HTTPMetrics(registry metrics.Registry, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := "http." + r.Method
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				name += "." + tpl
			}
		}
		defer metrics.GetOrRegisterTimer(name, registry).UpdateSince(time.Now())
		next.ServeHTTP(w, r)
	})
}
