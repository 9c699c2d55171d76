package router

import (
	"encoding/json"
	"net/http"
)

// RouteRegistrar mounts a controller's handlers. Operator routes take
// channelAuth, per-account routes take accountAuth.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, channelAuth, accountAuth func(http.Handler) http.Handler)
}

func New(
	channelAuth func(http.Handler) http.Handler,
	accountAuth func(http.Handler) http.Handler,
	registrars ...RouteRegistrar,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)
	mux.HandleFunc("/health", health)

	for _, registrar := range registrars {
		if registrar != nil {
			registrar.RegisterRoutes(mux, channelAuth, accountAuth)
		}
	}

	return mux
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
