package httpserver

import "net/http"

// Routes defines HTTP endpoints.
type Routes struct {
	SubmitReading  http.Handler
	LatestReading  http.Handler
	ReadingHistory http.Handler
	LatestAlert    http.Handler
	Realtime       http.Handler
	Health         http.Handler
}

// NewRouter sets up HTTP routing.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.SubmitReading != nil {
		mux.Handle("/api/water-level", method(http.MethodPost, routes.SubmitReading.ServeHTTP))
	}
	if routes.LatestReading != nil {
		mux.Handle("/api/water-level/latest/{deviceID}", method(http.MethodGet, routes.LatestReading.ServeHTTP))
	}
	if routes.ReadingHistory != nil {
		mux.Handle("/api/water-level/history/{deviceID}", method(http.MethodGet, routes.ReadingHistory.ServeHTTP))
	}
	if routes.LatestAlert != nil {
		mux.Handle("/api/alert/latest/{deviceID}", method(http.MethodGet, routes.LatestAlert.ServeHTTP))
	}
	if routes.Realtime != nil {
		mux.Handle("/ws", method(http.MethodGet, routes.Realtime.ServeHTTP))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health.ServeHTTP))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
