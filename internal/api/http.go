package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter registers the card, health and metrics routes. gatherer may be
// nil to leave /metrics out.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) *mux.Router {
	router := mux.NewRouter()
	router.Use(h.logRequests)

	router.HandleFunc("/", h.ServeCard).Methods(http.MethodGet)
	router.HandleFunc("/card", h.ServeCard).Methods(http.MethodGet)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return router
}

// ServeCard handles GET /card?gameName=...&tagLine=...
func (h *Handler) ServeCard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp := h.Handle(r.Context(), q.Get(ParamGameName), q.Get(ParamTagLine), r.Header.Get(HeaderRequestID))
	WriteResponse(w, resp)
}

// WriteResponse writes resp to w, decoding base64 bodies so HTTP clients
// receive the raw bytes.
func WriteResponse(w http.ResponseWriter, resp Response) {
	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			http.Error(w, "corrupt response body", http.StatusInternalServerError)
			return
		}
		body = decoded
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
