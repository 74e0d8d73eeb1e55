package collector

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server exposes the collector HTTP API and dashboard.
type Server struct {
	httpServer *http.Server
	store      *Store
	classifier *Classifier
	log        *zap.SugaredLogger
}

// New creates a Server for the given store and classifier.
func New(addr string, store *Store, classifier *Classifier, log *zap.SugaredLogger) *Server {
	s := &Server{
		store:      store,
		classifier: classifier,
		log:        log,
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/update", s.handleUpdate).Methods(http.MethodGet)
	r.HandleFunc("/sensor-data", s.handleSensorData).Methods(http.MethodGet)
	r.HandleFunc("/buzzer", s.handleBuzzer).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/ml-status", s.handleMLStatus).Methods(http.MethodGet)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debugw("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

// handleUpdate receives one telemetry report as query parameters. Missing
// or malformed numbers read as zero; a missing status reads as Running.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	t := Telemetry{
		Gas:      intParam(q, "gas"),
		Moisture: intParam(q, "moisture"),
		Distance: floatParam(q, "distance"),
		Wet:      intParam(q, "wet"),
		Full:     intParam(q, "full"),
		Fill:     intParam(q, "fill"),
		Status:   "Running",
	}
	if q.Has("status") {
		t.Status = q.Get("status")
	}

	s.store.UpdateTelemetry(t, time.Now())
	w.Write([]byte("OK"))
}

func (s *Server) handleSensorData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Data())
}

func (s *Server) handleBuzzer(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		writeJSON(w, map[string]bool{"stop": s.store.Muted()})
		return
	}

	switch r.PostFormValue("state") {
	case "stop":
		s.store.SetMuted(true)
		s.log.Infow("buzzer muted remotely")
	case "start":
		s.store.SetMuted(false)
		s.log.Infow("buzzer unmuted remotely")
	}
	w.Write([]byte("OK"))
}

type mlStatusJSON struct {
	MLLoaded          bool    `json:"ml_loaded"`
	MLRunning         bool    `json:"ml_running"`
	CurrentPrediction string  `json:"current_prediction"`
	Confidence        float64 `json:"confidence"`
	WetDetected       bool    `json:"wet_detected"`
	TimeUntilNextScan float64 `json:"time_until_next_scan"`
}

func (s *Server) handleMLStatus(w http.ResponseWriter, r *http.Request) {
	data := s.store.Data()
	writeJSON(w, mlStatusJSON{
		MLLoaded:          false, // predictions are mocked, no model file is loaded
		MLRunning:         s.classifier.Running(),
		CurrentPrediction: data.MLPrediction,
		Confidence:        data.MLConfidence,
		WetDetected:       data.MLWetDetected,
		TimeUntilNextScan: s.classifier.TimeUntilNextScan(time.Now()),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		History []HistoryEntry `json:"history"`
	}{History: s.store.History()})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderDashboard(w, s.store.Data(), s.store.Muted())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	data, _ := json.Marshal(v)
	w.Write(data)
}

func intParam(q url.Values, key string) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0
	}
	return n
}

func floatParam(q url.Values, key string) float64 {
	f, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil {
		return 0
	}
	return f
}
