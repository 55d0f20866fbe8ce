package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/marginalia"
	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/aretw0/marginalia/pkg/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the handler.
type Options struct {
	// Cascade runs turn discovery. Defaults to discovery.Default().
	Cascade *discovery.Cascade
	// Clipboard receives tables copied through POST /v1/tables/copy.
	// When nil the endpoint answers 503.
	Clipboard ports.Clipboard
	// Truncate is the label length of discovered turns.
	Truncate int
	// Gatherer serves /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Server serves the snapshot operations over HTTP.
type Server struct {
	opts    Options
	Streams *StreamManager
}

// PageRequest carries an HTML page.
type PageRequest struct {
	HTML string `json:"html"`
}

// CopyRequest selects one table of a page.
type CopyRequest struct {
	HTML   string `json:"html"`
	Number int    `json:"number"`
}

// TablesResponse lists exported tables.
type TablesResponse struct {
	Tables []snapshot.Table `json:"tables"`
}

// CopyEvent is broadcast on /v1/events after every copy.
type CopyEvent struct {
	Number int    `json:"number"`
	State  string `json:"state"`
	Bytes  int    `json:"bytes"`
	Error  string `json:"error,omitempty"`
}

// NewHandler creates the HTTP handler.
func NewHandler(opts Options) http.Handler {
	if opts.Cascade == nil {
		opts.Cascade = discovery.Default()
	}
	if opts.Truncate <= 0 {
		opts.Truncate = domain.DefaultTruncateLength
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{opts: opts, Streams: NewStreamManager()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/tables", s.PostTables)
		r.Post("/tables/copy", s.CopyTable)
		r.Post("/turns", s.PostTurns)
		r.Get("/events", s.SubscribeEvents)
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PostTables handles POST /v1/tables.
func (s *Server) PostTables(w http.ResponseWriter, r *http.Request) {
	var body PageRequest
	if !decode(w, r, &body) {
		return
	}
	doc, ok := load(w, body.HTML)
	if !ok {
		return
	}

	resp := TablesResponse{Tables: snapshot.Tables(doc.Body())}
	if resp.Tables == nil {
		resp.Tables = []snapshot.Table{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CopyTable handles POST /v1/tables/copy.
func (s *Server) CopyTable(w http.ResponseWriter, r *http.Request) {
	if s.opts.Clipboard == nil {
		http.Error(w, "No clipboard configured", http.StatusServiceUnavailable)
		return
	}
	var body CopyRequest
	if !decode(w, r, &body) {
		return
	}
	doc, ok := load(w, body.HTML)
	if !ok {
		return
	}

	table, err := snapshot.TableAt(doc.Body(), body.Number)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, domain.ErrTableIndex) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	event := CopyEvent{Number: table.Number, State: domain.CopySuccess.String(), Bytes: len(table.Markdown)}
	if err := s.opts.Clipboard.CopyText(r.Context(), table.Markdown); err != nil {
		slog.Warn("CopyTable: clipboard failed", "err", err)
		event.State = domain.CopyFailure.String()
		event.Error = err.Error()
	}
	if payload, err := json.Marshal(event); err == nil {
		s.Streams.Broadcast(string(payload))
	}

	status := http.StatusOK
	if event.Error != "" {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, event)
}

// PostTurns handles POST /v1/turns.
func (s *Server) PostTurns(w http.ResponseWriter, r *http.Request) {
	var body PageRequest
	if !decode(w, r, &body) {
		return
	}
	doc, ok := load(w, body.HTML)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snapshot.Discover(doc.Body(), s.opts.Cascade, s.opts.Truncate))
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":        "marginalia-http",
		"version":    strings.TrimSpace(marginalia.Version),
		"strategies": s.opts.Cascade.Strategies(),
	})
}

// SubscribeEvents handles the GET /v1/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SubscribeEvents: Streaming not supported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			slog.Debug("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: copy\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, int64(snapshot.MaxInputSize())+1024)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}

func load(w http.ResponseWriter, page string) (ports.Document, bool) {
	doc, err := snapshot.LoadString(page)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, snapshot.ErrInputTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, fmt.Sprintf("Invalid html: %v", err), status)
		return nil, false
	}
	return doc, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}

// StreamManager fans messages out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{subscribers: make(map[chan string]struct{})}
}

// Subscribe registers a buffered channel; call the returned func to leave.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 10)
	sm.mu.Lock()
	sm.subscribers[ch] = struct{}{}
	sm.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			delete(sm.subscribers, ch)
			sm.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast sends msg to every subscriber, dropping it for slow ones.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			slog.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// ReadHeaderTimeout is applied by NewServer.
const ReadHeaderTimeout = 10 * time.Second

// NewServer wraps handler in an http.Server listening on addr.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: ReadHeaderTimeout}
}
