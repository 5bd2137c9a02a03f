package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/merkator/randgen/internal/persist"
	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/session"
)

// Server provides REST API endpoints for the generator.
type Server struct {
	gen     *randgen.Locked
	profile randgen.Profile
	reader  persist.SnapshotReader
	mgr     *session.Manager
	key     string
	startAt time.Time
	seq     uint64
}

// NewServer creates a new API server. reader may be nil when snapshots are
// disabled; the state endpoints then answer 503.
func NewServer(gen *randgen.Locked, profile randgen.Profile, reader persist.SnapshotReader, mgr *session.Manager, key string) *Server {
	return &Server{
		gen:     gen,
		profile: profile,
		reader:  reader,
		mgr:     mgr,
		key:     key,
		startAt: time.Now(),
	}
}

// Register attaches API routes to the given mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/int", s.handleDraw("int"))
	mux.HandleFunc("GET /api/float", s.handleDraw("float"))
	mux.HandleFunc("GET /api/gaussian", s.handleDraw("gaussian"))
	mux.HandleFunc("GET /api/exponential", s.handleDraw("exponential"))
	mux.HandleFunc("GET /api/binomial", s.handleDraw("binomial"))
	mux.HandleFunc("GET /api/bool", s.handleDraw("bool"))
	mux.HandleFunc("GET /api/bytes", s.handleDraw("bytes"))
	mux.HandleFunc("GET /api/shuffle", s.handleDraw("shuffle"))
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/state/history", s.handleStateHistory)
}

func (s *Server) nextSeq() uint64 {
	return atomic.AddUint64(&s.seq, 1)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeRaw writes an already encoded JSON body.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
	w.Write([]byte("\n"))
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
