package api

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/merkator/randgen/internal/persist"
	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/sample"
	"github.com/merkator/randgen/internal/session"
	"github.com/merkator/randgen/internal/wire"
)

// handleDraw serves one batch of kind. Query parameters map onto
// sample.Request; for bytes and shuffle, n is the element count.
func (s *Server) handleDraw(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := sample.New(kind)
		for key, vals := range r.URL.Query() {
			if len(vals) == 0 {
				continue
			}
			if key == "n" && (kind == sample.KindBytes || kind == sample.KindShuffle) {
				key = "count"
			}
			if err := req.Set(key, vals[len(vals)-1]); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		b := req.Draw(s.gen, s.nextSeq())
		status := http.StatusOK
		if b.Kind == wire.KindError {
			status = http.StatusBadRequest
		}
		body, err := wire.EncodeJSON(&b)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeRaw(w, status, body)
	}
}

type statsResponse struct {
	Uptime     string        `json:"uptime"`
	Profile    string        `json:"profile"`
	BufferSize int           `json:"bufferSize"`
	Refills    uint64        `json:"refills"`
	Requests   uint64        `json:"requests"`
	Sessions   session.Stats `json:"sessions"`
}

// handleStats returns runtime and generator statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{
		Uptime:   time.Since(s.startAt).Truncate(time.Second).String(),
		Profile:  string(s.profile),
		Requests: atomic.LoadUint64(&s.seq),
	}
	s.gen.Do(func(e *randgen.Engine) {
		resp.BufferSize = e.BufferSize()
		resp.Refills = e.Refills()
	})
	if s.mgr != nil {
		resp.Sessions = s.mgr.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleState returns the newest stored snapshot of the shared generator.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if s.reader == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshots disabled")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	info, err := s.reader.LatestSnapshot(ctx, s.key)
	if errors.Is(err, persist.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no snapshot for "+s.key)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// handleStateHistory returns the snapshot log, newest first.
func (s *Server) handleStateHistory(w http.ResponseWriter, r *http.Request) {
	if s.reader == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshots disabled")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	history, err := s.reader.SnapshotHistory(ctx, s.key, parseIntParam(r, "limit", 100))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, history)
}
