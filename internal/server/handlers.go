package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gosuhiman/get-lost/internal/logger"
	"github.com/gosuhiman/get-lost/internal/maze"
)

type sizeInfo struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type sizesResponse struct {
	Sizes          []sizeInfo `json:"sizes"`
	DefaultSize    string     `json:"default_size"`
	DefaultPortals int        `json:"default_portals"`
	MaxPortalPairs int        `json:"max_portal_pairs"`
}

func (s *Server) handleMaze(w http.ResponseWriter, r *http.Request) {
	log := logger.With("request_id", uuid.NewString(), "client_ip", getRealIP(r))

	q := MazeQuery{
		Size:    s.cfg.Maze.DefaultSize,
		Portals: s.cfg.Maze.DefaultPortals,
	}
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		sendErrorOrLog(w, log, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	doc, res, err := s.generate(q)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrBadRequest) {
			status = http.StatusBadRequest
		} else {
			log.Error("Maze generation failed", "error", err)
		}
		sendErrorOrLog(w, log, status, err)
		return
	}

	logGenerated(log, res, doc.Seed, time.Since(start))
	sendJSONOrLog(w, log, http.StatusOK, doc)
}

func (s *Server) handleSizes(w http.ResponseWriter, r *http.Request) {
	resp := sizesResponse{
		DefaultSize:    s.cfg.Maze.DefaultSize,
		DefaultPortals: s.cfg.Maze.DefaultPortals,
		MaxPortalPairs: s.engine.MaxPortalPairs,
	}
	for _, name := range s.engine.Sizes.Names() {
		d := s.engine.Sizes[name]
		resp.Sizes = append(resp.Sizes, sizeInfo{Name: string(name), Width: d.Width, Height: d.Height})
	}
	sendJSONOrLog(w, logger.With(), http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// logGenerated records one generation. Fewer placed portals than requested
// is a warning: the grid had too few dead ends.
func logGenerated(log *slog.Logger, res *maze.Result, sd int64, took time.Duration) {
	args := []any{
		"size", res.Size,
		"seed", sd,
		"sections", res.Sections,
		"requested_pairs", res.RequestedPairs,
		"placed_pairs", res.PlacedPairs,
		"path_length", len(res.Path),
		"took", took,
	}
	if res.PlacedPairs < res.RequestedPairs {
		log.Warn("Maze generated with fewer portals than requested", args...)
		return
	}
	log.Info("Maze generated", args...)
}

func sendJSON(w http.ResponseWriter, status int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	if _, err := sendJSON(w, status, v); err != nil {
		log.Error("failed to send data", "error", err)
	}
}

func sendErrorOrLog(w http.ResponseWriter, log *slog.Logger, status int, e error) {
	if _, err := sendJSON(w, status, map[string]string{"error": e.Error()}); err != nil {
		log.Error("failed to send error message", "sent_error", e, "error", err)
	}
}
