// Package server exposes the maze engine over HTTP and websockets.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/gosuhiman/get-lost/internal/config"
	"github.com/gosuhiman/get-lost/internal/export"
	"github.com/gosuhiman/get-lost/internal/logger"
	"github.com/gosuhiman/get-lost/internal/maze"
	"github.com/gosuhiman/get-lost/internal/seed"
)

var ErrBadRequest = errors.New("server: bad request")

// MazeQuery is one generation request. It is decoded from the query string
// of GET /api/maze and filled from session state for websocket events.
type MazeQuery struct {
	Size     string `schema:"size"`
	Portals  int    `schema:"portals"`
	Seed     string `schema:"seed"`
	Solution bool   `schema:"solution"`
}

type Server struct {
	cfg      *config.Config
	engine   *maze.Engine
	sessions *Sessions
	decoder  *schema.Decoder
	upgrader websocket.Upgrader

	shutdownOnce sync.Once
	StartTime    time.Time
}

func NewServer(cfg *config.Config) *Server {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	s := &Server{
		cfg:       cfg,
		engine:    maze.NewEngine(cfg.SizeTable(), cfg.Maze.MaxPortalPairs),
		sessions:  NewSessions(cfg.Server.Connections),
		decoder:   dec,
		StartTime: time.Now(),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.Server.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}
	return s
}

// Engine returns the engine serving requests.
func (s *Server) Engine() *maze.Engine {
	return s.engine
}

// Handler returns the routes wrapped in the CORS policy.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/maze", s.handleMaze)
	mux.HandleFunc("GET /api/sizes", s.handleSizes)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocketUpgrade)

	c := cors.New(cors.Options{
		AllowOriginRequestFunc: func(r *http.Request, origin string) bool {
			return s.cfg.Server.IsOriginAllowed(origin, r.Host)
		},
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}

// generate validates q and builds the maze document it describes. Invalid
// input is reported as ErrBadRequest.
func (s *Server) generate(q MazeQuery) (*export.Document, *maze.Result, error) {
	size, err := s.engine.Sizes.ParseSize(q.Size)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if q.Portals < 0 || q.Portals > s.engine.MaxPortalPairs {
		return nil, nil, fmt.Errorf("%w: portals must be within 0..%d", ErrBadRequest, s.engine.MaxPortalPairs)
	}

	sd, _, err := seed.Resolve(q.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	res, err := s.engine.GenerateWithPortals(size, q.Portals, seed.New(sd))
	if err != nil {
		return nil, nil, err
	}
	return export.FromResult(res, sd, q.Solution), res, nil
}

// handleWebSocketUpgrade upgrades an HTTP connection to a maze session.
// The session is admitted before the upgrade so a full server answers with
// a plain HTTP status.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	sess := newSession(getRealIP(r), s.cfg.Maze)

	if err := s.sessions.Admit(sess); err != nil {
		status := http.StatusTooManyRequests
		if errors.Is(err, ErrShuttingDown) {
			status = http.StatusServiceUnavailable
		}
		sess.log.Warn("WebSocket connection rejected", "remote_addr", r.RemoteAddr, "error", err)
		http.Error(w, "Too many connections. Please try again later.", status)
		return
	}

	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sess.log.Error("WebSocket upgrade failed", "error", err)
		s.sessions.Remove(sess)
		return
	}

	if !s.sessions.Attach(sess, wsConn) {
		s.sessions.Remove(sess)
		closeConn(wsConn, websocket.CloseGoingAway, "server shutting down")
		return
	}

	go s.handleWebSocketConnection(sess)
}

// handleWebSocketConnection runs a session until the client leaves.
func (s *Server) handleWebSocketConnection(sess *Session) {
	defer func() {
		s.sessions.Remove(sess)
		sess.conn.Close()
	}()

	sess.conn.SetReadLimit(s.cfg.Server.MaxMessageSize)
	sess.log.Info("Session started")
	s.serveSession(sess)
	sess.log.Info("Session ended")
}

// SessionCount returns the number of open websocket sessions.
func (s *Server) SessionCount() int {
	n, _ := s.sessions.Stats()
	return n
}

// getRealIP extracts the client IP, preferring X-Forwarded-For and then
// X-Real-IP over the direct remote address.
func getRealIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// "client, proxy1, proxy2"
		ips := strings.Split(xff, ",")
		if clientIP := strings.TrimSpace(ips[0]); clientIP != "" {
			return clientIP
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return extractIP(r.RemoteAddr)
}

// Shutdown closes every open session and refuses new ones. The HTTP
// listener is stopped separately by the owning http.Server.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		open := s.sessions.Shutdown()
		for _, sess := range open {
			sess.close(websocket.CloseGoingAway, "server shutting down")
		}

		logger.Info("Server shutdown complete", "sessions_closed", len(open))
	})
}
