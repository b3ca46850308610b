package server

import (
	"errors"
	"net"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/gosuhiman/get-lost/internal/config"
)

var (
	ErrSessionLimit = errors.New("server: too many sessions")
	ErrShuttingDown = errors.New("server: shutting down")
)

// Sessions is the registry of live websocket sessions. It enforces the
// per-address and total limits at admission, so the counts it checks are
// always the sessions it holds.
type Sessions struct {
	mu       sync.Mutex
	byID     map[string]*Session
	perIP    map[string]int
	maxPerIP int
	maxTotal int
	closed   bool
}

// NewSessions creates a registry with the given limits. A zero limit is
// unlimited.
func NewSessions(cfg config.ConnectionsConfig) *Sessions {
	return &Sessions{
		byID:     make(map[string]*Session),
		perIP:    make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

// Admit registers sess before its connection is upgraded. It fails with
// ErrSessionLimit when either limit is reached and with ErrShuttingDown
// after Shutdown.
func (r *Sessions) Admit(sess *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.closed:
		return ErrShuttingDown
	case r.maxTotal > 0 && len(r.byID) >= r.maxTotal:
		return ErrSessionLimit
	case r.maxPerIP > 0 && r.perIP[sess.ip] >= r.maxPerIP:
		return ErrSessionLimit
	}

	r.byID[sess.id] = sess
	r.perIP[sess.ip]++
	return nil
}

// Attach hands an admitted session its connection. It returns false when
// the session was dropped in the meantime, in which case the caller owns
// and must close conn.
func (r *Sessions) Attach(sess *Session, conn *websocket.Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.byID[sess.id] != sess {
		return false
	}
	sess.conn = conn
	return true
}

// Remove drops sess and frees its slot. Removing twice is a no-op.
func (r *Sessions) Remove(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byID[sess.id] != sess {
		return
	}
	delete(r.byID, sess.id)
	if r.perIP[sess.ip]--; r.perIP[sess.ip] <= 0 {
		delete(r.perIP, sess.ip)
	}
}

// Shutdown refuses further sessions and returns those with a connection
// so the caller can close them. Sessions stay registered until their
// handlers call Remove.
func (r *Sessions) Shutdown() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	open := make([]*Session, 0, len(r.byID))
	for _, sess := range r.byID {
		if sess.conn != nil {
			open = append(open, sess)
		}
	}
	return open
}

// Stats returns the number of live sessions and of distinct addresses.
func (r *Sessions) Stats() (sessions int, addresses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), len(r.perIP)
}

// IPCount returns the live sessions opened from ip.
func (r *Sessions) IPCount(ip string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.perIP[ip]
}

// extractIP strips the port from a host:port address.
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
