package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gosuhiman/get-lost/internal/config"
	"github.com/gosuhiman/get-lost/internal/export"
	"github.com/gosuhiman/get-lost/internal/logger"
)

// Event types sent by the browser.
const (
	EventGenerate = "generate"
	EventSize     = "size"
	EventPortals  = "portals"
)

// Reply types sent back.
const (
	ReplyMaze  = "maze"
	ReplyError = "error"
)

// Event is one client message. Size and Portals are read by their events;
// Seed may accompany any of them.
type Event struct {
	Type    string `json:"type"`
	Size    string `json:"size,omitempty"`
	Portals *int   `json:"portals,omitempty"`
	Seed    string `json:"seed,omitempty"`
}

// Reply answers one Event.
type Reply struct {
	Type  string           `json:"type"`
	Maze  *export.Document `json:"maze,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Session is one websocket client. It remembers the size and portal count
// chosen so far; every event regenerates with them. Events are handled one
// at a time in arrival order.
type Session struct {
	id   string
	ip   string
	conn *websocket.Conn
	log  *slog.Logger

	size    string
	portals int
}

// newSession creates a session for a client at ip. Its connection is set
// by Sessions.Attach once the upgrade succeeds.
func newSession(ip string, defaults config.MazeConfig) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		ip:      ip,
		log:     logger.With("session", id, "client_ip", ip),
		size:    defaults.DefaultSize,
		portals: defaults.DefaultPortals,
	}
}

// readEvent blocks for the next non-empty message.
func (sess *Session) readEvent() ([]byte, error) {
	for {
		_, message, err := sess.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(string(message)) != "" {
			return message, nil
		}
	}
}

func (sess *Session) close(code int, reason string) {
	closeConn(sess.conn, code, reason)
}

func closeConn(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	conn.Close()
}

func (s *Server) serveSession(sess *Session) {
	for {
		message, err := sess.readEvent()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.log.Warn("Session read failed", "error", err)
			}
			return
		}

		reply := s.handleEvent(sess, message)
		if err := sess.conn.WriteJSON(reply); err != nil {
			sess.log.Warn("Session write failed", "error", err)
			return
		}
	}
}

// handleEvent applies one event to the session and regenerates. Invalid
// events leave the session settings unchanged.
func (s *Server) handleEvent(sess *Session, message []byte) Reply {
	var ev Event
	if err := json.Unmarshal(message, &ev); err != nil {
		return errorReply(fmt.Errorf("%w: malformed event: %v", ErrBadRequest, err))
	}

	q := MazeQuery{
		Size:     sess.size,
		Portals:  sess.portals,
		Seed:     ev.Seed,
		Solution: true,
	}

	switch ev.Type {
	case EventGenerate:
	case EventSize:
		if ev.Size == "" {
			return errorReply(fmt.Errorf("%w: size event without size", ErrBadRequest))
		}
		q.Size = ev.Size
	case EventPortals:
		if ev.Portals == nil {
			return errorReply(fmt.Errorf("%w: portals event without portals", ErrBadRequest))
		}
		q.Portals = *ev.Portals
	default:
		return errorReply(fmt.Errorf("%w: unknown event type %q", ErrBadRequest, ev.Type))
	}

	start := time.Now()
	doc, res, err := s.generate(q)
	if err != nil {
		if !errors.Is(err, ErrBadRequest) {
			sess.log.Error("Maze generation failed", "event", ev.Type, "error", err)
		}
		return errorReply(err)
	}

	sess.size = string(res.Size)
	sess.portals = q.Portals
	logGenerated(sess.log, res, doc.Seed, time.Since(start))
	return Reply{Type: ReplyMaze, Maze: doc}
}

func errorReply(err error) Reply {
	return Reply{Type: ReplyError, Error: err.Error()}
}
