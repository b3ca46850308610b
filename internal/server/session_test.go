package server

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuhiman/get-lost/internal/config"
	"github.com/gosuhiman/get-lost/internal/logger"
)

func dialSession(t *testing.T, serverURL string, header http.Header) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, event string) Reply {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(event)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var reply Reply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestSession_Events(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dialSession(t, ts.URL, nil)

	reply := exchange(t, conn, `{"type":"generate","seed":"42"}`)
	require.Equal(t, ReplyMaze, reply.Type, reply.Error)
	assert.Equal(t, "M", reply.Maze.Size)
	assert.Equal(t, int64(42), reply.Maze.Seed)
	assert.NotEmpty(t, reply.Maze.Path, "sessions always carry the solution")

	reply = exchange(t, conn, `{"type":"size","size":"l"}`)
	require.Equal(t, ReplyMaze, reply.Type, reply.Error)
	assert.Equal(t, "L", reply.Maze.Size)
	assert.Equal(t, 30, reply.Maze.Width)

	reply = exchange(t, conn, `{"type":"portals","portals":1}`)
	require.Equal(t, ReplyMaze, reply.Type, reply.Error)
	assert.Equal(t, "L", reply.Maze.Size, "size survives a portals event")
	assert.Equal(t, 1, reply.Maze.RequestedPairs)
	assert.Equal(t, 2, reply.Maze.Sections)

	reply = exchange(t, conn, `{"type":"generate"}`)
	require.Equal(t, ReplyMaze, reply.Type, reply.Error)
	assert.Equal(t, "L", reply.Maze.Size)
	assert.Equal(t, 1, reply.Maze.RequestedPairs)
}

func TestSession_ErrorsKeepSettings(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dialSession(t, ts.URL, nil)

	reply := exchange(t, conn, `{"type":"size","size":"S"}`)
	require.Equal(t, ReplyMaze, reply.Type, reply.Error)

	bad := []string{
		`{"type":"size","size":"XXL"}`,
		`{"type":"size"}`,
		`{"type":"portals","portals":12}`,
		`{"type":"portals"}`,
		`{"type":"teleport"}`,
		`not json`,
	}
	for _, event := range bad {
		reply := exchange(t, conn, event)
		assert.Equal(t, ReplyError, reply.Type, "event %s", event)
		assert.NotEmpty(t, reply.Error, "event %s", event)
		assert.Nil(t, reply.Maze)
	}

	reply = exchange(t, conn, `{"type":"generate"}`)
	require.Equal(t, ReplyMaze, reply.Type, reply.Error)
	assert.Equal(t, "S", reply.Maze.Size)
	assert.Zero(t, reply.Maze.RequestedPairs)
}

func TestSession_SkipsBlankMessages(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dialSession(t, ts.URL, nil)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("  \n ")))

	reply := exchange(t, conn, `{"type":"generate"}`)
	assert.Equal(t, ReplyMaze, reply.Type, reply.Error)
}

func TestSession_OriginRejected(t *testing.T) {
	_, ts := newTestServer(t, nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"http://evil.example"}}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSession_ConnectionLimit(t *testing.T) {
	s, ts := newTestServer(t, func(c *config.Config) {
		c.Server.Connections.MaxPerIP = 1
	})

	first := dialSession(t, ts.URL, nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	first.Close()
	require.Eventually(t, func() bool {
		return s.sessions.IPCount("127.0.0.1") == 0
	}, 2*time.Second, 10*time.Millisecond, "slot not released after disconnect")

	dialSession(t, ts.URL, nil)
}

func TestSession_TotalLimit(t *testing.T) {
	s, ts := newTestServer(t, func(c *config.Config) {
		c.Server.Connections.MaxPerIP = 5
		c.Server.Connections.MaxTotal = 2
	})
	from := func(ip string) http.Header {
		return http.Header{"X-Forwarded-For": []string{ip}}
	}

	first := dialSession(t, ts.URL, from("203.0.113.1"))
	dialSession(t, ts.URL, from("203.0.113.2"))
	require.Eventually(t, func() bool { return s.SessionCount() == 2 },
		2*time.Second, 10*time.Millisecond)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, from("203.0.113.3"))
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 2, s.SessionCount(), "rejected dial must not hold a slot")

	first.Close()
	require.Eventually(t, func() bool { return s.SessionCount() == 1 },
		2*time.Second, 10*time.Millisecond, "slot not released after disconnect")

	conn := dialSession(t, ts.URL, from("203.0.113.3"))
	reply := exchange(t, conn, `{"type":"generate","seed":"1"}`)
	assert.Equal(t, ReplyMaze, reply.Type, reply.Error)
	assert.Equal(t, 1, s.sessions.IPCount("203.0.113.3"))
}

func TestSession_RefusedAfterShutdown(t *testing.T) {
	s, ts := newTestServer(t, nil)
	s.Shutdown()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Zero(t, s.SessionCount())
}

func TestSession_MessageSizeLimit(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) {
		c.Server.MaxMessageSize = 64
	})
	conn := dialSession(t, ts.URL, nil)

	big := `{"type":"generate","seed":"` + strings.Repeat("x", 256) + `"}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(big)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseMessageTooBig), "got %v", err)
}

func TestSession_ShutdownClosesSessions(t *testing.T) {
	s, ts := newTestServer(t, nil)
	conn := dialSession(t, ts.URL, nil)

	require.Eventually(t, func() bool { return s.SessionCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	s.Shutdown()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestHandleEvent_SeedReplay(t *testing.T) {
	s := NewServer(config.DefaultConfig())
	sess := &Session{log: logger.With(), size: "S"}

	a := s.handleEvent(sess, []byte(`{"type":"portals","portals":2,"seed":"same"}`))
	b := s.handleEvent(sess, []byte(`{"type":"generate","seed":"same"}`))

	require.Equal(t, ReplyMaze, a.Type, a.Error)
	require.Equal(t, ReplyMaze, b.Type, b.Error)
	assert.Equal(t, a.Maze.Cells, b.Maze.Cells)
	assert.Equal(t, a.Maze.Path, b.Maze.Path)
	assert.Equal(t, 2, sess.portals)
}
