package hub

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"Blog_Backend/internal/model"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter int64

func (f fixedCounter) UnreadCount(context.Context, uint64) (int64, error) { return int64(f), nil }

func newTestHub(t *testing.T, counter UnreadCounter) (*Hub, *httptest.Server) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := New(counter, log)
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseUint(r.URL.Query().Get("userId"), 10, 64)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Attach(conn, id)
	}))
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server, userID int) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?userId=" + strconv.Itoa(userID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestSendToUserOffline(t *testing.T) {
	h, _ := newTestHub(t, nil)
	assert.False(t, h.SendToUser(42, model.EventNewNotification, map[string]int{"id": 1}))
}

func TestSendToUserDelivers(t *testing.T) {
	h, srv := newTestHub(t, nil)
	conn := dial(t, srv, 7)
	require.Eventually(t, func() bool { return h.Online(7) }, time.Second, 10*time.Millisecond)

	assert.True(t, h.SendToUser(7, model.EventUnreadCountUpdated, map[string]int64{"count": 3}))
	env := readEnvelope(t, conn)
	assert.Equal(t, model.EventUnreadCountUpdated, env.Event)
	assert.JSONEq(t, `{"count":3}`, string(env.Data))
}

func TestGetUnreadCountReplies(t *testing.T) {
	h, srv := newTestHub(t, fixedCounter(5))
	conn := dial(t, srv, 9)
	require.Eventually(t, func() bool { return h.Online(9) }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(Envelope{Event: model.EventGetUnreadCount}))
	env := readEnvelope(t, conn)
	assert.Equal(t, model.EventUnreadCount, env.Event)
	assert.JSONEq(t, `{"count":5}`, string(env.Data))
}

func TestNewerConnectionReplacesOlder(t *testing.T) {
	h, srv := newTestHub(t, nil)
	first := dial(t, srv, 3)
	require.Eventually(t, func() bool { return h.Online(3) }, time.Second, 10*time.Millisecond)
	h.mu.RLock()
	before := h.clients[3]
	h.mu.RUnlock()

	second := dial(t, srv, 3)
	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return h.clients[3] != nil && h.clients[3] != before
	}, time.Second, 10*time.Millisecond)

	// 旧连接收到关闭帧
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := first.ReadMessage()
	assert.Error(t, err)

	assert.True(t, h.SendToUser(3, model.EventNewNotification, map[string]int{"id": 1}))
	env := readEnvelope(t, second)
	assert.Equal(t, model.EventNewNotification, env.Event)
	assert.True(t, h.Online(3))
}
