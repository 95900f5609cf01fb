package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"Blog_Backend/internal/model"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 64
)

// Envelope 推送与接收的消息格式
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// UnreadCounter 客户端主动查询未读数
type UnreadCounter interface {
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
}

// Hub 用户 id 到连接的单实例注册表，同一用户只保留最新的连接
type Hub struct {
	mu      sync.RWMutex
	clients map[uint64]*Client
	counter UnreadCounter
	log     *logrus.Entry
}

func New(counter UnreadCounter, log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[uint64]*Client),
		counter: counter,
		log:     log.WithField("component", "hub"),
	}
}

// SetCounter 组装顺序上 hub 先于通知服务创建
func (h *Hub) SetCounter(counter UnreadCounter) {
	h.mu.Lock()
	h.counter = counter
	h.mu.Unlock()
}

// Attach 注册连接并启动读写协程
func (h *Hub) Attach(conn *websocket.Conn, userID uint64) *Client {
	c := newClient(h, conn, userID)
	h.register(c)
	go c.writePump()
	go c.readPump()
	return c
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	old := h.clients[c.userID]
	h.clients[c.userID] = c
	h.mu.Unlock()
	if old != nil {
		old.close()
		h.log.WithField("user_id", c.userID).Info("previous connection replaced")
	}
	h.log.WithField("user_id", c.userID).Info("client registered")
}

// unregister 只移除仍是当前连接的 client
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if h.clients[c.userID] == c {
		delete(h.clients, c.userID)
	}
	h.mu.Unlock()
	c.close()
	h.log.WithField("user_id", c.userID).Info("client unregistered")
}

func (h *Hub) Online(userID uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// SendToUser 用户不在线或发送缓冲已满时返回 false
func (h *Hub) SendToUser(userID uint64, event string, data any) bool {
	h.mu.RLock()
	c := h.clients[userID]
	h.mu.RUnlock()
	if c == nil {
		return false
	}
	msg, err := encode(event, data)
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("encode ws message failed")
		return false
	}
	if !c.enqueue(msg) {
		h.log.WithFields(logrus.Fields{"user_id": userID, "event": event}).Warn("ws send buffer full, message dropped")
		return false
	}
	return true
}

// Close 关闭所有连接
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uint64]*Client)
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// handle 处理客户端发来的事件
func (h *Hub) handle(c *Client, raw []byte) {
	var in Envelope
	if err := json.Unmarshal(raw, &in); err != nil {
		h.log.WithError(err).WithField("user_id", c.userID).Debug("invalid ws message")
		return
	}
	switch in.Event {
	case model.EventGetUnreadCount:
		h.mu.RLock()
		counter := h.counter
		h.mu.RUnlock()
		if counter == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n, err := counter.UnreadCount(ctx, c.userID)
		if err != nil {
			h.log.WithError(err).WithField("user_id", c.userID).Error("count unread failed")
			return
		}
		h.SendToUser(c.userID, model.EventUnreadCount, map[string]int64{"count": n})
	default:
		h.log.WithFields(logrus.Fields{"user_id": c.userID, "event": in.Event}).Debug("unknown ws event")
	}
}
