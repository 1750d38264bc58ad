package servers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/gorilla/websocket"

	"github.com/yuhaohwang/flv-inspector/src/instance"
	"github.com/yuhaohwang/flv-inspector/src/pkg/events"
	"github.com/yuhaohwang/flv-inspector/src/pkg/parser/native/flv"
	"github.com/yuhaohwang/flv-inspector/src/report"
)

const (
	cacheSize    = 1024
	sendBuffer   = 256
	writeTimeout = 5 * time.Second
)

// EventMessage 是发送给客户端的事件消息的结构。
type EventMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// wsClient 一个WebSocket客户端及其发送队列。
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// WebSocketManager 管理与客户端的WebSocket连接，并把解析事件推送给所有客户端。
// 解析事件是同步分发的，推送只把消息放入各客户端的队列，队列满时丢弃消息，不阻塞解析。
type WebSocketManager struct {
	clients  map[*websocket.Conn]*wsClient // 当前已连接的客户端列表。
	upgrader websocket.Upgrader            // 用于升级HTTP连接到WebSocket连接的工具。
	lock     sync.Mutex                    // 用于同步对clients的访问。
	cache    gcache.Cache

	listeners map[events.EventType]*events.EventListener
}

// NewWebSocketManager 初始化一个新的WebSocketManager并返回其指针。
func NewWebSocketManager(ctx context.Context) *WebSocketManager {
	inst := instance.GetInstance(ctx)
	if inst.Cache == nil {
		inst.Cache = gcache.New(cacheSize).LRU().Build()
	}
	return &WebSocketManager{
		clients:  make(map[*websocket.Conn]*wsClient),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		cache:    inst.Cache,
	}
}

// Start 开始监听解析事件。
func (wsm *WebSocketManager) Start(ctx context.Context) error {
	ed := events.GetDispatcher(ctx)
	if ed == nil {
		return errors.New("事件分发器未初始化")
	}
	wsm.listeners = map[events.EventType]*events.EventListener{
		flv.HeaderParsed:  events.NewEventListener(wsm.onHeaderParsed),
		flv.TagParsed:     events.NewEventListener(wsm.onTagParsed),
		flv.ParseFinished: events.NewEventListener(wsm.onParseFinished),
		flv.ParseFailed:   events.NewEventListener(wsm.onParseFailed),
	}
	for t, l := range wsm.listeners {
		ed.AddEventListener(t, l)
	}
	return nil
}

func (wsm *WebSocketManager) onHeaderParsed(event *events.Event) {
	if h, ok := event.Object.(*flv.Header); ok {
		wsm.BroadcastMessage(string(event.Type), flv.HeaderRecord(h))
	}
}

func (wsm *WebSocketManager) onTagParsed(event *events.Event) {
	tag, ok := event.Object.(*flv.Tag)
	if !ok {
		return
	}
	rec := report.Sanitize(flv.TagRecord(tag))
	_ = wsm.cache.Set(tag.Index, rec)
	wsm.BroadcastMessage(string(event.Type), rec)
}

func (wsm *WebSocketManager) onParseFinished(event *events.Event) {
	if s, ok := event.Object.(*flv.Summary); ok {
		wsm.BroadcastMessage(string(event.Type), flv.SummaryRecord(s))
	}
}

func (wsm *WebSocketManager) onParseFailed(event *events.Event) {
	if err, ok := event.Object.(error); ok {
		wsm.BroadcastMessage(string(event.Type), err.Error())
	}
}

// HandleConnection 处理新的WebSocket连接请求。
func (wsm *WebSocketManager) HandleConnection(w http.ResponseWriter, r *http.Request) {
	inst := instance.GetInstance(r.Context())
	conn, err := wsm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		inst.Logger.Error("Failed to upgrade ws: ", err)
		return
	}

	c := &wsClient{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	wsm.lock.Lock()
	wsm.clients[conn] = c
	wsm.lock.Unlock()

	go c.writeLoop()

	// 仅仅为了检测连接断开
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsm.RemoveClient(conn)
			break
		}
	}
}

func (c *wsClient) writeLoop() {
	for b := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			c.conn.Close()
			return
		}
	}
}

// RemoveClient 从管理器中移除一个WebSocket客户端连接。
func (wsm *WebSocketManager) RemoveClient(conn *websocket.Conn) {
	wsm.lock.Lock()
	defer wsm.lock.Unlock()
	wsm.removeLocked(conn)
}

func (wsm *WebSocketManager) removeLocked(conn *websocket.Conn) {
	c, ok := wsm.clients[conn]
	if !ok {
		return
	}
	delete(wsm.clients, conn)
	close(c.send)
	conn.Close()
}

// ClientCount 返回当前连接的客户端数量。
func (wsm *WebSocketManager) ClientCount() int {
	wsm.lock.Lock()
	defer wsm.lock.Unlock()
	return len(wsm.clients)
}

// BroadcastMessage 将消息放入所有客户端的发送队列，返回因队列已满而丢弃消息的客户端数量。
func (wsm *WebSocketManager) BroadcastMessage(event string, data interface{}) int {
	b, err := json.Marshal(EventMessage{
		Event: event,
		Data:  data,
	})
	if err != nil {
		return 0
	}

	wsm.lock.Lock()
	defer wsm.lock.Unlock()
	dropped := 0
	for _, c := range wsm.clients {
		select {
		case c.send <- b:
		default:
			dropped++
		}
	}
	return dropped
}

// Close 停止监听解析事件，关闭所有的WebSocket连接并清除clients。
func (wsm *WebSocketManager) Close(ctx context.Context) {
	if ed := events.GetDispatcher(ctx); ed != nil {
		for t, l := range wsm.listeners {
			ed.RemoveEventListener(t, l)
		}
	}
	wsm.lock.Lock()
	defer wsm.lock.Unlock()
	for conn := range wsm.clients {
		wsm.removeLocked(conn)
	}
}
