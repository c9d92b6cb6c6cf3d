package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/laith-prog/rms/services"
	"github.com/laith-prog/rms/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// StatusHub streams committed status transitions to the customer they
// belong to. It doubles as the notifier's delivery channel: Dispatch
// fails when the customer has no open connection, which leaves the
// audit row unnotified for a later retry.
type StatusHub struct {
	clients    map[uint]map[*websocket.Conn]bool // userID -> connections
	broadcast  chan services.StatusEvent
	register   chan subscription
	unregister chan subscription
	mu         sync.Mutex
}

type subscription struct {
	Conn   *websocket.Conn
	UserID uint
}

func NewStatusHub() *StatusHub {
	return &StatusHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan services.StatusEvent, 64),
		register:   make(chan subscription),
		unregister: make(chan subscription),
	}
}

func (h *StatusHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.UserID] == nil {
				h.clients[sub.UserID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.UserID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.UserID][sub.Conn]; ok {
				delete(h.clients[sub.UserID], sub.Conn)
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[ev.CustomerID] {
				if err := conn.WriteJSON(ev); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.clients[ev.CustomerID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Dispatch implements services.Dispatcher.
func (h *StatusHub) Dispatch(ev services.StatusEvent) error {
	h.mu.Lock()
	listening := len(h.clients[ev.CustomerID]) > 0
	h.mu.Unlock()
	if !listening {
		return errNoSubscriber
	}
	h.broadcast <- ev
	return nil
}

type noSubscriberError struct{}

func (noSubscriberError) Error() string { return "customer has no open status stream" }

var errNoSubscriber = noSubscriberError{}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/status (authenticated). The client only listens; any
// inbound message is discarded.
func (h *StatusHub) HandleWebSocket(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sub := subscription{Conn: conn, UserID: userID}
	h.register <- sub

	go func() {
		defer func() { h.unregister <- sub }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
