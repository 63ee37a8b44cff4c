package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ConnectionManager tracks open sockets so shutdown can close them all.
type ConnectionManager struct {
	connections map[string]*websocket.Conn
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
	}
}

func (cm *ConnectionManager) AddConnection(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[gameID] = conn
}

func (cm *ConnectionManager) RemoveConnection(gameID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if conn, exists := cm.connections[gameID]; exists {
		conn.Close()
		delete(cm.connections, gameID)
	}
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// CloseAll sends a going-away close frame to every socket and drops them.
func (cm *ConnectionManager) CloseAll(reason string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, reason)
	deadline := time.Now().Add(time.Second)
	for gameID, conn := range cm.connections {
		conn.WriteControl(websocket.CloseMessage, msg, deadline)
		conn.Close()
		delete(cm.connections, gameID)
	}
}
