package websocket

import (
	"log"
	"sync"

	"github.com/brightsmile/dental_clinic/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// The hub pushes schedule changes to every connected staff client so the
// front-desk calendar stays current without polling.

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type ScheduleEvent struct {
	Action      string             `json:"action"` // created, updated, cancelled
	Appointment models.Appointment `json:"appointment"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *ScheduleEvent, 16)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Schedule client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Schedule client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			var dead []uuid.UUID
			for userID, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending schedule event to client %s: %v", userID, err)
					conn.Close()
					dead = append(dead, userID)
				}
			}
			clientsMu.RUnlock()

			if len(dead) > 0 {
				clientsMu.Lock()
				for _, userID := range dead {
					delete(clients, userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// Notify enqueues a schedule event without blocking the request handler.
func Notify(action string, appointment models.Appointment) {
	select {
	case Broadcast <- &ScheduleEvent{Action: action, Appointment: appointment}:
	default:
		log.Println("Schedule broadcast channel full, dropping event")
	}
}
