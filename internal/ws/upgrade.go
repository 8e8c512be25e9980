package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"parley/config"
	"parley/internal/auth"
	"parley/internal/domain"
	"parley/internal/repository"
	"parley/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type heartbeatMessage struct {
	Status       string `json:"status"`
	NewUserInput bool   `json:"new_user_input"`
	PingOnly     bool   `json:"ping_only"`
	LastUpdateID *int64 `json:"last_update_id"`
}

// UpgradePresenceWS upgrades a connection to the heartbeat channel. The
// client authenticates with a token query param and then sends periodic
// heartbeat messages; each one goes through the same presence path as the
// HTTP endpoint and is answered with the slim-shape payload.
func UpgradePresenceWS(cfg *config.JWTConfig, hub *Hub, presenceSvc *service.PresenceService, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		user, err := userRepo.GetByID(claims.UserID)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unknown user"}`))
			return
		}
		clientName := c.Query("client")
		if clientName == "" {
			clientName = domain.DefaultClientName
		}
		client := &Client{
			UserID:     user.ID,
			ClientName: clientName,
			Send:       make(chan []byte, 16),
			hub:        hub,
		}
		hub.register(client)
		defer client.Close()
		go writePump(client, conn)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg heartbeatMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				client.Send <- []byte(`{"error":"malformed heartbeat"}`)
				continue
			}
			ret, err := presenceSvc.Heartbeat(user, clientName, time.Now(), service.HeartbeatOptions{
				Status:       msg.Status,
				NewUserInput: msg.NewUserInput,
				PingOnly:     msg.PingOnly,
				Slim:         true,
				LastUpdateID: msg.LastUpdateID,
			})
			if err != nil {
				out, _ := json.Marshal(map[string]string{"error": err.Error()})
				client.Send <- out
				continue
			}
			out, err := json.Marshal(ret)
			if err != nil {
				log.Printf("[ws] marshal heartbeat response: %v", err)
				continue
			}
			select {
			case client.Send <- out:
			default:
			}
		}
	}
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
