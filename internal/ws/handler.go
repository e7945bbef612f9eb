package ws

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Handler subscribes each upgraded connection to hub. The handler returns
// when the peer disconnects or the hub shuts down.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := newClient(hub, conn)
		if !hub.join(client) {
			_ = conn.Close()
			return
		}

		go client.writeLoop()
		client.readLoop()
	})
}

// UpgradeMiddleware rejects plain HTTP requests to the feed endpoint.
func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}
}
