package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/contaflow-api/internal/infrastructure/notify"
)

// WSUpgrade rejeita requisições que não pedem upgrade de protocolo.
func WSUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WSHandler prende a conexão no hub de notificações.
func WSHandler(hub *notify.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		hub.Register(c)
	})
}
