package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/lib/ws"
)

func InitWsRouters(app *fiber.App) {
	app.Route("ws", func(router fiber.Router) {
		useSecured(router)
		ws.InitWs(router)
	})
}
