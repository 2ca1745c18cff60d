package ws

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	wsclient "noblelift-backend/lib/ws/client"
	connectionhub "noblelift-backend/lib/ws/hub/connection-hub"
	"noblelift-backend/middleware"
)

const userIDKey = "userID"

// InitWs ожидает, что маршрут уже прошел AuthorizationRequired и ActorRequired
func InitWs(router fiber.Router) {
	router.Use(func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals(userIDKey, middleware.GetActor(ctx).UserID)
		return ctx.Next()
	})
	router.Get("", websocket.New(notificationsHandler))
}

// @Summary Системные пуши
// @Tags Websocket
// @Description Поток уведомлений пользователя. При подключении отправляются непрочитанные
// @Param   token		query		string		true		"Access token"
// @Success 101 {object} wsmodels.ServerMessage
// @Failure 401
// @Failure 426
// @router /api/v1/ws [get]
func notificationsHandler(c *websocket.Conn) {
	userID, _ := c.Locals(userIDKey).(string)
	client := wsclient.NewClient(userID, c)
	connectionhub.Instance.AddClient(userID, c)
	defer connectionhub.Instance.DeleteClient(userID, c)
	client.Dispatch()
}
