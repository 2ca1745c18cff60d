package middleware

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/lib/rbac"
)

func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		actor := GetActor(ctx)
		if actor.UserID == "" || actor.Role == "" {
			return forbidden(ctx)
		}

		// Ищем обработчик
		handler, found := rbac.Instance.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}

		// Выполняем проверку
		if !handler(actor.UserID, actor.Role, ctx.Path()) {
			return forbidden(ctx)
		}

		return ctx.Next()
	}
}
