package middleware

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	authutils "noblelift-backend/lib/utils/auth-utils"
	"noblelift-backend/models"
	dbmodels "noblelift-backend/models/db"
)

const actorKey = "actor"

// UserLookup загрузка пользователя по sub токена
type UserLookup func(userID string) (*dbmodels.User, error)

// ActorRequired отсутствующий или неактивный пользователь получает 401. Каждый запрос обновляет last_seen_at
func ActorRequired(lookup UserLookup, touch func(userID string)) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		if userID == "" {
			return unauthorized(ctx)
		}
		user, err := lookup(userID)
		if err != nil {
			log.WithField("user_id", userID).WithError(err).Error("ошибка загрузки пользователя")
			return unauthorized(ctx)
		}
		if user == nil || !user.IsActive {
			return unauthorized(ctx)
		}
		actor := models.Actor{
			UserID:    user.ID,
			RoleID:    user.RoleID,
			IP:        ctx.IP(),
			UserAgent: ctx.Get(fiber.HeaderUserAgent),
		}
		if user.Role != nil {
			actor.Role = user.Role.Code
		}
		ctx.Locals(actorKey, actor)
		if touch != nil {
			touch(user.ID)
		}
		return ctx.Next()
	}
}

// GetActor для публичных маршрутов заполнены только IP и UserAgent
func GetActor(ctx *fiber.Ctx) models.Actor {
	if actor, ok := ctx.Locals(actorKey).(models.Actor); ok {
		return actor
	}
	return models.Actor{
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	}
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims[authutils.ClaimSub]; exist {
		if userID, ok := sub.(string); ok {
			return userID
		}
	}
	return ""
}
