package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/db"
	profilehandler "noblelift-backend/lib/profile"
	usersstore "noblelift-backend/lib/users/store"
	"noblelift-backend/middleware"
	dbmodels "noblelift-backend/models/db"
)

// useSecured access токен, активный пользователь и правила rbac
func useSecured(router fiber.Router) {
	router.Use(
		middleware.AuthorizationRequired(),
		middleware.ActorRequired(lookupUser, touchLastSeen),
		middleware.RbacMiddleware(),
	)
}

func lookupUser(userID string) (*dbmodels.User, error) {
	return usersstore.NewInstance(db.DB).GetByID(userID)
}

func touchLastSeen(userID string) {
	profilehandler.Instance.TouchLastSeen(userID)
}
