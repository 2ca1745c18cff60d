package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"noblelift-backend/config"
	apperrors "noblelift-backend/lib/utils/app-errors"
	authutils "noblelift-backend/lib/utils/auth-utils"
	apimodels "noblelift-backend/models/api"
)

// AuthorizationRequired токен из заголовка Authorization, для websocket допускается ?token=
func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		TokenLookup: "header:Authorization,query:token",
		SuccessHandler: func(ctx *fiber.Ctx) error {
			if !authutils.IsTokenType(authutils.GetClaims(ctx), authutils.AccessToken) {
				return unauthorized(ctx)
			}
			return ctx.Next()
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return unauthorized(ctx)
		},
	})
}

func unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(apperrors.CodeUnauthorized, "Unauthorized", nil))
}

func forbidden(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(apperrors.CodeForbidden, "Forbidden", nil))
}
