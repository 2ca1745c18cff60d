package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	authhandler "noblelift-backend/lib/auth"
	"noblelift-backend/lib/rbac"
	authapimodels "noblelift-backend/models/api/auth"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app *fiber.App) {
	controller := authApiController{}
	app.Route("auth", func(router fiber.Router) {
		router.Post("login", controller.login)
		router.Post("refresh", controller.refresh)
		router.Route("", func(securedRoute fiber.Router) {
			useSecured(securedRoute)
			securedRoute.Post("logout", controller.logout)
			securedRoute.Post("password/change", controller.changePassword)
			securedRoute.Get("me", controller.me)
			securedRoute.Get("permissions", controller.permissions)
		})
	})
}

// @Summary Аутентификация пользователя
// @Tags Аутентификация
// @Description Вход по email и паролю
// @Param	body				body		authapimodels.LoginRequest	true	"request body"
// @Success 200 {object} authapimodels.JWTResponse
// @Failure 401 {object} apimodels.ErrorResponse
// @Failure 422 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.LoginRequest
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := authhandler.Instance.Login(ctx.UserContext(), c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Обновить JWT
// @Tags Аутентификация
// @Description Выдать новую пару токенов по refresh токену
// @Param	body				body		authapimodels.JWTRefreshRequest	true	"request body"
// @Success 200 {object} authapimodels.JWTResponse
// @Failure 401 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/auth/refresh [post]
func (c *authApiController) refresh(ctx *fiber.Ctx) error {
	var payload authapimodels.JWTRefreshRequest
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := authhandler.Instance.Refresh(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Выход
// @Tags Аутентификация
// @Description Отзыв refresh токена
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 204
// @Failure 401 {object} apimodels.ErrorResponse
// @router /api/v1/auth/logout [post]
func (c *authApiController) logout(ctx *fiber.Ctx) error {
	if err := authhandler.Instance.Logout(ctx.UserContext(), c.GetActor(ctx)); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}

// @Summary Сменить пароль
// @Tags Аутентификация
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		authapimodels.PasswordChange	true	"request body"
// @Success 204
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 401 {object} apimodels.ErrorResponse
// @router /api/v1/auth/password/change [post]
func (c *authApiController) changePassword(ctx *fiber.Ctx) error {
	var payload authapimodels.PasswordChange
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err := authhandler.Instance.ChangePassword(ctx.UserContext(), c.GetActor(ctx), payload); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}

// @Summary Текущий пользователь
// @Tags Аутентификация
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} userapimodels.User
// @Failure 401 {object} apimodels.ErrorResponse
// @router /api/v1/auth/me [get]
func (c *authApiController) me(ctx *fiber.Ctx) error {
	resp, err := authhandler.Instance.Me(c.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Права текущего пользователя по модулям
// @Tags Аутентификация
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} map[string][]string
// @Failure 401 {object} apimodels.ErrorResponse
// @router /api/v1/auth/permissions [get]
func (c *authApiController) permissions(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(rbac.Instance.GetPermissions(c.GetActor(ctx).Role))
}
