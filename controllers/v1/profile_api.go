package apiv1

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	profilehandler "noblelift-backend/lib/profile"
	userapimodels "noblelift-backend/models/api/user"
)

type profileApiController struct {
	controllers.BaseAPIController
}

func InitProfileApiRouters(app *fiber.App) {
	controller := profileApiController{}
	app.Get("static/avatars/:name", controller.avatar)
	app.Route("statuses", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.statuses)
	})
	app.Route("profiles/me", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.me)
		router.Patch("", controller.updateMe)
		router.Post("avatar", controller.uploadAvatar)
		router.Post("status", controller.changeStatus)
	})
}

// @Summary Мой профиль
// @Tags Профиль
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} userapimodels.User
// @router /api/v1/profiles/me [get]
func (c *profileApiController) me(ctx *fiber.Ctx) error {
	resp, err := profilehandler.Instance.Me(c.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Изменить профиль
// @Tags Профиль
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		userapimodels.ProfileUpdate	true	"request body"
// @Success 200 {object} userapimodels.User
// @Failure 422 {object} apimodels.ErrorResponse
// @router /api/v1/profiles/me [patch]
func (c *profileApiController) updateMe(ctx *fiber.Ctx) error {
	var payload userapimodels.ProfileUpdate
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := profilehandler.Instance.UpdateMe(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Загрузить аватар
// @Tags Профиль
// @Accept	multipart/form-data
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	file	formData	file	true	"изображение"
// @Success 200 {object} userapimodels.User
// @Failure 400 {object} apimodels.ErrorResponse
// @router /api/v1/profiles/me/avatar [post]
func (c *profileApiController) uploadAvatar(ctx *fiber.Ctx) error {
	file, closer, err := c.FormFile(ctx, "file")
	if err != nil {
		return c.SendError(ctx, err)
	}
	defer closer.Close()
	resp, err := profilehandler.Instance.UploadAvatar(ctx.UserContext(), c.GetActor(ctx), file)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Сменить статус
// @Tags Профиль
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		userapimodels.StatusChange	true	"request body"
// @Success 200 {object} userapimodels.User
// @Failure 400 {object} apimodels.ErrorResponse
// @router /api/v1/profiles/me/status [post]
func (c *profileApiController) changeStatus(ctx *fiber.Ctx) error {
	var payload userapimodels.StatusChange
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := profilehandler.Instance.ChangeStatus(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Статусы профиля
// @Tags Профиль
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {array} userapimodels.ProfileStatus
// @router /api/v1/statuses [get]
func (c *profileApiController) statuses(ctx *fiber.Ctx) error {
	list, err := profilehandler.Instance.Statuses()
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Аватар
// @Tags Профиль
// @Param 	name 		path 		string  true 	"имя файла"
// @Success 200
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/static/avatars/{name} [get]
func (c *profileApiController) avatar(ctx *fiber.Ctx) error {
	name, err := c.GetParam(ctx, "name")
	if err != nil {
		return c.SendError(ctx, err)
	}
	body, size, err := profilehandler.Instance.Avatar(ctx.UserContext(), name)
	if err != nil {
		return c.SendError(ctx, err)
	}
	ctx.Type(filepath.Ext(name))
	return ctx.SendStream(body, int(size))
}
