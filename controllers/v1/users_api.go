package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	usershandler "noblelift-backend/lib/users"
	apimodels "noblelift-backend/models/api"
	userapimodels "noblelift-backend/models/api/user"
)

type usersApiController struct {
	controllers.BaseAPIController
}

func InitUsersApiRouters(app *fiber.App) {
	controller := usersApiController{}
	app.Route("users", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Patch("", controller.update)
			idRoute.Delete("", controller.delete)
		})
	})
	app.Route("roles", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.roles)
	})
}

// @Summary Список пользователей
// @Tags Пользователи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	q		query	string	false	"поиск по email/ФИО"
// @Param	role	query	string	false	"код роли"
// @Param	status	query	string	false	"код статуса профиля"
// @Param	limit	query	int		false	"limit"
// @Param	offset	query	int		false	"offset"
// @Success 200 {object} apimodels.ListResponse{items=[]userapimodels.User}
// @Failure 401 {object} apimodels.ErrorResponse
// @router /api/v1/users [get]
func (c *usersApiController) list(ctx *fiber.Ctx) error {
	filter := userapimodels.UserFilter{
		Pagination: c.GetPagination(ctx, apimodels.DefaultLimit, apimodels.MaxLimit),
		Q:          ctx.Query("q"),
		Role:       ctx.Query("role"),
		Status:     ctx.Query("status"),
	}
	list, total, err := usershandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, total, filter.Pagination)
}

// @Summary Пользователь
// @Tags Пользователи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"user ID"
// @Success 200 {object} userapimodels.User
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/users/{id} [get]
func (c *usersApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := usershandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Создать пользователя
// @Tags Пользователи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		userapimodels.UserCreate	true	"request body"
// @Success 201 {object} userapimodels.User
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 422 {object} apimodels.ErrorResponse
// @router /api/v1/users [post]
func (c *usersApiController) create(ctx *fiber.Ctx) error {
	var payload userapimodels.UserCreate
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := usershandler.Instance.Create(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Изменить пользователя
// @Tags Пользователи
// @Description Роль, активность и email меняет только super_admin
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"user ID"
// @Param	body				body		userapimodels.UserUpdate	true	"request body"
// @Success 200 {object} userapimodels.User
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/users/{id} [patch]
func (c *usersApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload userapimodels.UserUpdate
	if err = c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := usershandler.Instance.Update(c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Удалить пользователя
// @Tags Пользователи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"user ID"
// @Success 204
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/users/{id} [delete]
func (c *usersApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = usershandler.Instance.Delete(c.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}

// @Summary Роли
// @Tags Пользователи
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {array} userapimodels.Role
// @router /api/v1/roles [get]
func (c *usersApiController) roles(ctx *fiber.Ctx) error {
	list, err := usershandler.Instance.Roles()
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}
