package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	teamshandler "noblelift-backend/lib/teams"
	apimodels "noblelift-backend/models/api"
	teamapimodels "noblelift-backend/models/api/team"
)

type teamsApiController struct {
	controllers.BaseAPIController
}

func InitTeamsApiRouters(app *fiber.App) {
	controller := teamsApiController{}
	app.Route("teams", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Patch("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("members", controller.members)
			idRoute.Post("members", controller.addMember)
			idRoute.Delete("members/:userId", controller.removeMember)
		})
	})
}

// @Summary Список команд
// @Tags Команды
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	q		query	string	false	"поиск по названию"
// @Param	limit	query	int		false	"limit"
// @Param	offset	query	int		false	"offset"
// @Success 200 {object} apimodels.ListResponse{items=[]teamapimodels.Team}
// @router /api/v1/teams [get]
func (c *teamsApiController) list(ctx *fiber.Ctx) error {
	filter := teamapimodels.TeamFilter{
		Pagination: c.GetPagination(ctx, apimodels.DefaultLimit, apimodels.MaxLimit),
		Q:          ctx.Query("q"),
	}
	list, total, err := teamshandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, total, filter.Pagination)
}

// @Summary Команда
// @Tags Команды
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"team ID"
// @Success 200 {object} teamapimodels.Team
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/teams/{id} [get]
func (c *teamsApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := teamshandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Создать команду
// @Tags Команды
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		teamapimodels.TeamData	true	"request body"
// @Success 201 {object} teamapimodels.Team
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @router /api/v1/teams [post]
func (c *teamsApiController) create(ctx *fiber.Ctx) error {
	var payload teamapimodels.TeamData
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := teamshandler.Instance.Create(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Изменить команду
// @Tags Команды
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"team ID"
// @Param	body				body		teamapimodels.TeamUpdate	true	"request body"
// @Success 200 {object} teamapimodels.Team
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/teams/{id} [patch]
func (c *teamsApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload teamapimodels.TeamUpdate
	if err = c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := teamshandler.Instance.Update(c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Удалить команду
// @Tags Команды
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"team ID"
// @Success 204
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/teams/{id} [delete]
func (c *teamsApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = teamshandler.Instance.Delete(c.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}

// @Summary Участники команды
// @Tags Команды
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"team ID"
// @Success 200 {array} teamapimodels.TeamMember
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/teams/{id}/members [get]
func (c *teamsApiController) members(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	list, err := teamshandler.Instance.Members(id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Добавить участника
// @Tags Команды
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"team ID"
// @Param	body				body		teamapimodels.MemberAdd	true	"request body"
// @Success 201 {object} teamapimodels.TeamMember
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @router /api/v1/teams/{id}/members [post]
func (c *teamsApiController) addMember(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload teamapimodels.MemberAdd
	if err = c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := teamshandler.Instance.AddMember(c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Исключить участника
// @Tags Команды
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"team ID"
// @Param 	userId 	path 		string  true 	"user ID"
// @Success 204
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/teams/{id}/members/{userId} [delete]
func (c *teamsApiController) removeMember(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	userID, err := c.GetParam(ctx, "userId")
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = teamshandler.Instance.RemoveMember(c.GetActor(ctx), id, userID); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}
