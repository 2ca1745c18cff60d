package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	tasktopicshandler "noblelift-backend/lib/task-topics"
	taskapimodels "noblelift-backend/models/api/task"
)

type taskTopicsApiController struct {
	controllers.BaseAPIController
}

func InitTaskTopicsApiRouters(app *fiber.App) {
	controller := taskTopicsApiController{}
	app.Route("task-topics", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Patch(":id", controller.update)
		router.Delete(":id", controller.delete)
	})
}

// @Summary Темы задач
// @Tags Темы задач
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {array} taskapimodels.TaskTopic
// @router /api/v1/task-topics [get]
func (c *taskTopicsApiController) list(ctx *fiber.Ctx) error {
	list, err := tasktopicshandler.Instance.List()
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Создать тему
// @Tags Темы задач
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		taskapimodels.TopicData	true	"request body"
// @Success 201 {object} taskapimodels.TaskTopic
// @Failure 400 {object} apimodels.ErrorResponse
// @router /api/v1/task-topics [post]
func (c *taskTopicsApiController) create(ctx *fiber.Ctx) error {
	var payload taskapimodels.TopicData
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := tasktopicshandler.Instance.Create(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Переименовать тему
// @Tags Темы задач
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"topic ID"
// @Param	body				body		taskapimodels.TopicData	true	"request body"
// @Success 200 {object} taskapimodels.TaskTopic
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/task-topics/{id} [patch]
func (c *taskTopicsApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload taskapimodels.TopicData
	if err = c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := tasktopicshandler.Instance.Update(c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Удалить тему
// @Tags Темы задач
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"topic ID"
// @Success 204
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/task-topics/{id} [delete]
func (c *taskTopicsApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = tasktopicshandler.Instance.Delete(c.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}
