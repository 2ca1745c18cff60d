package apiv1

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	taskshandler "noblelift-backend/lib/tasks"
	apimodels "noblelift-backend/models/api"
	taskapimodels "noblelift-backend/models/api/task"
)

const (
	mimeCSV  = "text/csv; charset=utf-8"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type tasksApiController struct {
	controllers.BaseAPIController
}

func InitTasksApiRouters(app *fiber.App) {
	controller := tasksApiController{}
	app.Route("tasks", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Get("available", controller.available)
		router.Post("archive/download-and-clear", controller.archiveDownload)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Patch("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Post("take", controller.take)
			idRoute.Post("release", controller.release)
			idRoute.Post("assign", controller.assign)
			idRoute.Post("unassign", controller.unassign)
			idRoute.Post("archive", controller.archive)
			idRoute.Post("unarchive", controller.unarchive)
			idRoute.Get("events", controller.events)
			initTaskFilesRouters(idRoute)
		})
	})
}

// @Summary Список задач
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	q			query	string	false	"поиск по названию/описанию"
// @Param	status		query	string	false	"код статуса"
// @Param	assigneeId	query	string	false	"исполнитель"
// @Param	topicId		query	string	false	"тема"
// @Param	isPrivate	query	bool	false	"личные"
// @Param	archived	query	bool	false	"архивные"
// @Param	limit		query	int		false	"limit"
// @Param	offset		query	int		false	"offset"
// @Success 200 {object} apimodels.ListResponse{items=[]taskapimodels.Task}
// @router /api/v1/tasks [get]
func (c *tasksApiController) list(ctx *fiber.Ctx) error {
	filter := taskapimodels.TaskFilter{
		Pagination: c.GetPagination(ctx, apimodels.DefaultLimit, apimodels.MaxLimit),
		Q:          ctx.Query("q"),
		Status:     ctx.Query("status"),
		AssigneeID: ctx.Query("assigneeId"),
		TopicID:    ctx.Query("topicId"),
		IsPrivate:  c.QueryBool(ctx, "isPrivate"),
		Archived:   c.QueryBool(ctx, "archived"),
	}
	list, total, err := taskshandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, total, filter.Pagination)
}

// @Summary Доступные для взятия задачи
// @Tags Задачи
// @Description Общие, не личные, не архивные задачи без исполнителя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	limit		query	int		false	"limit"
// @Param	offset		query	int		false	"offset"
// @Success 200 {object} apimodels.ListResponse{items=[]taskapimodels.Task}
// @router /api/v1/tasks/available [get]
func (c *tasksApiController) available(ctx *fiber.Ctx) error {
	page := c.GetPagination(ctx, apimodels.DefaultLimit, apimodels.MaxLimit)
	list, total, err := taskshandler.Instance.ListAvailable(page)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, total, page)
}

// @Summary Задача
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Success 200 {object} taskapimodels.Task
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id} [get]
func (c *tasksApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := taskshandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Создать задачу
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		taskapimodels.TaskCreate	true	"request body"
// @Success 201 {object} taskapimodels.Task
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 422 {object} apimodels.ErrorResponse
// @router /api/v1/tasks [post]
func (c *tasksApiController) create(ctx *fiber.Ctx) error {
	var payload taskapimodels.TaskCreate
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := taskshandler.Instance.Create(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Изменить задачу
// @Tags Задачи
// @Description Исполнитель меняется только через assign/take/unassign/release
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Param	body				body		taskapimodels.TaskUpdate	true	"request body"
// @Success 200 {object} taskapimodels.Task
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id} [patch]
func (c *tasksApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload taskapimodels.TaskUpdate
	if err = c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := taskshandler.Instance.Update(c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Удалить задачу
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Success 204
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id} [delete]
func (c *tasksApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = taskshandler.Instance.Delete(c.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}

// @Summary Взять задачу
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Success 200 {object} taskapimodels.Task
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/take [post]
func (c *tasksApiController) take(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := taskshandler.Instance.Take(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Отказаться от задачи
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Success 200 {object} taskapimodels.Task
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/release [post]
func (c *tasksApiController) release(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := taskshandler.Instance.Release(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Назначить исполнителя
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 			path 		string  true 	"task ID"
// @Param 	assigneeId 	query 		string  true 	"user ID"
// @Success 200 {object} taskapimodels.Task
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/assign [post]
func (c *tasksApiController) assign(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := taskshandler.Instance.Assign(c.GetActor(ctx), id, ctx.Query("assigneeId"))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Снять исполнителя
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Success 200 {object} taskapimodels.Task
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/unassign [post]
func (c *tasksApiController) unassign(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := taskshandler.Instance.Unassign(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Архивировать задачу
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Success 200 {object} taskapimodels.Task
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/archive [post]
func (c *tasksApiController) archive(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := taskshandler.Instance.Archive(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Вернуть задачу из архива
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Success 200 {object} taskapimodels.Task
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/unarchive [post]
func (c *tasksApiController) unarchive(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := taskshandler.Instance.Unarchive(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary История задачи
// @Tags Задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Param	limit		query	int		false	"limit"
// @Param	offset		query	int		false	"offset"
// @Success 200 {object} apimodels.ListResponse{items=[]taskapimodels.TaskEvent}
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/events [get]
func (c *tasksApiController) events(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	page := c.GetPagination(ctx, apimodels.AuditDefaultLimit, apimodels.MaxLimit)
	list, total, err := taskshandler.Instance.Events(id, page)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, total, page)
}

// @Summary Выгрузить и удалить завершенные задачи
// @Tags Задачи
// @Description Завершенные задачи выгружаются в файл и удаляются в одной транзакции
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	format	query	string	false	"csv (по умолчанию) или xlsx"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/archive/download-and-clear [post]
func (c *tasksApiController) archiveDownload(ctx *fiber.Ctx) error {
	body, fileName, err := taskshandler.Instance.ArchiveExport(c.GetActor(ctx), ctx.Query("format"))
	if err != nil {
		return c.SendError(ctx, err)
	}
	contentType := mimeCSV
	if filepath.Ext(fileName) == "."+taskshandler.ArchiveFormatXLSX {
		contentType = mimeXLSX
	}
	return c.SendBuffer(ctx, body, fileName, contentType)
}
