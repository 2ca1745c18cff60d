package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	taskfileshandler "noblelift-backend/lib/task-files"
)

type taskFilesApiController struct {
	controllers.BaseAPIController
}

func initTaskFilesRouters(taskRoute fiber.Router) {
	controller := taskFilesApiController{}
	taskRoute.Get("files", controller.list)
	taskRoute.Post("files", controller.upload)
	taskRoute.Get("files/:fileId", controller.download)
	taskRoute.Delete("files/:fileId", controller.delete)
}

// @Summary Файлы задачи
// @Tags Файлы задач
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Success 200 {array} taskapimodels.TaskFile
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/files [get]
func (c *taskFilesApiController) list(ctx *fiber.Ctx) error {
	taskID, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	list, err := taskfileshandler.Instance.List(taskID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Прикрепить файл
// @Tags Файлы задач
// @Accept	multipart/form-data
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Param	file	formData	file	true	"файл"
// @Success 201 {object} taskapimodels.TaskFile
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/files [post]
func (c *taskFilesApiController) upload(ctx *fiber.Ctx) error {
	taskID, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	file, closer, err := c.FormFile(ctx, "file")
	if err != nil {
		return c.SendError(ctx, err)
	}
	defer closer.Close()
	resp, err := taskfileshandler.Instance.Upload(ctx.UserContext(), c.GetActor(ctx), taskID, file)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Скачать файл
// @Tags Файлы задач
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Param 	fileId 	path 		string  true 	"file ID"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/files/{fileId} [get]
func (c *taskFilesApiController) download(ctx *fiber.Ctx) error {
	taskID, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	fileID, err := c.GetParam(ctx, "fileId")
	if err != nil {
		return c.SendError(ctx, err)
	}
	meta, body, size, err := taskfileshandler.Instance.Download(ctx.UserContext(), taskID, fileID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	contentType := ""
	if meta.Mime != nil {
		contentType = *meta.Mime
	}
	return c.SendStream(ctx, body, size, meta.OriginalName, contentType)
}

// @Summary Удалить файл
// @Tags Файлы задач
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"task ID"
// @Param 	fileId 	path 		string  true 	"file ID"
// @Success 204
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/tasks/{id}/files/{fileId} [delete]
func (c *taskFilesApiController) delete(ctx *fiber.Ctx) error {
	taskID, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	fileID, err := c.GetParam(ctx, "fileId")
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = taskfileshandler.Instance.Delete(ctx.UserContext(), c.GetActor(ctx), taskID, fileID); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}
