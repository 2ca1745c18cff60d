package apiv1

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	accesshandler "noblelift-backend/lib/access"
	directorieshandler "noblelift-backend/lib/directories"
	documentshandler "noblelift-backend/lib/documents"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
	documentapimodels "noblelift-backend/models/api/document"
)

type documentsApiController struct {
	controllers.BaseAPIController
}

func InitDocumentsApiRouters(app *fiber.App) {
	controller := documentsApiController{}
	app.Route("directories", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.listDirectories)
		router.Post("", controller.createDirectory)
		router.Patch(":id", controller.updateDirectory)
		router.Delete(":id", controller.deleteDirectory)
	})
	app.Route("documents", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Patch("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("versions", controller.versions)
			idRoute.Post("versions", controller.uploadVersion)
			idRoute.Get("versions/:ver", controller.downloadVersion)
		})
	})
	app.Route("permissions", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.listGrants)
		router.Post("", controller.addGrant)
		router.Delete(":id", controller.deleteGrant)
	})
}

// @Summary Каталоги
// @Tags Документы
// @Description Сортировка: родитель (корневые первыми), затем название
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {array} documentapimodels.Directory
// @router /api/v1/directories [get]
func (c *documentsApiController) listDirectories(ctx *fiber.Ctx) error {
	list, err := directorieshandler.Instance.List()
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Создать каталог
// @Tags Документы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		documentapimodels.DirectoryData	true	"request body"
// @Success 201 {object} documentapimodels.Directory
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @router /api/v1/directories [post]
func (c *documentsApiController) createDirectory(ctx *fiber.Ctx) error {
	var payload documentapimodels.DirectoryData
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := directorieshandler.Instance.Create(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Изменить каталог
// @Tags Документы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"directory ID"
// @Param	body				body		documentapimodels.DirectoryUpdate	true	"request body"
// @Success 200 {object} documentapimodels.Directory
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/directories/{id} [patch]
func (c *documentsApiController) updateDirectory(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload documentapimodels.DirectoryUpdate
	if err = c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := directorieshandler.Instance.Update(c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Удалить каталог
// @Tags Документы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"directory ID"
// @Success 204
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/directories/{id} [delete]
func (c *documentsApiController) deleteDirectory(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = directorieshandler.Instance.Delete(c.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}

// @Summary Список документов
// @Tags Документы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	directoryId	query	string	false	"каталог"
// @Param	q			query	string	false	"поиск по названию"
// @Param	limit		query	int		false	"limit"
// @Param	offset		query	int		false	"offset"
// @Success 200 {object} apimodels.ListResponse{items=[]documentapimodels.Document}
// @router /api/v1/documents [get]
func (c *documentsApiController) list(ctx *fiber.Ctx) error {
	filter := documentapimodels.DocumentFilter{
		Pagination:  c.GetPagination(ctx, apimodels.DefaultLimit, apimodels.MaxLimit),
		DirectoryID: ctx.Query("directoryId"),
		Q:           ctx.Query("q"),
	}
	list, total, err := documentshandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, total, filter.Pagination)
}

// @Summary Документ
// @Tags Документы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"document ID"
// @Success 200 {object} documentapimodels.Document
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/documents/{id} [get]
func (c *documentsApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := documentshandler.Instance.Get(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Создать документ
// @Tags Документы
// @Description Автор получает право admin на документ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		documentapimodels.DocumentData	true	"request body"
// @Success 201 {object} documentapimodels.Document
// @Failure 400 {object} apimodels.ErrorResponse
// @router /api/v1/documents [post]
func (c *documentsApiController) create(ctx *fiber.Ctx) error {
	var payload documentapimodels.DocumentData
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := documentshandler.Instance.Create(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Изменить документ
// @Tags Документы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"document ID"
// @Param	body				body		documentapimodels.DocumentUpdate	true	"request body"
// @Success 200 {object} documentapimodels.Document
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/documents/{id} [patch]
func (c *documentsApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload documentapimodels.DocumentUpdate
	if err = c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := documentshandler.Instance.Update(c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Удалить документ
// @Tags Документы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"document ID"
// @Success 204
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/documents/{id} [delete]
func (c *documentsApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = documentshandler.Instance.Delete(ctx.UserContext(), c.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}

// @Summary Версии документа
// @Tags Документы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"document ID"
// @Success 200 {array} documentapimodels.DocumentVersion
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/documents/{id}/versions [get]
func (c *documentsApiController) versions(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	list, err := documentshandler.Instance.Versions(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Загрузить новую версию
// @Tags Документы
// @Accept	multipart/form-data
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"document ID"
// @Param	file	formData	file	true	"файл"
// @Success 201 {object} documentapimodels.DocumentVersion
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @router /api/v1/documents/{id}/versions [post]
func (c *documentsApiController) uploadVersion(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	file, closer, err := c.FormFile(ctx, "file")
	if err != nil {
		return c.SendError(ctx, err)
	}
	defer closer.Close()
	resp, err := documentshandler.Instance.UploadVersion(ctx.UserContext(), c.GetActor(ctx), id, file)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Скачать версию
// @Tags Документы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"document ID"
// @Param 	ver 	path 		int  	true 	"номер версии"
// @Success 200 {file} file
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/documents/{id}/versions/{ver} [get]
func (c *documentsApiController) downloadVersion(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	version, err := strconv.Atoi(ctx.Params("ver"))
	if err != nil || version < 1 {
		return c.SendError(ctx, apperrors.BadRequest("Invalid version"))
	}
	meta, body, size, err := documentshandler.Instance.DownloadVersion(ctx.UserContext(), c.GetActor(ctx), id, version)
	if err != nil {
		return c.SendError(ctx, err)
	}
	contentType := ""
	if meta.Mime != nil {
		contentType = *meta.Mime
	}
	return c.SendStream(ctx, body, size, meta.OriginalName, contentType)
}

// @Summary Гранты на объект
// @Tags Права доступа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	objectType	query	string	true	"directory/document"
// @Param	objectId	query	string	true	"ID объекта"
// @Success 200 {array} documentapimodels.Permission
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @router /api/v1/permissions [get]
func (c *documentsApiController) listGrants(ctx *fiber.Ctx) error {
	objectType := models.ObjectType(strings.ToLower(strings.TrimSpace(ctx.Query("objectType"))))
	objectID := ctx.Query("objectId")
	if objectID == "" {
		return c.SendError(ctx, apperrors.BadRequest("Missing query parameter objectId"))
	}
	list, err := accesshandler.Instance.ListGrants(c.GetActor(ctx), objectType, objectID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Выдать грант
// @Tags Права доступа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		documentapimodels.PermissionData	true	"request body"
// @Success 201 {object} documentapimodels.Permission
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @router /api/v1/permissions [post]
func (c *documentsApiController) addGrant(ctx *fiber.Ctx) error {
	var payload documentapimodels.PermissionData
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := accesshandler.Instance.AddGrant(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Отозвать грант
// @Tags Права доступа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"permission ID"
// @Success 204
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/permissions/{id} [delete]
func (c *documentsApiController) deleteGrant(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = accesshandler.Instance.DeleteGrant(c.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}
