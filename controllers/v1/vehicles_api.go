package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	vehicleshandler "noblelift-backend/lib/vehicles"
	apimodels "noblelift-backend/models/api"
	vehicleapimodels "noblelift-backend/models/api/vehicle"
)

type vehiclesApiController struct {
	controllers.BaseAPIController
}

func InitVehiclesApiRouters(app *fiber.App) {
	controller := vehiclesApiController{}
	app.Route("vehicles", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Patch("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Post("take", controller.take)
			idRoute.Post("release", controller.release)
			idRoute.Get("logs", controller.logs)
		})
	})
}

// @Summary Список автомобилей
// @Tags Автомобили
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	q			query	string	false	"поиск по номеру/марке/модели/цвету"
// @Param	status		query	string	false	"статус"
// @Param	holderId	query	string	false	"у кого автомобиль"
// @Param	limit		query	int		false	"limit"
// @Param	offset		query	int		false	"offset"
// @Success 200 {object} apimodels.ListResponse{items=[]vehicleapimodels.Vehicle}
// @router /api/v1/vehicles [get]
func (c *vehiclesApiController) list(ctx *fiber.Ctx) error {
	filter := vehicleapimodels.VehicleFilter{
		Pagination: c.GetPagination(ctx, apimodels.DefaultLimit, apimodels.MaxLimit),
		Q:          ctx.Query("q"),
		Status:     ctx.Query("status"),
		HolderID:   ctx.Query("holderId"),
	}
	list, total, err := vehicleshandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, total, filter.Pagination)
}

// @Summary Автомобиль
// @Tags Автомобили
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"vehicle ID"
// @Success 200 {object} vehicleapimodels.Vehicle
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/vehicles/{id} [get]
func (c *vehiclesApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := vehicleshandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Добавить автомобиль
// @Tags Автомобили
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		vehicleapimodels.VehicleCreate	true	"request body"
// @Success 201 {object} vehicleapimodels.Vehicle
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @router /api/v1/vehicles [post]
func (c *vehiclesApiController) create(ctx *fiber.Ctx) error {
	var payload vehicleapimodels.VehicleCreate
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := vehicleshandler.Instance.Create(c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Изменить автомобиль
// @Tags Автомобили
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"vehicle ID"
// @Param	body				body		vehicleapimodels.VehicleUpdate	true	"request body"
// @Success 200 {object} vehicleapimodels.Vehicle
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/vehicles/{id} [patch]
func (c *vehiclesApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var payload vehicleapimodels.VehicleUpdate
	if err = c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := vehicleshandler.Instance.Update(c.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Удалить автомобиль
// @Tags Автомобили
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"vehicle ID"
// @Success 204
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @router /api/v1/vehicles/{id} [delete]
func (c *vehiclesApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = vehicleshandler.Instance.Delete(c.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}

// @Summary Взять автомобиль
// @Tags Автомобили
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"vehicle ID"
// @Success 200 {object} vehicleapimodels.Vehicle
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @router /api/v1/vehicles/{id}/take [post]
func (c *vehiclesApiController) take(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := vehicleshandler.Instance.Take(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Вернуть автомобиль
// @Tags Автомобили
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"vehicle ID"
// @Success 200 {object} vehicleapimodels.Vehicle
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @router /api/v1/vehicles/{id}/release [post]
func (c *vehiclesApiController) release(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := vehicleshandler.Instance.Release(c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Журнал автомобиля
// @Tags Автомобили
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"vehicle ID"
// @Param	limit		query	int		false	"limit"
// @Param	offset		query	int		false	"offset"
// @Success 200 {object} apimodels.ListResponse{items=[]vehicleapimodels.VehicleLog}
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/vehicles/{id}/logs [get]
func (c *vehiclesApiController) logs(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	page := c.GetPagination(ctx, apimodels.AuditDefaultLimit, apimodels.MaxLimit)
	list, total, err := vehicleshandler.Instance.Logs(id, page)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, total, page)
}
