package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	audithandler "noblelift-backend/lib/audit"
	apperrors "noblelift-backend/lib/utils/app-errors"
	apimodels "noblelift-backend/models/api"
	auditapimodels "noblelift-backend/models/api/audit"
)

type auditApiController struct {
	controllers.BaseAPIController
}

func InitAuditApiRouters(app *fiber.App) {
	controller := auditApiController{}
	app.Route("audit", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.list)
		router.Get("export", controller.export)
	})
}

func (c *auditApiController) parseFilter(ctx *fiber.Ctx) (auditapimodels.AuditFilter, error) {
	if !c.GetActor(ctx).Role.IsSuperAdmin() {
		return auditapimodels.AuditFilter{}, apperrors.Forbidden("Forbidden")
	}
	filter := auditapimodels.AuditFilter{
		Pagination: c.GetPagination(ctx, apimodels.AuditDefaultLimit, apimodels.AuditMaxLimit),
		ActorID:    ctx.Query("actorId"),
		Entity:     ctx.Query("entity"),
		EntityID:   ctx.Query("entityId"),
		Action:     ctx.Query("action"),
	}
	if since := ctx.QueryInt("since", 0); since > 0 {
		value := int64(since)
		filter.Since = &value
	}
	if until := ctx.QueryInt("until", 0); until > 0 {
		value := int64(until)
		filter.Until = &value
	}
	return filter, nil
}

// @Summary Журнал аудита
// @Tags Аудит
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	actorId		query	string	false	"пользователь"
// @Param	entity		query	string	false	"сущность"
// @Param	entityId	query	string	false	"ID сущности"
// @Param	action		query	string	false	"действие"
// @Param	since		query	int		false	"с (ms)"
// @Param	until		query	int		false	"по (ms)"
// @Param	limit		query	int		false	"limit, по умолчанию 50"
// @Param	offset		query	int		false	"offset"
// @Success 200 {object} apimodels.ListResponse{items=[]auditapimodels.AuditLog}
// @Failure 403 {object} apimodels.ErrorResponse
// @router /api/v1/audit [get]
func (c *auditApiController) list(ctx *fiber.Ctx) error {
	filter, err := c.parseFilter(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	list, total, err := audithandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, total, filter.Pagination)
}

// @Summary Выгрузка журнала аудита
// @Tags Аудит
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	actorId		query	string	false	"пользователь"
// @Param	entity		query	string	false	"сущность"
// @Param	entityId	query	string	false	"ID сущности"
// @Param	action		query	string	false	"действие"
// @Param	since		query	int		false	"с (ms)"
// @Param	until		query	int		false	"по (ms)"
// @Success 200 {file} file
// @Failure 403 {object} apimodels.ErrorResponse
// @router /api/v1/audit/export [get]
func (c *auditApiController) export(ctx *fiber.Ctx) error {
	filter, err := c.parseFilter(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	body, err := audithandler.Instance.Export(filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendBuffer(ctx, body, "audit.xlsx", mimeXLSX)
}
