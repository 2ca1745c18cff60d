package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"noblelift-backend/controllers"
	notificationshandler "noblelift-backend/lib/notifications"
	apimodels "noblelift-backend/models/api"
	notificationapimodels "noblelift-backend/models/api/notification"
)

type notificationsApiController struct {
	controllers.BaseAPIController
}

func InitNotificationsApiRouters(app *fiber.App) {
	controller := notificationsApiController{}
	app.Route("notifications", func(router fiber.Router) {
		useSecured(router)
		router.Get("", controller.list)
		router.Post("read-all", controller.markAllRead)
		router.Post(":id/read", controller.markRead)
		router.Delete(":id", controller.delete)
	})
	app.Route("push", func(router fiber.Router) {
		useSecured(router)
		router.Get("subscriptions", controller.subscriptions)
		router.Post("subscribe", controller.subscribe)
		router.Post("unsubscribe", controller.unsubscribe)
	})
}

// @Summary Уведомления
// @Tags Уведомления
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	unread	query	bool	false	"только непрочитанные"
// @Param	limit	query	int		false	"limit"
// @Param	offset	query	int		false	"offset"
// @Success 200 {object} apimodels.ListResponse{items=[]notificationapimodels.Notification}
// @router /api/v1/notifications [get]
func (c *notificationsApiController) list(ctx *fiber.Ctx) error {
	filter := notificationapimodels.NotificationFilter{
		Pagination: c.GetPagination(ctx, apimodels.DefaultLimit, apimodels.MaxLimit),
	}
	if unread := c.QueryBool(ctx, "unread"); unread != nil {
		filter.UnreadOnly = *unread
	}
	list, total, err := notificationshandler.Instance.List(c.GetActor(ctx).UserID, filter)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendList(ctx, list, total, filter.Pagination)
}

// @Summary Отметить прочитанным
// @Tags Уведомления
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"notification ID"
// @Success 200 {object} notificationapimodels.Notification
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/notifications/{id}/read [post]
func (c *notificationsApiController) markRead(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := notificationshandler.Instance.MarkRead(c.GetActor(ctx).UserID, id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Отметить все прочитанными
// @Tags Уведомления
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 204
// @router /api/v1/notifications/read-all [post]
func (c *notificationsApiController) markAllRead(ctx *fiber.Ctx) error {
	if err := notificationshandler.Instance.MarkAllRead(c.GetActor(ctx).UserID); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}

// @Summary Удалить уведомление
// @Tags Уведомления
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 		path 		string  true 	"notification ID"
// @Success 204
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/notifications/{id} [delete]
func (c *notificationsApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = notificationshandler.Instance.Delete(c.GetActor(ctx).UserID, id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}

// @Summary Push подписки
// @Tags Уведомления
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {array} notificationapimodels.PushSubscription
// @router /api/v1/push/subscriptions [get]
func (c *notificationsApiController) subscriptions(ctx *fiber.Ctx) error {
	list, err := notificationshandler.Instance.Subscriptions(c.GetActor(ctx).UserID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(list)
}

// @Summary Подписаться на push
// @Tags Уведомления
// @Description Существующий endpoint переходит к текущему пользователю
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		notificationapimodels.SubscribeRequest	true	"request body"
// @Success 201 {object} notificationapimodels.PushSubscription
// @Failure 422 {object} apimodels.ErrorResponse
// @router /api/v1/push/subscribe [post]
func (c *notificationsApiController) subscribe(ctx *fiber.Ctx) error {
	var payload notificationapimodels.SubscribeRequest
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := notificationshandler.Instance.Subscribe(c.GetActor(ctx).UserID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Отписаться от push
// @Tags Уведомления
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		notificationapimodels.UnsubscribeRequest	true	"request body"
// @Success 204
// @Failure 404 {object} apimodels.ErrorResponse
// @router /api/v1/push/unsubscribe [post]
func (c *notificationsApiController) unsubscribe(ctx *fiber.Ctx) error {
	var payload notificationapimodels.UnsubscribeRequest
	if err := c.ParseBody(ctx, &payload); err != nil {
		return c.SendError(ctx, err)
	}
	if err := notificationshandler.Instance.Unsubscribe(c.GetActor(ctx).UserID, payload.Endpoint); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendNoContent(ctx)
}
