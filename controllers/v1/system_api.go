package apiv1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"noblelift-backend/config"
	"noblelift-backend/controllers"
	"noblelift-backend/db"
)

type systemApiController struct {
	controllers.BaseAPIController
	startedAt time.Time
}

type healthResponse struct {
	Status    string `json:"status"`
	UptimeSec int64  `json:"uptimeSec"`
}

type versionResponse struct {
	App     string `json:"app"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func InitSystemApiRouters(app *fiber.App) {
	controller := systemApiController{startedAt: time.Now()}
	app.Get("health", controller.health)
	app.Get("version", controller.version)
}

// @Summary Проверка состояния
// @Tags Система
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @router /api/v1/health [get]
func (c *systemApiController) health(ctx *fiber.Ctx) error {
	resp := healthResponse{
		Status:    "ok",
		UptimeSec: int64(time.Since(c.startedAt).Seconds()),
	}
	if err := db.PingDB(); err != nil {
		c.GetLogger(ctx).WithError(err).Error("БД недоступна")
		resp.Status = "db_unavailable"
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Версия сервиса
// @Tags Система
// @Success 200 {object} versionResponse
// @router /api/v1/version [get]
func (c *systemApiController) version(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(versionResponse{
		App:     config.Conf.App.Name,
		Version: config.Conf.App.Version,
		Commit:  config.Conf.App.Commit,
	})
}
