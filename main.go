package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"noblelift-backend/config"
	apiv1 "noblelift-backend/controllers/v1"
	"noblelift-backend/fiberlog"
	"noblelift-backend/initializers"
	"noblelift-backend/middleware"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	bodyLimit := config.Conf.App.BodyLimitMb * 1024 * 1024
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: swaggerFile,
		}))
	}

	//api
	apiV1 := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiV1.Use(middleware.WithBodyLimit(int64(bodyLimit)))
	app.Mount("/api/v1", apiV1)

	apiv1.InitSystemApiRouters(apiV1)
	apiv1.InitAuthApiRouters(apiV1)
	apiv1.InitProfileApiRouters(apiV1)
	apiv1.InitUsersApiRouters(apiV1)
	apiv1.InitTeamsApiRouters(apiV1)
	apiv1.InitTaskTopicsApiRouters(apiV1)
	apiv1.InitTasksApiRouters(apiV1)
	apiv1.InitVehiclesApiRouters(apiV1)
	apiv1.InitDocumentsApiRouters(apiV1)
	apiv1.InitNotificationsApiRouters(apiV1)
	apiv1.InitAuditApiRouters(apiV1)
	apiv1.InitWsRouters(apiV1)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
