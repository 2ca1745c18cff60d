package initializers

import (
	"context"
	"time"

	"noblelift-backend/config"
	"noblelift-backend/db"
	"noblelift-backend/fiberlog"
	accesshandler "noblelift-backend/lib/access"
	audithandler "noblelift-backend/lib/audit"
	authhandler "noblelift-backend/lib/auth"
	directorieshandler "noblelift-backend/lib/directories"
	documentshandler "noblelift-backend/lib/documents"
	filestorage "noblelift-backend/lib/file-storage"
	notificationshandler "noblelift-backend/lib/notifications"
	mailworker "noblelift-backend/lib/notifications/mail-worker"
	profilehandler "noblelift-backend/lib/profile"
	"noblelift-backend/lib/rbac"
	"noblelift-backend/lib/smtp"
	taskfileshandler "noblelift-backend/lib/task-files"
	tasktopicshandler "noblelift-backend/lib/task-topics"
	taskshandler "noblelift-backend/lib/tasks"
	teamshandler "noblelift-backend/lib/teams"
	usershandler "noblelift-backend/lib/users"
	initchecker "noblelift-backend/lib/utils/init-checker"
	vehicleshandler "noblelift-backend/lib/vehicles"
	connectionhub "noblelift-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	tokens := InitRedis(ctx)
	rbac.NewHandler()

	// порядок важен: обработчики ниже используют hub, уведомления, доступ и аудит
	connectionhub.Init()
	notificationshandler.NewHandler()
	accesshandler.NewHandler()
	audithandler.NewHandler()

	authhandler.NewHandler(tokens)
	usershandler.NewHandler()
	profilehandler.NewHandler()
	teamshandler.NewHandler()
	tasktopicshandler.NewHandler()
	taskshandler.NewHandler()
	taskfileshandler.NewHandler()
	vehicleshandler.NewHandler()
	directorieshandler.NewHandler()
	documentshandler.NewHandler()

	initchecker.CheckInit(
		"db", db.DB,
		"filestorage", filestorage.Instance,
		"smtp", smtp.Instance,
		"rbac", rbac.Instance,
		"connectionhub", connectionhub.Instance,
		"notifications", notificationshandler.Instance,
		"access", accesshandler.Instance,
		"audit", audithandler.Instance,
		"auth", authhandler.Instance,
		"tasks", taskshandler.Instance,
		"vehicles", vehicleshandler.Instance,
		"documents", documentshandler.Instance,
	)
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Рассылка уведомлений по почте
	mailworker.StartWorker(ctx, time.Duration(config.Conf.Workers.MailDispatchIntervalSec)*time.Second)
}
