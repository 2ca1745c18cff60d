package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	dbmodels "noblelift-backend/models/db"
)

func AutoMigrateDB(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
		return errors.Wrap(err, "ошибка создания расширения uuid-ossp")
	}
	log.Info("Запуск миграций")
	steps := []struct {
		name  string
		model any
	}{
		{"Role", &dbmodels.Role{}},
		{"User", &dbmodels.User{}},
		{"ProfileStatus", &dbmodels.ProfileStatus{}},
		{"Profile", &dbmodels.Profile{}},
		{"Team", &dbmodels.Team{}},
		{"TeamMember", &dbmodels.TeamMember{}},
		{"TaskTopic", &dbmodels.TaskTopic{}},
		{"Task", &dbmodels.Task{}},
		{"TaskEvent", &dbmodels.TaskEvent{}},
		{"TaskFile", &dbmodels.TaskFile{}},
		{"Vehicle", &dbmodels.Vehicle{}},
		{"VehicleLog", &dbmodels.VehicleLog{}},
		{"Directory", &dbmodels.Directory{}},
		{"Document", &dbmodels.Document{}},
		{"DocumentVersion", &dbmodels.DocumentVersion{}},
		{"Permission", &dbmodels.Permission{}},
		{"Notification", &dbmodels.Notification{}},
		{"PushSubscription", &dbmodels.PushSubscription{}},
		{"AuditLog", &dbmodels.AuditLog{}},
	}
	for _, step := range steps {
		if err := db.AutoMigrate(step.model); err != nil {
			return errors.Wrapf(err, "ошибка создания структуры %v", step.name)
		}
	}
	log.Info("Миграция прошла успешно")
	return nil
}
