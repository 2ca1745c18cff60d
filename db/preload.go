package db

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"noblelift-backend/config"
	profilestore "noblelift-backend/lib/profile/store"
	statusstore "noblelift-backend/lib/profile/status-store"
	usersstore "noblelift-backend/lib/users/store"
	rolestore "noblelift-backend/lib/users/role-store"
	authutils "noblelift-backend/lib/utils/auth-utils"
	"noblelift-backend/models"
	dbmodels "noblelift-backend/models/db"
)

func InitPreload() {
	fillRoles()
	fillProfileStatuses()
	addSuperAdmin()
}

func fillRoles() {
	store := rolestore.NewInstance(DB)
	for _, code := range models.DefaultRoles {
		existedRec, err := store.GetByCode(code)
		if err != nil {
			log.WithError(err).Error("ошибка заполнения ролей")
			return
		}
		if existedRec != nil {
			continue
		}
		_, err = store.Create(dbmodels.Role{Code: code, Name: code.ToHuman()})
		if err != nil {
			log.WithError(err).WithField("code", code).Error("ошибка добавления роли")
		}
	}
}

func fillProfileStatuses() {
	store := statusstore.NewInstance(DB)
	for _, code := range models.DefaultProfileStatuses {
		existedRec, err := store.GetByCode(code)
		if err != nil {
			log.WithError(err).Error("ошибка заполнения статусов профиля")
			return
		}
		if existedRec != nil {
			continue
		}
		err = store.Create(dbmodels.ProfileStatus{Code: code, Label: code.ToHuman()})
		if err != nil {
			log.WithError(err).WithField("code", code).Error("ошибка добавления статуса профиля")
		}
	}
}

func addSuperAdmin() {
	if config.Conf.Admin.Email == "" || config.Conf.Admin.Password == "" {
		log.Warn("суперадмин не добавлен, отсутствует настройка ADMIN_EMAIL или ADMIN_PASSWORD")
		return
	}
	userStore := usersstore.NewInstance(DB)
	existedRec, err := userStore.FindByEmail(config.Conf.Admin.Email)
	if err != nil {
		log.WithError(err).Error("ошибка добавления суперадмина")
		return
	}
	if existedRec != nil {
		return
	}
	role, err := rolestore.NewInstance(DB).GetByCode(models.SuperAdminRole)
	if err != nil || role == nil {
		log.WithError(err).Error("ошибка добавления суперадмина, роль не найдена")
		return
	}
	hash, err := authutils.HashPassword(config.Conf.Admin.Password)
	if err != nil {
		log.WithError(err).Error("ошибка добавления суперадмина")
		return
	}
	rec := dbmodels.User{
		Email:        strings.ToLower(strings.TrimSpace(config.Conf.Admin.Email)),
		PasswordHash: hash,
		FullName:     config.Conf.Admin.FullName,
		RoleID:       role.ID,
		IsActive:     true,
	}
	userID, err := userStore.Create(rec)
	if err != nil {
		log.WithError(err).Error("ошибка добавления суперадмина")
		return
	}
	err = profilestore.NewInstance(DB).Create(dbmodels.Profile{UserID: userID, StatusCode: models.StatusInOffice})
	if err != nil {
		log.WithError(err).Error("ошибка создания профиля суперадмина")
	}
}
