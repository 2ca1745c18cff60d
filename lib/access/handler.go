package accesshandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/db"
	permissionstore "noblelift-backend/lib/access/store"
	audithandler "noblelift-backend/lib/audit"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/models"
	documentapimodels "noblelift-backend/models/api/document"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	HasAccess(actor models.Actor, objectType models.ObjectType, objectID string, action models.AccessAction) bool
	ListGrants(actor models.Actor, objectType models.ObjectType, objectID string) ([]documentapimodels.Permission, error)
	AddGrant(actor models.Actor, data documentapimodels.PermissionData) (*documentapimodels.Permission, error)
	DeleteGrant(actor models.Actor, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:       permissionstore.NewInstance(db.DB),
		transaction: db.Transaction,
		txStore:     permissionstore.NewInstance,
		audit:       audithandler.NewHandlerWithTx,
	}
}

// NewHandlerWithTx проверка доступа внутри транзакции
func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store:       permissionstore.NewInstance(tx),
		transaction: func(fc func(tx *gorm.DB) error) error { return fc(tx) },
		txStore:     permissionstore.NewInstance,
		audit:       audithandler.NewHandlerWithTx,
	}
}

type impl struct {
	store       permissionstore.Provider
	transaction db.TxFunc
	txStore     func(tx *gorm.DB) permissionstore.Provider
	audit       func(tx *gorm.DB) audithandler.Writer
}

func (i impl) getLogger(actor models.Actor) *log.Entry {
	return log.WithField("user_id", actor.UserID)
}

// HasAccess суперадмин имеет доступ всегда, иначе ищется грант пользователя, затем грант роли.
// admin удовлетворяет любое действие. Ошибка чтения трактуется как отказ
func (i impl) HasAccess(actor models.Actor, objectType models.ObjectType, objectID string, action models.AccessAction) bool {
	if actor.Role.IsSuperAdmin() {
		return true
	}
	logger := i.getLogger(actor).
		WithField("object_type", objectType).
		WithField("object_id", objectID)
	actions := action.Satisfying()
	ok, err := i.store.Exists(models.SubjectUser, actor.UserID, objectType, objectID, actions)
	if err != nil {
		logger.WithError(err).Error("ошибка проверки доступа пользователя")
		return false
	}
	if ok {
		return true
	}
	if actor.RoleID == "" {
		return false
	}
	ok, err = i.store.Exists(models.SubjectRole, actor.RoleID, objectType, objectID, actions)
	if err != nil {
		logger.WithError(err).Error("ошибка проверки доступа роли")
		return false
	}
	return ok
}

func (i impl) ListGrants(actor models.Actor, objectType models.ObjectType, objectID string) ([]documentapimodels.Permission, error) {
	if !objectType.IsValid() {
		return nil, apperrors.BadRequest("Invalid object_type")
	}
	if !i.HasAccess(actor, objectType, objectID, models.ActionAdmin) {
		return nil, apperrors.Forbidden("Forbidden")
	}
	list, err := i.store.List(objectType, objectID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка грантов")
	}
	result := make([]documentapimodels.Permission, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

func (i impl) AddGrant(actor models.Actor, data documentapimodels.PermissionData) (*documentapimodels.Permission, error) {
	rec := dbmodels.Permission{
		SubjectType: models.SubjectType(data.SubjectType),
		SubjectID:   data.SubjectID,
		ObjectType:  models.ObjectType(data.ObjectType),
		ObjectID:    data.ObjectID,
		Action:      models.AccessAction(data.Action),
	}
	if !rec.SubjectType.IsValid() {
		return nil, apperrors.BadRequest("Invalid subject_type")
	}
	if !rec.ObjectType.IsValid() {
		return nil, apperrors.BadRequest("Invalid object_type")
	}
	if !rec.Action.IsValid() {
		return nil, apperrors.BadRequest("Invalid action")
	}
	if !i.HasAccess(actor, rec.ObjectType, rec.ObjectID, models.ActionAdmin) {
		return nil, apperrors.Forbidden("Forbidden")
	}
	err := i.transaction(func(tx *gorm.DB) error {
		id, err := i.txStore(tx).Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка добавления гранта")
		}
		rec.ID = id
		payload := map[string]any{
			"permId":      id,
			"subjectType": data.SubjectType,
			"subjectId":   data.SubjectID,
			"action":      data.Action,
		}
		return i.audit(tx).Write(actor, models.AuditPermAdd, models.AuditEntity(rec.ObjectType), rec.ObjectID, payload)
	})
	if err != nil {
		return nil, err
	}
	i.getLogger(actor).WithField("rec_id", rec.ID).Info("грант добавлен")
	result := rec.ToModel()
	return &result, nil
}

func (i impl) DeleteGrant(actor models.Actor, id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения гранта")
	}
	if rec == nil {
		return apperrors.NotFound("Permission not found")
	}
	if !i.HasAccess(actor, rec.ObjectType, rec.ObjectID, models.ActionAdmin) {
		return apperrors.Forbidden("Forbidden")
	}
	return i.transaction(func(tx *gorm.DB) error {
		if err := i.txStore(tx).Delete(id); err != nil {
			return errors.Wrap(err, "ошибка удаления гранта")
		}
		return i.audit(tx).Write(actor, models.AuditPermDel, models.AuditEntity(rec.ObjectType), rec.ObjectID, map[string]any{"permId": id})
	})
}
