package directorieshandler

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"noblelift-backend/db"
	accesshandler "noblelift-backend/lib/access"
	permissionstore "noblelift-backend/lib/access/store"
	audithandler "noblelift-backend/lib/audit"
	directorystore "noblelift-backend/lib/directories/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	documentapimodels "noblelift-backend/models/api/document"
	dbmodels "noblelift-backend/models/db"
)

// maxDepth ограничение глубины обхода при проверке цикла родителей
const maxDepth = 64

type Provider interface {
	List() ([]documentapimodels.Directory, error)
	Create(actor models.Actor, data documentapimodels.DirectoryData) (*documentapimodels.Directory, error)
	Update(actor models.Actor, id string, data documentapimodels.DirectoryUpdate) (*documentapimodels.Directory, error)
	Delete(actor models.Actor, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:              db.DB,
		transaction:     db.Transaction,
		store:           directorystore.NewInstance,
		permissionStore: permissionstore.NewInstance,
		audit:           audithandler.NewHandlerWithTx,
		hasAccess: func(actor models.Actor, objectType models.ObjectType, objectID string, action models.AccessAction) bool {
			return accesshandler.Instance.HasAccess(actor, objectType, objectID, action)
		},
	}
}

type impl struct {
	db              *gorm.DB
	transaction     db.TxFunc
	store           func(tx *gorm.DB) directorystore.Provider
	permissionStore func(tx *gorm.DB) permissionstore.Provider
	audit           func(tx *gorm.DB) audithandler.Writer
	hasAccess       func(actor models.Actor, objectType models.ObjectType, objectID string, action models.AccessAction) bool
}

func (i impl) List() ([]documentapimodels.Directory, error) {
	list, err := i.store(i.db).List()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка каталогов")
	}
	result := make([]documentapimodels.Directory, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

// checkParent родитель должен существовать и не быть потомком перемещаемого каталога
func (i impl) checkParent(store directorystore.Provider, id, parentID string) error {
	current := parentID
	for depth := 0; depth < maxDepth; depth++ {
		if current == id {
			return apperrors.BadRequest("Directory cannot be its own parent")
		}
		rec, err := store.GetByID(current)
		if err != nil {
			return errors.Wrap(err, "ошибка получения каталога")
		}
		if rec == nil {
			if current == parentID {
				return apperrors.BadRequest("Parent directory not found")
			}
			return nil
		}
		if rec.ParentID == nil {
			return nil
		}
		current = *rec.ParentID
	}
	return apperrors.BadRequest("Directory tree is too deep")
}

func (i impl) Create(actor models.Actor, data documentapimodels.DirectoryData) (*documentapimodels.Directory, error) {
	if !actor.Role.IsSuperAdmin() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	rec := dbmodels.Directory{
		ParentID: helpers.EmptyToNil(data.ParentID),
		Name:     data.Name,
	}
	var result *dbmodels.Directory
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		if rec.ParentID != nil {
			if err := i.checkParent(store, "", *rec.ParentID); err != nil {
				return err
			}
		}
		id, err := store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания каталога")
		}
		if err = i.audit(tx).Write(actor, models.AuditCreate, models.EntityDirectory, id, map[string]any{"name": rec.Name}); err != nil {
			return err
		}
		result, err = store.GetByID(id)
		return errors.Wrap(err, "ошибка получения каталога")
	})
	if err != nil {
		return nil, err
	}
	directory := result.ToModel()
	return &directory, nil
}

// Update требуется право write на каталог
func (i impl) Update(actor models.Actor, id string, data documentapimodels.DirectoryUpdate) (*documentapimodels.Directory, error) {
	var result *dbmodels.Directory
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения каталога")
		}
		if rec == nil {
			return apperrors.NotFound("Directory not found")
		}
		if !i.hasAccess(actor, models.ObjectDirectory, id, models.ActionWrite) {
			return apperrors.Forbidden("Forbidden")
		}
		updMap := map[string]interface{}{}
		if data.Name != nil {
			updMap["name"] = *data.Name
		}
		if data.ParentID != nil {
			parentID := helpers.EmptyToNil(data.ParentID)
			if parentID != nil {
				if err = i.checkParent(store, id, *parentID); err != nil {
					return err
				}
			}
			updMap["parent_id"] = parentID
		}
		if err = store.Update(id, updMap); err != nil {
			return errors.Wrap(err, "ошибка обновления каталога")
		}
		if len(updMap) != 0 {
			if err = i.audit(tx).Write(actor, models.AuditUpdate, models.EntityDirectory, id, nil); err != nil {
				return err
			}
		}
		result, err = store.GetByID(id)
		return errors.Wrap(err, "ошибка получения каталога")
	})
	if err != nil {
		return nil, err
	}
	directory := result.ToModel()
	return &directory, nil
}

// Delete вложенные каталоги удаляются каскадно, документы остаются без каталога
func (i impl) Delete(actor models.Actor, id string) error {
	if !actor.Role.IsSuperAdmin() {
		return apperrors.Forbidden("Forbidden")
	}
	return i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения каталога")
		}
		if rec == nil {
			return apperrors.NotFound("Directory not found")
		}
		if err = store.Delete(id); err != nil {
			return errors.Wrap(err, "ошибка удаления каталога")
		}
		if err = i.permissionStore(tx).DeleteByObject(models.ObjectDirectory, id); err != nil {
			return errors.Wrap(err, "ошибка удаления грантов каталога")
		}
		return i.audit(tx).Write(actor, models.AuditDelete, models.EntityDirectory, id, map[string]any{"name": rec.Name})
	})
}
