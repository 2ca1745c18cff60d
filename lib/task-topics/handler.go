package tasktopicshandler

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"noblelift-backend/db"
	audithandler "noblelift-backend/lib/audit"
	tasktopicstore "noblelift-backend/lib/task-topics/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/models"
	taskapimodels "noblelift-backend/models/api/task"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	List() ([]taskapimodels.TaskTopic, error)
	Create(actor models.Actor, data taskapimodels.TopicData) (*taskapimodels.TaskTopic, error)
	Update(actor models.Actor, id string, data taskapimodels.TopicData) (*taskapimodels.TaskTopic, error)
	Delete(actor models.Actor, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:          db.DB,
		transaction: db.Transaction,
		store:       tasktopicstore.NewInstance,
		audit:       audithandler.NewHandlerWithTx,
	}
}

type impl struct {
	db          *gorm.DB
	transaction db.TxFunc
	store       func(tx *gorm.DB) tasktopicstore.Provider
	audit       func(tx *gorm.DB) audithandler.Writer
}

var errTopicExists = apperrors.BadRequest("Topic already exists")

func (i impl) List() ([]taskapimodels.TaskTopic, error) {
	list, err := i.store(i.db).List()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка тем")
	}
	result := make([]taskapimodels.TaskTopic, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

// checkName имена тем уникальны без учета регистра
func (i impl) checkName(store tasktopicstore.Provider, id, name string) error {
	existed, err := store.FindByName(name)
	if err != nil {
		return errors.Wrap(err, "ошибка поиска темы")
	}
	if existed != nil && existed.ID != id {
		return errTopicExists
	}
	return nil
}

func (i impl) Create(actor models.Actor, data taskapimodels.TopicData) (*taskapimodels.TaskTopic, error) {
	var result *dbmodels.TaskTopic
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		if err := i.checkName(store, "", data.Name); err != nil {
			return err
		}
		id, err := store.Create(dbmodels.TaskTopic{Name: data.Name})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errTopicExists
			}
			return errors.Wrap(err, "ошибка создания темы")
		}
		if err = i.audit(tx).Write(actor, models.AuditCreate, models.EntityTaskTopic, id, map[string]any{"name": data.Name}); err != nil {
			return err
		}
		result, err = store.GetByID(id)
		return errors.Wrap(err, "ошибка получения темы")
	})
	if err != nil {
		return nil, err
	}
	topic := result.ToModel()
	return &topic, nil
}

func (i impl) Update(actor models.Actor, id string, data taskapimodels.TopicData) (*taskapimodels.TaskTopic, error) {
	var result *dbmodels.TaskTopic
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения темы")
		}
		if rec == nil {
			return apperrors.NotFound("Topic not found")
		}
		if err = i.checkName(store, id, data.Name); err != nil {
			return err
		}
		err = store.Update(id, map[string]interface{}{"name": data.Name})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errTopicExists
			}
			return errors.Wrap(err, "ошибка обновления темы")
		}
		if err = i.audit(tx).Write(actor, models.AuditUpdate, models.EntityTaskTopic, id, map[string]any{"name": data.Name}); err != nil {
			return err
		}
		rec.Name = data.Name
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	topic := result.ToModel()
	return &topic, nil
}

func (i impl) Delete(actor models.Actor, id string) error {
	return i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения темы")
		}
		if rec == nil {
			return apperrors.NotFound("Topic not found")
		}
		if err = store.Delete(id); err != nil {
			return errors.Wrap(err, "ошибка удаления темы")
		}
		return i.audit(tx).Write(actor, models.AuditDelete, models.EntityTaskTopic, id, map[string]any{"name": rec.Name})
	})
}
