package tasktopicstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TaskTopic) (string, error)
	GetByID(id string) (*dbmodels.TaskTopic, error)
	FindByName(name string) (*dbmodels.TaskTopic, error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List() ([]dbmodels.TaskTopic, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TaskTopic) (string, error) {
	err := i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.TaskTopic, error) {
	return i.first(i.db.Where("id = ?", id))
}

func (i impl) FindByName(name string) (*dbmodels.TaskTopic, error) {
	return i.first(i.db.Where("LOWER(name) = LOWER(?)", name))
}

func (i impl) first(tx *gorm.DB) (*dbmodels.TaskTopic, error) {
	rec := dbmodels.TaskTopic{}
	err := tx.First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.TaskTopic{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.TaskTopic{}).
		Error
}

func (i impl) List() ([]dbmodels.TaskTopic, error) {
	list := []dbmodels.TaskTopic{}
	err := i.db.
		Order("name ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
