package taskfilestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TaskFile) (string, error)
	GetByID(taskID, id string) (*dbmodels.TaskFile, error)
	Delete(id string) error
	ListByTask(taskID string) ([]dbmodels.TaskFile, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TaskFile) (string, error) {
	err := i.db.
		Omit("Task", "Uploader").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(taskID, id string) (*dbmodels.TaskFile, error) {
	rec := dbmodels.TaskFile{}
	err := i.db.
		Where("id = ?", id).
		Where("task_id = ?", taskID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.TaskFile{}).
		Error
}

func (i impl) ListByTask(taskID string) ([]dbmodels.TaskFile, error) {
	list := []dbmodels.TaskFile{}
	err := i.db.
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
