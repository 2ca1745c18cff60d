package taskeventstore

import (
	"gorm.io/gorm"
	apimodels "noblelift-backend/models/api"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TaskEvent) error
	ListByTask(taskID string, page apimodels.Pagination) ([]dbmodels.TaskEvent, int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TaskEvent) error {
	return i.db.
		Omit("Task", "Actor").
		Create(&rec).
		Error
}

func (i impl) ListByTask(taskID string, page apimodels.Pagination) ([]dbmodels.TaskEvent, int64, error) {
	var total int64
	err := i.db.
		Model(&dbmodels.TaskEvent{}).
		Where("task_id = ?", taskID).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}
	list := []dbmodels.TaskEvent{}
	err = i.db.
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
