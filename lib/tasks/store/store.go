package taskstore

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
	taskapimodels "noblelift-backend/models/api/task"
	dbmodels "noblelift-backend/models/db"
)

// Provider методы Take/Release/Assign/Unassign/Archive/Unarchive выполняют
// один UPDATE с условием; ok=false если ни одна строка не подошла под условие
type Provider interface {
	Create(rec dbmodels.Task) (string, error)
	GetByID(id string) (*dbmodels.Task, error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	DeleteByIDs(ids []string) (int64, error)
	DeleteByUser(userID string) error
	List(filter taskapimodels.TaskFilter) ([]dbmodels.Task, int64, error)
	ListAvailable(page apimodels.Pagination) ([]dbmodels.Task, int64, error)
	ListDone() ([]dbmodels.Task, error)
	Take(id, userID string) (ok bool, err error)
	Release(id, userID string) (ok bool, err error)
	Assign(id, assigneeID string) (ok bool, err error)
	Unassign(id string) (ok bool, err error)
	Archive(id string, at time.Time) (ok bool, err error)
	Unarchive(id string) (ok bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Task) (string, error) {
	err := i.db.
		Omit("Topic", "Assignee", "Creator").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Task, error) {
	rec := dbmodels.Task{}
	err := i.db.
		Where("id = ?", id).
		Preload("Topic").
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Task{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Task{}).
		Error
}

func (i impl) DeleteByIDs(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := i.db.
		Where("id IN ?", ids).
		Delete(&dbmodels.Task{})
	return result.RowsAffected, result.Error
}

func (i impl) DeleteByUser(userID string) error {
	return i.db.
		Where("creator_id = ? OR assignee_id = ?", userID, userID).
		Delete(&dbmodels.Task{}).
		Error
}

func (i impl) applyFilter(tx *gorm.DB, filter taskapimodels.TaskFilter) *gorm.DB {
	if filter.Q != "" {
		q := "%" + strings.ToLower(filter.Q) + "%"
		tx = tx.Where("(title ILIKE ? OR content ILIKE ?)", q, q)
	}
	if filter.Status != "" {
		tx = tx.Where("status_code = ?", filter.Status)
	}
	if filter.AssigneeID != "" {
		tx = tx.Where("assignee_id = ?", filter.AssigneeID)
	}
	if filter.TopicID != "" {
		tx = tx.Where("topic_id = ?", filter.TopicID)
	}
	if filter.IsPrivate != nil {
		tx = tx.Where("is_private = ?", *filter.IsPrivate)
	}
	if filter.Archived != nil {
		if *filter.Archived {
			tx = tx.Where("archived_at IS NOT NULL")
		} else {
			tx = tx.Where("archived_at IS NULL")
		}
	}
	return tx
}

func (i impl) List(filter taskapimodels.TaskFilter) ([]dbmodels.Task, int64, error) {
	var total int64
	err := i.applyFilter(i.db.Model(&dbmodels.Task{}), filter).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}
	list := []dbmodels.Task{}
	err = i.applyFilter(i.db.Model(&dbmodels.Task{}), filter).
		Preload("Topic").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (i impl) availableScope(tx *gorm.DB) *gorm.DB {
	return tx.
		Where("type = ?", models.TaskTypeCommon).
		Where("is_private = ?", false).
		Where("archived_at IS NULL").
		Where("assignee_id IS NULL")
}

func (i impl) ListAvailable(page apimodels.Pagination) ([]dbmodels.Task, int64, error) {
	var total int64
	err := i.availableScope(i.db.Model(&dbmodels.Task{})).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}
	list := []dbmodels.Task{}
	err = i.availableScope(i.db.Model(&dbmodels.Task{})).
		Preload("Topic").
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

func (i impl) ListDone() ([]dbmodels.Task, error) {
	list := []dbmodels.Task{}
	err := i.db.
		Where("status_code = ?", models.TaskStatusDone).
		Preload("Topic").
		Preload("Assignee").
		Preload("Creator").
		Order("created_at ASC, id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) guardedUpdate(id string, scope func(tx *gorm.DB) *gorm.DB, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Task{}).
		Where("id = ?", id)
	result := scope(tx).Updates(updMap)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (i impl) Take(id, userID string) (bool, error) {
	return i.guardedUpdate(id, i.availableScope, map[string]interface{}{
		"assignee_id": userID,
		"status_code": models.TaskStatusInProgress,
	})
}

func (i impl) Release(id, userID string) (bool, error) {
	return i.guardedUpdate(id, func(tx *gorm.DB) *gorm.DB {
		return tx.
			Where("assignee_id = ?", userID).
			Where("archived_at IS NULL")
	}, map[string]interface{}{
		"assignee_id": nil,
		"status_code": models.TaskStatusNew,
	})
}

func notArchived(tx *gorm.DB) *gorm.DB {
	return tx.Where("archived_at IS NULL")
}

func (i impl) Assign(id, assigneeID string) (bool, error) {
	return i.guardedUpdate(id, notArchived, map[string]interface{}{
		"assignee_id": assigneeID,
	})
}

func (i impl) Unassign(id string) (bool, error) {
	return i.guardedUpdate(id, notArchived, map[string]interface{}{
		"assignee_id": nil,
	})
}

func (i impl) Archive(id string, at time.Time) (bool, error) {
	return i.guardedUpdate(id, func(tx *gorm.DB) *gorm.DB {
		return tx.
			Where("status_code = ?", models.TaskStatusDone).
			Where("archived_at IS NULL")
	}, map[string]interface{}{
		"archived_at": at,
	})
}

func (i impl) Unarchive(id string) (bool, error) {
	return i.guardedUpdate(id, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("archived_at IS NOT NULL")
	}, map[string]interface{}{
		"archived_at": nil,
	})
}
