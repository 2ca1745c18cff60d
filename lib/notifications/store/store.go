package notificationstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	notificationapimodels "noblelift-backend/models/api/notification"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Notification) (*dbmodels.Notification, error)
	GetByID(userID, id string) (*dbmodels.Notification, error)
	List(userID string, filter notificationapimodels.NotificationFilter) ([]dbmodels.Notification, int64, error)
	ListUnread(userID string, limit int) ([]dbmodels.Notification, error)
	MarkRead(userID, id string, at time.Time) error
	MarkAllRead(userID string, at time.Time) error
	Delete(userID, id string) error
	ListNotEmailed(limit int) ([]dbmodels.Notification, error)
	SetEmailed(ids []string, at time.Time) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Notification) (*dbmodels.Notification, error) {
	err := i.db.
		Omit("User").
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(userID, id string) (*dbmodels.Notification, error) {
	rec := dbmodels.Notification{}
	err := i.db.
		Where("id = ?", id).
		Where("user_id = ?", userID).
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

func (i impl) scope(tx *gorm.DB, userID string, unreadOnly bool) *gorm.DB {
	tx = tx.Where("user_id = ?", userID)
	if unreadOnly {
		tx = tx.Where("is_read = ?", false)
	}
	return tx
}

func (i impl) List(userID string, filter notificationapimodels.NotificationFilter) ([]dbmodels.Notification, int64, error) {
	var total int64
	err := i.scope(i.db.Model(&dbmodels.Notification{}), userID, filter.UnreadOnly).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}
	list := []dbmodels.Notification{}
	err = i.scope(i.db.Model(&dbmodels.Notification{}), userID, filter.UnreadOnly).
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

func (i impl) ListUnread(userID string, limit int) ([]dbmodels.Notification, error) {
	list := []dbmodels.Notification{}
	err := i.scope(i.db.Model(&dbmodels.Notification{}), userID, true).
		Order("created_at ASC").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) MarkRead(userID, id string, at time.Time) error {
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		}).
		Error
}

func (i impl) MarkAllRead(userID string, at time.Time) error {
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		}).
		Error
}

func (i impl) Delete(userID, id string) error {
	return i.db.
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Delete(&dbmodels.Notification{}).
		Error
}

func (i impl) ListNotEmailed(limit int) ([]dbmodels.Notification, error) {
	list := []dbmodels.Notification{}
	err := i.db.
		Where("emailed_at IS NULL").
		Preload("User").
		Order("created_at ASC").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) SetEmailed(ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("id IN ?", ids).
		Update("emailed_at", at).
		Error
}
