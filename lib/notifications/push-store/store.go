package pushstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.PushSubscription) (*dbmodels.PushSubscription, error)
	GetByEndpoint(endpoint string) (*dbmodels.PushSubscription, error)
	Update(id string, updMap map[string]interface{}) error
	DeleteByEndpoint(userID, endpoint string) error
	ListByUser(userID string) ([]dbmodels.PushSubscription, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.PushSubscription) (*dbmodels.PushSubscription, error) {
	err := i.db.
		Omit("User").
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByEndpoint(endpoint string) (*dbmodels.PushSubscription, error) {
	rec := dbmodels.PushSubscription{}
	err := i.db.
		Where("endpoint = ?", endpoint).
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
		Model(&dbmodels.PushSubscription{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) DeleteByEndpoint(userID, endpoint string) error {
	return i.db.
		Where("endpoint = ?", endpoint).
		Where("user_id = ?", userID).
		Delete(&dbmodels.PushSubscription{}).
		Error
}

func (i impl) ListByUser(userID string) ([]dbmodels.PushSubscription, error) {
	list := []dbmodels.PushSubscription{}
	err := i.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
