package profilestore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Profile) error
	GetByUserID(userID string) (*dbmodels.Profile, error)
	Update(userID string, updMap map[string]interface{}) error
	TouchLastSeen(userID string, at time.Time) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Profile) error {
	return i.db.
		Omit("User", "Status").
		Create(&rec).
		Error
}

func (i impl) GetByUserID(userID string) (*dbmodels.Profile, error) {
	rec := dbmodels.Profile{}
	err := i.db.
		Where("user_id = ?", userID).
		Preload("Status").
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

func (i impl) Update(userID string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Profile{}).
		Where("user_id = ?", userID).
		Updates(updMap).
		Error
}

func (i impl) TouchLastSeen(userID string, at time.Time) error {
	return i.db.
		Model(&dbmodels.Profile{}).
		Where("user_id = ?", userID).
		Update("last_seen_at", at).
		Error
}
