package profilestatusstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"noblelift-backend/models"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ProfileStatus) error
	GetByCode(code models.ProfileStatusCode) (*dbmodels.ProfileStatus, error)
	List() ([]dbmodels.ProfileStatus, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ProfileStatus) error {
	return i.db.Create(&rec).Error
}

func (i impl) GetByCode(code models.ProfileStatusCode) (*dbmodels.ProfileStatus, error) {
	rec := dbmodels.ProfileStatus{}
	err := i.db.
		Where("code = ?", code).
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

func (i impl) List() ([]dbmodels.ProfileStatus, error) {
	list := []dbmodels.ProfileStatus{}
	err := i.db.
		Order("code ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
