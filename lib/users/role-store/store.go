package rolestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"noblelift-backend/models"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Role) (string, error)
	GetByID(id string) (*dbmodels.Role, error)
	GetByCode(code models.UserRole) (*dbmodels.Role, error)
	List() ([]dbmodels.Role, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Role) (string, error) {
	err := i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Role, error) {
	rec := dbmodels.Role{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) GetByCode(code models.UserRole) (*dbmodels.Role, error) {
	rec := dbmodels.Role{}
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

func (i impl) List() ([]dbmodels.Role, error) {
	list := []dbmodels.Role{}
	err := i.db.
		Order("code ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
