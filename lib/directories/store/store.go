package directorystore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Directory) (string, error)
	GetByID(id string) (*dbmodels.Directory, error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List() ([]dbmodels.Directory, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Directory) (string, error) {
	err := i.db.
		Omit("Parent").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Directory, error) {
	rec := dbmodels.Directory{}
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Directory{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Directory{}).
		Error
}

func (i impl) List() ([]dbmodels.Directory, error) {
	list := []dbmodels.Directory{}
	err := i.db.
		Order("parent_id ASC NULLS FIRST").
		Order("name ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
