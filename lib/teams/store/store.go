package teamstore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	teamapimodels "noblelift-backend/models/api/team"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Team) (id string, err error)
	GetByID(id string) (*dbmodels.Team, error)
	FindByName(name string) (*dbmodels.Team, error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(filter teamapimodels.TeamFilter) (list []dbmodels.Team, total int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Team) (id string, err error) {
	err = i.db.
		Omit("Creator").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Team, error) {
	rec := dbmodels.Team{}
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

func (i impl) FindByName(name string) (*dbmodels.Team, error) {
	rec := dbmodels.Team{}
	err := i.db.
		Where("LOWER(name) = LOWER(?)", name).
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
		Model(&dbmodels.Team{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Team{}).
		Error
}

func (i impl) applyFilter(tx *gorm.DB, filter teamapimodels.TeamFilter) *gorm.DB {
	if filter.Q != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Q)+"%")
	}
	return tx
}

func (i impl) List(filter teamapimodels.TeamFilter) (list []dbmodels.Team, total int64, err error) {
	err = i.applyFilter(i.db.Model(&dbmodels.Team{}), filter).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}
	list = []dbmodels.Team{}
	err = i.applyFilter(i.db.Model(&dbmodels.Team{}), filter).
		Order("name ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
