package documentstore

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	documentapimodels "noblelift-backend/models/api/document"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Document) (string, error)
	GetByID(id string) (*dbmodels.Document, error)
	Update(id string, updMap map[string]interface{}) error
	Touch(id string, at time.Time) error
	Delete(id string) error
	List(filter documentapimodels.DocumentFilter) ([]dbmodels.Document, int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Document) (string, error) {
	err := i.db.
		Omit("Directory", "Creator").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Document, error) {
	rec := dbmodels.Document{}
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
		Model(&dbmodels.Document{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Touch(id string, at time.Time) error {
	return i.db.
		Model(&dbmodels.Document{}).
		Where("id = ?", id).
		Update("updated_at", at).
		Error
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Document{}).
		Error
}

func (i impl) applyFilter(tx *gorm.DB, filter documentapimodels.DocumentFilter) *gorm.DB {
	if filter.DirectoryID != "" {
		tx = tx.Where("directory_id = ?", filter.DirectoryID)
	}
	if filter.Q != "" {
		q := "%" + strings.ToLower(filter.Q) + "%"
		tx = tx.Where("(title ILIKE ? OR description ILIKE ?)", q, q)
	}
	return tx
}

func (i impl) List(filter documentapimodels.DocumentFilter) ([]dbmodels.Document, int64, error) {
	var total int64
	err := i.applyFilter(i.db.Model(&dbmodels.Document{}), filter).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}
	list := []dbmodels.Document{}
	err = i.applyFilter(i.db.Model(&dbmodels.Document{}), filter).
		Order("updated_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
