package permissionstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"noblelift-backend/models"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Exists(subjectType models.SubjectType, subjectID string, objectType models.ObjectType, objectID string, actions []models.AccessAction) (bool, error)
	Create(rec dbmodels.Permission) (string, error)
	GetByID(id string) (*dbmodels.Permission, error)
	Delete(id string) error
	DeleteByObject(objectType models.ObjectType, objectID string) error
	List(objectType models.ObjectType, objectID string) ([]dbmodels.Permission, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Exists(subjectType models.SubjectType, subjectID string, objectType models.ObjectType, objectID string, actions []models.AccessAction) (bool, error) {
	var ids []string
	err := i.db.
		Model(&dbmodels.Permission{}).
		Where("subject_type = ?", subjectType).
		Where("subject_id = ?", subjectID).
		Where("object_type = ?", objectType).
		Where("object_id = ?", objectID).
		Where("action IN ?", actions).
		Limit(1).
		Pluck("id", &ids).
		Error
	if err != nil {
		return false, err
	}
	return len(ids) != 0, nil
}

func (i impl) Create(rec dbmodels.Permission) (string, error) {
	err := i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Permission, error) {
	rec := dbmodels.Permission{}
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

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Permission{}).
		Error
}

func (i impl) DeleteByObject(objectType models.ObjectType, objectID string) error {
	return i.db.
		Where("object_type = ?", objectType).
		Where("object_id = ?", objectID).
		Delete(&dbmodels.Permission{}).
		Error
}

func (i impl) List(objectType models.ObjectType, objectID string) ([]dbmodels.Permission, error) {
	list := []dbmodels.Permission{}
	err := i.db.
		Where("object_type = ?", objectType).
		Where("object_id = ?", objectID).
		Order("subject_type ASC, action ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
