package vehiclestore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"noblelift-backend/models"
	vehicleapimodels "noblelift-backend/models/api/vehicle"
	dbmodels "noblelift-backend/models/db"
)

// Provider Take/Release/DeleteFree выполняются одним запросом с условием, ok=false если условие не выполнено
type Provider interface {
	Create(rec dbmodels.Vehicle) (string, error)
	GetByID(id string) (*dbmodels.Vehicle, error)
	FindByNumber(number string) (*dbmodels.Vehicle, error)
	Update(id string, updMap map[string]interface{}) error
	List(filter vehicleapimodels.VehicleFilter) ([]dbmodels.Vehicle, int64, error)
	Take(id, userID string) (ok bool, err error)
	Release(id, userID string) (ok bool, err error)
	DeleteFree(id string) (ok bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Vehicle) (string, error) {
	err := i.db.
		Omit("Holder").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Vehicle, error) {
	return i.first(i.db.Where("id = ?", id))
}

func (i impl) FindByNumber(number string) (*dbmodels.Vehicle, error) {
	return i.first(i.db.Where("number = ?", number))
}

func (i impl) first(tx *gorm.DB) (*dbmodels.Vehicle, error) {
	rec := dbmodels.Vehicle{}
	err := tx.First(&rec).Error
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
		Model(&dbmodels.Vehicle{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) applyFilter(tx *gorm.DB, filter vehicleapimodels.VehicleFilter) *gorm.DB {
	if filter.Q != "" {
		q := "%" + strings.ToLower(filter.Q) + "%"
		tx = tx.Where("(number ILIKE ? OR brand ILIKE ? OR model ILIKE ? OR color ILIKE ?)", q, q, q, q)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.HolderID != "" {
		tx = tx.Where("holder_id = ?", filter.HolderID)
	}
	return tx
}

func (i impl) List(filter vehicleapimodels.VehicleFilter) ([]dbmodels.Vehicle, int64, error) {
	var total int64
	err := i.applyFilter(i.db.Model(&dbmodels.Vehicle{}), filter).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}
	list := []dbmodels.Vehicle{}
	err = i.applyFilter(i.db.Model(&dbmodels.Vehicle{}), filter).
		Order("number ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (i impl) Take(id, userID string) (bool, error) {
	result := i.db.
		Model(&dbmodels.Vehicle{}).
		Where("id = ?", id).
		Where("holder_id IS NULL").
		Where("status = ?", models.VehicleStatusAvailable).
		Updates(map[string]interface{}{
			"holder_id": userID,
			"status":    models.VehicleStatusInUse,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (i impl) Release(id, userID string) (bool, error) {
	result := i.db.
		Model(&dbmodels.Vehicle{}).
		Where("id = ?", id).
		Where("holder_id = ?", userID).
		Updates(map[string]interface{}{
			"holder_id": nil,
			"status":    models.VehicleStatusAvailable,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (i impl) DeleteFree(id string) (bool, error) {
	result := i.db.
		Where("id = ?", id).
		Where("holder_id IS NULL").
		Delete(&dbmodels.Vehicle{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
