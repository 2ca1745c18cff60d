package vehiclelogstore

import (
	"gorm.io/gorm"
	apimodels "noblelift-backend/models/api"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.VehicleLog) error
	ListByVehicle(vehicleID string, page apimodels.Pagination) ([]dbmodels.VehicleLog, int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.VehicleLog) error {
	return i.db.
		Omit("Vehicle", "User").
		Create(&rec).
		Error
}

func (i impl) ListByVehicle(vehicleID string, page apimodels.Pagination) ([]dbmodels.VehicleLog, int64, error) {
	var total int64
	err := i.db.
		Model(&dbmodels.VehicleLog{}).
		Where("vehicle_id = ?", vehicleID).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}
	list := []dbmodels.VehicleLog{}
	err = i.db.
		Where("vehicle_id = ?", vehicleID).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
