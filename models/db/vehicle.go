package dbmodels

import (
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	vehicleapimodels "noblelift-backend/models/api/vehicle"
)

type Vehicle struct {
	BaseModel
	Number   string               `gorm:"type:varchar(32);uniqueIndex"`
	Color    *string              `gorm:"type:varchar(64)"`
	Brand    *string              `gorm:"type:varchar(64)"`
	Model    *string              `gorm:"type:varchar(64)"`
	Status   models.VehicleStatus `gorm:"type:varchar(16);default:available;index"`
	HolderID *string              `gorm:"type:varchar(36);index"`
	Holder   *User                `gorm:"foreignKey:HolderID;constraint:OnDelete:SET NULL"`
}

func (r Vehicle) IsHeld() bool {
	return r.HolderID != nil
}

func (r Vehicle) IsHeldBy(userID string) bool {
	return r.HolderID != nil && *r.HolderID == userID
}

func (r Vehicle) ToModel() vehicleapimodels.Vehicle {
	return vehicleapimodels.Vehicle{
		ID:        r.ID,
		Number:    r.Number,
		Color:     r.Color,
		Brand:     r.Brand,
		Model:     r.Model,
		Status:    string(r.Status),
		HolderID:  r.HolderID,
		CreatedAt: helpers.ToMs(r.CreatedAt),
		UpdatedAt: helpers.ToMs(r.UpdatedAt),
	}
}

type VehicleLog struct {
	BaseCreatedModel
	VehicleID string               `gorm:"type:varchar(36);index"`
	Vehicle   *Vehicle             `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
	UserID    *string              `gorm:"type:varchar(36)"`
	User      *User                `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Action    models.VehicleAction `gorm:"type:varchar(32)"`
	Payload   JSONMap              `gorm:"type:jsonb"`
}

func (r VehicleLog) ToModel() vehicleapimodels.VehicleLog {
	return vehicleapimodels.VehicleLog{
		ID:        r.ID,
		VehicleID: r.VehicleID,
		UserID:    r.UserID,
		Action:    string(r.Action),
		Payload:   r.Payload,
		CreatedAt: helpers.ToMs(r.CreatedAt),
	}
}
