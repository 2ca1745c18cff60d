package dbmodels

import (
	"noblelift-backend/models"
	userapimodels "noblelift-backend/models/api/user"
)

type Role struct {
	ID   string          `gorm:"type:varchar(36);primaryKey;default:uuid_generate_v4()"`
	Code models.UserRole `gorm:"type:varchar(32);uniqueIndex"`
	Name string          `gorm:"type:varchar(64)"`
}

func (r Role) ToModel() userapimodels.Role {
	return userapimodels.Role{
		ID:   r.ID,
		Code: string(r.Code),
		Name: r.Name,
	}
}
