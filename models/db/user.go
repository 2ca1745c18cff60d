package dbmodels

import (
	"noblelift-backend/lib/utils/helpers"
	userapimodels "noblelift-backend/models/api/user"
)

type User struct {
	BaseModel
	Email        string   `gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash string   `gorm:"type:varchar(255)"`
	FullName     string   `gorm:"type:varchar(255)"`
	Title        *string  `gorm:"type:varchar(255)"`
	Phone        *string  `gorm:"type:varchar(32)"`
	AvatarUrl    *string  `gorm:"type:varchar(500)"`
	RoleID       string   `gorm:"type:varchar(36);index"`
	Role         *Role    `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	IsActive     bool     `gorm:"default:true"`
	Profile      *Profile `gorm:"foreignKey:UserID"`
}

func (r User) ToModel() userapimodels.User {
	result := userapimodels.User{
		ID:        r.ID,
		Email:     r.Email,
		Phone:     r.Phone,
		FullName:  r.FullName,
		Title:     r.Title,
		AvatarUrl: r.AvatarUrl,
		RoleID:    r.RoleID,
		IsActive:  r.IsActive,
		CreatedAt: helpers.ToMs(r.CreatedAt),
	}
	if r.Role != nil {
		result.Role = r.Role.ToModel()
	}
	if r.Profile != nil {
		profile := r.Profile.ToModel()
		result.Profile = &profile
	}
	return result
}
