package dbmodels

import (
	"noblelift-backend/lib/utils/helpers"
	teamapimodels "noblelift-backend/models/api/team"
)

type Team struct {
	BaseCreatedModel
	Name        string  `gorm:"type:varchar(255);uniqueIndex"`
	Description *string `gorm:"type:text"`
	CreatedBy   *string `gorm:"type:varchar(36)"`
	Creator     *User   `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
}

func (r Team) ToModel() teamapimodels.Team {
	return teamapimodels.Team{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   helpers.ToMs(r.CreatedAt),
	}
}

type TeamMember struct {
	BaseCreatedModel
	TeamID string `gorm:"type:varchar(36);uniqueIndex:idx_team_member"`
	Team   *Team  `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	UserID string `gorm:"type:varchar(36);uniqueIndex:idx_team_member"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role   string `gorm:"type:varchar(32);default:member"`
}

func (r TeamMember) ToModel() teamapimodels.TeamMember {
	result := teamapimodels.TeamMember{
		ID:        r.ID,
		TeamID:    r.TeamID,
		UserID:    r.UserID,
		Role:      r.Role,
		CreatedAt: helpers.ToMs(r.CreatedAt),
	}
	if r.User != nil {
		user := r.User.ToModel()
		result.User = &user
	}
	return result
}
