package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	userapimodels "noblelift-backend/models/api/user"
)

type ProfileStatus struct {
	Code  models.ProfileStatusCode `gorm:"type:varchar(32);primaryKey"`
	Label string                   `gorm:"type:varchar(64)"`
}

func (r ProfileStatus) ToModel() userapimodels.ProfileStatus {
	return userapimodels.ProfileStatus{
		Code:  string(r.Code),
		Label: r.Label,
	}
}

type Profile struct {
	UserID        string                   `gorm:"type:varchar(36);primaryKey"`
	User          *User                    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	StatusCode    models.ProfileStatusCode `gorm:"type:varchar(32);default:in_office"`
	Status        *ProfileStatus           `gorm:"foreignKey:StatusCode;constraint:OnDelete:RESTRICT"`
	StatusPayload JSONMap                  `gorm:"type:jsonb"`
	Links         ProfileLinks             `gorm:"type:jsonb"`
	ArrivedAt     *time.Time
	LastSeenAt    *time.Time
}

type ProfileLinks struct {
	Telegram *string `json:"telegram,omitempty"`
	Whatsapp *string `json:"whatsapp,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (j ProfileLinks) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *ProfileLinks) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	}
	return nil
}

func (r Profile) ToModel() userapimodels.Profile {
	result := userapimodels.Profile{
		UserID:        r.UserID,
		StatusPayload: r.StatusPayload,
		Links: userapimodels.ProfileLinks{
			Telegram: r.Links.Telegram,
			Whatsapp: r.Links.Whatsapp,
			Email:    r.Links.Email,
			Phone:    r.Links.Phone,
		},
		ArrivedAt:  helpers.ToMsPtr(r.ArrivedAt),
		LastSeenAt: helpers.ToMsPtr(r.LastSeenAt),
	}
	if r.Status != nil {
		result.Status = r.Status.ToModel()
	} else {
		result.Status = userapimodels.ProfileStatus{
			Code:  string(r.StatusCode),
			Label: r.StatusCode.ToHuman(),
		}
	}
	return result
}
