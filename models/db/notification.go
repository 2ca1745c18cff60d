package dbmodels

import (
	"time"

	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	notificationapimodels "noblelift-backend/models/api/notification"
	wsmodels "noblelift-backend/models/ws"
)

type Notification struct {
	BaseCreatedModel
	UserID    string                  `gorm:"type:varchar(36);index"`
	User      *User                   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Type      models.NotificationType `gorm:"type:varchar(32)"`
	Title     string                  `gorm:"type:varchar(255)"`
	Message   *string                 `gorm:"type:text"`
	Data      JSONMap                 `gorm:"type:jsonb"`
	IsRead    bool                    `gorm:"default:false;index"`
	ReadAt    *time.Time
	EmailedAt *time.Time `gorm:"index"`
}

func (r Notification) ToModel() notificationapimodels.Notification {
	return notificationapimodels.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      string(r.Type),
		Title:     r.Title,
		Message:   r.Message,
		Data:      r.Data,
		IsRead:    r.IsRead,
		CreatedAt: helpers.ToMs(r.CreatedAt),
		ReadAt:    helpers.ToMsPtr(r.ReadAt),
	}
}

func (r Notification) ToServerMessage() wsmodels.ServerMessage {
	msg := wsmodels.ServerMessage{
		ToUserID: r.UserID,
		ID:       r.ID,
		Time:     helpers.ToMs(r.CreatedAt),
		Code:     string(r.Type),
		Title:    r.Title,
		Data:     r.Data,
	}
	if r.Message != nil {
		msg.Msg = *r.Message
	}
	return msg
}

type PushSubscription struct {
	BaseCreatedModel
	UserID   string `gorm:"type:varchar(36);index"`
	User     *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Endpoint string `gorm:"type:varchar(1024);uniqueIndex"`
	P256dh   string `gorm:"type:varchar(255)"`
	Auth     string `gorm:"type:varchar(255)"`
}

func (r PushSubscription) ToModel() notificationapimodels.PushSubscription {
	return notificationapimodels.PushSubscription{
		ID:        r.ID,
		UserID:    r.UserID,
		Endpoint:  r.Endpoint,
		P256dh:    r.P256dh,
		Auth:      r.Auth,
		CreatedAt: helpers.ToMs(r.CreatedAt),
	}
}
