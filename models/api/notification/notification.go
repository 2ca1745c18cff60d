package notificationapimodels

import (
	apimodels "noblelift-backend/models/api"
)

type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   *string        `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	IsRead    bool           `json:"isRead"`
	CreatedAt int64          `json:"createdAt"`
	ReadAt    *int64         `json:"readAt"`
}

type NotificationFilter struct {
	apimodels.Pagination
	UnreadOnly bool
}

type PushSubscription struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Endpoint  string `json:"endpoint"`
	P256dh    string `json:"p256dh"`
	Auth      string `json:"auth"`
	CreatedAt int64  `json:"createdAt"`
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url,max=1024"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required,max=255"`
		Auth   string `json:"auth" validate:"required,max=255"`
	} `json:"keys"`
}

func (r *SubscribeRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
}

func (r *UnsubscribeRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}
