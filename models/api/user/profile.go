package userapimodels

import (
	"strings"

	apimodels "noblelift-backend/models/api"
)

type ProfileStatus struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type ProfileLinks struct {
	Telegram *string `json:"telegram,omitempty" validate:"omitempty,max=255"`
	Whatsapp *string `json:"whatsapp,omitempty" validate:"omitempty,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

type Profile struct {
	UserID        string         `json:"userId"`
	Status        ProfileStatus  `json:"status"`
	StatusPayload map[string]any `json:"statusPayload,omitempty"`
	Links         ProfileLinks   `json:"links"`
	ArrivedAt     *int64         `json:"arrivedAt"`
	LastSeenAt    *int64         `json:"lastSeenAt"`
}

type ProfileUpdate struct {
	Title     *string       `json:"title" validate:"omitempty,max=255"`
	AvatarUrl *string       `json:"avatarUrl" validate:"omitempty,max=500"`
	Links     *ProfileLinks `json:"links"`
}

func (r *ProfileUpdate) Validate() error {
	return apimodels.ValidateStruct(r)
}

type StatusChange struct {
	StatusCode string         `json:"statusCode" validate:"required,max=32"`
	Payload    map[string]any `json:"payload"`
}

func (r *StatusChange) Validate() error {
	r.StatusCode = strings.ToLower(strings.TrimSpace(r.StatusCode))
	return apimodels.ValidateStruct(r)
}
