package authapimodels

import (
	"strings"

	apimodels "noblelift-backend/models/api"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return apimodels.ValidateStruct(r)
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}

func (r *PasswordChange) Validate() error {
	return apimodels.ValidateStruct(r)
}
