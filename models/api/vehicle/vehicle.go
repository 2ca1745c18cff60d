package vehicleapimodels

import (
	"strings"

	apimodels "noblelift-backend/models/api"
)

type Vehicle struct {
	ID        string  `json:"id"`
	Number    string  `json:"number"`
	Color     *string `json:"color"`
	Brand     *string `json:"brand"`
	Model     *string `json:"model"`
	Status    string  `json:"status"` // available/in_use/service/inactive
	HolderID  *string `json:"holderId"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

type VehicleCreate struct {
	Number string  `json:"number" validate:"required,max=32"`
	Color  *string `json:"color" validate:"omitempty,max=64"`
	Brand  *string `json:"brand" validate:"omitempty,max=64"`
	Model  *string `json:"model" validate:"omitempty,max=64"`
	Status string  `json:"status"`
}

func (r *VehicleCreate) Validate() error {
	r.Number = strings.TrimSpace(r.Number)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	return apimodels.ValidateStruct(r)
}

type VehicleUpdate struct {
	Number *string `json:"number" validate:"omitempty,min=1,max=32"`
	Color  *string `json:"color" validate:"omitempty,max=64"`
	Brand  *string `json:"brand" validate:"omitempty,max=64"`
	Model  *string `json:"model" validate:"omitempty,max=64"`
	Status *string `json:"status"`
}

func (r *VehicleUpdate) Validate() error {
	if r.Number != nil {
		number := strings.TrimSpace(*r.Number)
		r.Number = &number
	}
	if r.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &status
	}
	return apimodels.ValidateStruct(r)
}

type VehicleFilter struct {
	apimodels.Pagination
	Q        string
	Status   string
	HolderID string
}

type VehicleLog struct {
	ID        string         `json:"id"`
	VehicleID string         `json:"vehicleId"`
	UserID    *string        `json:"userId"`
	Action    string         `json:"action"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt int64          `json:"createdAt"`
}
