package teamapimodels

import (
	"strings"

	apimodels "noblelift-backend/models/api"
	userapimodels "noblelift-backend/models/api/user"
)

type Team struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedBy   *string `json:"createdBy"`
	CreatedAt   int64   `json:"createdAt"`
}

type TeamMember struct {
	ID        string              `json:"id"`
	TeamID    string              `json:"teamId"`
	UserID    string              `json:"userId"`
	Role      string              `json:"role"`
	CreatedAt int64               `json:"createdAt"`
	User      *userapimodels.User `json:"user,omitempty"`
}

type TeamData struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

func (r *TeamData) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return apimodels.ValidateStruct(r)
}

type TeamUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

func (r *TeamUpdate) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	return apimodels.ValidateStruct(r)
}

type MemberAdd struct {
	UserID string `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"omitempty,max=32"`
}

func (r *MemberAdd) Validate() error {
	if r.Role == "" {
		r.Role = "member"
	}
	return apimodels.ValidateStruct(r)
}

type TeamFilter struct {
	apimodels.Pagination
	Q string `query:"q"`
}
