package userapimodels

import (
	"strings"

	apimodels "noblelift-backend/models/api"
)

type Role struct {
	ID   string `json:"id"`
	Code string `json:"code"` // super_admin/manager/employee
	Name string `json:"name"`
}

type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FullName  string   `json:"fullName"`
	Title     *string  `json:"title"`
	Phone     *string  `json:"phone"`
	AvatarUrl *string  `json:"avatarUrl"`
	RoleID    string   `json:"roleId"`
	Role      Role     `json:"role"`
	IsActive  bool     `json:"isActive"`
	CreatedAt int64    `json:"createdAt"`
	Profile   *Profile `json:"profile,omitempty"`
}

type UserCreate struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	FullName string  `json:"fullName" validate:"required,max=255"`
	Title    *string `json:"title" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	RoleID   string  `json:"roleId" validate:"required"`
}

func (r *UserCreate) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	return apimodels.ValidateStruct(r)
}

type UserUpdate struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	FullName  *string `json:"fullName" validate:"omitempty,min=1,max=255"`
	Title     *string `json:"title" validate:"omitempty,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	AvatarUrl *string `json:"avatarUrl" validate:"omitempty,max=500"`
	RoleID    *string `json:"roleId"`
	IsActive  *bool   `json:"isActive"`
}

func (r *UserUpdate) Validate() error {
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}
	return apimodels.ValidateStruct(r)
}

// IsPrivileged изменения, доступные только супер админу
func (r UserUpdate) IsPrivileged() bool {
	return r.RoleID != nil || r.IsActive != nil || r.Email != nil
}

type UserFilter struct {
	apimodels.Pagination
	Q      string // поиск по email/ФИО
	Role   string // код роли
	Status string // код статуса профиля
}
