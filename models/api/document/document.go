package documentapimodels

import (
	"strings"

	apimodels "noblelift-backend/models/api"
)

type Directory struct {
	ID        string  `json:"id"`
	ParentID  *string `json:"parentId"`
	Name      string  `json:"name"`
	CreatedAt int64   `json:"createdAt"`
}

type DirectoryData struct {
	ParentID *string `json:"parentId"`
	Name     string  `json:"name" validate:"required,max=255"`
}

func (r *DirectoryData) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return apimodels.ValidateStruct(r)
}

type DirectoryUpdate struct {
	ParentID *string `json:"parentId"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
}

func (r *DirectoryUpdate) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	return apimodels.ValidateStruct(r)
}

type Document struct {
	ID          string  `json:"id"`
	DirectoryID *string `json:"directoryId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CreatedBy   *string `json:"createdBy"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

type DocumentData struct {
	DirectoryID *string `json:"directoryId"`
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
}

func (r *DocumentData) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	return apimodels.ValidateStruct(r)
}

type DocumentUpdate struct {
	DirectoryID *string `json:"directoryId"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

func (r *DocumentUpdate) Validate() error {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
	}
	return apimodels.ValidateStruct(r)
}

type DocumentFilter struct {
	apimodels.Pagination
	DirectoryID string
	Q           string
}

type DocumentVersion struct {
	ID           string  `json:"id"`
	DocumentID   string  `json:"documentId"`
	Version      int     `json:"version"`
	OriginalName string  `json:"originalName"`
	Mime         *string `json:"mime"`
	Size         int64   `json:"size"`
	StoragePath  string  `json:"storagePath"`
	CreatedBy    *string `json:"createdBy"`
	CreatedAt    int64   `json:"createdAt"`
}

type Permission struct {
	ID          string `json:"id"`
	SubjectType string `json:"subjectType"` // user/role
	SubjectID   string `json:"subjectId"`
	ObjectType  string `json:"objectType"` // directory/document
	ObjectID    string `json:"objectId"`
	Action      string `json:"action"` // read/write/admin
}

type PermissionData struct {
	SubjectType string `json:"subjectType" validate:"required"`
	SubjectID   string `json:"subjectId" validate:"required"`
	ObjectType  string `json:"objectType" validate:"required"`
	ObjectID    string `json:"objectId" validate:"required"`
	Action      string `json:"action" validate:"required"`
}

// Validate значения перечислений проверяются в обработчике (400)
func (r *PermissionData) Validate() error {
	r.SubjectType = strings.ToLower(strings.TrimSpace(r.SubjectType))
	r.ObjectType = strings.ToLower(strings.TrimSpace(r.ObjectType))
	r.Action = strings.ToLower(strings.TrimSpace(r.Action))
	return apimodels.ValidateStruct(r)
}
