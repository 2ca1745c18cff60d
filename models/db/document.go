package dbmodels

import (
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	documentapimodels "noblelift-backend/models/api/document"
)

type Directory struct {
	BaseCreatedModel
	ParentID *string    `gorm:"type:varchar(36);index"`
	Parent   *Directory `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Name     string     `gorm:"type:varchar(255)"`
}

func (r Directory) ToModel() documentapimodels.Directory {
	return documentapimodels.Directory{
		ID:        r.ID,
		ParentID:  r.ParentID,
		Name:      r.Name,
		CreatedAt: helpers.ToMs(r.CreatedAt),
	}
}

type Document struct {
	BaseModel
	DirectoryID *string    `gorm:"type:varchar(36);index"`
	Directory   *Directory `gorm:"foreignKey:DirectoryID;constraint:OnDelete:SET NULL"`
	Title       string     `gorm:"type:varchar(255)"`
	Description *string    `gorm:"type:text"`
	CreatedBy   *string    `gorm:"type:varchar(36)"`
	Creator     *User      `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
}

func (r Document) ToModel() documentapimodels.Document {
	return documentapimodels.Document{
		ID:          r.ID,
		DirectoryID: r.DirectoryID,
		Title:       r.Title,
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   helpers.ToMs(r.CreatedAt),
		UpdatedAt:   helpers.ToMs(r.UpdatedAt),
	}
}

type DocumentVersion struct {
	BaseCreatedModel
	DocumentID   string    `gorm:"type:varchar(36);uniqueIndex:idx_document_version"`
	Document     *Document `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
	Version      int       `gorm:"uniqueIndex:idx_document_version"`
	OriginalName string    `gorm:"type:varchar(255)"`
	Mime         *string   `gorm:"type:varchar(255)"`
	Size         int64
	StoragePath  string  `gorm:"type:varchar(1024)"`
	CreatedBy    *string `gorm:"type:varchar(36)"`
}

func (r DocumentVersion) ToModel() documentapimodels.DocumentVersion {
	return documentapimodels.DocumentVersion{
		ID:           r.ID,
		DocumentID:   r.DocumentID,
		Version:      r.Version,
		OriginalName: r.OriginalName,
		Mime:         r.Mime,
		Size:         r.Size,
		StoragePath:  r.StoragePath,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    helpers.ToMs(r.CreatedAt),
	}
}

// Permission грант доступа субъекта (пользователь/роль) к объекту
type Permission struct {
	ID          string              `gorm:"type:varchar(36);primaryKey;default:uuid_generate_v4()"`
	SubjectType models.SubjectType  `gorm:"type:varchar(16);index:idx_permission_subject"`
	SubjectID   string              `gorm:"type:varchar(36);index:idx_permission_subject"`
	ObjectType  models.ObjectType   `gorm:"type:varchar(16);index:idx_permission_object"`
	ObjectID    string              `gorm:"type:varchar(36);index:idx_permission_object"`
	Action      models.AccessAction `gorm:"type:varchar(16)"`
}

func (r Permission) ToModel() documentapimodels.Permission {
	return documentapimodels.Permission{
		ID:          r.ID,
		SubjectType: string(r.SubjectType),
		SubjectID:   r.SubjectID,
		ObjectType:  string(r.ObjectType),
		ObjectID:    r.ObjectID,
		Action:      string(r.Action),
	}
}
