package documentversionstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.DocumentVersion) (string, error)
	LastVersion(documentID string) (int, error)
	GetByVersion(documentID string, version int) (*dbmodels.DocumentVersion, error)
	ListByDocument(documentID string) ([]dbmodels.DocumentVersion, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.DocumentVersion) (string, error) {
	err := i.db.
		Omit("Document").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// LastVersion 0 если версий нет
func (i impl) LastVersion(documentID string) (int, error) {
	var last int
	err := i.db.
		Model(&dbmodels.DocumentVersion{}).
		Where("document_id = ?", documentID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&last).
		Error
	if err != nil {
		return 0, err
	}
	return last, nil
}

func (i impl) GetByVersion(documentID string, version int) (*dbmodels.DocumentVersion, error) {
	rec := dbmodels.DocumentVersion{}
	err := i.db.
		Where("document_id = ?", documentID).
		Where("version = ?", version).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByDocument(documentID string) ([]dbmodels.DocumentVersion, error) {
	list := []dbmodels.DocumentVersion{}
	err := i.db.
		Where("document_id = ?", documentID).
		Order("version DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
