package documentshandler

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/db"
	accesshandler "noblelift-backend/lib/access"
	permissionstore "noblelift-backend/lib/access/store"
	audithandler "noblelift-backend/lib/audit"
	directorystore "noblelift-backend/lib/directories/store"
	documentstore "noblelift-backend/lib/documents/store"
	documentversionstore "noblelift-backend/lib/documents/version-store"
	filestorage "noblelift-backend/lib/file-storage"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
	documentapimodels "noblelift-backend/models/api/document"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	List(filter documentapimodels.DocumentFilter) ([]documentapimodels.Document, int64, error)
	Get(actor models.Actor, id string) (*documentapimodels.Document, error)
	Create(actor models.Actor, data documentapimodels.DocumentData) (*documentapimodels.Document, error)
	Update(actor models.Actor, id string, data documentapimodels.DocumentUpdate) (*documentapimodels.Document, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	Versions(actor models.Actor, id string) ([]documentapimodels.DocumentVersion, error)
	UploadVersion(ctx context.Context, actor models.Actor, id string, file apimodels.UploadFile) (*documentapimodels.DocumentVersion, error)
	DownloadVersion(ctx context.Context, actor models.Actor, id string, version int) (meta *documentapimodels.DocumentVersion, body io.ReadCloser, size int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:              db.DB,
		transaction:     db.Transaction,
		store:           documentstore.NewInstance,
		versionStore:    documentversionstore.NewInstance,
		directoryStore:  directorystore.NewInstance,
		permissionStore: permissionstore.NewInstance,
		audit:           audithandler.NewHandlerWithTx,
		files:           filestorage.Instance,
		hasAccess: func(actor models.Actor, objectType models.ObjectType, objectID string, action models.AccessAction) bool {
			return accesshandler.Instance.HasAccess(actor, objectType, objectID, action)
		},
	}
}

type impl struct {
	db              *gorm.DB
	transaction     db.TxFunc
	store           func(tx *gorm.DB) documentstore.Provider
	versionStore    func(tx *gorm.DB) documentversionstore.Provider
	directoryStore  func(tx *gorm.DB) directorystore.Provider
	permissionStore func(tx *gorm.DB) permissionstore.Provider
	audit           func(tx *gorm.DB) audithandler.Writer
	files           filestorage.Provider
	hasAccess       func(actor models.Actor, objectType models.ObjectType, objectID string, action models.AccessAction) bool
}

func (i impl) getLogger(documentID string) *log.Entry {
	return log.WithField("document_id", documentID)
}

// getChecked документ с проверкой права action, 404 раньше 403
func (i impl) getChecked(tx *gorm.DB, actor models.Actor, id string, action models.AccessAction) (*dbmodels.Document, error) {
	rec, err := i.store(tx).GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения документа")
	}
	if rec == nil {
		return nil, apperrors.NotFound("Document not found")
	}
	if !i.hasAccess(actor, models.ObjectDocument, id, action) {
		return nil, apperrors.Forbidden("Forbidden")
	}
	return rec, nil
}

func (i impl) checkDirectory(tx *gorm.DB, directoryID *string) error {
	if directoryID == nil {
		return nil
	}
	rec, err := i.directoryStore(tx).GetByID(*directoryID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения каталога")
	}
	if rec == nil {
		return apperrors.BadRequest("Directory not found")
	}
	return nil
}

func (i impl) List(filter documentapimodels.DocumentFilter) ([]documentapimodels.Document, int64, error) {
	list, total, err := i.store(i.db).List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка документов")
	}
	result := make([]documentapimodels.Document, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, total, nil
}

func (i impl) Get(actor models.Actor, id string) (*documentapimodels.Document, error) {
	rec, err := i.getChecked(i.db, actor, id, models.ActionRead)
	if err != nil {
		return nil, err
	}
	result := rec.ToModel()
	return &result, nil
}

// Create создатель получает грант admin на документ
func (i impl) Create(actor models.Actor, data documentapimodels.DocumentData) (*documentapimodels.Document, error) {
	rec := dbmodels.Document{
		DirectoryID: helpers.EmptyToNil(data.DirectoryID),
		Title:       data.Title,
		Description: data.Description,
		CreatedBy:   helpers.EmptyToNil(helpers.StrPtr(actor.UserID)),
	}
	var result *dbmodels.Document
	err := i.transaction(func(tx *gorm.DB) error {
		if err := i.checkDirectory(tx, rec.DirectoryID); err != nil {
			return err
		}
		store := i.store(tx)
		id, err := store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания документа")
		}
		_, err = i.permissionStore(tx).Create(dbmodels.Permission{
			SubjectType: models.SubjectUser,
			SubjectID:   actor.UserID,
			ObjectType:  models.ObjectDocument,
			ObjectID:    id,
			Action:      models.ActionAdmin,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка добавления гранта создателю документа")
		}
		if err = i.audit(tx).Write(actor, models.AuditCreate, models.EntityDocument, id, map[string]any{"title": rec.Title}); err != nil {
			return err
		}
		result, err = store.GetByID(id)
		return errors.Wrap(err, "ошибка получения документа")
	})
	if err != nil {
		return nil, err
	}
	document := result.ToModel()
	return &document, nil
}

func (i impl) Update(actor models.Actor, id string, data documentapimodels.DocumentUpdate) (*documentapimodels.Document, error) {
	var result *dbmodels.Document
	err := i.transaction(func(tx *gorm.DB) error {
		if _, err := i.getChecked(tx, actor, id, models.ActionWrite); err != nil {
			return err
		}
		updMap := map[string]interface{}{}
		if data.DirectoryID != nil {
			directoryID := helpers.EmptyToNil(data.DirectoryID)
			if err := i.checkDirectory(tx, directoryID); err != nil {
				return err
			}
			updMap["directory_id"] = directoryID
		}
		if data.Title != nil {
			updMap["title"] = *data.Title
		}
		if data.Description != nil {
			updMap["description"] = *data.Description
		}
		store := i.store(tx)
		if err := store.Update(id, updMap); err != nil {
			return errors.Wrap(err, "ошибка обновления документа")
		}
		if len(updMap) != 0 {
			if err := i.audit(tx).Write(actor, models.AuditUpdate, models.EntityDocument, id, nil); err != nil {
				return err
			}
		}
		var err error
		result, err = store.GetByID(id)
		return errors.Wrap(err, "ошибка получения документа")
	})
	if err != nil {
		return nil, err
	}
	document := result.ToModel()
	return &document, nil
}

// Delete файлы версий удаляются из хранилища после коммита
func (i impl) Delete(ctx context.Context, actor models.Actor, id string) error {
	var keys []string
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения документа")
		}
		if rec == nil {
			return apperrors.NotFound("Document not found")
		}
		if !actor.Role.IsSuperAdmin() {
			return apperrors.Forbidden("Forbidden")
		}
		versions, err := i.versionStore(tx).ListByDocument(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения версий документа")
		}
		for _, version := range versions {
			keys = append(keys, version.StoragePath)
		}
		if err = store.Delete(id); err != nil {
			return errors.Wrap(err, "ошибка удаления документа")
		}
		if err = i.permissionStore(tx).DeleteByObject(models.ObjectDocument, id); err != nil {
			return errors.Wrap(err, "ошибка удаления грантов документа")
		}
		return i.audit(tx).Write(actor, models.AuditDelete, models.EntityDocument, id, map[string]any{"title": rec.Title})
	})
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err = i.files.DeleteFile(ctx, key); err != nil {
			i.getLogger(id).WithError(err).Warn("не удалось удалить файл версии из хранилища")
		}
	}
	return nil
}

func (i impl) Versions(actor models.Actor, id string) ([]documentapimodels.DocumentVersion, error) {
	if _, err := i.getChecked(i.db, actor, id, models.ActionRead); err != nil {
		return nil, err
	}
	list, err := i.versionStore(i.db).ListByDocument(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения версий документа")
	}
	result := make([]documentapimodels.DocumentVersion, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

// UploadVersion номер версии равен последнему плюс один. Строка версии вставляется до загрузки файла:
// при одновременной загрузке уникальный индекс (document_id, version) пропускает одну, остальные получают 409
func (i impl) UploadVersion(ctx context.Context, actor models.Actor, id string, file apimodels.UploadFile) (*documentapimodels.DocumentVersion, error) {
	if _, err := i.getChecked(i.db, actor, id, models.ActionWrite); err != nil {
		return nil, err
	}
	var rec dbmodels.DocumentVersion
	uploaded := false
	err := i.transaction(func(tx *gorm.DB) error {
		versionStore := i.versionStore(tx)
		last, err := versionStore.LastVersion(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения последней версии документа")
		}
		rec = dbmodels.DocumentVersion{
			DocumentID:   id,
			Version:      last + 1,
			OriginalName: file.Name,
			Mime:         helpers.EmptyToNil(helpers.StrPtr(file.ContentType)),
			Size:         file.Size,
			StoragePath:  filestorage.DocumentVersionKey(id, last+1, file.Name),
			CreatedBy:    helpers.EmptyToNil(helpers.StrPtr(actor.UserID)),
		}
		rec.ID, err = versionStore.Create(rec)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("Version was uploaded concurrently")
			}
			return errors.Wrap(err, "ошибка сохранения версии документа")
		}
		rec.StoragePath, err = i.files.PutDocumentVersion(ctx, id, rec.Version, file.Name, file.Reader, file.Size, file.ContentType)
		if err != nil {
			return err
		}
		uploaded = true
		if err = i.store(tx).Touch(id, time.Now()); err != nil {
			return errors.Wrap(err, "ошибка обновления документа")
		}
		return i.audit(tx).Write(actor, models.AuditVersionAdd, models.EntityDocument, id, map[string]any{
			"name":    file.Name,
			"version": rec.Version,
		})
	})
	if err != nil {
		if uploaded {
			if delErr := i.files.DeleteFile(context.Background(), rec.StoragePath); delErr != nil {
				i.getLogger(id).WithError(delErr).Warn("не удалось удалить файл после ошибки сохранения")
			}
		}
		return nil, err
	}
	result := rec.ToModel()
	return &result, nil
}

func (i impl) DownloadVersion(ctx context.Context, actor models.Actor, id string, version int) (*documentapimodels.DocumentVersion, io.ReadCloser, int64, error) {
	if _, err := i.getChecked(i.db, actor, id, models.ActionRead); err != nil {
		return nil, nil, 0, err
	}
	rec, err := i.versionStore(i.db).GetByVersion(id, version)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "ошибка получения версии документа")
	}
	if rec == nil {
		return nil, nil, 0, apperrors.NotFound("Version not found")
	}
	body, size, err := i.files.GetFile(ctx, rec.StoragePath)
	if err != nil {
		return nil, nil, 0, err
	}
	meta := rec.ToModel()
	return &meta, body, size, nil
}
