package taskfileshandler

import (
	"context"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/db"
	audithandler "noblelift-backend/lib/audit"
	filestorage "noblelift-backend/lib/file-storage"
	taskfilestore "noblelift-backend/lib/task-files/store"
	taskeventstore "noblelift-backend/lib/tasks/event-store"
	taskstore "noblelift-backend/lib/tasks/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
	taskapimodels "noblelift-backend/models/api/task"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	List(taskID string) ([]taskapimodels.TaskFile, error)
	Upload(ctx context.Context, actor models.Actor, taskID string, file apimodels.UploadFile) (*taskapimodels.TaskFile, error)
	Download(ctx context.Context, taskID, fileID string) (meta *taskapimodels.TaskFile, body io.ReadCloser, size int64, err error)
	Delete(ctx context.Context, actor models.Actor, taskID, fileID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:          db.DB,
		transaction: db.Transaction,
		store:       taskfilestore.NewInstance,
		taskStore:   taskstore.NewInstance,
		eventStore:  taskeventstore.NewInstance,
		audit:       audithandler.NewHandlerWithTx,
		files:       filestorage.Instance,
	}
}

type impl struct {
	db          *gorm.DB
	transaction db.TxFunc
	store       func(tx *gorm.DB) taskfilestore.Provider
	taskStore   func(tx *gorm.DB) taskstore.Provider
	eventStore  func(tx *gorm.DB) taskeventstore.Provider
	audit       func(tx *gorm.DB) audithandler.Writer
	files       filestorage.Provider
}

func (i impl) getLogger(taskID string) *log.Entry {
	return log.WithField("task_id", taskID)
}

func (i impl) checkTask(tx *gorm.DB, taskID string) error {
	rec, err := i.taskStore(tx).GetByID(taskID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения задачи")
	}
	if rec == nil {
		return apperrors.NotFound("Task not found")
	}
	return nil
}

func (i impl) List(taskID string) ([]taskapimodels.TaskFile, error) {
	if err := i.checkTask(i.db, taskID); err != nil {
		return nil, err
	}
	list, err := i.store(i.db).ListByTask(taskID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения файлов задачи")
	}
	result := make([]taskapimodels.TaskFile, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

// Upload файл кладется в хранилище до транзакции, при ошибке записи в БД объект удаляется
func (i impl) Upload(ctx context.Context, actor models.Actor, taskID string, file apimodels.UploadFile) (*taskapimodels.TaskFile, error) {
	if err := i.checkTask(i.db, taskID); err != nil {
		return nil, err
	}
	key, err := i.files.PutTaskFile(ctx, taskID, file.Name, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, err
	}
	rec := dbmodels.TaskFile{
		TaskID:       taskID,
		UploaderID:   helpers.EmptyToNil(helpers.StrPtr(actor.UserID)),
		OriginalName: file.Name,
		Mime:         helpers.EmptyToNil(helpers.StrPtr(file.ContentType)),
		Size:         file.Size,
		StoragePath:  key,
	}
	err = i.transaction(func(tx *gorm.DB) error {
		if err := i.checkTask(tx, taskID); err != nil {
			return err
		}
		id, err := i.store(tx).Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка сохранения файла задачи")
		}
		rec.ID = id
		payload := map[string]any{"name": file.Name, "size": file.Size}
		event := dbmodels.TaskEvent{
			TaskID:  taskID,
			ActorID: rec.UploaderID,
			Type:    models.TaskEventFileAdded,
			Payload: payload,
		}
		if err = i.eventStore(tx).Create(event); err != nil {
			return errors.Wrap(err, "ошибка записи истории задачи")
		}
		return i.audit(tx).Write(actor, models.AuditFileAdd, models.EntityTaskFile, taskID, map[string]any{
			"fileId": id,
			"name":   file.Name,
			"size":   file.Size,
		})
	})
	if err != nil {
		if delErr := i.files.DeleteFile(context.Background(), key); delErr != nil {
			i.getLogger(taskID).WithError(delErr).Warn("не удалось удалить файл после ошибки сохранения")
		}
		return nil, err
	}
	result := rec.ToModel()
	return &result, nil
}

func (i impl) Download(ctx context.Context, taskID, fileID string) (*taskapimodels.TaskFile, io.ReadCloser, int64, error) {
	rec, err := i.store(i.db).GetByID(taskID, fileID)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "ошибка получения файла задачи")
	}
	if rec == nil {
		return nil, nil, 0, apperrors.NotFound("File not found")
	}
	body, size, err := i.files.GetFile(ctx, rec.StoragePath)
	if err != nil {
		return nil, nil, 0, err
	}
	meta := rec.ToModel()
	return &meta, body, size, nil
}

// Delete объект в хранилище удаляется после коммита, ошибка удаления только логируется
func (i impl) Delete(ctx context.Context, actor models.Actor, taskID, fileID string) error {
	var storagePath string
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := store.GetByID(taskID, fileID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения файла задачи")
		}
		if rec == nil {
			return apperrors.NotFound("File not found")
		}
		if err = store.Delete(fileID); err != nil {
			return errors.Wrap(err, "ошибка удаления файла задачи")
		}
		payload := map[string]any{"id": fileID}
		event := dbmodels.TaskEvent{
			TaskID:  taskID,
			ActorID: helpers.EmptyToNil(helpers.StrPtr(actor.UserID)),
			Type:    models.TaskEventFileRemoved,
			Payload: payload,
		}
		if err = i.eventStore(tx).Create(event); err != nil {
			return errors.Wrap(err, "ошибка записи истории задачи")
		}
		storagePath = rec.StoragePath
		return i.audit(tx).Write(actor, models.AuditFileDelete, models.EntityTaskFile, taskID, map[string]any{
			"id":   fileID,
			"name": rec.OriginalName,
		})
	})
	if err != nil {
		return err
	}
	if err = i.files.DeleteFile(ctx, storagePath); err != nil {
		i.getLogger(taskID).WithError(err).Warn("не удалось удалить файл из хранилища")
	}
	return nil
}
