package taskfileshandler

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	audithandler "noblelift-backend/lib/audit"
	taskfilestore "noblelift-backend/lib/task-files/store"
	taskeventstore "noblelift-backend/lib/tasks/event-store"
	taskstore "noblelift-backend/lib/tasks/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
	dbmodels "noblelift-backend/models/db"
)

type fakeTaskStore struct {
	taskstore.Provider
	ids map[string]bool
}

func (f fakeTaskStore) GetByID(id string) (*dbmodels.Task, error) {
	if !f.ids[id] {
		return nil, nil
	}
	rec := dbmodels.Task{}
	rec.ID = id
	return &rec, nil
}

type fakeFileStore struct {
	files   map[string]dbmodels.TaskFile
	failAdd bool
}

func (f *fakeFileStore) Create(rec dbmodels.TaskFile) (string, error) {
	if f.failAdd {
		return "", errors.New("db is down")
	}
	rec.ID = "file-new"
	f.files[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeFileStore) GetByID(taskID, id string) (*dbmodels.TaskFile, error) {
	rec, ok := f.files[id]
	if !ok || rec.TaskID != taskID {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeFileStore) Delete(id string) error {
	delete(f.files, id)
	return nil
}

func (f *fakeFileStore) ListByTask(taskID string) ([]dbmodels.TaskFile, error) {
	result := []dbmodels.TaskFile{}
	for _, rec := range f.files {
		if rec.TaskID == taskID {
			result = append(result, rec)
		}
	}
	return result, nil
}

type fakeEventStore struct {
	taskeventstore.Provider
	types []models.TaskEventType
}

func (f *fakeEventStore) Create(rec dbmodels.TaskEvent) error {
	f.types = append(f.types, rec.Type)
	return nil
}

type fakeAudit struct {
	actions []models.AuditAction
}

func (f *fakeAudit) Write(actor models.Actor, action models.AuditAction, entity models.AuditEntity, entityID string, payload map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

type fakeBlobs struct {
	objects map[string][]byte
}

func (f *fakeBlobs) PutDocumentVersion(ctx context.Context, documentID string, version int, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeBlobs) PutTaskFile(ctx context.Context, taskID, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := "tasks/" + taskID + "/" + fileName
	f.objects[key] = body
	return key, nil
}

func (f *fakeBlobs) PutAvatar(ctx context.Context, userID, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeBlobs) GetFile(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, 0, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(body)), int64(len(body)), nil
}

func (f *fakeBlobs) DeleteFile(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

type testEnv struct {
	files  *fakeFileStore
	events *fakeEventStore
	audit  *fakeAudit
	blobs  *fakeBlobs
}

func getInstance() (impl, *testEnv) {
	env := &testEnv{
		files:  &fakeFileStore{files: map[string]dbmodels.TaskFile{}},
		events: &fakeEventStore{},
		audit:  &fakeAudit{},
		blobs:  &fakeBlobs{objects: map[string][]byte{}},
	}
	tasks := fakeTaskStore{ids: map[string]bool{"t1": true}}
	return impl{
		transaction: func(fc func(tx *gorm.DB) error) error { return fc(nil) },
		store:       func(tx *gorm.DB) taskfilestore.Provider { return env.files },
		taskStore:   func(tx *gorm.DB) taskstore.Provider { return tasks },
		eventStore:  func(tx *gorm.DB) taskeventstore.Provider { return env.events },
		audit:       func(tx *gorm.DB) audithandler.Writer { return env.audit },
		files:       env.blobs,
	}, env
}

func TestTaskFiles(t *testing.T) {
	actor := models.Actor{UserID: "u-emp", Role: models.EmployeeRole}
	upload := apimodels.UploadFile{Name: "act.pdf", ContentType: "application/pdf", Size: 4, Reader: strings.NewReader("%PDF")}

	t.Run(`upload download delete`, func(t *testing.T) {
		i, env := getInstance()
		ctx := context.Background()
		meta, err := i.Upload(ctx, actor, "t1", upload)
		require.NoError(t, err)
		require.Equal(t, "act.pdf", meta.OriginalName)
		require.Equal(t, "tasks/t1/act.pdf", meta.StoragePath)

		list, err := i.List("t1")
		require.NoError(t, err)
		require.Len(t, list, 1)

		_, body, size, err := i.Download(ctx, "t1", meta.ID)
		require.NoError(t, err)
		content, err := io.ReadAll(body)
		require.NoError(t, err)
		require.Equal(t, "%PDF", string(content))
		require.Equal(t, int64(4), size)

		require.NoError(t, i.Delete(ctx, actor, "t1", meta.ID))
		require.Empty(t, env.blobs.objects)
		require.Equal(t, []models.TaskEventType{models.TaskEventFileAdded, models.TaskEventFileRemoved}, env.events.types)
		require.Equal(t, []models.AuditAction{models.AuditFileAdd, models.AuditFileDelete}, env.audit.actions)
	})
	t.Run(`upload to missing task`, func(t *testing.T) {
		i, env := getInstance()
		_, err := i.Upload(context.Background(), actor, "t2", upload)
		require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
		require.Empty(t, env.blobs.objects)
	})
	t.Run(`failed insert removes object`, func(t *testing.T) {
		i, env := getInstance()
		env.files.failAdd = true
		_, err := i.Upload(context.Background(), actor, "t1", apimodels.UploadFile{Name: "a.txt", Size: 1, Reader: strings.NewReader("a")})
		require.Error(t, err)
		require.Empty(t, env.blobs.objects)
	})
	t.Run(`file of other task`, func(t *testing.T) {
		i, env := getInstance()
		env.files.files["f1"] = dbmodels.TaskFile{TaskID: "t9"}
		_, _, _, err := i.Download(context.Background(), "t1", "f1")
		require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
}
