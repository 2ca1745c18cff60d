package documentshandler

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	permissionstore "noblelift-backend/lib/access/store"
	audithandler "noblelift-backend/lib/audit"
	directorystore "noblelift-backend/lib/directories/store"
	documentstore "noblelift-backend/lib/documents/store"
	documentversionstore "noblelift-backend/lib/documents/version-store"
	filestorage "noblelift-backend/lib/file-storage"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
	documentapimodels "noblelift-backend/models/api/document"
	dbmodels "noblelift-backend/models/db"
)

type fakeDocStore struct {
	docs map[string]dbmodels.Document
}

func (f *fakeDocStore) Create(rec dbmodels.Document) (string, error) {
	rec.ID = "doc-new"
	f.docs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeDocStore) GetByID(id string) (*dbmodels.Document, error) {
	rec, ok := f.docs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeDocStore) Update(id string, updMap map[string]interface{}) error {
	rec := f.docs[id]
	if title, ok := updMap["title"]; ok {
		rec.Title = title.(string)
	}
	f.docs[id] = rec
	return nil
}

func (f *fakeDocStore) Touch(id string, at time.Time) error {
	return nil
}

func (f *fakeDocStore) Delete(id string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeDocStore) List(filter documentapimodels.DocumentFilter) ([]dbmodels.Document, int64, error) {
	return nil, 0, nil
}

type fakeVersionStore struct {
	versions []dbmodels.DocumentVersion
	conflict bool
}

func (f *fakeVersionStore) Create(rec dbmodels.DocumentVersion) (string, error) {
	if f.conflict {
		return "", gorm.ErrDuplicatedKey
	}
	rec.ID = "ver-new"
	f.versions = append(f.versions, rec)
	return rec.ID, nil
}

func (f *fakeVersionStore) LastVersion(documentID string) (int, error) {
	last := 0
	for _, rec := range f.versions {
		if rec.DocumentID == documentID && rec.Version > last {
			last = rec.Version
		}
	}
	return last, nil
}

func (f *fakeVersionStore) GetByVersion(documentID string, version int) (*dbmodels.DocumentVersion, error) {
	for _, rec := range f.versions {
		if rec.DocumentID == documentID && rec.Version == version {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeVersionStore) ListByDocument(documentID string) ([]dbmodels.DocumentVersion, error) {
	result := []dbmodels.DocumentVersion{}
	for _, rec := range f.versions {
		if rec.DocumentID == documentID {
			result = append(result, rec)
		}
	}
	return result, nil
}

type fakeDirectoryStore struct {
	directorystore.Provider
}

func (f fakeDirectoryStore) GetByID(id string) (*dbmodels.Directory, error) {
	if id != "dir-1" {
		return nil, nil
	}
	rec := dbmodels.Directory{Name: "Договоры"}
	rec.ID = id
	return &rec, nil
}

type fakePermissionStore struct {
	permissionstore.Provider
	grants  []dbmodels.Permission
	removed []string
}

func (f *fakePermissionStore) Create(rec dbmodels.Permission) (string, error) {
	f.grants = append(f.grants, rec)
	return "perm-new", nil
}

func (f *fakePermissionStore) DeleteByObject(objectType models.ObjectType, objectID string) error {
	f.removed = append(f.removed, objectID)
	return nil
}

func (f *fakePermissionStore) has(actor models.Actor, objectID string, action models.AccessAction) bool {
	if actor.Role.IsSuperAdmin() {
		return true
	}
	for _, g := range f.grants {
		if g.SubjectID == actor.UserID && g.ObjectID == objectID {
			for _, satisfying := range action.Satisfying() {
				if g.Action == satisfying {
					return true
				}
			}
		}
	}
	return false
}

type fakeAudit struct {
	actions []models.AuditAction
}

func (f *fakeAudit) Write(actor models.Actor, action models.AuditAction, entity models.AuditEntity, entityID string, payload map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

type fakeBlobs struct {
	filestorage.Provider
	objects map[string][]byte
	failPut bool
}

func (f *fakeBlobs) PutDocumentVersion(ctx context.Context, documentID string, version int, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	if f.failPut {
		return "", errors.New("bucket unavailable")
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := filestorage.DocumentVersionKey(documentID, version, fileName)
	f.objects[key] = body
	return key, nil
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
	docs     *fakeDocStore
	versions *fakeVersionStore
	perms    *fakePermissionStore
	audit    *fakeAudit
	blobs    *fakeBlobs
}

func getInstance() (impl, *testEnv) {
	env := &testEnv{
		docs:     &fakeDocStore{docs: map[string]dbmodels.Document{}},
		versions: &fakeVersionStore{},
		perms:    &fakePermissionStore{},
		audit:    &fakeAudit{},
		blobs:    &fakeBlobs{objects: map[string][]byte{}},
	}
	return impl{
		transaction:     func(fc func(tx *gorm.DB) error) error { return fc(nil) },
		store:           func(tx *gorm.DB) documentstore.Provider { return env.docs },
		versionStore:    func(tx *gorm.DB) documentversionstore.Provider { return env.versions },
		directoryStore:  func(tx *gorm.DB) directorystore.Provider { return fakeDirectoryStore{} },
		permissionStore: func(tx *gorm.DB) permissionstore.Provider { return env.perms },
		audit:           func(tx *gorm.DB) audithandler.Writer { return env.audit },
		files:           env.blobs,
		hasAccess: func(actor models.Actor, objectType models.ObjectType, objectID string, action models.AccessAction) bool {
			return env.perms.has(actor, objectID, action)
		},
	}, env
}

var (
	superAdmin = models.Actor{UserID: "u-admin", Role: models.SuperAdminRole}
	author     = models.Actor{UserID: "u-author", Role: models.EmployeeRole}
	stranger   = models.Actor{UserID: "u-stranger", Role: models.EmployeeRole}
)

func upload(name, body string) apimodels.UploadFile {
	return apimodels.UploadFile{Name: name, ContentType: "text/plain", Size: int64(len(body)), Reader: strings.NewReader(body)}
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	t.Run(`creator gets admin grant`, func(t *testing.T) {
		i, env := getInstance()
		doc, err := i.Create(author, documentapimodels.DocumentData{Title: "Регламент", DirectoryID: strPtr("dir-1")})
		require.NoError(t, err)
		require.Len(t, env.perms.grants, 1)
		grant := env.perms.grants[0]
		require.Equal(t, models.SubjectUser, grant.SubjectType)
		require.Equal(t, author.UserID, grant.SubjectID)
		require.Equal(t, models.ObjectDocument, grant.ObjectType)
		require.Equal(t, doc.ID, grant.ObjectID)
		require.Equal(t, models.ActionAdmin, grant.Action)

		_, err = i.Get(author, doc.ID)
		require.NoError(t, err)
		_, err = i.Update(author, doc.ID, documentapimodels.DocumentUpdate{Title: strPtr("Регламент v2")})
		require.NoError(t, err)
	})
	t.Run(`unknown directory`, func(t *testing.T) {
		i, _ := getInstance()
		_, err := i.Create(author, documentapimodels.DocumentData{Title: "x", DirectoryID: strPtr("dir-x")})
		require.True(t, apperrors.IsCode(err, apperrors.CodeBadRequest))
	})
	t.Run(`stranger is forbidden`, func(t *testing.T) {
		i, _ := getInstance()
		doc, err := i.Create(author, documentapimodels.DocumentData{Title: "Регламент"})
		require.NoError(t, err)
		_, err = i.Get(stranger, doc.ID)
		require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
		_, err = i.Versions(stranger, doc.ID)
		require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
		_, err = i.UploadVersion(ctx, stranger, doc.ID, upload("a.txt", "a"))
		require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
		_, err = i.Get(stranger, "doc-missing")
		require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
	t.Run(`versions increment`, func(t *testing.T) {
		i, env := getInstance()
		doc, err := i.Create(author, documentapimodels.DocumentData{Title: "Регламент"})
		require.NoError(t, err)
		v1, err := i.UploadVersion(ctx, author, doc.ID, upload("r.txt", "first"))
		require.NoError(t, err)
		v2, err := i.UploadVersion(ctx, author, doc.ID, upload("r.txt", "second"))
		require.NoError(t, err)
		require.Equal(t, 1, v1.Version)
		require.Equal(t, 2, v2.Version)
		require.Equal(t, "docs/doc-new/2/r.txt", v2.StoragePath)

		_, body, _, err := i.DownloadVersion(ctx, author, doc.ID, 1)
		require.NoError(t, err)
		content, err := io.ReadAll(body)
		require.NoError(t, err)
		require.Equal(t, "first", string(content))

		_, _, _, err = i.DownloadVersion(ctx, author, doc.ID, 3)
		require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
		require.Equal(t, []models.AuditAction{models.AuditCreate, models.AuditVersionAdd, models.AuditVersionAdd}, env.audit.actions)
	})
	t.Run(`concurrent version conflict`, func(t *testing.T) {
		i, env := getInstance()
		doc, err := i.Create(author, documentapimodels.DocumentData{Title: "Регламент"})
		require.NoError(t, err)
		env.versions.conflict = true
		_, err = i.UploadVersion(ctx, author, doc.ID, upload("r.txt", "late"))
		require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
		require.Empty(t, env.blobs.objects)
	})
	t.Run(`storage error`, func(t *testing.T) {
		i, env := getInstance()
		doc, err := i.Create(author, documentapimodels.DocumentData{Title: "Регламент"})
		require.NoError(t, err)
		env.blobs.failPut = true
		_, err = i.UploadVersion(ctx, author, doc.ID, upload("r.txt", "x"))
		require.Error(t, err)
	})
	t.Run(`delete`, func(t *testing.T) {
		i, env := getInstance()
		doc, err := i.Create(author, documentapimodels.DocumentData{Title: "Регламент"})
		require.NoError(t, err)
		_, err = i.UploadVersion(ctx, author, doc.ID, upload("r.txt", "x"))
		require.NoError(t, err)
		require.True(t, apperrors.IsCode(i.Delete(ctx, author, doc.ID), apperrors.CodeForbidden))
		require.NoError(t, i.Delete(ctx, superAdmin, doc.ID))
		require.Empty(t, env.blobs.objects)
		require.Equal(t, []string{doc.ID}, env.perms.removed)
		require.True(t, apperrors.IsCode(i.Delete(ctx, superAdmin, doc.ID), apperrors.CodeNotFound))
	})
}

func strPtr(s string) *string {
	return &s
}
