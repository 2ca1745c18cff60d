package accesshandler

import (
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	permissionstore "noblelift-backend/lib/access/store"
	audithandler "noblelift-backend/lib/audit"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/models"
	documentapimodels "noblelift-backend/models/api/document"
	dbmodels "noblelift-backend/models/db"
)

type fakeStore struct {
	grants  []dbmodels.Permission
	failAll bool
}

func (f *fakeStore) Exists(subjectType models.SubjectType, subjectID string, objectType models.ObjectType, objectID string, actions []models.AccessAction) (bool, error) {
	if f.failAll {
		return false, errors.New("db is down")
	}
	for _, g := range f.grants {
		if g.SubjectType == subjectType && g.SubjectID == subjectID &&
			g.ObjectType == objectType && g.ObjectID == objectID &&
			slices.Contains(actions, g.Action) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(rec dbmodels.Permission) (string, error) {
	rec.ID = "perm-new"
	f.grants = append(f.grants, rec)
	return rec.ID, nil
}

func (f *fakeStore) GetByID(id string) (*dbmodels.Permission, error) {
	for _, g := range f.grants {
		if g.ID == id {
			rec := g
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Delete(id string) error {
	f.grants = slices.DeleteFunc(f.grants, func(g dbmodels.Permission) bool { return g.ID == id })
	return nil
}

func (f *fakeStore) DeleteByObject(objectType models.ObjectType, objectID string) error {
	return nil
}

func (f *fakeStore) List(objectType models.ObjectType, objectID string) ([]dbmodels.Permission, error) {
	result := []dbmodels.Permission{}
	for _, g := range f.grants {
		if g.ObjectType == objectType && g.ObjectID == objectID {
			result = append(result, g)
		}
	}
	return result, nil
}

type fakeAudit struct {
	actions []models.AuditAction
}

func (f *fakeAudit) Write(actor models.Actor, action models.AuditAction, entity models.AuditEntity, entityID string, payload map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

func getInstance(store *fakeStore, audit *fakeAudit) impl {
	return impl{
		store:       store,
		transaction: func(fc func(tx *gorm.DB) error) error { return fc(nil) },
		txStore:     func(tx *gorm.DB) permissionstore.Provider { return store },
		audit:       func(tx *gorm.DB) audithandler.Writer { return audit },
	}
}

var (
	superAdmin = models.Actor{UserID: "u-admin", RoleID: "r-admin", Role: models.SuperAdminRole}
	employee   = models.Actor{UserID: "u-emp", RoleID: "r-emp", Role: models.EmployeeRole}
)

func TestHasAccess(t *testing.T) {
	t.Run(`super admin bypasses grants`, func(t *testing.T) {
		i := getInstance(&fakeStore{failAll: true}, &fakeAudit{})
		require.True(t, i.HasAccess(superAdmin, models.ObjectDocument, "doc-1", models.ActionAdmin))
	})
	t.Run(`no grants deny`, func(t *testing.T) {
		i := getInstance(&fakeStore{}, &fakeAudit{})
		require.False(t, i.HasAccess(employee, models.ObjectDocument, "doc-1", models.ActionRead))
	})
	t.Run(`admin grant satisfies read and write`, func(t *testing.T) {
		store := &fakeStore{grants: []dbmodels.Permission{
			{ID: "p1", SubjectType: models.SubjectUser, SubjectID: employee.UserID, ObjectType: models.ObjectDocument, ObjectID: "doc-1", Action: models.ActionAdmin},
		}}
		i := getInstance(store, &fakeAudit{})
		require.True(t, i.HasAccess(employee, models.ObjectDocument, "doc-1", models.ActionRead))
		require.True(t, i.HasAccess(employee, models.ObjectDocument, "doc-1", models.ActionWrite))
		require.False(t, i.HasAccess(employee, models.ObjectDocument, "doc-2", models.ActionRead))
		require.False(t, i.HasAccess(employee, models.ObjectDirectory, "doc-1", models.ActionRead))
	})
	t.Run(`read grant does not satisfy write`, func(t *testing.T) {
		store := &fakeStore{grants: []dbmodels.Permission{
			{ID: "p1", SubjectType: models.SubjectUser, SubjectID: employee.UserID, ObjectType: models.ObjectDocument, ObjectID: "doc-1", Action: models.ActionRead},
		}}
		i := getInstance(store, &fakeAudit{})
		require.True(t, i.HasAccess(employee, models.ObjectDocument, "doc-1", models.ActionRead))
		require.False(t, i.HasAccess(employee, models.ObjectDocument, "doc-1", models.ActionWrite))
		require.False(t, i.HasAccess(employee, models.ObjectDocument, "doc-1", models.ActionAdmin))
	})
	t.Run(`role grant`, func(t *testing.T) {
		store := &fakeStore{grants: []dbmodels.Permission{
			{ID: "p1", SubjectType: models.SubjectRole, SubjectID: employee.RoleID, ObjectType: models.ObjectDirectory, ObjectID: "dir-1", Action: models.ActionWrite},
		}}
		i := getInstance(store, &fakeAudit{})
		require.True(t, i.HasAccess(employee, models.ObjectDirectory, "dir-1", models.ActionWrite))
		noRole := models.Actor{UserID: employee.UserID, Role: models.EmployeeRole}
		require.False(t, i.HasAccess(noRole, models.ObjectDirectory, "dir-1", models.ActionWrite))
	})
	t.Run(`store error is deny`, func(t *testing.T) {
		i := getInstance(&fakeStore{failAll: true}, &fakeAudit{})
		require.False(t, i.HasAccess(employee, models.ObjectDocument, "doc-1", models.ActionRead))
	})
}

func TestGrants(t *testing.T) {
	validData := documentapimodels.PermissionData{
		SubjectType: "user",
		SubjectID:   employee.UserID,
		ObjectType:  "document",
		ObjectID:    "doc-1",
		Action:      "read",
	}

	t.Run(`invalid enums rejected`, func(t *testing.T) {
		i := getInstance(&fakeStore{}, &fakeAudit{})
		for _, mutate := range []func(d *documentapimodels.PermissionData){
			func(d *documentapimodels.PermissionData) { d.SubjectType = "group" },
			func(d *documentapimodels.PermissionData) { d.ObjectType = "folder" },
			func(d *documentapimodels.PermissionData) { d.Action = "delete" },
		} {
			data := validData
			mutate(&data)
			_, err := i.AddGrant(superAdmin, data)
			require.True(t, apperrors.IsCode(err, apperrors.CodeBadRequest))
		}
	})
	t.Run(`employee without admin grant forbidden`, func(t *testing.T) {
		i := getInstance(&fakeStore{}, &fakeAudit{})
		_, err := i.AddGrant(employee, validData)
		require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})
	t.Run(`add and delete are audited`, func(t *testing.T) {
		store := &fakeStore{}
		audit := &fakeAudit{}
		i := getInstance(store, audit)
		perm, err := i.AddGrant(superAdmin, validData)
		require.NoError(t, err)
		require.Equal(t, "perm-new", perm.ID)

		list, err := i.ListGrants(superAdmin, models.ObjectDocument, "doc-1")
		require.NoError(t, err)
		require.Len(t, list, 1)

		require.NoError(t, i.DeleteGrant(superAdmin, perm.ID))
		require.Equal(t, []models.AuditAction{models.AuditPermAdd, models.AuditPermDel}, audit.actions)

		err = i.DeleteGrant(superAdmin, perm.ID)
		require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
	t.Run(`holder of admin grant manages grants`, func(t *testing.T) {
		store := &fakeStore{grants: []dbmodels.Permission{
			{ID: "p1", SubjectType: models.SubjectUser, SubjectID: employee.UserID, ObjectType: models.ObjectDocument, ObjectID: "doc-1", Action: models.ActionAdmin},
		}}
		i := getInstance(store, &fakeAudit{})
		data := validData
		data.SubjectID = "u-other"
		_, err := i.AddGrant(employee, data)
		require.NoError(t, err)
	})
}
