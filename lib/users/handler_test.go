package usershandler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	audithandler "noblelift-backend/lib/audit"
	profilestore "noblelift-backend/lib/profile/store"
	taskstore "noblelift-backend/lib/tasks/store"
	rolestore "noblelift-backend/lib/users/role-store"
	usersstore "noblelift-backend/lib/users/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/models"
	userapimodels "noblelift-backend/models/api/user"
	dbmodels "noblelift-backend/models/db"
)

type fakeUsersStore struct {
	users map[string]dbmodels.User
	seq   int
}

func (f *fakeUsersStore) Create(rec dbmodels.User) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("u-%v", f.seq)
	f.users[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeUsersStore) Update(userID string, updMap map[string]interface{}) error {
	rec := f.users[userID]
	if value, ok := updMap["email"]; ok {
		rec.Email = value.(string)
	}
	if value, ok := updMap["full_name"]; ok {
		rec.FullName = value.(string)
	}
	if value, ok := updMap["is_active"]; ok {
		rec.IsActive = value.(bool)
	}
	f.users[userID] = rec
	return nil
}

func (f *fakeUsersStore) Delete(userID string) error {
	delete(f.users, userID)
	return nil
}

func (f *fakeUsersStore) List(filter userapimodels.UserFilter) ([]dbmodels.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUsersStore) ListActive() ([]dbmodels.User, error) {
	return nil, nil
}

func (f *fakeUsersStore) FindByEmail(email string) (*dbmodels.User, error) {
	for _, rec := range f.users {
		if rec.Email == email {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeUsersStore) GetByID(userID string) (*dbmodels.User, error) {
	rec, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

type fakeRoleStore struct {
	rolestore.Provider
}

func (fakeRoleStore) GetByID(id string) (*dbmodels.Role, error) {
	if id != "role-employee" {
		return nil, nil
	}
	return &dbmodels.Role{ID: id, Code: models.EmployeeRole, Name: "Employee"}, nil
}

type fakeProfileStore struct {
	profilestore.Provider
	created []dbmodels.Profile
}

func (f *fakeProfileStore) Create(rec dbmodels.Profile) error {
	f.created = append(f.created, rec)
	return nil
}

type fakeTaskStore struct {
	taskstore.Provider
	deletedFor []string
}

func (f *fakeTaskStore) DeleteByUser(userID string) error {
	f.deletedFor = append(f.deletedFor, userID)
	return nil
}

type fakeAudit struct{}

func (fakeAudit) Write(actor models.Actor, action models.AuditAction, entity models.AuditEntity, entityID string, payload map[string]any) error {
	return nil
}

type testEnv struct {
	users    *fakeUsersStore
	profiles *fakeProfileStore
	tasks    *fakeTaskStore
}

func getInstance() (impl, *testEnv) {
	env := &testEnv{
		users:    &fakeUsersStore{users: map[string]dbmodels.User{}},
		profiles: &fakeProfileStore{},
		tasks:    &fakeTaskStore{},
	}
	return impl{
		transaction:  func(fc func(tx *gorm.DB) error) error { return fc(nil) },
		store:        func(tx *gorm.DB) usersstore.Provider { return env.users },
		roleStore:    func(tx *gorm.DB) rolestore.Provider { return fakeRoleStore{} },
		profileStore: func(tx *gorm.DB) profilestore.Provider { return env.profiles },
		taskStore:    func(tx *gorm.DB) taskstore.Provider { return env.tasks },
		audit:        func(tx *gorm.DB) audithandler.Writer { return fakeAudit{} },
		hashPassword: func(password string) (string, error) { return "hash:" + password, nil },
	}, env
}

var superAdmin = models.Actor{UserID: "u-admin", Role: models.SuperAdminRole}

func newUser(email string) userapimodels.UserCreate {
	return userapimodels.UserCreate{Email: email, Password: "secret-pass", FullName: "Петров Петр", RoleID: "role-employee"}
}

func TestCreate(t *testing.T) {
	t.Run(`with profile`, func(t *testing.T) {
		i, env := getInstance()
		user, err := i.Create(superAdmin, newUser("petrov@example.com"))
		require.NoError(t, err)
		require.True(t, user.IsActive)
		require.Equal(t, "hash:secret-pass", env.users.users[user.ID].PasswordHash)
		require.Len(t, env.profiles.created, 1)
		require.Equal(t, user.ID, env.profiles.created[0].UserID)
		require.Equal(t, models.StatusInOffice, env.profiles.created[0].StatusCode)
	})
	t.Run(`email in use`, func(t *testing.T) {
		i, _ := getInstance()
		_, err := i.Create(superAdmin, newUser("petrov@example.com"))
		require.NoError(t, err)
		_, err = i.Create(superAdmin, newUser("petrov@example.com"))
		require.EqualError(t, err, "bad_request: Email already in use")
	})
	t.Run(`unknown role`, func(t *testing.T) {
		i, _ := getInstance()
		data := newUser("petrov@example.com")
		data.RoleID = "role-x"
		_, err := i.Create(superAdmin, data)
		require.EqualError(t, err, "bad_request: Role not found")
	})
	t.Run(`manager is forbidden`, func(t *testing.T) {
		i, _ := getInstance()
		_, err := i.Create(models.Actor{UserID: "u-m", Role: models.ManagerRole}, newUser("petrov@example.com"))
		require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})
}

func TestUpdate(t *testing.T) {
	i, _ := getInstance()
	user, err := i.Create(superAdmin, newUser("petrov@example.com"))
	require.NoError(t, err)
	self := models.Actor{UserID: user.ID, Role: models.EmployeeRole}

	t.Run(`self edits name`, func(t *testing.T) {
		name := "Петров Петр Петрович"
		updated, err := i.Update(self, user.ID, userapimodels.UserUpdate{FullName: &name})
		require.NoError(t, err)
		require.Equal(t, name, updated.FullName)
	})
	t.Run(`self cannot deactivate`, func(t *testing.T) {
		inactive := false
		_, err := i.Update(self, user.ID, userapimodels.UserUpdate{IsActive: &inactive})
		require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})
	t.Run(`other user is forbidden`, func(t *testing.T) {
		name := "x"
		_, err := i.Update(models.Actor{UserID: "u-other", Role: models.ManagerRole}, user.ID, userapimodels.UserUpdate{FullName: &name})
		require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})
	t.Run(`admin deactivates`, func(t *testing.T) {
		inactive := false
		updated, err := i.Update(superAdmin, user.ID, userapimodels.UserUpdate{IsActive: &inactive})
		require.NoError(t, err)
		require.False(t, updated.IsActive)
	})
	t.Run(`email taken`, func(t *testing.T) {
		_, err := i.Create(superAdmin, newUser("ivanov@example.com"))
		require.NoError(t, err)
		email := "ivanov@example.com"
		_, err = i.Update(superAdmin, user.ID, userapimodels.UserUpdate{Email: &email})
		require.EqualError(t, err, "bad_request: Email already in use")
	})
}

func TestDelete(t *testing.T) {
	i, env := getInstance()
	user, err := i.Create(superAdmin, newUser("petrov@example.com"))
	require.NoError(t, err)

	require.EqualError(t, i.Delete(superAdmin, superAdmin.UserID), "bad_request: Cannot delete yourself")
	require.NoError(t, i.Delete(superAdmin, user.ID))
	require.Equal(t, []string{user.ID}, env.tasks.deletedFor)
	require.Empty(t, env.users.users)
	require.True(t, apperrors.IsCode(i.Delete(superAdmin, user.ID), apperrors.CodeNotFound))
}
