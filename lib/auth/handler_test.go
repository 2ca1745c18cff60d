package authhandler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"noblelift-backend/config"
	tokenstore "noblelift-backend/lib/auth/token-store"
	audithandler "noblelift-backend/lib/audit"
	usersstore "noblelift-backend/lib/users/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	authutils "noblelift-backend/lib/utils/auth-utils"
	"noblelift-backend/models"
	authapimodels "noblelift-backend/models/api/auth"
	dbmodels "noblelift-backend/models/db"
)

type fakeUsersStore struct {
	usersstore.Provider
	users map[string]*dbmodels.User
}

func (f *fakeUsersStore) FindByEmail(email string) (*dbmodels.User, error) {
	for _, rec := range f.users {
		if rec.Email == email {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *fakeUsersStore) GetByID(userID string) (*dbmodels.User, error) {
	return f.users[userID], nil
}

func (f *fakeUsersStore) Update(userID string, updMap map[string]interface{}) error {
	if hash, ok := updMap["password_hash"]; ok {
		f.users[userID].PasswordHash = hash.(string)
	}
	return nil
}

type fakeAudit struct {
	actions []models.AuditAction
}

func (f *fakeAudit) Write(actor models.Actor, action models.AuditAction, entity models.AuditEntity, entityID string, payload map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

func initTestConfig() {
	config.Conf = &config.Configuration{}
	config.Conf.Auth.JWTSecret = "test-secret"
	config.Conf.Auth.AccessExpireInSec = 1800
	config.Conf.Auth.RefreshExpireInSec = 604800
}

func getInstance(t *testing.T, withRedis bool) (impl, *fakeUsersStore, *fakeAudit) {
	initTestConfig()
	hash, err := authutils.HashPassword("secret-pass")
	require.NoError(t, err)
	active := &dbmodels.User{Email: "petrov@example.com", PasswordHash: hash, IsActive: true}
	active.ID = "u-1"
	blocked := &dbmodels.User{Email: "blocked@example.com", PasswordHash: hash, IsActive: false}
	blocked.ID = "u-2"
	users := &fakeUsersStore{users: map[string]*dbmodels.User{active.ID: active, blocked.ID: blocked}}
	audit := &fakeAudit{}
	i := impl{
		transaction:  func(fc func(tx *gorm.DB) error) error { return fc(nil) },
		usersStore:   func(tx *gorm.DB) usersstore.Provider { return users },
		audit:        func(tx *gorm.DB) audithandler.Writer { return audit },
		hashPassword: authutils.HashPassword,
	}
	if withRedis {
		mr := miniredis.RunT(t)
		i.tokens = tokenstore.NewInstance(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	}
	return i, users, audit
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	i, _, audit := getInstance(t, false)

	t.Run(`success`, func(t *testing.T) {
		tokens, err := i.Login(ctx, models.Actor{IP: "10.0.0.1"}, authapimodels.LoginRequest{Email: "petrov@example.com", Password: "secret-pass"})
		require.NoError(t, err)
		userID, err := authutils.ParseToken(tokens.Access, authutils.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "u-1", userID)
		require.Equal(t, []models.AuditAction{models.AuditLogin}, audit.actions)
	})
	t.Run(`wrong password`, func(t *testing.T) {
		_, err := i.Login(ctx, models.Actor{}, authapimodels.LoginRequest{Email: "petrov@example.com", Password: "nope"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})
	t.Run(`inactive user`, func(t *testing.T) {
		_, err := i.Login(ctx, models.Actor{}, authapimodels.LoginRequest{Email: "blocked@example.com", Password: "secret-pass"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})
	t.Run(`unknown email`, func(t *testing.T) {
		_, err := i.Login(ctx, models.Actor{}, authapimodels.LoginRequest{Email: "ghost@example.com", Password: "secret-pass"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run(`access token rejected`, func(t *testing.T) {
		i, _, _ := getInstance(t, false)
		access, err := authutils.GetToken("u-1")
		require.NoError(t, err)
		_, err = i.Refresh(ctx, authapimodels.JWTRefreshRequest{Refresh: access})
		require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})
	t.Run(`stateless without redis`, func(t *testing.T) {
		i, _, _ := getInstance(t, false)
		refresh, err := authutils.GetRefreshToken("u-1")
		require.NoError(t, err)
		_, err = i.Refresh(ctx, authapimodels.JWTRefreshRequest{Refresh: refresh})
		require.NoError(t, err)
		_, err = i.Refresh(ctx, authapimodels.JWTRefreshRequest{Refresh: refresh})
		require.NoError(t, err)
	})
	t.Run(`rotation with redis`, func(t *testing.T) {
		i, _, _ := getInstance(t, true)
		tokens, err := i.Login(ctx, models.Actor{}, authapimodels.LoginRequest{Email: "petrov@example.com", Password: "secret-pass"})
		require.NoError(t, err)
		rotated, err := i.Refresh(ctx, authapimodels.JWTRefreshRequest{Refresh: tokens.Refresh})
		require.NoError(t, err)
		_, err = i.Refresh(ctx, authapimodels.JWTRefreshRequest{Refresh: tokens.Refresh})
		require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

		require.NoError(t, i.Logout(ctx, models.Actor{UserID: "u-1"}))
		_, err = i.Refresh(ctx, authapimodels.JWTRefreshRequest{Refresh: rotated.Refresh})
		require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})
	t.Run(`inactive user`, func(t *testing.T) {
		i, _, _ := getInstance(t, false)
		refresh, err := authutils.GetRefreshToken("u-2")
		require.NoError(t, err)
		_, err = i.Refresh(ctx, authapimodels.JWTRefreshRequest{Refresh: refresh})
		require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	i, users, _ := getInstance(t, true)
	actor := models.Actor{UserID: "u-1", Role: models.EmployeeRole}

	err := i.ChangePassword(ctx, actor, authapimodels.PasswordChange{CurrentPassword: "nope", NewPassword: "new-secret"})
	require.EqualError(t, err, "bad_request: Wrong current password")

	tokens, err := i.Login(ctx, models.Actor{}, authapimodels.LoginRequest{Email: "petrov@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	require.NoError(t, i.ChangePassword(ctx, actor, authapimodels.PasswordChange{CurrentPassword: "secret-pass", NewPassword: "new-secret"}))
	require.True(t, authutils.CheckPassword(users.users["u-1"].PasswordHash, "new-secret"))

	_, err = i.Refresh(ctx, authapimodels.JWTRefreshRequest{Refresh: tokens.Refresh})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}
