package authhandler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/config"
	"noblelift-backend/db"
	tokenstore "noblelift-backend/lib/auth/token-store"
	audithandler "noblelift-backend/lib/audit"
	usersstore "noblelift-backend/lib/users/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	authutils "noblelift-backend/lib/utils/auth-utils"
	"noblelift-backend/models"
	authapimodels "noblelift-backend/models/api/auth"
	userapimodels "noblelift-backend/models/api/user"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Login(ctx context.Context, actor models.Actor, data authapimodels.LoginRequest) (*authapimodels.JWTResponse, error)
	Refresh(ctx context.Context, data authapimodels.JWTRefreshRequest) (*authapimodels.JWTResponse, error)
	Logout(ctx context.Context, actor models.Actor) error
	ChangePassword(ctx context.Context, actor models.Actor, data authapimodels.PasswordChange) error
	Me(actor models.Actor) (*userapimodels.User, error)
}

var Instance Provider

// NewHandler tokens = nil, если redis не настроен: refresh токены не отзываются
func NewHandler(tokens tokenstore.Provider) {
	Instance = impl{
		db:           db.DB,
		transaction:  db.Transaction,
		usersStore:   usersstore.NewInstance,
		audit:        audithandler.NewHandlerWithTx,
		tokens:       tokens,
		hashPassword: authutils.HashPassword,
	}
}

type impl struct {
	db           *gorm.DB
	transaction  db.TxFunc
	usersStore   func(tx *gorm.DB) usersstore.Provider
	audit        func(tx *gorm.DB) audithandler.Writer
	tokens       tokenstore.Provider
	hashPassword func(password string) (string, error)
}

var (
	errInvalidCredentials = apperrors.Unauthorized("Invalid credentials")
	errInvalidRefresh     = apperrors.Unauthorized("Invalid refresh token")
)

func (i impl) getLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

func (i impl) refreshTTL() time.Duration {
	return time.Duration(config.Conf.Auth.RefreshExpireInSec) * time.Second
}

func (i impl) issue(ctx context.Context, userID string) (*authapimodels.JWTResponse, error) {
	access, err := authutils.GetToken(userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка выпуска access токена")
	}
	refresh, err := authutils.GetRefreshToken(userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка выпуска refresh токена")
	}
	if i.tokens != nil {
		if err = i.tokens.Save(ctx, userID, refresh, i.refreshTTL()); err != nil {
			return nil, errors.Wrap(err, "ошибка сохранения refresh токена")
		}
	}
	return &authapimodels.JWTResponse{Access: access, Refresh: refresh}, nil
}

func (i impl) Login(ctx context.Context, actor models.Actor, data authapimodels.LoginRequest) (*authapimodels.JWTResponse, error) {
	user, err := i.usersStore(i.db).FindByEmail(data.Email)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка поиска пользователя")
	}
	if user == nil || !user.IsActive || !authutils.CheckPassword(user.PasswordHash, data.Password) {
		log.WithField("email", data.Email).Warn("неудачная попытка входа")
		return nil, errInvalidCredentials
	}
	actor.UserID = user.ID
	if err = i.audit(i.db).Write(actor, models.AuditLogin, models.EntityUser, user.ID, nil); err != nil {
		return nil, err
	}
	return i.issue(ctx, user.ID)
}

// Refresh при наличии хранилища токен должен быть текущим и заменяется новым
func (i impl) Refresh(ctx context.Context, data authapimodels.JWTRefreshRequest) (*authapimodels.JWTResponse, error) {
	userID, err := authutils.ParseToken(data.Refresh, authutils.RefreshToken)
	if err != nil {
		return nil, errInvalidRefresh
	}
	user, err := i.usersStore(i.db).GetByID(userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения пользователя")
	}
	if user == nil || !user.IsActive {
		return nil, errInvalidRefresh
	}
	if i.tokens != nil {
		ok, err := i.tokens.IsCurrent(ctx, userID, data.Refresh)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка проверки refresh токена")
		}
		if !ok {
			i.getLogger(userID).Warn("предъявлен отозванный refresh токен")
			return nil, errInvalidRefresh
		}
	}
	return i.issue(ctx, userID)
}

func (i impl) Logout(ctx context.Context, actor models.Actor) error {
	if i.tokens == nil {
		return nil
	}
	return errors.Wrap(i.tokens.Delete(ctx, actor.UserID), "ошибка отзыва refresh токена")
}

func (i impl) ChangePassword(ctx context.Context, actor models.Actor, data authapimodels.PasswordChange) error {
	var user *dbmodels.User
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.usersStore(tx)
		var err error
		user, err = store.GetByID(actor.UserID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения пользователя")
		}
		if user == nil {
			return apperrors.Unauthorized("Unauthorized")
		}
		if !authutils.CheckPassword(user.PasswordHash, data.CurrentPassword) {
			return apperrors.BadRequest("Wrong current password")
		}
		hash, err := i.hashPassword(data.NewPassword)
		if err != nil {
			return err
		}
		if err = store.Update(actor.UserID, map[string]interface{}{"password_hash": hash}); err != nil {
			return errors.Wrap(err, "ошибка смены пароля")
		}
		return i.audit(tx).Write(actor, models.AuditPassword, models.EntityUser, actor.UserID, nil)
	})
	if err != nil {
		return err
	}
	if err = i.Logout(ctx, actor); err != nil {
		i.getLogger(actor.UserID).WithError(err).Warn("не удалось отозвать refresh токен после смены пароля")
	}
	return nil
}

func (i impl) Me(actor models.Actor) (*userapimodels.User, error) {
	user, err := i.usersStore(i.db).GetByID(actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения пользователя")
	}
	if user == nil {
		return nil, apperrors.Unauthorized("Unauthorized")
	}
	result := user.ToModel()
	return &result, nil
}
