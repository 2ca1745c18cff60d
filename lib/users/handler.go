package usershandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/db"
	audithandler "noblelift-backend/lib/audit"
	profilestore "noblelift-backend/lib/profile/store"
	taskstore "noblelift-backend/lib/tasks/store"
	rolestore "noblelift-backend/lib/users/role-store"
	usersstore "noblelift-backend/lib/users/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	authutils "noblelift-backend/lib/utils/auth-utils"
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	userapimodels "noblelift-backend/models/api/user"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	List(filter userapimodels.UserFilter) ([]userapimodels.User, int64, error)
	Get(id string) (*userapimodels.User, error)
	Create(actor models.Actor, data userapimodels.UserCreate) (*userapimodels.User, error)
	Update(actor models.Actor, id string, data userapimodels.UserUpdate) (*userapimodels.User, error)
	Delete(actor models.Actor, id string) error
	Roles() ([]userapimodels.Role, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:           db.DB,
		transaction:  db.Transaction,
		store:        usersstore.NewInstance,
		roleStore:    rolestore.NewInstance,
		profileStore: profilestore.NewInstance,
		taskStore:    taskstore.NewInstance,
		audit:        audithandler.NewHandlerWithTx,
		hashPassword: authutils.HashPassword,
	}
}

type impl struct {
	db           *gorm.DB
	transaction  db.TxFunc
	store        func(tx *gorm.DB) usersstore.Provider
	roleStore    func(tx *gorm.DB) rolestore.Provider
	profileStore func(tx *gorm.DB) profilestore.Provider
	taskStore    func(tx *gorm.DB) taskstore.Provider
	audit        func(tx *gorm.DB) audithandler.Writer
	hashPassword func(password string) (string, error)
}

var (
	errEmailInUse   = apperrors.BadRequest("Email already in use")
	errRoleNotFound = apperrors.BadRequest("Role not found")
	errUserNotFound = apperrors.NotFound("User not found")
)

func (i impl) getLogger(actor models.Actor, userID string) *log.Entry {
	return log.
		WithField("user_id", actor.UserID).
		WithField("rec_id", userID)
}

func (i impl) checkEmail(store usersstore.Provider, id, email string) error {
	existed, err := store.FindByEmail(email)
	if err != nil {
		return errors.Wrap(err, "ошибка поиска пользователя по email")
	}
	if existed != nil && existed.ID != id {
		return errEmailInUse
	}
	return nil
}

func (i impl) checkRole(tx *gorm.DB, roleID string) error {
	role, err := i.roleStore(tx).GetByID(roleID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения роли")
	}
	if role == nil {
		return errRoleNotFound
	}
	return nil
}

func (i impl) getUser(store usersstore.Provider, id string) (*dbmodels.User, error) {
	rec, err := store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return nil, errUserNotFound
	}
	return rec, nil
}

func (i impl) List(filter userapimodels.UserFilter) ([]userapimodels.User, int64, error) {
	list, total, err := i.store(i.db).List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка пользователей")
	}
	result := make([]userapimodels.User, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, total, nil
}

func (i impl) Get(id string) (*userapimodels.User, error) {
	rec, err := i.getUser(i.store(i.db), id)
	if err != nil {
		return nil, err
	}
	result := rec.ToModel()
	return &result, nil
}

// Create вместе с пользователем создается профиль со статусом in_office
func (i impl) Create(actor models.Actor, data userapimodels.UserCreate) (*userapimodels.User, error) {
	if !actor.Role.IsSuperAdmin() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	hash, err := i.hashPassword(data.Password)
	if err != nil {
		return nil, err
	}
	var result *dbmodels.User
	err = i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		if err := i.checkEmail(store, "", data.Email); err != nil {
			return err
		}
		if err := i.checkRole(tx, data.RoleID); err != nil {
			return err
		}
		id, err := store.Create(dbmodels.User{
			Email:        data.Email,
			PasswordHash: hash,
			FullName:     data.FullName,
			Title:        helpers.EmptyToNil(data.Title),
			Phone:        helpers.EmptyToNil(data.Phone),
			RoleID:       data.RoleID,
			IsActive:     true,
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errEmailInUse
			}
			return errors.Wrap(err, "ошибка создания пользователя")
		}
		err = i.profileStore(tx).Create(dbmodels.Profile{
			UserID:     id,
			StatusCode: models.StatusInOffice,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка создания профиля")
		}
		if err = i.audit(tx).Write(actor, models.AuditCreate, models.EntityUser, id, map[string]any{"email": data.Email}); err != nil {
			return err
		}
		result, err = i.getUser(store, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	i.getLogger(actor, result.ID).Info("пользователь создан")
	user := result.ToModel()
	return &user, nil
}

// Update смена роли, активности и email доступна только супер админу
func (i impl) Update(actor models.Actor, id string, data userapimodels.UserUpdate) (*userapimodels.User, error) {
	if actor.UserID != id && !actor.Role.IsSuperAdmin() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	if data.IsPrivileged() && !actor.Role.IsSuperAdmin() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	var result *dbmodels.User
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		if _, err := i.getUser(store, id); err != nil {
			return err
		}
		updMap := map[string]interface{}{}
		if data.Email != nil {
			if err := i.checkEmail(store, id, *data.Email); err != nil {
				return err
			}
			updMap["email"] = *data.Email
		}
		if data.RoleID != nil {
			if err := i.checkRole(tx, *data.RoleID); err != nil {
				return err
			}
			updMap["role_id"] = *data.RoleID
		}
		if data.IsActive != nil {
			updMap["is_active"] = *data.IsActive
		}
		if data.FullName != nil {
			updMap["full_name"] = *data.FullName
		}
		if data.Title != nil {
			updMap["title"] = helpers.EmptyToNil(data.Title)
		}
		if data.Phone != nil {
			updMap["phone"] = helpers.EmptyToNil(data.Phone)
		}
		if data.AvatarUrl != nil {
			updMap["avatar_url"] = helpers.EmptyToNil(data.AvatarUrl)
		}
		if err := store.Update(id, updMap); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errEmailInUse
			}
			return errors.Wrap(err, "ошибка обновления пользователя")
		}
		if len(updMap) != 0 {
			payload := map[string]any{}
			for field, value := range updMap {
				payload[field] = value
			}
			if err := i.audit(tx).Write(actor, models.AuditUpdate, models.EntityUser, id, payload); err != nil {
				return err
			}
		}
		var err error
		result, err = i.getUser(store, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	user := result.ToModel()
	return &user, nil
}

// Delete задачи, созданные пользователем или назначенные на него, удаляются в той же транзакции
func (i impl) Delete(actor models.Actor, id string) error {
	if !actor.Role.IsSuperAdmin() {
		return apperrors.Forbidden("Forbidden")
	}
	if actor.UserID == id {
		return apperrors.BadRequest("Cannot delete yourself")
	}
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := i.getUser(store, id)
		if err != nil {
			return err
		}
		if err = i.taskStore(tx).DeleteByUser(id); err != nil {
			return errors.Wrap(err, "ошибка удаления задач пользователя")
		}
		if err = store.Delete(id); err != nil {
			return errors.Wrap(err, "ошибка удаления пользователя")
		}
		return i.audit(tx).Write(actor, models.AuditDelete, models.EntityUser, id, map[string]any{"email": rec.Email})
	})
	if err != nil {
		return err
	}
	i.getLogger(actor, id).Info("пользователь удален")
	return nil
}

func (i impl) Roles() ([]userapimodels.Role, error) {
	list, err := i.roleStore(i.db).List()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка ролей")
	}
	result := make([]userapimodels.Role, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}
