package profilehandler

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/db"
	filestorage "noblelift-backend/lib/file-storage"
	profilestatusstore "noblelift-backend/lib/profile/status-store"
	profilestore "noblelift-backend/lib/profile/store"
	usersstore "noblelift-backend/lib/users/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
	userapimodels "noblelift-backend/models/api/user"
	dbmodels "noblelift-backend/models/db"
)

const AvatarURLPrefix = "/api/v1/static/avatars/"

type Provider interface {
	Me(actor models.Actor) (*userapimodels.User, error)
	UpdateMe(actor models.Actor, data userapimodels.ProfileUpdate) (*userapimodels.User, error)
	UploadAvatar(ctx context.Context, actor models.Actor, file apimodels.UploadFile) (*userapimodels.User, error)
	Avatar(ctx context.Context, name string) (body io.ReadCloser, size int64, err error)
	ChangeStatus(actor models.Actor, data userapimodels.StatusChange) (*userapimodels.User, error)
	Statuses() ([]userapimodels.ProfileStatus, error)
	TouchLastSeen(userID string)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:          db.DB,
		transaction: db.Transaction,
		store:       profilestore.NewInstance,
		statusStore: profilestatusstore.NewInstance,
		usersStore:  usersstore.NewInstance,
		files:       filestorage.Instance,
		now:         time.Now,
	}
}

type impl struct {
	db          *gorm.DB
	transaction db.TxFunc
	store       func(tx *gorm.DB) profilestore.Provider
	statusStore func(tx *gorm.DB) profilestatusstore.Provider
	usersStore  func(tx *gorm.DB) usersstore.Provider
	files       filestorage.Provider
	now         func() time.Time
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

func (i impl) getUser(tx *gorm.DB, userID string) (*userapimodels.User, error) {
	rec, err := i.usersStore(tx).GetByID(userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return nil, apperrors.NotFound("User not found")
	}
	result := rec.ToModel()
	return &result, nil
}

// ensureProfile профиль создается, если пользователь был заведен без него
func (i impl) ensureProfile(tx *gorm.DB, userID string) (*dbmodels.Profile, error) {
	store := i.store(tx)
	rec, err := store.GetByUserID(userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения профиля")
	}
	if rec != nil {
		return rec, nil
	}
	rec = &dbmodels.Profile{UserID: userID, StatusCode: models.StatusInOffice}
	if err = store.Create(*rec); err != nil {
		return nil, errors.Wrap(err, "ошибка создания профиля")
	}
	return rec, nil
}

func (i impl) Me(actor models.Actor) (*userapimodels.User, error) {
	return i.getUser(i.db, actor.UserID)
}

func (i impl) UpdateMe(actor models.Actor, data userapimodels.ProfileUpdate) (*userapimodels.User, error) {
	var result *userapimodels.User
	err := i.transaction(func(tx *gorm.DB) error {
		userMap := map[string]interface{}{}
		if data.Title != nil {
			userMap["title"] = helpers.EmptyToNil(data.Title)
		}
		if data.AvatarUrl != nil {
			userMap["avatar_url"] = helpers.EmptyToNil(data.AvatarUrl)
		}
		if err := i.usersStore(tx).Update(actor.UserID, userMap); err != nil {
			return errors.Wrap(err, "ошибка обновления пользователя")
		}
		if data.Links != nil {
			if _, err := i.ensureProfile(tx, actor.UserID); err != nil {
				return err
			}
			links := dbmodels.ProfileLinks{
				Telegram: helpers.EmptyToNil(data.Links.Telegram),
				Whatsapp: helpers.EmptyToNil(data.Links.Whatsapp),
				Email:    helpers.EmptyToNil(data.Links.Email),
				Phone:    helpers.EmptyToNil(data.Links.Phone),
			}
			if err := i.store(tx).Update(actor.UserID, map[string]interface{}{"links": links}); err != nil {
				return errors.Wrap(err, "ошибка обновления профиля")
			}
		}
		var err error
		result, err = i.getUser(tx, actor.UserID)
		return err
	})
	return result, err
}

func (i impl) UploadAvatar(ctx context.Context, actor models.Actor, file apimodels.UploadFile) (*userapimodels.User, error) {
	if !strings.HasPrefix(file.ContentType, "image/") {
		return nil, apperrors.BadRequest("Avatar must be an image")
	}
	key, err := i.files.PutAvatar(ctx, actor.UserID, file.Name, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, err
	}
	avatarURL := AvatarURLPrefix + path.Base(key)
	if err = i.usersStore(i.db).Update(actor.UserID, map[string]interface{}{"avatar_url": avatarURL}); err != nil {
		if delErr := i.files.DeleteFile(context.Background(), key); delErr != nil {
			i.getLogger(actor.UserID).WithError(delErr).Warn("не удалось удалить аватар после ошибки сохранения")
		}
		return nil, errors.Wrap(err, "ошибка сохранения аватара")
	}
	return i.getUser(i.db, actor.UserID)
}

func (i impl) Avatar(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	if name == "" || path.Base(name) != name || helpers.SafeFileName(name) != name {
		return nil, 0, apperrors.NotFound("Avatar not found")
	}
	return i.files.GetFile(ctx, "avatars/"+name)
}

// ChangeStatus первый за день переход в статус присутствия фиксирует время прихода
func (i impl) ChangeStatus(actor models.Actor, data userapimodels.StatusChange) (*userapimodels.User, error) {
	code := models.ProfileStatusCode(data.StatusCode)
	var result *userapimodels.User
	err := i.transaction(func(tx *gorm.DB) error {
		status, err := i.statusStore(tx).GetByCode(code)
		if err != nil {
			return errors.Wrap(err, "ошибка получения статуса")
		}
		if status == nil {
			return apperrors.BadRequest("Status code not found")
		}
		profile, err := i.ensureProfile(tx, actor.UserID)
		if err != nil {
			return err
		}
		now := i.now()
		updMap := map[string]interface{}{
			"status_code":    code,
			"status_payload": dbmodels.JSONMap(data.Payload),
		}
		if code.IsPresence() && !arrivedToday(profile.ArrivedAt, now) {
			updMap["arrived_at"] = now
		}
		if err = i.store(tx).Update(actor.UserID, updMap); err != nil {
			return errors.Wrap(err, "ошибка смены статуса")
		}
		result, err = i.getUser(tx, actor.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	i.getLogger(actor.UserID).WithField("status", code).Info("статус изменен")
	return result, nil
}

func arrivedToday(arrivedAt *time.Time, now time.Time) bool {
	if arrivedAt == nil {
		return false
	}
	y1, m1, d1 := arrivedAt.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (i impl) Statuses() ([]userapimodels.ProfileStatus, error) {
	list, err := i.statusStore(i.db).List()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка статусов")
	}
	result := make([]userapimodels.ProfileStatus, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

func (i impl) TouchLastSeen(userID string) {
	if err := i.store(i.db).TouchLastSeen(userID, i.now()); err != nil {
		i.getLogger(userID).WithError(err).Warn("ошибка обновления last_seen_at")
	}
}
