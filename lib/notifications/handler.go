package notificationshandler

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/db"
	pushstore "noblelift-backend/lib/notifications/push-store"
	notificationstore "noblelift-backend/lib/notifications/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	connectionhub "noblelift-backend/lib/ws/hub/connection-hub"
	"noblelift-backend/models"
	notificationapimodels "noblelift-backend/models/api/notification"
	dbmodels "noblelift-backend/models/db"
)

// Creator создание уведомления в транзакции операции
type Creator interface {
	Create(userID string, nType models.NotificationType, data map[string]any, args ...any) (*dbmodels.Notification, error)
}

type Provider interface {
	List(userID string, filter notificationapimodels.NotificationFilter) ([]notificationapimodels.Notification, int64, error)
	MarkRead(userID, id string) (*notificationapimodels.Notification, error)
	MarkAllRead(userID string) error
	Delete(userID, id string) error
	Deliver(list ...dbmodels.Notification)
	Subscriptions(userID string) ([]notificationapimodels.PushSubscription, error)
	Subscribe(userID string, data notificationapimodels.SubscribeRequest) (*notificationapimodels.PushSubscription, error)
	Unsubscribe(userID, endpoint string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     notificationstore.NewInstance(db.DB),
		pushStore: pushstore.NewInstance(db.DB),
		hub:       connectionhub.Instance,
	}
}

func NewHandlerWithTx(tx *gorm.DB) Creator {
	return impl{
		store: notificationstore.NewInstance(tx),
	}
}

type impl struct {
	store     notificationstore.Provider
	pushStore pushstore.Provider
	hub       connectionhub.Provider
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

// NewRecord уведомление по шаблону типа, args подставляются в текст шаблона
func NewRecord(userID string, nType models.NotificationType, data map[string]any, args ...any) dbmodels.Notification {
	rec := dbmodels.Notification{
		UserID: userID,
		Type:   nType,
		Data:   data,
		Title:  string(nType),
	}
	tpl, ok := models.NotificationTplMap[nType]
	if ok {
		rec.Title = tpl.Title
		msg := fmt.Sprintf(tpl.Msg, args...)
		rec.Message = &msg
	}
	return rec
}

func (i impl) Create(userID string, nType models.NotificationType, data map[string]any, args ...any) (*dbmodels.Notification, error) {
	rec, err := i.store.Create(NewRecord(userID, nType, data, args...))
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания уведомления")
	}
	return rec, nil
}

// Deliver отправка по websocket подключенным пользователям, вызывается после коммита
func (i impl) Deliver(list ...dbmodels.Notification) {
	if i.hub == nil {
		return
	}
	for _, rec := range list {
		if !i.hub.IsConnected(rec.UserID) {
			continue
		}
		if !i.hub.SendMessage(rec.ToServerMessage()) {
			i.getLogger(rec.UserID).WithField("rec_id", rec.ID).Warn("уведомление не доставлено")
		}
	}
}

func (i impl) List(userID string, filter notificationapimodels.NotificationFilter) ([]notificationapimodels.Notification, int64, error) {
	list, total, err := i.store.List(userID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка уведомлений")
	}
	result := make([]notificationapimodels.Notification, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, total, nil
}

func (i impl) MarkRead(userID, id string) (*notificationapimodels.Notification, error) {
	rec, err := i.store.GetByID(userID, id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения уведомления")
	}
	if rec == nil {
		return nil, apperrors.NotFound("Notification not found")
	}
	if !rec.IsRead {
		now := time.Now()
		if err = i.store.MarkRead(userID, id, now); err != nil {
			return nil, errors.Wrap(err, "ошибка обновления уведомления")
		}
		rec.IsRead = true
		rec.ReadAt = &now
	}
	result := rec.ToModel()
	return &result, nil
}

func (i impl) MarkAllRead(userID string) error {
	if err := i.store.MarkAllRead(userID, time.Now()); err != nil {
		return errors.Wrap(err, "ошибка обновления уведомлений")
	}
	return nil
}

func (i impl) Delete(userID, id string) error {
	rec, err := i.store.GetByID(userID, id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения уведомления")
	}
	if rec == nil {
		return apperrors.NotFound("Notification not found")
	}
	if err = i.store.Delete(userID, id); err != nil {
		return errors.Wrap(err, "ошибка удаления уведомления")
	}
	return nil
}

func (i impl) Subscriptions(userID string) ([]notificationapimodels.PushSubscription, error) {
	list, err := i.pushStore.ListByUser(userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения подписок")
	}
	result := make([]notificationapimodels.PushSubscription, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

// Subscribe endpoint уникален: существующая подписка перепривязывается к текущему пользователю
func (i impl) Subscribe(userID string, data notificationapimodels.SubscribeRequest) (*notificationapimodels.PushSubscription, error) {
	existed, err := i.pushStore.GetByEndpoint(data.Endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения подписки")
	}
	if existed != nil {
		updMap := map[string]interface{}{
			"user_id": userID,
			"p256dh":  data.Keys.P256dh,
			"auth":    data.Keys.Auth,
		}
		if err = i.pushStore.Update(existed.ID, updMap); err != nil {
			return nil, errors.Wrap(err, "ошибка обновления подписки")
		}
		existed.UserID = userID
		existed.P256dh = data.Keys.P256dh
		existed.Auth = data.Keys.Auth
		result := existed.ToModel()
		return &result, nil
	}
	rec, err := i.pushStore.Create(dbmodels.PushSubscription{
		UserID:   userID,
		Endpoint: data.Endpoint,
		P256dh:   data.Keys.P256dh,
		Auth:     data.Keys.Auth,
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания подписки")
	}
	result := rec.ToModel()
	return &result, nil
}

func (i impl) Unsubscribe(userID, endpoint string) error {
	if err := i.pushStore.DeleteByEndpoint(userID, endpoint); err != nil {
		return errors.Wrap(err, "ошибка удаления подписки")
	}
	return nil
}
