package mailworker

import (
	"context"
	"time"

	"noblelift-backend/db"
	notificationstore "noblelift-backend/lib/notifications/store"
	"noblelift-backend/lib/smtp"
	baseworker "noblelift-backend/lib/utils/base-worker"
	"noblelift-backend/lib/utils/helpers"
	dbmodels "noblelift-backend/models/db"
)

const batchSize = 50

func StartWorker(ctx context.Context, interval time.Duration) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("NotificationMailWorker", 10*time.Second, interval),
		store:    notificationstore.NewInstance(db.DB),
		mailer:   smtp.Instance,
	}
	if !i.mailer.IsConfigured() {
		i.GetLogger().Warn("smtp не настроен, рассылка уведомлений по почте отключена")
		return
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	store  notificationstore.Provider
	mailer smtp.Provider
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, err := i.store.ListNotEmailed(batchSize)
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка уведомлений для рассылки")
		return
	}
	handled := []string{}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		if err = i.send(rec); err != nil {
			logger.
				WithError(err).
				WithField("rec_id", rec.ID).
				Error("ошибка отправки уведомления по почте")
			continue
		}
		handled = append(handled, rec.ID)
	}
	if err = i.store.SetEmailed(handled, time.Now()); err != nil {
		logger.WithError(err).Error("ошибка сохранения признака отправки")
	}
}

// send неактивным пользователям и без адреса письмо не отправляется, уведомление считается обработанным
func (i impl) send(rec dbmodels.Notification) error {
	if rec.User == nil || !rec.User.IsActive || rec.User.Email == "" {
		return nil
	}
	return i.mailer.SendEMail(rec.User.Email, rec.Title, helpers.PtrValue(rec.Message))
}
