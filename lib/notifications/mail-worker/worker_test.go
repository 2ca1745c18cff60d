package mailworker

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"noblelift-backend/lib/utils/helpers"
	notificationapimodels "noblelift-backend/models/api/notification"
	baseworker "noblelift-backend/lib/utils/base-worker"
	dbmodels "noblelift-backend/models/db"
)

type fakeStore struct {
	list    []dbmodels.Notification
	emailed []string
}

func (f *fakeStore) Create(rec dbmodels.Notification) (*dbmodels.Notification, error) {
	return &rec, nil
}

func (f *fakeStore) GetByID(userID, id string) (*dbmodels.Notification, error) {
	return nil, nil
}

func (f *fakeStore) List(userID string, filter notificationapimodels.NotificationFilter) ([]dbmodels.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeStore) ListUnread(userID string, limit int) ([]dbmodels.Notification, error) {
	return nil, nil
}

func (f *fakeStore) MarkRead(userID, id string, at time.Time) error {
	return nil
}

func (f *fakeStore) MarkAllRead(userID string, at time.Time) error {
	return nil
}

func (f *fakeStore) Delete(userID, id string) error {
	return nil
}

func (f *fakeStore) ListNotEmailed(limit int) ([]dbmodels.Notification, error) {
	return f.list, nil
}

func (f *fakeStore) SetEmailed(ids []string, at time.Time) error {
	f.emailed = append(f.emailed, ids...)
	return nil
}

type fakeMailer struct {
	sent []string
	fail map[string]bool
}

func (f *fakeMailer) IsConfigured() bool {
	return true
}

func (f *fakeMailer) SendEMail(to, subject, message string) error {
	if f.fail[to] {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func newNotification(id, email string, active bool) dbmodels.Notification {
	rec := dbmodels.Notification{
		Title:   "Вам назначена задача",
		Message: helpers.StrPtr("Задача «Отчет» назначена на вас."),
		User:    &dbmodels.User{Email: email, IsActive: active},
	}
	rec.ID = id
	return rec
}

func TestHandle(t *testing.T) {
	store := &fakeStore{list: []dbmodels.Notification{
		newNotification("n1", "a@example.com", true),
		newNotification("n2", "b@example.com", false),
		newNotification("n3", "c@example.com", true),
	}}
	mailer := &fakeMailer{fail: map[string]bool{"c@example.com": true}}
	i := impl{
		BaseImpl: *baseworker.NewInstance("test", 0, time.Minute),
		store:    store,
		mailer:   mailer,
	}
	i.handle(context.Background())

	require.Equal(t, []string{"a@example.com"}, mailer.sent)
	require.Equal(t, []string{"n1", "n2"}, store.emailed)
}
