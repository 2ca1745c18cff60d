package tasktopicshandler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	audithandler "noblelift-backend/lib/audit"
	tasktopicstore "noblelift-backend/lib/task-topics/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/models"
	taskapimodels "noblelift-backend/models/api/task"
	dbmodels "noblelift-backend/models/db"
)

type fakeStore struct {
	topics []dbmodels.TaskTopic
}

func (f *fakeStore) Create(rec dbmodels.TaskTopic) (string, error) {
	rec.ID = "topic-new"
	f.topics = append(f.topics, rec)
	return rec.ID, nil
}

func (f *fakeStore) GetByID(id string) (*dbmodels.TaskTopic, error) {
	for _, rec := range f.topics {
		if rec.ID == id {
			topic := rec
			return &topic, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByName(name string) (*dbmodels.TaskTopic, error) {
	for _, rec := range f.topics {
		if strings.EqualFold(rec.Name, name) {
			topic := rec
			return &topic, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Update(id string, updMap map[string]interface{}) error {
	return nil
}

func (f *fakeStore) Delete(id string) error {
	return nil
}

func (f *fakeStore) List() ([]dbmodels.TaskTopic, error) {
	return f.topics, nil
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
		transaction: func(fc func(tx *gorm.DB) error) error { return fc(nil) },
		store:       func(tx *gorm.DB) tasktopicstore.Provider { return store },
		audit:       func(tx *gorm.DB) audithandler.Writer { return audit },
	}
}

func newTopic(id, name string) dbmodels.TaskTopic {
	rec := dbmodels.TaskTopic{Name: name}
	rec.ID = id
	return rec
}

func TestTopics(t *testing.T) {
	actor := models.Actor{UserID: "u-manager", Role: models.ManagerRole}
	t.Run(`create`, func(t *testing.T) {
		audit := &fakeAudit{}
		i := getInstance(&fakeStore{}, audit)
		topic, err := i.Create(actor, taskapimodels.TopicData{Name: "Склад"})
		require.NoError(t, err)
		require.Equal(t, "Склад", topic.Name)
		require.Equal(t, []models.AuditAction{models.AuditCreate}, audit.actions)
	})
	t.Run(`duplicate name`, func(t *testing.T) {
		i := getInstance(&fakeStore{topics: []dbmodels.TaskTopic{newTopic("t1", "Склад")}}, &fakeAudit{})
		_, err := i.Create(actor, taskapimodels.TopicData{Name: "склад"})
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, apperrors.CodeBadRequest))
		require.Equal(t, "bad_request: Topic already exists", err.Error())
	})
	t.Run(`rename to own name`, func(t *testing.T) {
		i := getInstance(&fakeStore{topics: []dbmodels.TaskTopic{newTopic("t1", "Склад")}}, &fakeAudit{})
		topic, err := i.Update(actor, "t1", taskapimodels.TopicData{Name: "СКЛАД"})
		require.NoError(t, err)
		require.Equal(t, "СКЛАД", topic.Name)
	})
	t.Run(`rename to existing name`, func(t *testing.T) {
		i := getInstance(&fakeStore{topics: []dbmodels.TaskTopic{newTopic("t1", "Склад"), newTopic("t2", "Офис")}}, &fakeAudit{})
		_, err := i.Update(actor, "t2", taskapimodels.TopicData{Name: "Склад"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeBadRequest))
	})
	t.Run(`missing topic`, func(t *testing.T) {
		i := getInstance(&fakeStore{}, &fakeAudit{})
		require.True(t, apperrors.IsCode(i.Delete(actor, "t1"), apperrors.CodeNotFound))
	})
}
