package audithandler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/db"
	auditstore "noblelift-backend/lib/audit/store"
	xlsexport "noblelift-backend/lib/export/xls"
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	auditapimodels "noblelift-backend/models/api/audit"
	dbmodels "noblelift-backend/models/db"
)

// Writer запись в журнал аудита, вызывается в транзакции изменения
type Writer interface {
	Write(actor models.Actor, action models.AuditAction, entity models.AuditEntity, entityID string, payload map[string]any) error
}

type Provider interface {
	Writer
	List(filter auditapimodels.AuditFilter) ([]auditapimodels.AuditLog, int64, error)
	Export(filter auditapimodels.AuditFilter) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: auditstore.NewInstance(db.DB),
		xls:   xlsexport.NewInstance(),
	}
}

func NewHandlerWithTx(tx *gorm.DB) Writer {
	return impl{
		store: auditstore.NewInstance(tx),
	}
}

type impl struct {
	store auditstore.Provider
	xls   xlsexport.Provider
}

func NewRecord(actor models.Actor, action models.AuditAction, entity models.AuditEntity, entityID string, payload map[string]any) dbmodels.AuditLog {
	rec := dbmodels.AuditLog{
		Action:  action,
		Entity:  entity,
		Payload: payload,
	}
	if actor.UserID != "" {
		rec.ActorID = helpers.StrPtr(actor.UserID)
	}
	if entityID != "" {
		rec.EntityID = helpers.StrPtr(entityID)
	}
	if actor.IP != "" {
		rec.IP = helpers.StrPtr(actor.IP)
	}
	if actor.UserAgent != "" {
		rec.UA = helpers.StrPtr(helpers.Truncate(actor.UserAgent, 512))
	}
	return rec
}

func (i impl) Write(actor models.Actor, action models.AuditAction, entity models.AuditEntity, entityID string, payload map[string]any) error {
	rec := NewRecord(actor, action, entity, entityID, payload)
	if err := i.store.Create(rec); err != nil {
		return errors.Wrap(err, "ошибка записи журнала аудита")
	}
	return nil
}

func (i impl) List(filter auditapimodels.AuditFilter) ([]auditapimodels.AuditLog, int64, error) {
	list, total, err := i.store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения журнала аудита")
	}
	result := make([]auditapimodels.AuditLog, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, total, nil
}

var auditHeaders = []string{"Дата", "Пользователь", "Действие", "Сущность", "ID сущности", "Данные", "IP"}

func (i impl) Export(filter auditapimodels.AuditFilter) (*bytes.Buffer, error) {
	list, err := i.store.ListAll(filter)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения журнала аудита")
	}
	rows := make([][]string, 0, len(list))
	for _, rec := range list {
		payload := ""
		if len(rec.Payload) != 0 {
			body, err := json.Marshal(rec.Payload)
			if err != nil {
				log.WithError(err).WithField("rec_id", rec.ID).Warn("ошибка сериализации данных аудита")
			} else {
				payload = string(body)
			}
		}
		rows = append(rows, []string{
			rec.CreatedAt.Format(time.DateTime),
			helpers.PtrValue(rec.ActorID),
			string(rec.Action),
			string(rec.Entity),
			helpers.PtrValue(rec.EntityID),
			payload,
			helpers.PtrValue(rec.IP),
		})
	}
	return i.xls.ExportTable("Аудит", auditHeaders, rows)
}
