package dbmodels

import (
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	auditapimodels "noblelift-backend/models/api/audit"
)

// AuditLog без внешних ключей, журнал переживает удаление сущностей
type AuditLog struct {
	BaseCreatedModel
	ActorID  *string            `gorm:"type:varchar(36);index"`
	Action   models.AuditAction `gorm:"type:varchar(32);index"`
	Entity   models.AuditEntity `gorm:"type:varchar(32);index:idx_audit_entity"`
	EntityID *string            `gorm:"type:varchar(36);index:idx_audit_entity"`
	Payload  JSONMap            `gorm:"type:jsonb"`
	IP       *string            `gorm:"type:varchar(64)"`
	UA       *string            `gorm:"type:varchar(512)"`
}

func (r AuditLog) ToModel() auditapimodels.AuditLog {
	return auditapimodels.AuditLog{
		ID:        r.ID,
		ActorID:   r.ActorID,
		Action:    string(r.Action),
		Entity:    string(r.Entity),
		EntityID:  r.EntityID,
		Payload:   r.Payload,
		IP:        r.IP,
		UA:        r.UA,
		CreatedAt: helpers.ToMs(r.CreatedAt),
	}
}
