package auditstore

import (
	"time"

	"gorm.io/gorm"
	auditapimodels "noblelift-backend/models/api/audit"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.AuditLog) error
	List(filter auditapimodels.AuditFilter) (list []dbmodels.AuditLog, total int64, err error)
	ListAll(filter auditapimodels.AuditFilter) (list []dbmodels.AuditLog, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.AuditLog) error {
	return i.db.Create(&rec).Error
}

func (i impl) applyFilter(tx *gorm.DB, filter auditapimodels.AuditFilter) *gorm.DB {
	if filter.ActorID != "" {
		tx = tx.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Entity != "" {
		tx = tx.Where("entity = ?", filter.Entity)
	}
	if filter.EntityID != "" {
		tx = tx.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		tx = tx.Where("action = ?", filter.Action)
	}
	if filter.Since != nil {
		tx = tx.Where("created_at >= ?", time.UnixMilli(*filter.Since))
	}
	if filter.Until != nil {
		tx = tx.Where("created_at <= ?", time.UnixMilli(*filter.Until))
	}
	return tx
}

func (i impl) List(filter auditapimodels.AuditFilter) (list []dbmodels.AuditLog, total int64, err error) {
	err = i.applyFilter(i.db.Model(&dbmodels.AuditLog{}), filter).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}
	list = []dbmodels.AuditLog{}
	err = i.applyFilter(i.db.Model(&dbmodels.AuditLog{}), filter).
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (i impl) ListAll(filter auditapimodels.AuditFilter) (list []dbmodels.AuditLog, err error) {
	list = []dbmodels.AuditLog{}
	err = i.applyFilter(i.db.Model(&dbmodels.AuditLog{}), filter).
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
