package usersstore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	userapimodels "noblelift-backend/models/api/user"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.User) (string, error)
	Update(userID string, updMap map[string]interface{}) error
	Delete(userID string) error
	List(filter userapimodels.UserFilter) (userList []dbmodels.User, total int64, err error)
	ListActive() (userList []dbmodels.User, err error)
	FindByEmail(email string) (rec *dbmodels.User, err error)
	GetByID(userID string) (rec *dbmodels.User, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) withAssociations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Role").
		Preload("Profile").
		Preload("Profile.Status")
}

func (i impl) applyFilter(tx *gorm.DB, filter userapimodels.UserFilter) *gorm.DB {
	if filter.Q != "" {
		q := "%" + strings.ToLower(filter.Q) + "%"
		tx = tx.Where("LOWER(users.email) LIKE ? OR LOWER(users.full_name) LIKE ?", q, q)
	}
	if filter.Role != "" {
		tx = tx.Where("users.role_id IN (SELECT id FROM roles WHERE code = ?)", filter.Role)
	}
	if filter.Status != "" {
		tx = tx.Where("users.id IN (SELECT user_id FROM profiles WHERE status_code = ?)", filter.Status)
	}
	return tx
}

func (i impl) List(filter userapimodels.UserFilter) (userList []dbmodels.User, total int64, err error) {
	err = i.applyFilter(i.db.Model(&dbmodels.User{}), filter).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}
	userList = []dbmodels.User{}
	err = i.withAssociations(i.applyFilter(i.db.Model(&dbmodels.User{}), filter)).
		Order("users.full_name ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&userList).
		Error
	if err != nil {
		return nil, 0, err
	}
	return userList, total, nil
}

func (i impl) ListActive() (userList []dbmodels.User, err error) {
	err = i.db.
		Where("is_active = ?", true).
		Find(&userList).
		Error
	if err != nil {
		return nil, err
	}
	return userList, nil
}

func (i impl) Delete(userID string) error {
	return i.db.
		Where("id = ?", userID).
		Delete(&dbmodels.User{}).
		Error
}

func (i impl) Update(userID string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", userID).
		Updates(updMap).
		Error
}

func (i impl) GetByID(userID string) (rec *dbmodels.User, err error) {
	err = i.withAssociations(i.db.Model(&dbmodels.User{})).
		Where("id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) FindByEmail(email string) (rec *dbmodels.User, err error) {
	err = i.withAssociations(i.db.Model(&dbmodels.User{})).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) Create(rec dbmodels.User) (string, error) {
	err := i.db.
		Omit("Role", "Profile").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}
