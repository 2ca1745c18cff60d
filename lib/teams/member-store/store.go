package teammemberstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TeamMember) (id string, err error)
	Get(teamID, userID string) (*dbmodels.TeamMember, error)
	List(teamID string) (list []dbmodels.TeamMember, err error)
	Delete(teamID, userID string) (ok bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TeamMember) (id string, err error) {
	err = i.db.
		Omit("Team", "User").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Get(teamID, userID string) (*dbmodels.TeamMember, error) {
	rec := dbmodels.TeamMember{}
	err := i.db.
		Model(&dbmodels.TeamMember{}).
		Where("team_id = ?", teamID).
		Where("user_id = ?", userID).
		Preload("User").
		Preload("User.Role").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(teamID string) (list []dbmodels.TeamMember, err error) {
	list = []dbmodels.TeamMember{}
	err = i.db.
		Where("team_id = ?", teamID).
		Preload("User").
		Preload("User.Role").
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(teamID, userID string) (ok bool, err error) {
	tx := i.db.
		Where("team_id = ?", teamID).
		Where("user_id = ?", userID).
		Delete(&dbmodels.TeamMember{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}
