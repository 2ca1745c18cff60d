package teamshandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/db"
	audithandler "noblelift-backend/lib/audit"
	teammemberstore "noblelift-backend/lib/teams/member-store"
	teamstore "noblelift-backend/lib/teams/store"
	usersstore "noblelift-backend/lib/users/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	teamapimodels "noblelift-backend/models/api/team"
	dbmodels "noblelift-backend/models/db"
)

type Provider interface {
	List(filter teamapimodels.TeamFilter) ([]teamapimodels.Team, int64, error)
	Get(id string) (*teamapimodels.Team, error)
	Create(actor models.Actor, data teamapimodels.TeamData) (*teamapimodels.Team, error)
	Update(actor models.Actor, id string, data teamapimodels.TeamUpdate) (*teamapimodels.Team, error)
	Delete(actor models.Actor, id string) error
	Members(id string) ([]teamapimodels.TeamMember, error)
	AddMember(actor models.Actor, id string, data teamapimodels.MemberAdd) (*teamapimodels.TeamMember, error)
	RemoveMember(actor models.Actor, id, userID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:          db.DB,
		transaction: db.Transaction,
		store:       teamstore.NewInstance,
		memberStore: teammemberstore.NewInstance,
		usersStore:  usersstore.NewInstance,
		audit:       audithandler.NewHandlerWithTx,
	}
}

type impl struct {
	db          *gorm.DB
	transaction db.TxFunc
	store       func(tx *gorm.DB) teamstore.Provider
	memberStore func(tx *gorm.DB) teammemberstore.Provider
	usersStore  func(tx *gorm.DB) usersstore.Provider
	audit       func(tx *gorm.DB) audithandler.Writer
}

var (
	errNameExists   = apperrors.BadRequest("Name already exists")
	errTeamNotFound = apperrors.NotFound("Team not found")
)

func (i impl) getLogger(actor models.Actor, teamID string) *log.Entry {
	return log.
		WithField("user_id", actor.UserID).
		WithField("team_id", teamID)
}

func (i impl) checkName(store teamstore.Provider, id, name string) error {
	existed, err := store.FindByName(name)
	if err != nil {
		return errors.Wrap(err, "ошибка поиска команды")
	}
	if existed != nil && existed.ID != id {
		return errNameExists
	}
	return nil
}

func (i impl) getTeam(store teamstore.Provider, id string) (*dbmodels.Team, error) {
	rec, err := store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения команды")
	}
	if rec == nil {
		return nil, errTeamNotFound
	}
	return rec, nil
}

func (i impl) List(filter teamapimodels.TeamFilter) ([]teamapimodels.Team, int64, error) {
	list, total, err := i.store(i.db).List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка команд")
	}
	result := make([]teamapimodels.Team, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, total, nil
}

func (i impl) Get(id string) (*teamapimodels.Team, error) {
	rec, err := i.getTeam(i.store(i.db), id)
	if err != nil {
		return nil, err
	}
	result := rec.ToModel()
	return &result, nil
}

func (i impl) Create(actor models.Actor, data teamapimodels.TeamData) (*teamapimodels.Team, error) {
	if !actor.Role.IsManager() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	var result *dbmodels.Team
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		if err := i.checkName(store, "", data.Name); err != nil {
			return err
		}
		id, err := store.Create(dbmodels.Team{
			Name:        data.Name,
			Description: data.Description,
			CreatedBy:   helpers.EmptyToNil(helpers.StrPtr(actor.UserID)),
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errNameExists
			}
			return errors.Wrap(err, "ошибка создания команды")
		}
		if err = i.audit(tx).Write(actor, models.AuditCreate, models.EntityTeam, id, map[string]any{"name": data.Name}); err != nil {
			return err
		}
		result, err = i.getTeam(store, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	team := result.ToModel()
	return &team, nil
}

func (i impl) Update(actor models.Actor, id string, data teamapimodels.TeamUpdate) (*teamapimodels.Team, error) {
	if !actor.Role.IsManager() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	var result *dbmodels.Team
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		if _, err := i.getTeam(store, id); err != nil {
			return err
		}
		updMap := map[string]interface{}{}
		if data.Name != nil {
			if err := i.checkName(store, id, *data.Name); err != nil {
				return err
			}
			updMap["name"] = *data.Name
		}
		if data.Description != nil {
			updMap["description"] = helpers.EmptyToNil(data.Description)
		}
		if err := store.Update(id, updMap); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errNameExists
			}
			return errors.Wrap(err, "ошибка обновления команды")
		}
		if len(updMap) != 0 {
			if err := i.audit(tx).Write(actor, models.AuditUpdate, models.EntityTeam, id, nil); err != nil {
				return err
			}
		}
		var err error
		result, err = i.getTeam(store, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	team := result.ToModel()
	return &team, nil
}

func (i impl) Delete(actor models.Actor, id string) error {
	if !actor.Role.IsManager() {
		return apperrors.Forbidden("Forbidden")
	}
	return i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := i.getTeam(store, id)
		if err != nil {
			return err
		}
		if err = store.Delete(id); err != nil {
			return errors.Wrap(err, "ошибка удаления команды")
		}
		return i.audit(tx).Write(actor, models.AuditDelete, models.EntityTeam, id, map[string]any{"name": rec.Name})
	})
}

func (i impl) Members(id string) ([]teamapimodels.TeamMember, error) {
	if _, err := i.getTeam(i.store(i.db), id); err != nil {
		return nil, err
	}
	list, err := i.memberStore(i.db).List(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения участников команды")
	}
	result := make([]teamapimodels.TeamMember, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

// AddMember повторное добавление отклоняется уникальным индексом (team_id, user_id)
func (i impl) AddMember(actor models.Actor, id string, data teamapimodels.MemberAdd) (*teamapimodels.TeamMember, error) {
	if !actor.Role.IsManager() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	var result *dbmodels.TeamMember
	err := i.transaction(func(tx *gorm.DB) error {
		if _, err := i.getTeam(i.store(tx), id); err != nil {
			return err
		}
		user, err := i.usersStore(tx).GetByID(data.UserID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения пользователя")
		}
		if user == nil {
			return apperrors.BadRequest("User not found")
		}
		memberStore := i.memberStore(tx)
		_, err = memberStore.Create(dbmodels.TeamMember{
			TeamID: id,
			UserID: data.UserID,
			Role:   data.Role,
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("Already in team")
			}
			return errors.Wrap(err, "ошибка добавления участника команды")
		}
		payload := map[string]any{"member": data.UserID, "role": data.Role}
		if err = i.audit(tx).Write(actor, models.AuditUpdate, models.EntityTeam, id, payload); err != nil {
			return err
		}
		result, err = memberStore.Get(id, data.UserID)
		return errors.Wrap(err, "ошибка получения участника команды")
	})
	if err != nil {
		return nil, err
	}
	i.getLogger(actor, id).WithField("member_id", data.UserID).Info("участник добавлен в команду")
	member := result.ToModel()
	return &member, nil
}

func (i impl) RemoveMember(actor models.Actor, id, userID string) error {
	if !actor.Role.IsManager() {
		return apperrors.Forbidden("Forbidden")
	}
	return i.transaction(func(tx *gorm.DB) error {
		ok, err := i.memberStore(tx).Delete(id, userID)
		if err != nil {
			return errors.Wrap(err, "ошибка удаления участника команды")
		}
		if !ok {
			return apperrors.NotFound("Member not found")
		}
		return i.audit(tx).Write(actor, models.AuditUpdate, models.EntityTeam, id, map[string]any{"removed": userID})
	})
}
