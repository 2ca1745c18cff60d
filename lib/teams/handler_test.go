package teamshandler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	audithandler "noblelift-backend/lib/audit"
	teammemberstore "noblelift-backend/lib/teams/member-store"
	teamstore "noblelift-backend/lib/teams/store"
	usersstore "noblelift-backend/lib/users/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/models"
	teamapimodels "noblelift-backend/models/api/team"
	dbmodels "noblelift-backend/models/db"
)

type fakeTeamStore struct {
	teams map[string]dbmodels.Team
	seq   int
}

func (f *fakeTeamStore) Create(rec dbmodels.Team) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("team-%v", f.seq)
	f.teams[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeTeamStore) GetByID(id string) (*dbmodels.Team, error) {
	rec, ok := f.teams[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeTeamStore) FindByName(name string) (*dbmodels.Team, error) {
	for _, rec := range f.teams {
		if strings.EqualFold(rec.Name, name) {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeTeamStore) Update(id string, updMap map[string]interface{}) error {
	rec := f.teams[id]
	if name, ok := updMap["name"]; ok {
		rec.Name = name.(string)
	}
	f.teams[id] = rec
	return nil
}

func (f *fakeTeamStore) Delete(id string) error {
	delete(f.teams, id)
	return nil
}

func (f *fakeTeamStore) List(filter teamapimodels.TeamFilter) ([]dbmodels.Team, int64, error) {
	return nil, 0, nil
}

type fakeMemberStore struct {
	members []dbmodels.TeamMember
}

func (f *fakeMemberStore) Create(rec dbmodels.TeamMember) (string, error) {
	for _, existed := range f.members {
		if existed.TeamID == rec.TeamID && existed.UserID == rec.UserID {
			return "", gorm.ErrDuplicatedKey
		}
	}
	rec.ID = fmt.Sprintf("member-%v", len(f.members)+1)
	f.members = append(f.members, rec)
	return rec.ID, nil
}

func (f *fakeMemberStore) Get(teamID, userID string) (*dbmodels.TeamMember, error) {
	for _, rec := range f.members {
		if rec.TeamID == teamID && rec.UserID == userID {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberStore) List(teamID string) ([]dbmodels.TeamMember, error) {
	result := []dbmodels.TeamMember{}
	for _, rec := range f.members {
		if rec.TeamID == teamID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeMemberStore) Delete(teamID, userID string) (bool, error) {
	for idx, rec := range f.members {
		if rec.TeamID == teamID && rec.UserID == userID {
			f.members = append(f.members[:idx], f.members[idx+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeUsersStore struct {
	usersstore.Provider
}

func (fakeUsersStore) GetByID(userID string) (*dbmodels.User, error) {
	if userID != "u-worker" {
		return nil, nil
	}
	rec := dbmodels.User{FullName: "Сидоров Иван"}
	rec.ID = userID
	return &rec, nil
}

type fakeAudit struct{}

func (fakeAudit) Write(actor models.Actor, action models.AuditAction, entity models.AuditEntity, entityID string, payload map[string]any) error {
	return nil
}

func getInstance() (impl, *fakeTeamStore, *fakeMemberStore) {
	teams := &fakeTeamStore{teams: map[string]dbmodels.Team{}}
	members := &fakeMemberStore{}
	return impl{
		transaction: func(fc func(tx *gorm.DB) error) error { return fc(nil) },
		store:       func(tx *gorm.DB) teamstore.Provider { return teams },
		memberStore: func(tx *gorm.DB) teammemberstore.Provider { return members },
		usersStore:  func(tx *gorm.DB) usersstore.Provider { return fakeUsersStore{} },
		audit:       func(tx *gorm.DB) audithandler.Writer { return fakeAudit{} },
	}, teams, members
}

var (
	manager  = models.Actor{UserID: "u-manager", Role: models.ManagerRole}
	employee = models.Actor{UserID: "u-employee", Role: models.EmployeeRole}
)

func TestTeams(t *testing.T) {
	t.Run(`create and rename`, func(t *testing.T) {
		i, _, _ := getInstance()
		team, err := i.Create(manager, teamapimodels.TeamData{Name: "Склад"})
		require.NoError(t, err)
		require.Equal(t, "Склад", team.Name)
		require.Equal(t, manager.UserID, *team.CreatedBy)

		name := "Склад №2"
		team, err = i.Update(manager, team.ID, teamapimodels.TeamUpdate{Name: &name})
		require.NoError(t, err)
		require.Equal(t, name, team.Name)
	})
	t.Run(`duplicate name`, func(t *testing.T) {
		i, _, _ := getInstance()
		_, err := i.Create(manager, teamapimodels.TeamData{Name: "Склад"})
		require.NoError(t, err)
		_, err = i.Create(manager, teamapimodels.TeamData{Name: "склад"})
		require.EqualError(t, err, "bad_request: Name already exists")
	})
	t.Run(`employee is forbidden`, func(t *testing.T) {
		i, _, _ := getInstance()
		_, err := i.Create(employee, teamapimodels.TeamData{Name: "Склад"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})
	t.Run(`missing team`, func(t *testing.T) {
		i, _, _ := getInstance()
		_, err := i.Get("team-x")
		require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
		require.True(t, apperrors.IsCode(i.Delete(manager, "team-x"), apperrors.CodeNotFound))
	})
}

func TestMembers(t *testing.T) {
	i, _, members := getInstance()
	team, err := i.Create(manager, teamapimodels.TeamData{Name: "Склад"})
	require.NoError(t, err)

	t.Run(`add`, func(t *testing.T) {
		member, err := i.AddMember(manager, team.ID, teamapimodels.MemberAdd{UserID: "u-worker", Role: "lead"})
		require.NoError(t, err)
		require.Equal(t, "lead", member.Role)
		list, err := i.Members(team.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})
	t.Run(`already in team`, func(t *testing.T) {
		_, err := i.AddMember(manager, team.ID, teamapimodels.MemberAdd{UserID: "u-worker", Role: "member"})
		require.EqualError(t, err, "conflict: Already in team")
	})
	t.Run(`unknown user`, func(t *testing.T) {
		_, err := i.AddMember(manager, team.ID, teamapimodels.MemberAdd{UserID: "u-ghost", Role: "member"})
		require.EqualError(t, err, "bad_request: User not found")
	})
	t.Run(`remove`, func(t *testing.T) {
		require.NoError(t, i.RemoveMember(manager, team.ID, "u-worker"))
		require.Empty(t, members.members)
		require.True(t, apperrors.IsCode(i.RemoveMember(manager, team.ID, "u-worker"), apperrors.CodeNotFound))
	})
}
