package vehicleshandler

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	audithandler "noblelift-backend/lib/audit"
	vehiclelogstore "noblelift-backend/lib/vehicles/log-store"
	vehiclestore "noblelift-backend/lib/vehicles/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
	vehicleapimodels "noblelift-backend/models/api/vehicle"
	dbmodels "noblelift-backend/models/db"
)

type fakeStore struct {
	mu       sync.Mutex
	vehicles map[string]*dbmodels.Vehicle
}

func newFakeStore(list ...dbmodels.Vehicle) *fakeStore {
	store := &fakeStore{vehicles: map[string]*dbmodels.Vehicle{}}
	for _, rec := range list {
		vehicle := rec
		store.vehicles[vehicle.ID] = &vehicle
	}
	return store
}

func (f *fakeStore) Create(rec dbmodels.Vehicle) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = "v-new"
	f.vehicles[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeStore) GetByID(id string) (*dbmodels.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.vehicles[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeStore) FindByNumber(number string) (*dbmodels.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.vehicles {
		if rec.Number == number {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Update(id string, updMap map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.vehicles[id]
	if number, ok := updMap["number"]; ok {
		rec.Number = number.(string)
	}
	if status, ok := updMap["status"]; ok {
		rec.Status = status.(models.VehicleStatus)
	}
	return nil
}

func (f *fakeStore) List(filter vehicleapimodels.VehicleFilter) ([]dbmodels.Vehicle, int64, error) {
	return nil, 0, nil
}

func (f *fakeStore) Take(id, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.vehicles[id]
	if !ok || rec.IsHeld() || rec.Status != models.VehicleStatusAvailable {
		return false, nil
	}
	rec.HolderID = helpers.StrPtr(userID)
	rec.Status = models.VehicleStatusInUse
	return true, nil
}

func (f *fakeStore) Release(id, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.vehicles[id]
	if !ok || !rec.IsHeldBy(userID) {
		return false, nil
	}
	rec.HolderID = nil
	rec.Status = models.VehicleStatusAvailable
	return true, nil
}

func (f *fakeStore) DeleteFree(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.vehicles[id]
	if !ok || rec.IsHeld() {
		return false, nil
	}
	delete(f.vehicles, id)
	return true, nil
}

type fakeLogStore struct {
	mu      sync.Mutex
	actions []models.VehicleAction
}

func (f *fakeLogStore) Create(rec dbmodels.VehicleLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, rec.Action)
	return nil
}

func (f *fakeLogStore) ListByVehicle(vehicleID string, page apimodels.Pagination) ([]dbmodels.VehicleLog, int64, error) {
	return nil, 0, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	actions []models.AuditAction
}

func (f *fakeAudit) Write(actor models.Actor, action models.AuditAction, entity models.AuditEntity, entityID string, payload map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func getInstance(store *fakeStore, logs *fakeLogStore, audit *fakeAudit) impl {
	return impl{
		transaction: func(fc func(tx *gorm.DB) error) error { return fc(nil) },
		store:       func(tx *gorm.DB) vehiclestore.Provider { return store },
		logStore:    func(tx *gorm.DB) vehiclelogstore.Provider { return logs },
		audit:       func(tx *gorm.DB) audithandler.Writer { return audit },
	}
}

var (
	superAdmin = models.Actor{UserID: "u-admin", Role: models.SuperAdminRole}
	manager    = models.Actor{UserID: "u-manager", Role: models.ManagerRole}
	driverA    = models.Actor{UserID: "u-a", Role: models.EmployeeRole}
	driverB    = models.Actor{UserID: "u-b", Role: models.EmployeeRole}
)

func truck(id string) dbmodels.Vehicle {
	rec := dbmodels.Vehicle{Number: "А123ВС77", Status: models.VehicleStatusAvailable}
	rec.ID = id
	return rec
}

func requireCode(t *testing.T, err error, code apperrors.Code, message string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.Classify(err)
	require.True(t, ok, err.Error())
	require.Equal(t, code, appErr.Code)
	if message != "" {
		require.Equal(t, message, appErr.Message)
	}
}

func TestVehicleHandler(t *testing.T) {
	t.Run(`take release take`, func(t *testing.T) {
		logs := &fakeLogStore{}
		i := getInstance(newFakeStore(truck("v1")), logs, &fakeAudit{})
		vehicle, err := i.Take(driverA, "v1")
		require.NoError(t, err)
		require.Equal(t, driverA.UserID, helpers.PtrValue(vehicle.HolderID))
		require.Equal(t, string(models.VehicleStatusInUse), vehicle.Status)

		_, err = i.Take(driverB, "v1")
		requireCode(t, err, apperrors.CodeConflict, "Vehicle is not available")

		_, err = i.Release(driverB, "v1")
		requireCode(t, err, apperrors.CodeConflict, "Vehicle is not held by you")

		vehicle, err = i.Release(driverA, "v1")
		require.NoError(t, err)
		require.Nil(t, vehicle.HolderID)
		require.Equal(t, string(models.VehicleStatusAvailable), vehicle.Status)

		vehicle, err = i.Take(driverB, "v1")
		require.NoError(t, err)
		require.Equal(t, driverB.UserID, helpers.PtrValue(vehicle.HolderID))
		require.Equal(t, []models.VehicleAction{models.VehicleActionTake, models.VehicleActionRelease, models.VehicleActionTake}, logs.actions)
	})
	t.Run(`take vehicle in service`, func(t *testing.T) {
		rec := truck("v1")
		rec.Status = models.VehicleStatusService
		i := getInstance(newFakeStore(rec), &fakeLogStore{}, &fakeAudit{})
		_, err := i.Take(driverA, "v1")
		requireCode(t, err, apperrors.CodeConflict, "Vehicle is not available")
	})
	t.Run(`take missing vehicle`, func(t *testing.T) {
		i := getInstance(newFakeStore(), &fakeLogStore{}, &fakeAudit{})
		_, err := i.Take(driverA, "v1")
		requireCode(t, err, apperrors.CodeNotFound, "")
		_, err = i.Release(driverA, "v1")
		requireCode(t, err, apperrors.CodeNotFound, "")
	})
	t.Run(`concurrent take has one winner`, func(t *testing.T) {
		logs := &fakeLogStore{}
		i := getInstance(newFakeStore(truck("v1")), logs, &fakeAudit{})
		const callers = 16
		var wins, conflicts atomic.Int32
		wg := sync.WaitGroup{}
		for n := 0; n < callers; n++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				actor := models.Actor{UserID: "u-" + string(rune('a'+n)), Role: models.EmployeeRole}
				_, err := i.Take(actor, "v1")
				if err == nil {
					wins.Add(1)
					return
				}
				if apperrors.IsCode(err, apperrors.CodeConflict) {
					conflicts.Add(1)
				}
			}(n)
		}
		wg.Wait()
		require.Equal(t, int32(1), wins.Load())
		require.Equal(t, int32(callers-1), conflicts.Load())
		require.Len(t, logs.actions, 1)
	})
	t.Run(`update status while held is allowed`, func(t *testing.T) {
		store := newFakeStore(truck("v1"))
		i := getInstance(store, &fakeLogStore{}, &fakeAudit{})
		_, err := i.Take(driverA, "v1")
		require.NoError(t, err)
		vehicle, err := i.Update(manager, "v1", vehicleapimodels.VehicleUpdate{Status: helpers.StrPtr("service")})
		require.NoError(t, err)
		require.Equal(t, string(models.VehicleStatusService), vehicle.Status)
		require.Equal(t, driverA.UserID, helpers.PtrValue(vehicle.HolderID))
	})
	t.Run(`update by employee`, func(t *testing.T) {
		i := getInstance(newFakeStore(truck("v1")), &fakeLogStore{}, &fakeAudit{})
		_, err := i.Update(driverA, "v1", vehicleapimodels.VehicleUpdate{Status: helpers.StrPtr("service")})
		requireCode(t, err, apperrors.CodeForbidden, "")
	})
	t.Run(`update invalid status`, func(t *testing.T) {
		i := getInstance(newFakeStore(truck("v1")), &fakeLogStore{}, &fakeAudit{})
		_, err := i.Update(manager, "v1", vehicleapimodels.VehicleUpdate{Status: helpers.StrPtr("broken")})
		requireCode(t, err, apperrors.CodeBadRequest, "Invalid status. Allowed: [available in_use service inactive]")
	})
	t.Run(`update duplicate number`, func(t *testing.T) {
		other := truck("v2")
		other.Number = "В777ОР77"
		i := getInstance(newFakeStore(truck("v1"), other), &fakeLogStore{}, &fakeAudit{})
		_, err := i.Update(manager, "v1", vehicleapimodels.VehicleUpdate{Number: helpers.StrPtr("В777ОР77")})
		requireCode(t, err, apperrors.CodeBadRequest, "Number already exists")
	})
	t.Run(`create`, func(t *testing.T) {
		logs := &fakeLogStore{}
		audit := &fakeAudit{}
		i := getInstance(newFakeStore(truck("v1")), logs, audit)
		_, err := i.Create(manager, vehicleapimodels.VehicleCreate{Number: "Е001КХ77"})
		requireCode(t, err, apperrors.CodeForbidden, "")
		_, err = i.Create(superAdmin, vehicleapimodels.VehicleCreate{Number: "А123ВС77"})
		requireCode(t, err, apperrors.CodeBadRequest, "Number already exists")
		vehicle, err := i.Create(superAdmin, vehicleapimodels.VehicleCreate{Number: "Е001КХ77"})
		require.NoError(t, err)
		require.Equal(t, string(models.VehicleStatusAvailable), vehicle.Status)
		require.Equal(t, []models.VehicleAction{models.VehicleActionCreate}, logs.actions)
		require.Equal(t, []models.AuditAction{models.AuditCreate}, audit.actions)
	})
	t.Run(`delete in use`, func(t *testing.T) {
		store := newFakeStore(truck("v1"))
		audit := &fakeAudit{}
		i := getInstance(store, &fakeLogStore{}, audit)
		_, err := i.Take(driverA, "v1")
		require.NoError(t, err)
		requireCode(t, i.Delete(superAdmin, "v1"), apperrors.CodeConflict, "Cannot delete vehicle in use")
		requireCode(t, i.Delete(manager, "v1"), apperrors.CodeForbidden, "")
		_, err = i.Release(driverA, "v1")
		require.NoError(t, err)
		require.NoError(t, i.Delete(superAdmin, "v1"))
		requireCode(t, i.Delete(superAdmin, "v1"), apperrors.CodeNotFound, "")
		require.Equal(t, []models.AuditAction{models.AuditTake, models.AuditRelease, models.AuditDelete}, audit.actions)
	})
}
