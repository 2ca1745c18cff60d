package vehicleshandler

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/db"
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

type Provider interface {
	List(filter vehicleapimodels.VehicleFilter) ([]vehicleapimodels.Vehicle, int64, error)
	Get(id string) (*vehicleapimodels.Vehicle, error)
	Create(actor models.Actor, data vehicleapimodels.VehicleCreate) (*vehicleapimodels.Vehicle, error)
	Update(actor models.Actor, id string, data vehicleapimodels.VehicleUpdate) (*vehicleapimodels.Vehicle, error)
	Delete(actor models.Actor, id string) error
	Take(actor models.Actor, id string) (*vehicleapimodels.Vehicle, error)
	Release(actor models.Actor, id string) (*vehicleapimodels.Vehicle, error)
	Logs(id string, page apimodels.Pagination) ([]vehicleapimodels.VehicleLog, int64, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:          db.DB,
		transaction: db.Transaction,
		store:       vehiclestore.NewInstance,
		logStore:    vehiclelogstore.NewInstance,
		audit:       audithandler.NewHandlerWithTx,
	}
}

type impl struct {
	db          *gorm.DB
	transaction db.TxFunc
	store       func(tx *gorm.DB) vehiclestore.Provider
	logStore    func(tx *gorm.DB) vehiclelogstore.Provider
	audit       func(tx *gorm.DB) audithandler.Writer
}

var errNumberExists = apperrors.BadRequest("Number already exists")

func (i impl) getLogger(actor models.Actor, vehicleID string) *log.Entry {
	return log.
		WithField("user_id", actor.UserID).
		WithField("vehicle_id", vehicleID)
}

func (i impl) List(filter vehicleapimodels.VehicleFilter) ([]vehicleapimodels.Vehicle, int64, error) {
	list, total, err := i.store(i.db).List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка машин")
	}
	result := make([]vehicleapimodels.Vehicle, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, total, nil
}

func (i impl) Get(id string) (*vehicleapimodels.Vehicle, error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения машины")
	}
	if rec == nil {
		return nil, apperrors.NotFound("Vehicle not found")
	}
	result := rec.ToModel()
	return &result, nil
}

func parseStatus(code string) (models.VehicleStatus, error) {
	status := models.VehicleStatus(code)
	if !status.IsValid() {
		return "", apperrors.BadRequest(fmt.Sprintf("Invalid status. Allowed: %v", models.VehicleStatuses))
	}
	return status, nil
}

func (i impl) checkNumber(store vehiclestore.Provider, id, number string) error {
	existed, err := store.FindByNumber(number)
	if err != nil {
		return errors.Wrap(err, "ошибка поиска машины по номеру")
	}
	if existed != nil && existed.ID != id {
		return errNumberExists
	}
	return nil
}

func (i impl) Create(actor models.Actor, data vehicleapimodels.VehicleCreate) (*vehicleapimodels.Vehicle, error) {
	if !actor.Role.IsSuperAdmin() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	rec := dbmodels.Vehicle{
		Number: data.Number,
		Color:  helpers.EmptyToNil(data.Color),
		Brand:  helpers.EmptyToNil(data.Brand),
		Model:  helpers.EmptyToNil(data.Model),
		Status: models.VehicleStatusAvailable,
	}
	if data.Status != "" {
		status, err := parseStatus(data.Status)
		if err != nil {
			return nil, err
		}
		rec.Status = status
	}
	var result *dbmodels.Vehicle
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		if err := i.checkNumber(store, "", rec.Number); err != nil {
			return err
		}
		id, err := store.Create(rec)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errNumberExists
			}
			return errors.Wrap(err, "ошибка создания машины")
		}
		payload := map[string]any{"number": rec.Number}
		if err = i.writeHistory(tx, actor, id, models.VehicleActionCreate, models.AuditCreate, payload); err != nil {
			return err
		}
		result, err = store.GetByID(id)
		return errors.Wrap(err, "ошибка получения машины")
	})
	if err != nil {
		return nil, err
	}
	vehicle := result.ToModel()
	return &vehicle, nil
}

// Update смена статуса допускается и при назначенном водителе, водитель при этом не меняется
func (i impl) Update(actor models.Actor, id string, data vehicleapimodels.VehicleUpdate) (*vehicleapimodels.Vehicle, error) {
	if !actor.Role.IsManager() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	updMap := map[string]interface{}{}
	if data.Number != nil {
		updMap["number"] = *data.Number
	}
	if data.Color != nil {
		updMap["color"] = helpers.EmptyToNil(data.Color)
	}
	if data.Brand != nil {
		updMap["brand"] = helpers.EmptyToNil(data.Brand)
	}
	if data.Model != nil {
		updMap["model"] = helpers.EmptyToNil(data.Model)
	}
	if data.Status != nil {
		status, err := parseStatus(*data.Status)
		if err != nil {
			return nil, err
		}
		updMap["status"] = status
	}
	var result *dbmodels.Vehicle
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения машины")
		}
		if rec == nil {
			return apperrors.NotFound("Vehicle not found")
		}
		if len(updMap) == 0 {
			result = rec
			return nil
		}
		if data.Number != nil {
			if err = i.checkNumber(store, id, *data.Number); err != nil {
				return err
			}
		}
		if err = store.Update(id, updMap); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errNumberExists
			}
			return errors.Wrap(err, "ошибка обновления машины")
		}
		payload := map[string]any{}
		for field, value := range updMap {
			payload[field] = value
		}
		if err = i.writeHistory(tx, actor, id, models.VehicleActionUpdate, models.AuditUpdate, payload); err != nil {
			return err
		}
		result, err = store.GetByID(id)
		return errors.Wrap(err, "ошибка получения машины")
	})
	if err != nil {
		return nil, err
	}
	vehicle := result.ToModel()
	return &vehicle, nil
}

func (i impl) Delete(actor models.Actor, id string) error {
	if !actor.Role.IsSuperAdmin() {
		return apperrors.Forbidden("Forbidden")
	}
	return i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		ok, err := store.DeleteFree(id)
		if err != nil {
			return errors.Wrap(err, "ошибка удаления машины")
		}
		if !ok {
			rec, err := store.GetByID(id)
			if err != nil {
				return errors.Wrap(err, "ошибка получения машины")
			}
			if rec == nil {
				return apperrors.NotFound("Vehicle not found")
			}
			return apperrors.Conflict("Cannot delete vehicle in use")
		}
		return i.audit(tx).Write(actor, models.AuditDelete, models.EntityVehicle, id, nil)
	})
}

// transition условное обновление, запись журнала машины и аудита в одной транзакции
func (i impl) transition(actor models.Actor, id string, apply func(store vehiclestore.Provider) (bool, error),
	conflictMsg string, action models.VehicleAction, auditAction models.AuditAction) (*vehicleapimodels.Vehicle, error) {
	var result *dbmodels.Vehicle
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		ok, err := apply(store)
		if err != nil {
			return errors.Wrapf(err, "ошибка изменения машины (%v)", action)
		}
		result, err = store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения машины")
		}
		if result == nil {
			return apperrors.NotFound("Vehicle not found")
		}
		if !ok {
			return apperrors.Conflict(conflictMsg)
		}
		return i.writeHistory(tx, actor, id, action, auditAction, nil)
	})
	if err != nil {
		return nil, err
	}
	i.getLogger(actor, id).Infof("машина: %v", action)
	vehicle := result.ToModel()
	return &vehicle, nil
}

func (i impl) Take(actor models.Actor, id string) (*vehicleapimodels.Vehicle, error) {
	return i.transition(actor, id, func(store vehiclestore.Provider) (bool, error) {
		return store.Take(id, actor.UserID)
	}, "Vehicle is not available", models.VehicleActionTake, models.AuditTake)
}

func (i impl) Release(actor models.Actor, id string) (*vehicleapimodels.Vehicle, error) {
	return i.transition(actor, id, func(store vehiclestore.Provider) (bool, error) {
		return store.Release(id, actor.UserID)
	}, "Vehicle is not held by you", models.VehicleActionRelease, models.AuditRelease)
}

func (i impl) Logs(id string, page apimodels.Pagination) ([]vehicleapimodels.VehicleLog, int64, error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения машины")
	}
	if rec == nil {
		return nil, 0, apperrors.NotFound("Vehicle not found")
	}
	list, total, err := i.logStore(i.db).ListByVehicle(id, page)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения журнала машины")
	}
	result := make([]vehicleapimodels.VehicleLog, 0, len(list))
	for _, logRec := range list {
		result = append(result, logRec.ToModel())
	}
	return result, total, nil
}

func (i impl) writeHistory(tx *gorm.DB, actor models.Actor, vehicleID string, action models.VehicleAction, auditAction models.AuditAction, payload map[string]any) error {
	logRec := dbmodels.VehicleLog{
		VehicleID: vehicleID,
		UserID:    helpers.EmptyToNil(helpers.StrPtr(actor.UserID)),
		Action:    action,
		Payload:   payload,
	}
	if err := i.logStore(tx).Create(logRec); err != nil {
		return errors.Wrap(err, "ошибка записи журнала машины")
	}
	return i.audit(tx).Write(actor, auditAction, models.EntityVehicle, vehicleID, payload)
}
