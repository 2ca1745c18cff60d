package models

type VehicleStatus string

const (
	VehicleStatusAvailable VehicleStatus = "available"
	VehicleStatusInUse     VehicleStatus = "in_use"
	VehicleStatusService   VehicleStatus = "service"
	VehicleStatusInactive  VehicleStatus = "inactive"
)

var vehicleStatusHumanName = map[VehicleStatus]string{
	VehicleStatusAvailable: "Свободна",
	VehicleStatusInUse:     "Используется",
	VehicleStatusService:   "На обслуживании",
	VehicleStatusInactive:  "Не используется",
}

var VehicleStatuses = []VehicleStatus{
	VehicleStatusAvailable,
	VehicleStatusInUse,
	VehicleStatusService,
	VehicleStatusInactive,
}

func (s VehicleStatus) ToHuman() string {
	if human, exist := vehicleStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s VehicleStatus) IsValid() bool {
	_, ok := vehicleStatusHumanName[s]
	return ok
}

type VehicleAction string

const (
	VehicleActionCreate  VehicleAction = "create"
	VehicleActionUpdate  VehicleAction = "update"
	VehicleActionTake    VehicleAction = "take"
	VehicleActionRelease VehicleAction = "release"
)
