package models

type UserRole string

const (
	SuperAdminRole UserRole = "super_admin"
	ManagerRole    UserRole = "manager"
	EmployeeRole   UserRole = "employee"
)

var roleHumanName = map[UserRole]string{
	SuperAdminRole: "Super Admin",
	ManagerRole:    "Manager",
	EmployeeRole:   "Employee",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsSuperAdmin() bool {
	return r == SuperAdminRole
}

// IsManager true для менеджера и суперадмина
func (r UserRole) IsManager() bool {
	return r == SuperAdminRole || r == ManagerRole
}

var DefaultRoles = []UserRole{SuperAdminRole, ManagerRole, EmployeeRole}

type ProfileStatusCode string

const (
	StatusInOffice     ProfileStatusCode = "in_office"
	StatusRemote       ProfileStatusCode = "remote"
	StatusAway         ProfileStatusCode = "away"
	StatusMeeting      ProfileStatusCode = "meeting"
	StatusDayOff       ProfileStatusCode = "dayoff"
	StatusBusinessTrip ProfileStatusCode = "business_trip"
	StatusVacation     ProfileStatusCode = "vacation"
)

var profileStatusHumanName = map[ProfileStatusCode]string{
	StatusInOffice:     "В офисе",
	StatusRemote:       "Удалённо",
	StatusAway:         "Отошёл",
	StatusMeeting:      "Встреча",
	StatusDayOff:       "Выходной",
	StatusBusinessTrip: "Командировка",
	StatusVacation:     "Отпуск",
}

var DefaultProfileStatuses = []ProfileStatusCode{
	StatusInOffice, StatusRemote, StatusAway, StatusMeeting, StatusDayOff, StatusBusinessTrip, StatusVacation,
}

func (s ProfileStatusCode) ToHuman() string {
	if human, exist := profileStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsPresence статусы, при которых сотрудник считается приступившим к работе
func (s ProfileStatusCode) IsPresence() bool {
	return s == StatusInOffice || s == StatusRemote
}
