package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	UsersModule     Module = "USERS"
	TasksModule     Module = "TASKS"
	VehiclesModule  Module = "VEHICLES"
	DocumentsModule Module = "DOCUMENTS"
	TeamsModule     Module = "TEAMS"
	AuditModule     Module = "AUDIT"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	EditPermission   Permission = "EDIT"
	ViewPermission   Permission = "VIEW"
	ManagePermission Permission = "MANAGE"
	FlowPermission   Permission = "FLOW"
	ExportPermission Permission = "EXPORT"
)
