package rbac

import (
	"noblelift-backend/models"
)

var (
	SuperAdminRoleSet = []models.UserRole{models.SuperAdminRole}
	ManagerRoleSet    = []models.UserRole{models.SuperAdminRole, models.ManagerRole}
	AllRoles          = []models.UserRole{models.SuperAdminRole, models.ManagerRole, models.EmployeeRole}
)

func (i *impl) initRules() {
	i.addUsersRbac()
	i.addTasksRbac()
	i.addVehiclesRbac()
	i.addDocumentsRbac()
	i.addTeamsRbac()
	i.addAuditRbac()
}

// rule правила регистрируются при старте, ошибка в шаблоне является ошибкой программы
func (i *impl) rule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string) {
	if err := i.RegisterRule(module, permission, roles, swaggerPattern); err != nil {
		panic(err.Error())
	}
}

func (i *impl) addUsersRbac() {
	//VIEW
	i.rule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users [get]")
	i.rule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users/{id} [get]")
	//EDIT, права на чужой профиль проверяются в обработчике
	i.rule(models.UsersModule, models.EditPermission, AllRoles, "/api/v1/users/{id} [patch]")
	//MANAGE
	i.rule(models.UsersModule, models.ManagePermission, SuperAdminRoleSet, "/api/v1/users [post]")
	i.rule(models.UsersModule, models.ManagePermission, SuperAdminRoleSet, "/api/v1/users/{id} [delete]")
}

func (i *impl) addTasksRbac() {
	//VIEW
	i.rule(models.TasksModule, models.ViewPermission, AllRoles, "/api/v1/tasks [get]")
	i.rule(models.TasksModule, models.ViewPermission, AllRoles, "/api/v1/tasks/available [get]")
	i.rule(models.TasksModule, models.ViewPermission, AllRoles, "/api/v1/tasks/{id} [get]")
	i.rule(models.TasksModule, models.ViewPermission, AllRoles, "/api/v1/tasks/{id}/events [get]")
	//CREATE/EDIT
	i.rule(models.TasksModule, models.CreatePermission, AllRoles, "/api/v1/tasks [post]")
	i.rule(models.TasksModule, models.EditPermission, AllRoles, "/api/v1/tasks/{id} [patch]")
	//FLOW
	i.rule(models.TasksModule, models.FlowPermission, AllRoles, "/api/v1/tasks/{id}/take [post]")
	i.rule(models.TasksModule, models.FlowPermission, AllRoles, "/api/v1/tasks/{id}/release [post]")
	i.rule(models.TasksModule, models.FlowPermission, AllRoles, "/api/v1/tasks/{id}/archive [post]")
	i.rule(models.TasksModule, models.FlowPermission, AllRoles, "/api/v1/tasks/{id}/unarchive [post]")
	//MANAGE
	i.rule(models.TasksModule, models.ManagePermission, ManagerRoleSet, "/api/v1/tasks/{id}/assign [post]")
	i.rule(models.TasksModule, models.ManagePermission, ManagerRoleSet, "/api/v1/tasks/{id}/unassign [post]")
	i.rule(models.TasksModule, models.ManagePermission, SuperAdminRoleSet, "/api/v1/tasks/{id} [delete]")
	//EXPORT
	i.rule(models.TasksModule, models.ExportPermission, SuperAdminRoleSet, "/api/v1/tasks/archive/download-and-clear [post]")
}

func (i *impl) addVehiclesRbac() {
	//VIEW
	i.rule(models.VehiclesModule, models.ViewPermission, AllRoles, "/api/v1/vehicles [get]")
	i.rule(models.VehiclesModule, models.ViewPermission, AllRoles, "/api/v1/vehicles/{id} [get]")
	i.rule(models.VehiclesModule, models.ViewPermission, AllRoles, "/api/v1/vehicles/{id}/logs [get]")
	//FLOW
	i.rule(models.VehiclesModule, models.FlowPermission, AllRoles, "/api/v1/vehicles/{id}/take [post]")
	i.rule(models.VehiclesModule, models.FlowPermission, AllRoles, "/api/v1/vehicles/{id}/release [post]")
	//EDIT
	i.rule(models.VehiclesModule, models.EditPermission, ManagerRoleSet, "/api/v1/vehicles/{id} [patch]")
	//MANAGE
	i.rule(models.VehiclesModule, models.ManagePermission, SuperAdminRoleSet, "/api/v1/vehicles [post]")
	i.rule(models.VehiclesModule, models.ManagePermission, SuperAdminRoleSet, "/api/v1/vehicles/{id} [delete]")
}

// addDocumentsRbac права на конкретный документ или каталог проверяются по грантам в обработчике
func (i *impl) addDocumentsRbac() {
	//VIEW
	i.rule(models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/directories [get]")
	i.rule(models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/documents [get]")
	i.rule(models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/documents/{id} [get]")
	i.rule(models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/documents/{id}/versions [get]")
	i.rule(models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/documents/{id}/versions/{ver} [get]")
	//CREATE/EDIT
	i.rule(models.DocumentsModule, models.CreatePermission, AllRoles, "/api/v1/documents [post]")
	i.rule(models.DocumentsModule, models.EditPermission, AllRoles, "/api/v1/documents/{id} [patch]")
	i.rule(models.DocumentsModule, models.EditPermission, AllRoles, "/api/v1/documents/{id}/versions [post]")
	i.rule(models.DocumentsModule, models.EditPermission, AllRoles, "/api/v1/directories/{id} [patch]")
	i.rule(models.DocumentsModule, models.EditPermission, AllRoles, "/api/v1/permissions [get]")
	i.rule(models.DocumentsModule, models.EditPermission, AllRoles, "/api/v1/permissions [post]")
	i.rule(models.DocumentsModule, models.EditPermission, AllRoles, "/api/v1/permissions/{id} [delete]")
	//MANAGE
	i.rule(models.DocumentsModule, models.ManagePermission, SuperAdminRoleSet, "/api/v1/directories [post]")
	i.rule(models.DocumentsModule, models.ManagePermission, SuperAdminRoleSet, "/api/v1/directories/{id} [delete]")
	i.rule(models.DocumentsModule, models.ManagePermission, SuperAdminRoleSet, "/api/v1/documents/{id} [delete]")
}

func (i *impl) addTeamsRbac() {
	//VIEW
	i.rule(models.TeamsModule, models.ViewPermission, AllRoles, "/api/v1/teams [get]")
	i.rule(models.TeamsModule, models.ViewPermission, AllRoles, "/api/v1/teams/{id} [get]")
	i.rule(models.TeamsModule, models.ViewPermission, AllRoles, "/api/v1/teams/{id}/members [get]")
	//MANAGE
	i.rule(models.TeamsModule, models.ManagePermission, ManagerRoleSet, "/api/v1/teams [post]")
	i.rule(models.TeamsModule, models.ManagePermission, ManagerRoleSet, "/api/v1/teams/{id} [patch]")
	i.rule(models.TeamsModule, models.ManagePermission, ManagerRoleSet, "/api/v1/teams/{id} [delete]")
	i.rule(models.TeamsModule, models.ManagePermission, ManagerRoleSet, "/api/v1/teams/{id}/members [post]")
	i.rule(models.TeamsModule, models.ManagePermission, ManagerRoleSet, "/api/v1/teams/{id}/members/{userId} [delete]")
}

func (i *impl) addAuditRbac() {
	i.rule(models.AuditModule, models.ViewPermission, SuperAdminRoleSet, "/api/v1/audit [get]")
	i.rule(models.AuditModule, models.ExportPermission, SuperAdminRoleSet, "/api/v1/audit/export [get]")
}
