package models

type AuditAction string

const (
	AuditCreate     AuditAction = "create"
	AuditUpdate     AuditAction = "update"
	AuditDelete     AuditAction = "delete"
	AuditTake       AuditAction = "take"
	AuditRelease    AuditAction = "release"
	AuditAssign     AuditAction = "assign"
	AuditUnassign   AuditAction = "unassign"
	AuditArchive    AuditAction = "archive"
	AuditUnarchive  AuditAction = "unarchive"
	AuditPurge      AuditAction = "archive_purge"
	AuditFileAdd    AuditAction = "file_add"
	AuditFileDelete AuditAction = "file_delete"
	AuditVersionAdd AuditAction = "version_add"
	AuditPermAdd    AuditAction = "perm_add"
	AuditPermDel    AuditAction = "perm_del"
	AuditLogin      AuditAction = "login"
	AuditPassword   AuditAction = "password_change"
)

type AuditEntity string

const (
	EntityTask       AuditEntity = "task"
	EntityTaskTopic  AuditEntity = "task_topic"
	EntityTaskFile   AuditEntity = "task_file"
	EntityVehicle    AuditEntity = "vehicle"
	EntityDocument   AuditEntity = "document"
	EntityDirectory  AuditEntity = "directory"
	EntityPermission AuditEntity = "permission"
	EntityUser       AuditEntity = "user"
	EntityTeam       AuditEntity = "team"
)

// Actor инициатор операции
type Actor struct {
	UserID    string
	RoleID    string
	Role      UserRole
	IP        string
	UserAgent string
}
