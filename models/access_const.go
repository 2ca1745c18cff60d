package models

type SubjectType string

const (
	SubjectUser SubjectType = "user"
	SubjectRole SubjectType = "role"
)

func (s SubjectType) IsValid() bool {
	return s == SubjectUser || s == SubjectRole
}

type ObjectType string

const (
	ObjectDirectory ObjectType = "directory"
	ObjectDocument  ObjectType = "document"
)

func (o ObjectType) IsValid() bool {
	return o == ObjectDirectory || o == ObjectDocument
}

type AccessAction string

const (
	ActionRead  AccessAction = "read"
	ActionWrite AccessAction = "write"
	ActionAdmin AccessAction = "admin"
)

func (a AccessAction) IsValid() bool {
	return a == ActionRead || a == ActionWrite || a == ActionAdmin
}

// Satisfying действия, любое из которых дает право на a
func (a AccessAction) Satisfying() []AccessAction {
	if a == ActionAdmin {
		return []AccessAction{ActionAdmin}
	}
	return []AccessAction{a, ActionAdmin}
}
