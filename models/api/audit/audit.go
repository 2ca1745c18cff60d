package auditapimodels

import (
	apimodels "noblelift-backend/models/api"
)

type AuditLog struct {
	ID        string         `json:"id"`
	ActorID   *string        `json:"actorId"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  *string        `json:"entityId"`
	Payload   map[string]any `json:"payload,omitempty"`
	IP        *string        `json:"ip"`
	UA        *string        `json:"ua"`
	CreatedAt int64          `json:"createdAt"`
}

type AuditFilter struct {
	apimodels.Pagination
	ActorID  string
	Entity   string
	EntityID string
	Action   string
	Since    *int64 // ms
	Until    *int64 // ms
}
