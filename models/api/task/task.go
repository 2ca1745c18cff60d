package taskapimodels

import (
	"strings"

	apimodels "noblelift-backend/models/api"
)

type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      *string    `json:"content"`
	DueDate      *int64     `json:"dueDate"`
	CreatedAt    int64      `json:"createdAt"`
	UpdatedAt    int64      `json:"updatedAt"`
	PriorityCode string     `json:"priorityCode"` // low/medium/high/urgent
	StatusCode   string     `json:"statusCode"`   // new/in_progress/pause/done/cancelled
	IsPrivate    bool       `json:"isPrivate"`
	Type         string     `json:"type"` // regular/common
	TopicID      *string    `json:"topicId"`
	Topic        *TaskTopic `json:"topic,omitempty"`
	AssigneeID   *string    `json:"assigneeId"`
	CreatorID    string     `json:"creatorId"`
	ArchivedAt   *int64     `json:"archivedAt"`
}

type TaskCreate struct {
	Title        string  `json:"title" validate:"required,max=255"`
	Content      *string `json:"content"`
	DueDate      *int64  `json:"dueDate"`
	PriorityCode string  `json:"priorityCode" validate:"omitempty,oneof=low medium high urgent"`
	IsPrivate    bool    `json:"isPrivate"`
	Type         string  `json:"type" validate:"omitempty,oneof=regular common"`
	TopicID      *string `json:"topicId"`
	AssigneeID   *string `json:"assigneeId"`
}

func (r *TaskCreate) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.PriorityCode = strings.ToLower(strings.TrimSpace(r.PriorityCode))
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	return apimodels.ValidateStruct(r)
}

// TaskUpdate исполнитель через update не меняется. Пустой topicId и dueDate=0 очищают поле
type TaskUpdate struct {
	Title        *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content      *string `json:"content"`
	DueDate      *int64  `json:"dueDate"`
	PriorityCode *string `json:"priorityCode"`
	StatusCode   *string `json:"statusCode"`
	IsPrivate    *bool   `json:"isPrivate"`
	Type         *string `json:"type"`
	TopicID      *string `json:"topicId"`
}

func (r *TaskUpdate) Validate() error {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
	}
	return apimodels.ValidateStruct(r)
}

type TaskFilter struct {
	apimodels.Pagination
	Q          string
	Status     string
	AssigneeID string
	TopicID    string
	IsPrivate  *bool
	Archived   *bool
}

type TaskTopic struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

type TopicData struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (r *TopicData) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return apimodels.ValidateStruct(r)
}

type TaskEvent struct {
	ID        string         `json:"id"`
	TaskID    string         `json:"taskId"`
	ActorID   *string        `json:"actorId"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt int64          `json:"createdAt"`
}

type TaskFile struct {
	ID           string  `json:"id"`
	TaskID       string  `json:"taskId"`
	UploaderID   *string `json:"uploaderId"`
	OriginalName string  `json:"originalName"`
	Mime         *string `json:"mime"`
	Size         int64   `json:"size"`
	StoragePath  string  `json:"storagePath"`
	CreatedAt    int64   `json:"createdAt"`
}
