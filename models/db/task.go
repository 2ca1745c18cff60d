package dbmodels

import (
	"time"

	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	taskapimodels "noblelift-backend/models/api/task"
)

type TaskTopic struct {
	BaseCreatedModel
	Name string `gorm:"type:varchar(255);uniqueIndex"`
}

func (r TaskTopic) ToModel() taskapimodels.TaskTopic {
	return taskapimodels.TaskTopic{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: helpers.ToMs(r.CreatedAt),
	}
}

type Task struct {
	BaseModel
	Title        string              `gorm:"type:varchar(255)"`
	Content      *string             `gorm:"type:text"`
	DueDate      *time.Time
	PriorityCode models.TaskPriority `gorm:"type:varchar(16);default:medium"`
	StatusCode   models.TaskStatus   `gorm:"type:varchar(16);default:new;index"`
	IsPrivate    bool                `gorm:"default:false"`
	Type         models.TaskType     `gorm:"type:varchar(16);default:regular;index"`
	TopicID      *string             `gorm:"type:varchar(36);index"`
	Topic        *TaskTopic          `gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL"`
	AssigneeID   *string             `gorm:"type:varchar(36);index"`
	Assignee     *User               `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL"`
	CreatorID    string              `gorm:"type:varchar(36);index"`
	Creator      *User               `gorm:"foreignKey:CreatorID;constraint:OnDelete:RESTRICT"`
	ArchivedAt   *time.Time          `gorm:"index"`
}

func (r Task) IsArchived() bool {
	return r.ArchivedAt != nil
}

// CanBeTaken условие взятия задачи из общего пула
func (r Task) CanBeTaken() bool {
	return r.AssigneeID == nil && r.Type == models.TaskTypeCommon && !r.IsPrivate && !r.IsArchived()
}

func (r Task) IsAssignedTo(userID string) bool {
	return r.AssigneeID != nil && *r.AssigneeID == userID
}

func (r Task) ToModel() taskapimodels.Task {
	result := taskapimodels.Task{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		DueDate:      helpers.ToMsPtr(r.DueDate),
		CreatedAt:    helpers.ToMs(r.CreatedAt),
		UpdatedAt:    helpers.ToMs(r.UpdatedAt),
		PriorityCode: string(r.PriorityCode),
		StatusCode:   string(r.StatusCode),
		IsPrivate:    r.IsPrivate,
		Type:         string(r.Type),
		TopicID:      r.TopicID,
		AssigneeID:   r.AssigneeID,
		CreatorID:    r.CreatorID,
		ArchivedAt:   helpers.ToMsPtr(r.ArchivedAt),
	}
	if r.Topic != nil {
		topic := r.Topic.ToModel()
		result.Topic = &topic
	}
	return result
}

type TaskEvent struct {
	BaseCreatedModel
	TaskID  string               `gorm:"type:varchar(36);index"`
	Task    *Task                `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	ActorID *string              `gorm:"type:varchar(36)"`
	Actor   *User                `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL"`
	Type    models.TaskEventType `gorm:"type:varchar(32)"`
	Payload JSONMap              `gorm:"type:jsonb"`
}

func (r TaskEvent) ToModel() taskapimodels.TaskEvent {
	return taskapimodels.TaskEvent{
		ID:        r.ID,
		TaskID:    r.TaskID,
		ActorID:   r.ActorID,
		Type:      string(r.Type),
		Payload:   r.Payload,
		CreatedAt: helpers.ToMs(r.CreatedAt),
	}
}

type TaskFile struct {
	BaseCreatedModel
	TaskID       string  `gorm:"type:varchar(36);index"`
	Task         *Task   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	UploaderID   *string `gorm:"type:varchar(36)"`
	Uploader     *User   `gorm:"foreignKey:UploaderID;constraint:OnDelete:SET NULL"`
	OriginalName string  `gorm:"type:varchar(255)"`
	Mime         *string `gorm:"type:varchar(255)"`
	Size         int64
	StoragePath  string `gorm:"type:varchar(1024)"`
}

func (r TaskFile) ToModel() taskapimodels.TaskFile {
	return taskapimodels.TaskFile{
		ID:           r.ID,
		TaskID:       r.TaskID,
		UploaderID:   r.UploaderID,
		OriginalName: r.OriginalName,
		Mime:         r.Mime,
		Size:         r.Size,
		StoragePath:  r.StoragePath,
		CreatedAt:    helpers.ToMs(r.CreatedAt),
	}
}
