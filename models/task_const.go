package models

import (
	"slices"
	"strings"
)

type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "new"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusPause      TaskStatus = "pause"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

var taskStatusHumanName = map[TaskStatus]string{
	TaskStatusNew:        "Новая",
	TaskStatusInProgress: "В работе",
	TaskStatusPause:      "Пауза",
	TaskStatusDone:       "Завершена",
	TaskStatusCancelled:  "Отменена",
}

func (s TaskStatus) ToHuman() string {
	if human, exist := taskStatusHumanName[s]; exist {
		return human
	}
	return taskStatusHumanName[TaskStatusNew]
}

// UpdatableTaskStatuses статусы, доступные через общее редактирование задачи.
// Отмена и архивирование выполняются отдельными операциями.
var UpdatableTaskStatuses = []TaskStatus{
	TaskStatusDone,
	TaskStatusInProgress,
	TaskStatusNew,
	TaskStatusPause,
}

// ParseUpdatableTaskStatus нормализует код статуса и проверяет что он допустим для редактирования
func ParseUpdatableTaskStatus(code string) (TaskStatus, bool) {
	status := TaskStatus(strings.ToLower(strings.TrimSpace(code)))
	return status, slices.Contains(UpdatableTaskStatuses, status)
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

var taskPriorityHumanName = map[TaskPriority]string{
	TaskPriorityLow:    "низкий",
	TaskPriorityMedium: "средний",
	TaskPriorityHigh:   "высокий",
	TaskPriorityUrgent: "срочный",
}

func (p TaskPriority) ToHuman() string {
	if human, exist := taskPriorityHumanName[p]; exist {
		return human
	}
	return taskPriorityHumanName[TaskPriorityMedium]
}

func (p TaskPriority) IsValid() bool {
	_, ok := taskPriorityHumanName[p]
	return ok
}

type TaskType string

const (
	TaskTypeRegular TaskType = "regular"
	TaskTypeCommon  TaskType = "common"
)

var taskTypeHumanName = map[TaskType]string{
	TaskTypeRegular: "Личная",
	TaskTypeCommon:  "Общая",
}

func (t TaskType) ToHuman() string {
	if human, exist := taskTypeHumanName[t]; exist {
		return human
	}
	return taskTypeHumanName[TaskTypeRegular]
}

func (t TaskType) IsValid() bool {
	_, ok := taskTypeHumanName[t]
	return ok
}

type TaskEventType string

const (
	TaskEventCreated     TaskEventType = "created"
	TaskEventUpdated     TaskEventType = "updated"
	TaskEventTaken       TaskEventType = "taken"
	TaskEventReleased    TaskEventType = "released"
	TaskEventAssigned    TaskEventType = "assigned"
	TaskEventUnassigned  TaskEventType = "unassigned"
	TaskEventArchived    TaskEventType = "archived"
	TaskEventUnarchived  TaskEventType = "unarchived"
	TaskEventFileAdded   TaskEventType = "file_added"
	TaskEventFileRemoved TaskEventType = "file_removed"
)

// archiveLabel подпись кода для выгрузки архива: пустой код получает значение по умолчанию, неизвестный выводится как есть
func archiveLabel[T ~string](code T, names map[T]string, def T) string {
	if code == "" {
		return names[def]
	}
	if human, exist := names[code]; exist {
		return human
	}
	return string(code)
}

func (s TaskStatus) ArchiveLabel() string {
	return archiveLabel(s, taskStatusHumanName, TaskStatusNew)
}

func (p TaskPriority) ArchiveLabel() string {
	return archiveLabel(p, taskPriorityHumanName, TaskPriorityMedium)
}

func (t TaskType) ArchiveLabel() string {
	return archiveLabel(t, taskTypeHumanName, TaskTypeRegular)
}
