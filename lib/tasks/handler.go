package taskshandler

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"noblelift-backend/db"
	audithandler "noblelift-backend/lib/audit"
	csvexport "noblelift-backend/lib/export/csv"
	xlsexport "noblelift-backend/lib/export/xls"
	notificationshandler "noblelift-backend/lib/notifications"
	tasktopicstore "noblelift-backend/lib/task-topics/store"
	taskeventstore "noblelift-backend/lib/tasks/event-store"
	taskstore "noblelift-backend/lib/tasks/store"
	usersstore "noblelift-backend/lib/users/store"
	apperrors "noblelift-backend/lib/utils/app-errors"
	"noblelift-backend/lib/utils/helpers"
	"noblelift-backend/models"
	apimodels "noblelift-backend/models/api"
	taskapimodels "noblelift-backend/models/api/task"
	dbmodels "noblelift-backend/models/db"
)

const (
	ArchiveFormatCSV  = "csv"
	ArchiveFormatXLSX = "xlsx"

	archiveFileName    = "archive_tasks"
	archiveDateLayout  = "02.01.2006 15:04"
	archiveContentSize = 500
)

var archiveHeaders = []string{
	"ID", "Название", "Тема", "Описание", "Срок", "Приоритет", "Статус",
	"Личная", "Тип задачи", "ID создателя", "ID исполнителя", "Исполнитель", "Создатель", "Создано",
}

type Provider interface {
	List(filter taskapimodels.TaskFilter) ([]taskapimodels.Task, int64, error)
	ListAvailable(page apimodels.Pagination) ([]taskapimodels.Task, int64, error)
	Get(id string) (*taskapimodels.Task, error)
	Create(actor models.Actor, data taskapimodels.TaskCreate) (*taskapimodels.Task, error)
	Update(actor models.Actor, id string, data taskapimodels.TaskUpdate) (*taskapimodels.Task, error)
	Delete(actor models.Actor, id string) error
	Take(actor models.Actor, id string) (*taskapimodels.Task, error)
	Release(actor models.Actor, id string) (*taskapimodels.Task, error)
	Assign(actor models.Actor, id, assigneeID string) (*taskapimodels.Task, error)
	Unassign(actor models.Actor, id string) (*taskapimodels.Task, error)
	Archive(actor models.Actor, id string) (*taskapimodels.Task, error)
	Unarchive(actor models.Actor, id string) (*taskapimodels.Task, error)
	Events(id string, page apimodels.Pagination) ([]taskapimodels.TaskEvent, int64, error)
	ArchiveExport(actor models.Actor, format string) (body *bytes.Buffer, fileName string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:          db.DB,
		transaction: db.Transaction,
		store:       taskstore.NewInstance,
		eventStore:  taskeventstore.NewInstance,
		topicStore:  tasktopicstore.NewInstance,
		usersStore:  usersstore.NewInstance,
		audit:       audithandler.NewHandlerWithTx,
		notifier:    notificationshandler.NewHandlerWithTx,
		deliver: func(list ...dbmodels.Notification) {
			notificationshandler.Instance.Deliver(list...)
		},
		csv: csvexport.NewInstance(),
		xls: xlsexport.NewInstance(),
	}
}

type impl struct {
	db          *gorm.DB
	transaction db.TxFunc
	store       func(tx *gorm.DB) taskstore.Provider
	eventStore  func(tx *gorm.DB) taskeventstore.Provider
	topicStore  func(tx *gorm.DB) tasktopicstore.Provider
	usersStore  func(tx *gorm.DB) usersstore.Provider
	audit       func(tx *gorm.DB) audithandler.Writer
	notifier    func(tx *gorm.DB) notificationshandler.Creator
	deliver     func(list ...dbmodels.Notification)
	csv         csvexport.Provider
	xls         xlsexport.Provider
}

func (i impl) getLogger(actor models.Actor, taskID string) *log.Entry {
	logger := log.WithField("user_id", actor.UserID)
	if taskID != "" {
		logger = logger.WithField("task_id", taskID)
	}
	return logger
}

func convertList(list []dbmodels.Task) []taskapimodels.Task {
	result := make([]taskapimodels.Task, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result
}

func (i impl) List(filter taskapimodels.TaskFilter) ([]taskapimodels.Task, int64, error) {
	list, total, err := i.store(i.db).List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка задач")
	}
	return convertList(list), total, nil
}

func (i impl) ListAvailable(page apimodels.Pagination) ([]taskapimodels.Task, int64, error) {
	list, total, err := i.store(i.db).ListAvailable(page)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка доступных задач")
	}
	return convertList(list), total, nil
}

func (i impl) Get(id string) (*taskapimodels.Task, error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения задачи")
	}
	if rec == nil {
		return nil, apperrors.NotFound("Task not found")
	}
	result := rec.ToModel()
	return &result, nil
}

func (i impl) Create(actor models.Actor, data taskapimodels.TaskCreate) (*taskapimodels.Task, error) {
	rec := dbmodels.Task{
		Title:        data.Title,
		Content:      data.Content,
		DueDate:      helpers.FromMsPtr(data.DueDate),
		PriorityCode: models.TaskPriorityMedium,
		StatusCode:   models.TaskStatusNew,
		IsPrivate:    data.IsPrivate,
		Type:         models.TaskTypeRegular,
		TopicID:      helpers.EmptyToNil(data.TopicID),
		AssigneeID:   helpers.EmptyToNil(data.AssigneeID),
		CreatorID:    actor.UserID,
	}
	if data.PriorityCode != "" {
		rec.PriorityCode = models.TaskPriority(data.PriorityCode)
	}
	if data.Type != "" {
		rec.Type = models.TaskType(data.Type)
	}
	var notifications []dbmodels.Notification
	var result *dbmodels.Task
	err := i.transaction(func(tx *gorm.DB) error {
		if rec.TopicID != nil {
			topic, err := i.topicStore(tx).GetByID(*rec.TopicID)
			if err != nil {
				return errors.Wrap(err, "ошибка получения темы задачи")
			}
			if topic == nil {
				return apperrors.BadRequest("Topic not found")
			}
		}
		if rec.AssigneeID != nil {
			assignee, err := i.usersStore(tx).GetByID(*rec.AssigneeID)
			if err != nil {
				return errors.Wrap(err, "ошибка получения исполнителя")
			}
			if assignee == nil {
				return apperrors.BadRequest("Assignee not found")
			}
		}
		store := i.store(tx)
		id, err := store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания задачи")
		}
		payload := map[string]any{"title": rec.Title}
		if err = i.writeHistory(tx, actor, id, models.TaskEventCreated, models.AuditCreate, payload); err != nil {
			return err
		}
		if rec.AssigneeID != nil && *rec.AssigneeID != actor.UserID {
			n, err := i.notify(tx, actor, *rec.AssigneeID, models.NotificationTaskAssigned, id, rec.Title)
			if err != nil {
				return err
			}
			notifications = append(notifications, *n)
		}
		result, err = store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения задачи")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	i.deliver(notifications...)
	task := result.ToModel()
	return &task, nil
}

func (i impl) Update(actor models.Actor, id string, data taskapimodels.TaskUpdate) (*taskapimodels.Task, error) {
	updMap := map[string]interface{}{}
	if data.Title != nil {
		updMap["title"] = *data.Title
	}
	if data.Content != nil {
		updMap["content"] = *data.Content
	}
	if data.DueDate != nil {
		if *data.DueDate == 0 {
			updMap["due_date"] = nil
		} else {
			updMap["due_date"] = helpers.FromMsPtr(data.DueDate)
		}
	}
	if data.PriorityCode != nil {
		priority := models.TaskPriority(strings.ToLower(strings.TrimSpace(*data.PriorityCode)))
		if !priority.IsValid() {
			return nil, apperrors.BadRequest("Invalid priority_code")
		}
		updMap["priority_code"] = priority
	}
	if data.StatusCode != nil {
		status, ok := models.ParseUpdatableTaskStatus(*data.StatusCode)
		if !ok {
			return nil, apperrors.BadRequest(fmt.Sprintf("Invalid status_code. Allowed: %v", models.UpdatableTaskStatuses))
		}
		updMap["status_code"] = status
	}
	if data.IsPrivate != nil {
		updMap["is_private"] = *data.IsPrivate
	}
	if data.Type != nil {
		taskType := models.TaskType(strings.ToLower(strings.TrimSpace(*data.Type)))
		if !taskType.IsValid() {
			return nil, apperrors.BadRequest("Invalid type")
		}
		updMap["type"] = taskType
	}
	var result *dbmodels.Task
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения задачи")
		}
		if rec == nil {
			return apperrors.NotFound("Task not found")
		}
		if data.TopicID != nil {
			topicID := strings.TrimSpace(*data.TopicID)
			if topicID == "" {
				updMap["topic_id"] = nil
			} else {
				topic, err := i.topicStore(tx).GetByID(topicID)
				if err != nil {
					return errors.Wrap(err, "ошибка получения темы задачи")
				}
				if topic == nil {
					return apperrors.BadRequest("Topic not found")
				}
				updMap["topic_id"] = topicID
			}
		}
		if len(updMap) == 0 {
			result = rec
			return nil
		}
		if err = store.Update(id, updMap); err != nil {
			return errors.Wrap(err, "ошибка обновления задачи")
		}
		fields := make([]string, 0, len(updMap))
		for field := range updMap {
			fields = append(fields, field)
		}
		payload := map[string]any{"fields": fields}
		if err = i.writeHistory(tx, actor, id, models.TaskEventUpdated, models.AuditUpdate, payload); err != nil {
			return err
		}
		result, err = store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения задачи")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	task := result.ToModel()
	return &task, nil
}

func (i impl) Delete(actor models.Actor, id string) error {
	if !actor.Role.IsSuperAdmin() {
		return apperrors.Forbidden("Forbidden")
	}
	return i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения задачи")
		}
		if rec == nil {
			return apperrors.NotFound("Task not found")
		}
		if err = store.Delete(id); err != nil {
			return errors.Wrap(err, "ошибка удаления задачи")
		}
		return i.audit(tx).Write(actor, models.AuditDelete, models.EntityTask, id, map[string]any{"title": rec.Title})
	})
}

// guarded результат условного обновления, при ok=false возвращается ошибка классификации
type guarded struct {
	apply    func(store taskstore.Provider) (bool, error)
	classify func(rec *dbmodels.Task) error
	event    models.TaskEventType
	action   models.AuditAction
	payload  map[string]any
	after    func(tx *gorm.DB, rec *dbmodels.Task) (*dbmodels.Notification, error)
}

// transition выполняет переход: условное обновление, история, аудит и уведомление в одной транзакции
func (i impl) transition(actor models.Actor, id string, g guarded) (*taskapimodels.Task, error) {
	var notification *dbmodels.Notification
	var result *dbmodels.Task
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		ok, err := g.apply(store)
		if err != nil {
			return errors.Wrapf(err, "ошибка перехода задачи (%v)", g.event)
		}
		if !ok {
			rec, err := store.GetByID(id)
			if err != nil {
				return errors.Wrap(err, "ошибка получения задачи")
			}
			return g.classify(rec)
		}
		if err = i.writeHistory(tx, actor, id, g.event, g.action, g.payload); err != nil {
			return err
		}
		result, err = store.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения задачи")
		}
		if result == nil {
			return apperrors.NotFound("Task not found")
		}
		if g.after != nil {
			notification, err = g.after(tx, result)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if notification != nil {
		i.deliver(*notification)
	}
	i.getLogger(actor, id).Infof("задача: %v", g.event)
	task := result.ToModel()
	return &task, nil
}

func classifyConflict(msg string) func(rec *dbmodels.Task) error {
	return func(rec *dbmodels.Task) error {
		if rec == nil {
			return apperrors.NotFound("Task not found")
		}
		return apperrors.Conflict(msg)
	}
}

func notFoundOrArchived(rec *dbmodels.Task) error {
	return apperrors.NotFound("Task not found or archived")
}

func (i impl) Take(actor models.Actor, id string) (*taskapimodels.Task, error) {
	return i.transition(actor, id, guarded{
		apply: func(store taskstore.Provider) (bool, error) {
			return store.Take(id, actor.UserID)
		},
		classify: classifyConflict("Task is not available to take"),
		event:    models.TaskEventTaken,
		action:   models.AuditTake,
		after: func(tx *gorm.DB, rec *dbmodels.Task) (*dbmodels.Notification, error) {
			if rec.CreatorID == actor.UserID {
				return nil, nil
			}
			return i.notify(tx, actor, rec.CreatorID, models.NotificationTaskTaken, rec.ID, rec.Title)
		},
	})
}

func (i impl) Release(actor models.Actor, id string) (*taskapimodels.Task, error) {
	return i.transition(actor, id, guarded{
		apply: func(store taskstore.Provider) (bool, error) {
			return store.Release(id, actor.UserID)
		},
		classify: classifyConflict("Task is not held by you"),
		event:    models.TaskEventReleased,
		action:   models.AuditRelease,
	})
}

func (i impl) Assign(actor models.Actor, id, assigneeID string) (*taskapimodels.Task, error) {
	if !actor.Role.IsManager() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		return nil, apperrors.BadRequest("Assignee not found")
	}
	assignee, err := i.usersStore(i.db).GetByID(assigneeID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения исполнителя")
	}
	if assignee == nil {
		return nil, apperrors.BadRequest("Assignee not found")
	}
	return i.transition(actor, id, guarded{
		apply: func(store taskstore.Provider) (bool, error) {
			return store.Assign(id, assigneeID)
		},
		classify: notFoundOrArchived,
		event:    models.TaskEventAssigned,
		action:   models.AuditAssign,
		payload:  map[string]any{"assigneeId": assigneeID},
		after: func(tx *gorm.DB, rec *dbmodels.Task) (*dbmodels.Notification, error) {
			if assigneeID == actor.UserID {
				return nil, nil
			}
			return i.notify(tx, actor, assigneeID, models.NotificationTaskAssigned, rec.ID, rec.Title)
		},
	})
}

func (i impl) Unassign(actor models.Actor, id string) (*taskapimodels.Task, error) {
	if !actor.Role.IsManager() {
		return nil, apperrors.Forbidden("Forbidden")
	}
	return i.transition(actor, id, guarded{
		apply: func(store taskstore.Provider) (bool, error) {
			return store.Unassign(id)
		},
		classify: notFoundOrArchived,
		event:    models.TaskEventUnassigned,
		action:   models.AuditUnassign,
	})
}

func classifyArchive(rec *dbmodels.Task) error {
	if rec == nil {
		return apperrors.NotFound("Task not found")
	}
	if rec.IsArchived() {
		return apperrors.Conflict("Already archived")
	}
	if rec.StatusCode != models.TaskStatusDone {
		return apperrors.BadRequest("Only done tasks can be archived")
	}
	return apperrors.Conflict("Task was changed concurrently")
}

func (i impl) Archive(actor models.Actor, id string) (*taskapimodels.Task, error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения задачи")
	}
	if rec == nil || rec.IsArchived() || rec.StatusCode != models.TaskStatusDone {
		return nil, classifyArchive(rec)
	}
	return i.transition(actor, id, guarded{
		apply: func(store taskstore.Provider) (bool, error) {
			return store.Archive(id, time.Now())
		},
		classify: classifyArchive,
		event:    models.TaskEventArchived,
		action:   models.AuditArchive,
	})
}

func (i impl) Unarchive(actor models.Actor, id string) (*taskapimodels.Task, error) {
	return i.transition(actor, id, guarded{
		apply: func(store taskstore.Provider) (bool, error) {
			return store.Unarchive(id)
		},
		classify: classifyConflict("Not archived"),
		event:    models.TaskEventUnarchived,
		action:   models.AuditUnarchive,
	})
}

func (i impl) Events(id string, page apimodels.Pagination) ([]taskapimodels.TaskEvent, int64, error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения задачи")
	}
	if rec == nil {
		return nil, 0, apperrors.NotFound("Task not found")
	}
	list, total, err := i.eventStore(i.db).ListByTask(id, page)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения истории задачи")
	}
	result := make([]taskapimodels.TaskEvent, 0, len(list))
	for _, event := range list {
		result = append(result, event.ToModel())
	}
	return result, total, nil
}

// ArchiveExport выгрузка завершенных задач и их удаление в одной транзакции.
// Ошибка формирования файла откатывает удаление
func (i impl) ArchiveExport(actor models.Actor, format string) (*bytes.Buffer, string, error) {
	if !actor.Role.IsSuperAdmin() {
		return nil, "", apperrors.Forbidden("Forbidden")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ArchiveFormatCSV
	}
	if format != ArchiveFormatCSV && format != ArchiveFormatXLSX {
		return nil, "", apperrors.BadRequest("Invalid format. Allowed: [csv xlsx]")
	}
	var body *bytes.Buffer
	var count int64
	err := i.transaction(func(tx *gorm.DB) error {
		store := i.store(tx)
		list, err := store.ListDone()
		if err != nil {
			return errors.Wrap(err, "ошибка получения завершенных задач")
		}
		rows := make([][]string, 0, len(list))
		ids := make([]string, 0, len(list))
		for _, rec := range list {
			rows = append(rows, archiveRow(rec))
			ids = append(ids, rec.ID)
		}
		if format == ArchiveFormatXLSX {
			body, err = i.xls.ExportTable("Архив задач", archiveHeaders, rows)
		} else {
			body, err = i.csv.ExportTable(archiveHeaders, rows)
		}
		if err != nil {
			return errors.Wrap(err, "ошибка формирования архива задач")
		}
		count, err = store.DeleteByIDs(ids)
		if err != nil {
			return errors.Wrap(err, "ошибка удаления завершенных задач")
		}
		return i.audit(tx).Write(actor, models.AuditPurge, models.EntityTask, "", map[string]any{
			"count":  count,
			"format": format,
		})
	})
	if err != nil {
		return nil, "", err
	}
	i.getLogger(actor, "").WithField("count", count).Info("архив задач выгружен и очищен")
	return body, archiveFileName + "." + format, nil
}

func archiveRow(rec dbmodels.Task) []string {
	topic := ""
	if rec.Topic != nil {
		topic = rec.Topic.Name
	}
	assigneeName := ""
	if rec.Assignee != nil {
		assigneeName = rec.Assignee.FullName
	}
	creatorName := ""
	if rec.Creator != nil {
		creatorName = rec.Creator.FullName
	}
	private := "Нет"
	if rec.IsPrivate {
		private = "Да"
	}
	return []string{
		rec.ID,
		oneLine(rec.Title),
		oneLine(topic),
		oneLine(helpers.Truncate(helpers.PtrValue(rec.Content), archiveContentSize)),
		archiveDate(rec.DueDate),
		normalizeCode(rec.PriorityCode).ArchiveLabel(),
		normalizeCode(rec.StatusCode).ArchiveLabel(),
		private,
		normalizeCode(rec.Type).ArchiveLabel(),
		rec.CreatorID,
		helpers.PtrValue(rec.AssigneeID),
		oneLine(assigneeName),
		oneLine(creatorName),
		archiveDate(&rec.CreatedAt),
	}
}

func normalizeCode[T ~string](code T) T {
	return T(strings.ToLower(strings.TrimSpace(string(code))))
}

func oneLine(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\r", "")
}

func archiveDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(archiveDateLayout)
}

func (i impl) writeHistory(tx *gorm.DB, actor models.Actor, taskID string, eventType models.TaskEventType, action models.AuditAction, payload map[string]any) error {
	event := dbmodels.TaskEvent{
		TaskID:  taskID,
		ActorID: helpers.EmptyToNil(helpers.StrPtr(actor.UserID)),
		Type:    eventType,
		Payload: payload,
	}
	if err := i.eventStore(tx).Create(event); err != nil {
		return errors.Wrap(err, "ошибка записи истории задачи")
	}
	return i.audit(tx).Write(actor, action, models.EntityTask, taskID, payload)
}

func (i impl) notify(tx *gorm.DB, actor models.Actor, userID string, nType models.NotificationType, taskID, title string) (*dbmodels.Notification, error) {
	actorName := actor.UserID
	user, err := i.usersStore(tx).GetByID(actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения пользователя")
	}
	if user != nil {
		actorName = user.FullName
	}
	return i.notifier(tx).Create(userID, nType, map[string]any{"taskId": taskID}, title, actorName)
}
