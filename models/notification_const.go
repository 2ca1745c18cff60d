package models

type NotificationType string

const (
	NotificationTaskAssigned NotificationType = "task_assigned"
	NotificationTaskTaken    NotificationType = "task_taken"
)

type NotificationTpl struct {
	Title string
	Msg   string
}

var NotificationTplMap = map[NotificationType]NotificationTpl{
	NotificationTaskAssigned: {Title: "Вам назначена задача", Msg: "Задача «%v» назначена на вас пользователем %v."},
	NotificationTaskTaken:    {Title: "Задача взята в работу", Msg: "Задача «%v» взята в работу пользователем %v."},
}
