package connectionhub

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
	"noblelift-backend/db"
	notificationstore "noblelift-backend/lib/notifications/store"
	wsmodels "noblelift-backend/models/ws"
)

type Provider interface {
	AddClient(userID string, conn *websocket.Conn)
	DeleteClient(userID string, conn *websocket.Conn)
	SendMessage(msg wsmodels.ServerMessage) bool
	SendClose(userID string)
	IsConnected(userID string) bool
}

var Instance Provider

// кол-во непрочитанных уведомлений, отправляемых при подключении
const replayLimit = 50

func Init() {
	Instance = NewInstance(notificationstore.NewInstance(db.DB))
}

func NewInstance(store notificationstore.Provider) Provider {
	return &impl{
		clients: map[string]clientSession{},
		store:   store,
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[string]clientSession //map[userID]
	store   notificationstore.Provider
}

// DeleteClient закрывает сессию, если она еще принадлежит conn
func (i *impl) DeleteClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[userID]
	if !ok || sess.conn != conn {
		return
	}
	delete(i.clients, userID)
	sess.stop()
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	if ok {
		oldSess.stop()
	}
	i.clients[userID] = newSession(conn)
	i.mu.Unlock()
	go i.sendDelayedMessages(userID)
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) bool {
	i.mu.RLock()
	sess, ok := i.clients[msg.ToUserID]
	i.mu.RUnlock()
	if !ok {
		return false
	}
	return sess.enqueue(msg)
}

func (i *impl) SendClose(userID string) {
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	if ok {
		sess.stop()
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	if !ok || sess.conn == nil || sess.conn.Conn == nil {
		return false
	}
	return true
}

func (i *impl) sendDelayedMessages(userID string) {
	if i.store == nil {
		return
	}
	logger := log.WithField("user_id", userID)
	list, err := i.store.ListUnread(userID, replayLimit)
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка непрочитанных уведомлений")
		return
	}
	for _, item := range list {
		if !i.IsConnected(userID) {
			return
		}
		i.SendMessage(item.ToServerMessage())
	}
}
