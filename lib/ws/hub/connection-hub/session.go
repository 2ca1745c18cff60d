package connectionhub

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
	wsmodels "noblelift-backend/models/ws"
)

const sendBufferSize = 16

type clientSession struct {
	conn   *websocket.Conn
	ctx    context.Context
	sendCh chan wsmodels.ServerMessage
	stop   func()
}

func newSession(conn *websocket.Conn) clientSession {
	ctx, cancelFn := context.WithCancel(context.Background())
	sess := clientSession{
		ctx:    ctx,
		stop:   cancelFn,
		conn:   conn,
		sendCh: make(chan wsmodels.ServerMessage, sendBufferSize),
	}
	go sess.startSend()
	return sess
}

// enqueue не блокирует отправителя: при переполненном буфере сообщение отбрасывается
func (s clientSession) enqueue(msg wsmodels.ServerMessage) bool {
	if s.ctx.Err() != nil {
		return false
	}
	select {
	case s.sendCh <- msg:
		return true
	default:
		log.WithField("user_id", msg.ToUserID).Warn("буфер отправки переполнен, сообщение отброшено")
		return false
	}
}

func (s clientSession) startSend() {
	for {
		select {
		case <-s.ctx.Done():
			s.close()
			return
		case msg := <-s.sendCh:
			if err := s.send(msg); err != nil {
				log.WithError(err).Error("ошибка отправки сообщения")
			}
		}
	}
}

func (s clientSession) send(msg wsmodels.ServerMessage) error {
	if s.conn == nil || s.conn.Conn == nil {
		return nil
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return err
	}
	log.WithField("user_id", msg.ToUserID).WithField("code", msg.Code).Debug("отправлено сообщение")
	return nil
}

func (s clientSession) close() {
	if s.conn == nil || s.conn.Conn == nil {
		return
	}
	err := s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	if err != nil {
		log.WithError(err).Debug("ошибка закрытия соединения")
	}
}
