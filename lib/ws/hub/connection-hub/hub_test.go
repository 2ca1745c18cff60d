package connectionhub

import (
	"testing"

	"github.com/stretchr/testify/require"
	wsmodels "noblelift-backend/models/ws"
)

func TestHub(t *testing.T) {
	t.Run(`message to offline user is not delivered`, func(t *testing.T) {
		hub := NewInstance(nil)
		require.False(t, hub.IsConnected("u1"))
		require.False(t, hub.SendMessage(wsmodels.ServerMessage{ToUserID: "u1", Code: "task_assigned"}))
	})
	t.Run(`stopped session rejects messages`, func(t *testing.T) {
		sess := newSession(nil)
		sess.stop()
		<-sess.ctx.Done()
		require.False(t, sess.enqueue(wsmodels.ServerMessage{ToUserID: "u1"}))
	})
}
