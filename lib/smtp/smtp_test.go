package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("Noblelift", "robot@example.com", "user@example.com", "Вам назначена задача", "Задача «Отчет» назначена на вас.")
	require.True(t, strings.HasPrefix(msg, "From: Noblelift <robot@example.com>\r\n"))
	require.Contains(t, msg, "Subject: Вам назначена задача\r\n")
	require.Contains(t, msg, "charset=\"UTF-8\"")
	require.True(t, strings.HasSuffix(msg, "\r\n\r\nЗадача «Отчет» назначена на вас.\r\n"))
}

func TestNotConfigured(t *testing.T) {
	require.NoError(t, Connect("", "", "", "", "Noblelift", true))
	require.False(t, Instance.IsConfigured())
	require.NoError(t, Instance.SendEMail("user@example.com", "subject", "body"))
}
