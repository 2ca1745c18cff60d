package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSafeFileName(t *testing.T) {
	t.Run(`path stripped`, func(t *testing.T) {
		require.Equal(t, "passwd", SafeFileName("../../etc/passwd"))
	})
	t.Run(`windows path stripped`, func(t *testing.T) {
		require.Equal(t, "report.docx", SafeFileName(`C:\docs\report.docx`))
	})
	t.Run(`spaces replaced`, func(t *testing.T) {
		require.Equal(t, "Отчет_за_май.pdf", SafeFileName("Отчет за май.pdf"))
	})
	t.Run(`empty name`, func(t *testing.T) {
		require.Equal(t, "file", SafeFileName("   "))
		require.Equal(t, "file", SafeFileName(".."))
	})
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "абв", Truncate("абвгд", 3))
	require.Equal(t, "аб", Truncate("аб", 3))
}

func TestToMs(t *testing.T) {
	require.Equal(t, int64(0), ToMs(time.Time{}))
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.Equal(t, ts.UnixMilli(), ToMs(ts))
	require.Nil(t, ToMsPtr(nil))
	back := FromMsPtr(ToMsPtr(&ts))
	require.True(t, ts.Equal(*back))
}
