package filestorage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	t.Run(`document version key`, func(t *testing.T) {
		require.Equal(t, "docs/doc-1/3/Отчет_за_май.pdf", DocumentVersionKey("doc-1", 3, "../Отчет за май.pdf"))
	})
	t.Run(`task file key`, func(t *testing.T) {
		key := TaskFileKey("task-1", "фото склада.jpg")
		require.Regexp(t, regexp.MustCompile(`^tasks/task-1/[0-9a-f-]{36}_фото_склада\.jpg$`), key)
		require.NotEqual(t, key, TaskFileKey("task-1", "фото склада.jpg"))
	})
	t.Run(`avatar key`, func(t *testing.T) {
		require.Regexp(t, regexp.MustCompile(`^avatars/user-1_[0-9a-f]{8}\.png$`), AvatarKey("user-1", "Me.PNG"))
		require.Regexp(t, regexp.MustCompile(`^user-1_[0-9a-f]{8}$`), AvatarName("user-1", "noext"))
	})
}
