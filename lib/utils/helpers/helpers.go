package helpers

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// ToMs время в миллисекундах unix
func ToMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func ToMsPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func FromMsPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}._\-]+`)

// SafeFileName имя файла, пригодное для ключа в хранилище
func SafeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

// Truncate обрезает строку до limit символов
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

func StrPtr(s string) *string {
	return &s
}

func PtrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// EmptyToNil пустая строка после trim превращается в nil
func EmptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
