package fiberlog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid     = "pid"
	TagStatus  = "status"
	TagLatency = "latency"
	TagMethod  = "method"
	TagPath    = "path"
	TagIP      = "ip"
	TagBody    = "body"
	TagResBody = "resBody"
	RequestID  = "requestId"
)

// тела больше лимита обрезаются, multipart и бинарные ответы не логируются
const maxBodyLogSize = 2048

// data значения одного запроса
type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag вычисляет значение тега для записи лога
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
				return ""
			}
			return truncate(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			if !strings.HasPrefix(string(c.Response().Header.ContentType()), fiber.MIMEApplicationJSON) {
				return ""
			}
			return truncate(c.Response().Body())
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			if id, ok := c.Locals("requestid").(string); ok && id != "" {
				return id
			}
			return c.Get(fiber.HeaderXRequestID)
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func truncate(body []byte) string {
	if len(body) > maxBodyLogSize {
		return string(body[:maxBodyLogSize]) + "..."
	}
	return string(body)
}
