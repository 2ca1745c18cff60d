package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const logMessage = "запрос api"

func getLogrusFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields, len(ftm))
	for k, ft := range ftm {
		value := ft(c, d)
		if strValue, ok := value.(string); ok {
			if strValue != "" {
				f[k] = strValue
			}
			continue
		}
		f[k] = value
	}
	return f
}

// New одна запись на запрос. Статус >= 300 пишется с уровнем Warn
func New(config ...Config) fiber.Handler {
	cfg := ConfigDefault
	if len(config) > 0 {
		cfg = config[0]
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg)
	return func(c *fiber.Ctx) error {
		d := &data{pid: pid, start: time.Now()}
		err := c.Next()
		d.end = time.Now()
		if c.Method() == fiber.MethodOptions {
			return err
		}

		entity := logger.WithFields(getLogrusFields(ftm, c, d))
		if err != nil {
			entity = entity.WithError(err)
		}
		if c.Response().StatusCode() >= fiber.StatusMultipleChoices {
			entity.Warn(logMessage)
		} else {
			entity.Info(logMessage)
		}
		return err
	}
}
