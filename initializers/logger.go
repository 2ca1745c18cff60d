package initializers

import (
	log "github.com/sirupsen/logrus"
	"noblelift-backend/fiberlog"
)

func newJSONFormatter() *log.JSONFormatter {
	return &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
}

func InitLogger() *fiberlog.Config {
	log.SetFormatter(newJSONFormatter())
	log.SetLevel(log.InfoLevel)

	logger := log.New()
	logger.SetFormatter(newJSONFormatter())
	logger.SetLevel(log.DebugLevel)
	return &fiberlog.Config{
		Logger: logger,
		Tags: []string{
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.RequestID,
			fiberlog.TagBody,
			fiberlog.TagResBody,
		},
	}
}
