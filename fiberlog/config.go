package fiberlog

import "github.com/sirupsen/logrus"

// Config теги, попадающие в запись лога запроса. Logger nil - стандартный логгер logrus
type Config struct {
	Logger *logrus.Logger
	Tags   []string
}

var ConfigDefault = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
	},
}
