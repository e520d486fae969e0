package services

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel aligns the services logger with the application's level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}
