package cmd

import (
	"xenory/config"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// setupLogging configures the global logrus logger from the config
func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Invalid LOG_LEVEL, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
		return
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
