package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// discordLogger routes discordgo's internal logging to logrus
func discordLogger(msgL, caller int, format string, a ...interface{}) {
	entry := log.WithField("component", "discordgo")
	msg := fmt.Sprintf(format, a...)

	switch msgL {
	case discordgo.LogError:
		entry.Error(msg)
	case discordgo.LogWarning:
		entry.Warn(msg)
	case discordgo.LogInformational:
		entry.Info(msg)
	default:
		entry.Debug(msg)
	}
}

// discordLogLevel maps a logrus level to the discordgo level that emits the same messages
func discordLogLevel(level log.Level) int {
	switch {
	case level >= log.DebugLevel:
		return discordgo.LogDebug
	case level >= log.InfoLevel:
		return discordgo.LogInformational
	case level >= log.WarnLevel:
		return discordgo.LogWarning
	default:
		return discordgo.LogError
	}
}
