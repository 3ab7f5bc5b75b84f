package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// commands returns every slash command the bot serves
func (b *Bot) commands() []*discordgo.ApplicationCommand {
	return b.panels.Commands()
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := b.commands()

	// Overwrites the whole set so commands dropped from the list are removed
	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, "", commands)
	if err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}

	log.WithField("count", len(registered)).Info("Registered slash commands")
	return nil
}
