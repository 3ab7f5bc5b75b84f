package web

import (
	"context"
	"net/http"
	"net/url"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GuildStats are the summary numbers shown on the config page
type GuildStats struct {
	Members  int
	Boosts   int
	Channels int
}

type option struct {
	ID   string
	Name string
}

func (s *Server) handleDashboard(c *gin.Context) {
	user, _ := s.currentUser(c)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User":   user,
		"Guilds": AdminGuilds(user.Guilds),
	})
}

func (s *Server) handleConfigPage(c *gin.Context) {
	user, _ := s.currentUser(c)
	guildID := c.Param("id")

	if _, ok := user.adminGuild(guildID); !ok {
		s.renderError(c, http.StatusForbidden, "You are not an administrator of this server.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	logger := log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  user.ID,
	})

	guild, err := s.guilds.GuildWithCounts(guildID, discordgo.WithContext(ctx))
	if err != nil {
		logger.WithError(err).Info("Bot cannot see guild")
		c.HTML(http.StatusNotFound, "not_joined.html", gin.H{"User": user, "GuildID": guildID})
		return
	}

	channels, err := s.guilds.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		logger.WithError(err).Warn("Failed to list guild channels")
	}
	roles, err := s.guilds.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		logger.WithError(err).Warn("Failed to list guild roles")
	}

	textChannels, categories := channelOptions(channels)

	c.HTML(http.StatusOK, "config.html", gin.H{
		"User":       user,
		"Guild":      guild,
		"Config":     s.configs.Get(ctx, guildID),
		"Channels":   textChannels,
		"Categories": categories,
		"Roles":      roleOptions(guildID, roles),
		"Stats": GuildStats{
			Members:  guild.ApproximateMemberCount,
			Boosts:   guild.PremiumSubscriptionCount,
			Channels: len(channels),
		},
		"Tab": tabOrDefault(c.Query("tab")),
	})
}

// handleConfigSave persists the submitted form and returns to the tab the admin was on
func (s *Server) handleConfigSave(c *gin.Context) {
	user, _ := s.currentUser(c)
	guildID := c.Param("id")

	logger := log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  user.ID,
	})

	if _, ok := user.adminGuild(guildID); !ok {
		logger.Warn("Config save rejected, user is not an administrator")
		c.String(http.StatusForbidden, "Forbidden")
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "Invalid form")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	update := parseConfigForm(c.Request.PostForm)
	if _, err := s.configs.Save(ctx, guildID, update); err != nil {
		logger.WithError(err).Error("Failed to save guild config")
		s.renderError(c, http.StatusInternalServerError, "Could not save the configuration, please try again.")
		return
	}

	session := sessions.Default(c)
	if err := session.Save(); err != nil {
		logger.WithError(err).Warn("Failed to refresh session")
	}

	target := "/config/" + url.PathEscape(guildID)
	if tab := redirectTab(c.PostForm("tab")); tab != "" {
		target += "?tab=" + url.QueryEscape(tab)
	}
	c.Redirect(http.StatusSeeOther, target)
}

func tabOrDefault(tab string) string {
	if t := redirectTab(tab); t != "" {
		return t
	}
	return "verification"
}

// channelOptions splits guild channels into text channels and categories, sorted by position
func channelOptions(channels []*discordgo.Channel) (text, categories []option) {
	sorted := make([]*discordgo.Channel, len(channels))
	copy(sorted, channels)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	for _, ch := range sorted {
		switch ch.Type {
		case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
			text = append(text, option{ID: ch.ID, Name: ch.Name})
		case discordgo.ChannelTypeGuildCategory:
			categories = append(categories, option{ID: ch.ID, Name: ch.Name})
		}
	}
	return text, categories
}

// roleOptions lists assignable roles, highest first, without @everyone and managed roles
func roleOptions(guildID string, roles []*discordgo.Role) []option {
	sorted := make([]*discordgo.Role, len(roles))
	copy(sorted, roles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position > sorted[j].Position })

	options := make([]option, 0, len(sorted))
	for _, r := range sorted {
		if r.ID == guildID || r.Managed {
			continue
		}
		options = append(options, option{ID: r.ID, Name: r.Name})
	}
	return options
}
