package web

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"
)

// Discord OAuth2 endpoints
var discordEndpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// userGuildsLimit is the maximum page size of the current-user guilds endpoint
const userGuildsLimit = 200

// userGuildLister is the part of a user session that lists the user's guilds
type userGuildLister interface {
	UserGuilds(limit int, beforeID, afterID string, withCounts bool, options ...discordgo.RequestOption) ([]*discordgo.UserGuild, error)
}

// Identity is the result of a completed login
type Identity struct {
	UserID   string
	Username string
	Guilds   []Guild
}

// IdentityProvider performs the OAuth2 authorization code flow
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (*Identity, error)
}

// DiscordIdentity logs users in with Discord OAuth2 (scopes identify and guilds)
type DiscordIdentity struct {
	oauth *oauth2.Config
}

// NewDiscordIdentity creates a Discord identity provider
func NewDiscordIdentity(clientID, clientSecret, redirectURL string) *DiscordIdentity {
	return &DiscordIdentity{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identify", "guilds"},
			Endpoint:     discordEndpoint,
		},
	}
}

// AuthCodeURL returns the authorize URL the user is redirected to
func (d *DiscordIdentity) AuthCodeURL(state string) string {
	return d.oauth.AuthCodeURL(state)
}

// Identify exchanges the authorization code and loads the user and their guilds
func (d *DiscordIdentity) Identify(ctx context.Context, code string) (*Identity, error) {
	token, err := d.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	s, err := discordgo.New("Bearer " + token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bearer session: %w", err)
	}

	user, err := s.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	guilds, err := listUserGuilds(ctx, s, userGuildsLimit)
	if err != nil {
		return nil, err
	}

	return &Identity{
		UserID:   user.ID,
		Username: user.Username,
		Guilds:   guilds,
	}, nil
}

// listUserGuilds walks every page of the user's guilds using the after cursor
func listUserGuilds(ctx context.Context, lister userGuildLister, pageSize int) ([]Guild, error) {
	var guilds []Guild
	after := ""
	for {
		page, err := lister.UserGuilds(pageSize, "", after, false, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch guilds: %w", err)
		}

		for _, g := range page {
			guilds = append(guilds, Guild{
				ID:          g.ID,
				Name:        g.Name,
				Icon:        g.Icon,
				Permissions: g.Permissions,
			})
		}

		if len(page) < pageSize || page[len(page)-1].ID == after {
			return guilds, nil
		}
		after = page[len(page)-1].ID
	}
}
