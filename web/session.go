package web

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	log "github.com/sirupsen/logrus"
)

const (
	sessionName = "xenory_session"

	sessionKeyState    = "oauth_state"
	sessionKeyUserID   = "user_id"
	sessionKeyUsername = "username"
	sessionKeyLogin    = "login_id"
)

// Guild is a guild the logged in user belongs to
type Guild struct {
	ID          string
	Name        string
	Icon        string
	Permissions int64
}

// IsAdmin reports whether the user holds the Administrator permission in the guild
func (g Guild) IsAdmin() bool {
	return g.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}

// IconURL returns the CDN url of the guild icon or "" when it has none
func (g Guild) IconURL() string {
	if g.Icon == "" {
		return ""
	}
	return discordgo.EndpointGuildIcon(g.ID, g.Icon)
}

// AdminGuilds filters guilds down to the ones the user administers
func AdminGuilds(guilds []Guild) []Guild {
	admin := make([]Guild, 0, len(guilds))
	for _, g := range guilds {
		if g.IsAdmin() {
			admin = append(admin, g)
		}
	}
	return admin
}

// sessionUser is the logged in user. ID and Username come from the session
// cookie, Guilds from the server side guild store.
type sessionUser struct {
	ID       string
	Username string
	Guilds   []Guild
}

func (u *sessionUser) adminGuild(guildID string) (Guild, bool) {
	for _, g := range u.Guilds {
		if g.ID == guildID && g.IsAdmin() {
			return g, true
		}
	}
	return Guild{}, false
}

// currentUser returns the logged in user, or false when the session is anonymous
// or its login is no longer known to the server (expired or lost on restart)
func (s *Server) currentUser(c *gin.Context) (*sessionUser, bool) {
	session := sessions.Default(c)

	userID, _ := session.Get(sessionKeyUserID).(string)
	loginID, _ := session.Get(sessionKeyLogin).(string)
	if userID == "" || loginID == "" {
		return nil, false
	}
	guilds, ok := s.logins.Get(loginID)
	if !ok {
		return nil, false
	}
	username, _ := session.Get(sessionKeyUsername).(string)

	return &sessionUser{ID: userID, Username: username, Guilds: guilds}, true
}

// newSessionStore builds the cookie store. The cookie is sent cross-site because
// the OAuth callback arrives from the identity provider's origin.
func newSessionStore(secret string, maxAge time.Duration) sessions.Store {
	var hashKey, blockKey []byte
	if secret == "" {
		log.Warn("SESSION_SECRET not set, generating a random key (sessions will not survive restarts)")
		hashKey = securecookie.GenerateRandomKey(64)
		blockKey = securecookie.GenerateRandomKey(32)
	} else {
		h := sha512.Sum512([]byte(secret))
		b := sha256.Sum256([]byte(secret))
		hashKey, blockKey = h[:], b[:]
	}

	store := cookie.NewStore(hashKey, blockKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return store
}

// newState returns a random OAuth state value
func newState() string {
	return hex.EncodeToString(securecookie.GenerateRandomKey(32))
}
