package web

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// handleLogin stores a fresh state in the session and redirects to the identity provider
func (s *Server) handleLogin(c *gin.Context) {
	if !s.loginLimiter.Allow() {
		s.renderError(c, http.StatusTooManyRequests, "Too many login attempts, try again in a moment.")
		return
	}

	state := newState()
	session := sessions.Default(c)
	session.Set(sessionKeyState, state)
	// The state must be persisted before leaving for the provider
	if err := session.Save(); err != nil {
		log.WithError(err).Error("Failed to save login session")
		s.renderError(c, http.StatusInternalServerError, "Could not start the login.")
		return
	}

	c.Redirect(http.StatusFound, s.identity.AuthCodeURL(state))
}

// handleCallback completes the OAuth flow. Any failure sends the browser back to
// the login page without establishing a session.
func (s *Server) handleCallback(c *gin.Context) {
	session := sessions.Default(c)
	expected, _ := session.Get(sessionKeyState).(string)
	session.Delete(sessionKeyState)

	if errParam := c.Query("error"); errParam != "" {
		log.WithField("error", errParam).Info("Login denied by identity provider")
		s.failLogin(c, session)
		return
	}

	if expected == "" || c.Query("state") != expected {
		log.Warn("Login callback with invalid state")
		s.failLogin(c, session)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	identity, err := s.identity.Identify(ctx, c.Query("code"))
	if err != nil {
		log.WithError(err).Warn("Login failed")
		s.failLogin(c, session)
		return
	}

	loginID := newState()
	s.logins.Put(loginID, AdminGuilds(identity.Guilds))

	session.Set(sessionKeyUserID, identity.UserID)
	session.Set(sessionKeyUsername, identity.Username)
	session.Set(sessionKeyLogin, loginID)
	// Saved before the redirect, otherwise /dashboard sees no session and loops back to /login
	if err := session.Save(); err != nil {
		log.WithError(err).Error("Failed to save session")
		s.logins.Delete(loginID)
		s.failLogin(c, session)
		return
	}

	log.WithFields(log.Fields{
		"user_id":  identity.UserID,
		"username": identity.Username,
		"guilds":   len(identity.Guilds),
	}).Info("User logged in")

	c.Redirect(http.StatusFound, pathDashboard)
}

func (s *Server) failLogin(c *gin.Context, session sessions.Session) {
	session.Clear()
	if err := session.Save(); err != nil {
		log.WithError(err).Warn("Failed to clear session")
	}
	c.Redirect(http.StatusFound, pathLogin)
}

func (s *Server) handleLogout(c *gin.Context) {
	session := sessions.Default(c)
	if loginID, _ := session.Get(sessionKeyLogin).(string); loginID != "" {
		s.logins.Delete(loginID)
	}
	session.Clear()
	if err := session.Save(); err != nil {
		log.WithError(err).Warn("Failed to clear session")
	}
	c.Redirect(http.StatusFound, pathIndex)
}
