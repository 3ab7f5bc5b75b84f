package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"xenory/service"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	ginlogrus "github.com/toorop/gin-logrus"
	"golang.org/x/time/rate"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	pathIndex            = "/"
	pathLogin            = "/login"
	pathLogout           = "/logout"
	pathCallback         = "/auth/callback"
	pathCallbackDiscord  = "/auth/discord/callback"
	pathDashboard        = "/dashboard"
	pathConfig           = "/config/:id"
	pathSave             = "/save/:id"
	pathHealthCheck      = "/healthz"
	pathMetrics          = "/metrics"
	requestTimeout       = 15 * time.Second
	shutdownGracePeriod  = 10 * time.Second
	defaultSessionMaxAge = 24 * time.Hour
)

// GuildDirectory looks up guild data through the bot's connection
type GuildDirectory interface {
	GuildWithCounts(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
}

// Options configures the web server
type Options struct {
	Port           int
	SessionSecret  string
	SessionMaxAge  time.Duration
	TrustedProxies []string
	// Gatherer backs /metrics; nil uses the default prometheus registry
	Gatherer prometheus.Gatherer
	// LoginLimiter throttles /login; nil allows one login per second with a burst of five
	LoginLimiter *rate.Limiter
}

// Server is the configuration dashboard
type Server struct {
	engine       *gin.Engine
	httpServer   *http.Server
	configs      service.GuildConfigService
	identity     IdentityProvider
	guilds       GuildDirectory
	loginLimiter *rate.Limiter
	logins       *guildStore
}

// NewServer builds the gin engine and registers all routes
func NewServer(opts Options, configs service.GuildConfigService, identity IdentityProvider, guilds GuildDirectory) (*Server, error) {
	if opts.SessionMaxAge <= 0 {
		opts.SessionMaxAge = defaultSessionMaxAge
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.LoginLimiter == nil {
		opts.LoginLimiter = rate.NewLimiter(rate.Every(time.Second), 5)
	}

	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)
	engine.Use(
		ginlogrus.Logger(log.StandardLogger(), pathHealthCheck, pathMetrics),
		gin.Recovery(),
		sessions.Sessions(sessionName, newSessionStore(opts.SessionSecret, opts.SessionMaxAge)),
	)

	s := &Server{
		engine:       engine,
		configs:      configs,
		identity:     identity,
		guilds:       guilds,
		loginLimiter: opts.LoginLimiter,
		logins:       newGuildStore(opts.SessionMaxAge),
	}

	engine.GET(pathIndex, s.handleIndex)
	engine.GET(pathLogin, s.handleLogin)
	engine.GET(pathLogout, s.handleLogout)
	engine.GET(pathCallback, s.handleCallback)
	engine.GET(pathCallbackDiscord, s.handleCallback)
	engine.GET(pathHealthCheck, s.handleHealthCheck)
	engine.GET(pathMetrics, gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))

	engine.GET(pathDashboard, s.requireLogin, s.handleDashboard)
	engine.GET(pathConfig, s.requireLogin, s.handleConfigPage)
	engine.POST(pathConfig, s.requireAPILogin, s.handleConfigSave)
	engine.POST(pathSave, s.requireAPILogin, s.handleConfigSave)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the HTTP handler of the dashboard
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until Shutdown is called
func (s *Server) ListenAndServe() error {
	log.WithField("addr", s.httpServer.Addr).Info("Web dashboard listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownGracePeriod)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// requireLogin redirects anonymous browsers to the login page
func (s *Server) requireLogin(c *gin.Context) {
	if _, ok := s.currentUser(c); !ok {
		c.Redirect(http.StatusFound, pathLogin)
		c.Abort()
		return
	}
	c.Next()
}

// requireAPILogin rejects anonymous form submissions without touching the store
func (s *Server) requireAPILogin(c *gin.Context) {
	if _, ok := s.currentUser(c); !ok {
		c.String(http.StatusUnauthorized, "Unauthorized")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) handleIndex(c *gin.Context) {
	user, _ := s.currentUser(c)
	c.HTML(http.StatusOK, "index.html", gin.H{"User": user})
}

func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Status":  status,
		"Message": message,
	})
}
