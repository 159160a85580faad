package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/cmd/bot/config"
	"github.com/Jacobbrewer1/ticketeer/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/request"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// shutdownTimeout bounds the graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

type App struct {
	// l is the logger.
	l *slog.Logger

	// c is the configuration.
	c *config.Config

	// r is the router for the monitoring server.
	r *mux.Router

	// svr is the monitoring server.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// store is the persistent store.
	store dataaccess.Store

	// engine runs ticket actions.
	engine *ticketing.Engine

	// cron runs the reconciler.
	cron *cron.Cron

	// ctx is cancelled when the application shuts down.
	ctx context.Context

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// commands are the registered slash commands.
	commands *guildCommands
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, c *config.Config, r *mux.Router, s *discordgo.Session, store dataaccess.Store, engine *ticketing.Engine) *App {
	return &App{
		l:        l,
		c:        c,
		r:        r,
		s:        s,
		store:    store,
		engine:   engine,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		ctx:      context.Background(),
		commands: newGuildCommands(s, c.ApplicationId, slashCommands),
		// Buffered so a slow listener does not block the gateway.
		eventNotifier: make(chan any, 100),
	}
}

// Run connects to Discord and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx

	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	a.s.SetEventNotifier(a.eventNotifier)
	a.registerDiscordHandlers()

	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	if err := a.startReconciler(); err != nil {
		return fmt.Errorf("error starting reconciler: %w", err)
	}

	a.setupRoutes()
	a.runServer()

	a.l.Info("Bot is now running")

	<-ctx.Done()
	a.l.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Shutdown stops the reconciler and the monitoring server and disconnects from Discord.
func (a *App) Shutdown(ctx context.Context) error {
	monitoring.TotalDiscordGuilds.Set(0)

	var errs []error

	select {
	case <-a.cron.Stop().Done():
	case <-ctx.Done():
		errs = append(errs, errors.New("reconciler did not stop in time"))
	}

	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error stopping monitoring server: %w", err))
		}
	}

	if err := a.commands.unregisterAll(); err != nil {
		errs = append(errs, fmt.Errorf("error unregistering slash commands: %w", err))
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}
	return errors.Join(errs...)
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.l, a.healthCheck())).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.l)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.l)
}

func (a *App) runServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.c.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.l.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.l.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.l.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) registerDiscordHandlers() {
	a.s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		a.l.Info(fmt.Sprintf("Logged in as %s", r.User.Username))
	})

	// Bot joined guild.
	a.s.AddHandler(a.guildJoinedHandler())

	// Bot left guild.
	a.s.AddHandler(a.guildLeaveHandler())

	a.s.AddHandler(a.interactionHandler())
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.l.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}
