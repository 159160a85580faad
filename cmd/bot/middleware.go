package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/request"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// interactionTimeout bounds the work done for a single interaction.
const interactionTimeout = 2 * time.Minute

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(l *slog.Logger, handler Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					l.Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				l.Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// The status code is only known once the handler has returned.
			status := fmt.Sprintf("%d", cw.StatusCode())
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, status).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, status).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler routes every interaction to the ticket engine and replies with the outcome.
func (a *App) interactionHandler() func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		l := a.l.With(
			slog.String(logging.KeyInteraction, uuid.NewString()),
			slog.String(logging.KeyGuild, i.GuildID),
			slog.String(logging.KeyChannel, i.ChannelID),
		)

		defer func() {
			if rec := recover(); rec != nil {
				l.Error("Panic handling interaction",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()

		action, err := actionFor(i)
		if errors.Is(err, errUnhandledInteraction) {
			l.Debug("Ignoring interaction", slog.String(logging.KeyError, err.Error()))
			return
		}
		if err != nil {
			a.respondError(l, i, 0, err, false)
			return
		}

		caller, err := callerFor(i)
		if err != nil {
			a.respondError(l, i, action.Kind(), err, false)
			return
		}

		l = l.With(
			slog.String(logging.KeyAction, action.Kind().String()),
			slog.String(logging.KeyUser, caller.UserID),
		)
		l.Debug("Handling interaction")

		t := prometheus.NewTimer(monitoring.DiscordCommandDuration.WithLabelValues(action.Kind().String()))
		defer t.ObserveDuration()

		ctx, cancel := context.WithTimeout(a.ctx, interactionTimeout)
		defer cancel()

		deferred := isLongRunning(action)
		if deferred {
			if err := a.respondDeferred(i, !isPublic(action)); err != nil {
				l.Error("Error acknowledging interaction", slog.String(logging.KeyError, err.Error()))
				return
			}
		}

		res, err := a.engine.Perform(ctx, caller, action)
		if err != nil {
			a.respondError(l, i, action.Kind(), err, deferred)
			return
		}

		a.respond(l, i, replyFor(action, caller, res), !isPublic(action), deferred)
	}
}
