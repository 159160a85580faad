package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/cmd/bot/config"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/ticketeer/pkg/gateway"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/Jacobbrewer1/ticketeer/pkg/panels"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
	"github.com/Jacobbrewer1/ticketeer/pkg/transcript"
)

func provideLogger(c *config.Config) (*slog.Logger, error) {
	lc := logging.NewConfig(config.AppName)
	lc.Level = logging.ParseLevel(c.LogLevel)
	return logging.CommonLogger(lc)
}

func provideSession(c *config.Config) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + c.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)
	return dg, nil
}

// provideStore connects to the configured backend. The cleanup closes it.
func provideStore(ctx context.Context, l *slog.Logger, c *config.Config) (dataaccess.Store, func(), error) {
	var store dataaccess.Store

	switch c.DBDriver {
	case config.DriverSQLite:
		db, err := (&connection.SQLite{Path: c.SQLitePath}).Connect()
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to sqlite: %w", err)
		}
		store = dataaccess.NewSQLiteStore(l, db)
	default:
		client, err := (&connection.MongoDB{ConnectionString: c.MongoUri}).Connect(ctx, l)
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to mongo: %w", err)
		}
		store = dataaccess.NewMongoStore(l, client, c.MongoDatabase)
	}

	l.Debug("Connected to store", slog.String("driver", c.DBDriver))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			l.Error("Error closing store", slog.String(logging.KeyError, err.Error()))
		}
	}
	return store, cleanup, nil
}

func provideExporter(l *slog.Logger, history transcript.History) transcript.Exporter {
	return transcript.NewExporter(l, history)
}

func provideRegistry(l *slog.Logger, store dataaccess.Store, gw gateway.Gateway) *panels.Registry {
	return panels.NewRegistry(l, store, gw)
}

func provideEngineOptions(c *config.Config) ticketing.Options {
	return ticketing.Options{
		Policy: policy.Options{
			AdministratorIsStaff: c.AdminIsStaff,
		},
		RequireTranscriptOnDelete: c.RequireTranscriptOnDelete,
		Now:                       time.Now,
	}
}
