//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/Jacobbrewer1/ticketeer/cmd/bot/config"
	"github.com/Jacobbrewer1/ticketeer/pkg/gateway"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
	"github.com/Jacobbrewer1/ticketeer/pkg/transcript"
	"github.com/google/wire"
	"github.com/gorilla/mux"
)

func InitializeApp(ctx context.Context, c *config.Config) (*App, func(), error) {
	wire.Build(
		provideLogger,
		provideSession,
		provideStore,
		gateway.NewDiscord,
		transcript.NewDiscordHistory,
		provideExporter,
		provideRegistry,
		provideEngineOptions,
		ticketing.NewEngine,
		mux.NewRouter,
		NewApp,
	)
	return new(App), nil, nil
}
