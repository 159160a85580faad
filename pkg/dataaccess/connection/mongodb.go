package connection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// connectMaxElapsed bounds how long Connect keeps retrying an unreachable server.
const connectMaxElapsed = 30 * time.Second

type MongoDB struct {
	ConnectionString string
	Username         string
	Password         string
	Host             string
	Port             string
	Args             string
}

func (m *MongoDB) GenerateConnectionString() {
	cs := "mongodb+srv://"
	if m.Username != "" && m.Password != "" {
		cs += m.Username + ":" + m.Password + "@"
	} else if m.Username != "" {
		cs += m.Username + "@"
	}

	cs += m.Host

	if m.Port != "" {
		cs += ":" + m.Port
	}

	if m.Args != "" {
		cs += "/?" + m.Args
	}

	m.ConnectionString = cs
}

func ping(ctx context.Context, client *mongo.Client) error {
	// Measure the latency of the ping alongside the store queries.
	defer monitoring.ObserveQuery("health_check", "ping", "-", "-")()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("error pinging mongo: %w", err)
	}
	return nil
}

func newConnectBackoff() backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = connectMaxElapsed
	return bo
}

// Connect connects to Mongo, retrying with an exponential backoff until the server answers a ping.
func (m *MongoDB) Connect(ctx context.Context, l *slog.Logger) (*mongo.Client, error) {
	if m.ConnectionString == "" {
		m.GenerateConnectionString()
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(m.ConnectionString).SetServerAPIOptions(serverAPI)

	// The client does not dial until the first operation, so the ping is what is retried.
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	err = backoff.RetryNotify(func() error {
		return ping(ctx, client)
	}, backoff.WithContext(newConnectBackoff(), ctx), func(err error, next time.Duration) {
		l.Warn("Mongo not reachable, retrying",
			slog.String(logging.KeyError, err.Error()),
			slog.Duration("retry_in", next),
		)
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
