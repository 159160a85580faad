package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/monitoring"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoStore struct {
	*configDal
	*panelDal
	*ticketDal
	*memberDal

	// client is the Mongo client. This is a connection pool.
	client *mongo.Client

	// db is the database all collections live in.
	db *mongo.Database
}

// NewMongoStore creates a store backed by the given database of the client.
func NewMongoStore(l *slog.Logger, client *mongo.Client, database string) Store {
	db := client.Database(database)
	members := newMemberDal(l, db)

	return &mongoStore{
		configDal: newConfigDal(l, db),
		panelDal:  newPanelDal(l, db),
		ticketDal: newTicketDal(l, db, members),
		memberDal: members,
		client:    client,
		db:        db,
	}
}

func (s *mongoStore) Ping(ctx context.Context) error {
	defer monitoring.ObserveQuery("health_check", "ping", s.db.Name(), "-")()

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("error pinging mongo: %w", err)
	}
	return nil
}

func (s *mongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("error disconnecting from mongo: %w", err)
	}
	return nil
}

// Migrate creates the unique indexes that the store relies on for its keys.
func (s *mongoStore) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collectionConfigs: {
			{Keys: bson.D{{Key: "community_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionPanels: {
			{Keys: bson.D{{Key: "community_id", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionTickets: {
			{Keys: bson.D{{Key: "channel_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "community_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		collectionMembers: {
			{Keys: bson.D{{Key: "channel_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", coll, err)
		}
	}
	return nil
}
