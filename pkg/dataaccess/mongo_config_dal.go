package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	configDalName = "config_dal"

	collectionConfigs = "community_configs"
)

type configDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *mongo.Database
}

// newConfigDal creates a new config data access layer.
func newConfigDal(l *slog.Logger, db *mongo.Database) *configDal {
	return &configDal{
		l:  l.With(slog.String(logging.KeyDal, configDalName)),
		db: db,
	}
}

func (d *configDal) SaveConfig(ctx context.Context, cfg *entities.CommunityConfig) error {
	// Get the config collection.
	collection := d.db.Collection(collectionConfigs)

	// Start the prometheus metrics.
	defer monitoring.ObserveQuery(configDalName, "save_config", d.db.Name(), collectionConfigs)()

	// Replace the whole document, the config is never partially updated.
	opts := options.Replace().SetUpsert(true)
	_, err := collection.ReplaceOne(ctx, bson.M{"community_id": cfg.CommunityID}, cfg, opts)
	if err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	return nil
}

// GetConfig gets a config by guild ID.
func (d *configDal) GetConfig(ctx context.Context, communityID string) (*entities.CommunityConfig, error) {
	// Get the config collection.
	collection := d.db.Collection(collectionConfigs)

	// Start the prometheus metrics.
	defer monitoring.ObserveQuery(configDalName, "get_config", d.db.Name(), collectionConfigs)()

	// Get the config.
	cfg := new(entities.CommunityConfig)
	err := collection.FindOne(ctx, bson.M{"community_id": communityID}).Decode(cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting config: %w", err)
	}
	return cfg, nil
}
