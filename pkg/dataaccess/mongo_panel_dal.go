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
	panelDalName = "panel_dal"

	collectionPanels = "panels"
)

type panelDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *mongo.Database
}

// newPanelDal creates a new panel data access layer.
func newPanelDal(l *slog.Logger, db *mongo.Database) *panelDal {
	return &panelDal{
		l:  l.With(slog.String(logging.KeyDal, panelDalName)),
		db: db,
	}
}

func panelKey(communityID, name string) bson.M {
	return bson.M{"community_id": communityID, "name": name}
}

func (d *panelDal) SavePanel(ctx context.Context, panel *entities.Panel) error {
	collection := d.db.Collection(collectionPanels)
	defer monitoring.ObserveQuery(panelDalName, "save_panel", d.db.Name(), collectionPanels)()

	opts := options.Replace().SetUpsert(true)
	_, err := collection.ReplaceOne(ctx, panelKey(panel.CommunityID, panel.Name), panel, opts)
	if err != nil {
		return fmt.Errorf("error saving panel: %w", err)
	}
	return nil
}

func (d *panelDal) GetPanel(ctx context.Context, communityID, name string) (*entities.Panel, error) {
	collection := d.db.Collection(collectionPanels)
	defer monitoring.ObserveQuery(panelDalName, "get_panel", d.db.Name(), collectionPanels)()

	panel := new(entities.Panel)
	err := collection.FindOne(ctx, panelKey(communityID, name)).Decode(panel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting panel: %w", err)
	}
	return panel, nil
}

func (d *panelDal) ListPanels(ctx context.Context, communityID string) ([]*entities.Panel, error) {
	collection := d.db.Collection(collectionPanels)
	defer monitoring.ObserveQuery(panelDalName, "list_panels", d.db.Name(), collectionPanels)()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := collection.Find(ctx, bson.M{"community_id": communityID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing panels: %w", err)
	}

	panels := make([]*entities.Panel, 0)
	if err := cur.All(ctx, &panels); err != nil {
		return nil, fmt.Errorf("error decoding panels: %w", err)
	}
	return panels, nil
}

func (d *panelDal) DeletePanel(ctx context.Context, communityID, name string) error {
	collection := d.db.Collection(collectionPanels)
	defer monitoring.ObserveQuery(panelDalName, "delete_panel", d.db.Name(), collectionPanels)()

	res, err := collection.DeleteOne(ctx, panelKey(communityID, name))
	if err != nil {
		return fmt.Errorf("error deleting panel: %w", err)
	} else if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
