package dataaccess

import (
	"context"
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
	memberDalName = "member_dal"

	collectionMembers = "ticket_members"
)

type memberDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *mongo.Database
}

// newMemberDal creates a new ticket member data access layer.
func newMemberDal(l *slog.Logger, db *mongo.Database) *memberDal {
	return &memberDal{
		l:  l.With(slog.String(logging.KeyDal, memberDalName)),
		db: db,
	}
}

func (d *memberDal) AddMember(ctx context.Context, member *entities.TicketMember) error {
	collection := d.db.Collection(collectionMembers)
	defer monitoring.ObserveQuery(memberDalName, "add_member", d.db.Name(), collectionMembers)()

	// $setOnInsert keeps the original added_at when the member already exists.
	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx,
		bson.M{"channel_id": member.ChannelID, "user_id": member.UserID},
		bson.M{"$setOnInsert": bson.M{"added_at": member.AddedAt}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("error adding member: %w", err)
	}
	return nil
}

func (d *memberDal) RemoveMember(ctx context.Context, channelID, userID string) error {
	collection := d.db.Collection(collectionMembers)
	defer monitoring.ObserveQuery(memberDalName, "remove_member", d.db.Name(), collectionMembers)()

	res, err := collection.DeleteOne(ctx, bson.M{"channel_id": channelID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("error removing member: %w", err)
	} else if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *memberDal) ListMembers(ctx context.Context, channelID string) ([]*entities.TicketMember, error) {
	collection := d.db.Collection(collectionMembers)
	defer monitoring.ObserveQuery(memberDalName, "list_members", d.db.Name(), collectionMembers)()

	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}})
	cur, err := collection.Find(ctx, bson.M{"channel_id": channelID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}

	members := make([]*entities.TicketMember, 0)
	if err := cur.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("error decoding members: %w", err)
	}
	return members, nil
}

func (d *memberDal) removeAll(ctx context.Context, channelID string) error {
	collection := d.db.Collection(collectionMembers)
	defer monitoring.ObserveQuery(memberDalName, "remove_all_members", d.db.Name(), collectionMembers)()

	if _, err := collection.DeleteMany(ctx, bson.M{"channel_id": channelID}); err != nil {
		return fmt.Errorf("error removing members: %w", err)
	}
	return nil
}
