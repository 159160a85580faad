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
	ticketDalName = "ticket_dal"

	collectionTickets = "tickets"
)

type ticketDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *mongo.Database

	// members is used to remove the members of deleted tickets.
	members *memberDal
}

// newTicketDal creates a new ticket data access layer.
func newTicketDal(l *slog.Logger, db *mongo.Database, members *memberDal) *ticketDal {
	return &ticketDal{
		l:       l.With(slog.String(logging.KeyDal, ticketDalName)),
		db:      db,
		members: members,
	}
}

func (d *ticketDal) CreateTicket(ctx context.Context, ticket *entities.Ticket) error {
	// Get the ticket collection.
	collection := d.db.Collection(collectionTickets)

	// Start the prometheus metrics.
	defer monitoring.ObserveQuery(ticketDalName, "create_ticket", d.db.Name(), collectionTickets)()

	// Insert the ticket, the unique index on channel_id rejects a second ticket for the channel.
	_, err := collection.InsertOne(ctx, ticket)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExists
	} else if err != nil {
		return fmt.Errorf("error creating ticket: %w", err)
	}
	return nil
}

func (d *ticketDal) GetTicket(ctx context.Context, channelID string) (*entities.Ticket, error) {
	// Get the ticket collection.
	collection := d.db.Collection(collectionTickets)

	// Start the prometheus metrics.
	defer monitoring.ObserveQuery(ticketDalName, "get_ticket", d.db.Name(), collectionTickets)()

	// Get the ticket.
	ticket := new(entities.Ticket)
	err := collection.FindOne(ctx, bson.M{"channel_id": channelID}).Decode(ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}

	return ticket, nil
}

func (d *ticketDal) ListTickets(ctx context.Context, communityID string, status entities.TicketStatus) ([]*entities.Ticket, error) {
	// Get the ticket collection.
	collection := d.db.Collection(collectionTickets)

	// Start the prometheus metrics.
	defer monitoring.ObserveQuery(ticketDalName, "list_tickets", d.db.Name(), collectionTickets)()

	filter := bson.M{}
	if communityID != "" {
		filter["community_id"] = communityID
	}
	if status != "" {
		filter["status"] = status
	}

	// Oldest tickets first.
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cur, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}

	tickets := make([]*entities.Ticket, 0)
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("error decoding tickets: %w", err)
	}

	return tickets, nil
}

func (d *ticketDal) TransitionTicket(ctx context.Context, channelID string, tr TicketTransition) error {
	// Get the ticket collection.
	collection := d.db.Collection(collectionTickets)

	// Start the prometheus metrics.
	defer monitoring.ObserveQuery(ticketDalName, "transition_ticket", d.db.Name(), collectionTickets)()

	set := bson.M{"status": tr.To}
	if tr.To == entities.TicketStatusClosed {
		set["closed_at"] = tr.ClosedAt
		set["closed_by"] = tr.ClosedBy
	}

	// The status in the filter makes the update a compare-and-set on the single document.
	res, err := collection.UpdateOne(ctx, bson.M{"channel_id": channelID, "status": tr.From}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error transitioning ticket: %w", err)
	}

	if res.MatchedCount == 0 {
		// Work out whether the ticket is gone or someone else moved it first.
		if _, err := d.GetTicket(ctx, channelID); err != nil {
			return err
		}
		return ErrStatusConflict
	}

	return nil
}

func (d *ticketDal) DeleteTicket(ctx context.Context, channelID string) error {
	// Get the ticket collection.
	collection := d.db.Collection(collectionTickets)

	// The members go first so a failure leaves the ticket in place to be deleted again.
	if err := d.members.removeAll(ctx, channelID); err != nil {
		return err
	}

	// Start the prometheus metrics.
	defer monitoring.ObserveQuery(ticketDalName, "delete_ticket", d.db.Name(), collectionTickets)()

	res, err := collection.DeleteOne(ctx, bson.M{"channel_id": channelID})
	if err != nil {
		return fmt.Errorf("error deleting ticket: %w", err)
	} else if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
