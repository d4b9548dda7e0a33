package databases

// go generate: mockery --name CommunicationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ssm-mz/dispatch-api/models"
)

const communicationName = "communications"

// CommunicationDatabase contains the methods to use with the communication ledger
type CommunicationDatabase interface {
	InsertOne(ctx context.Context, entry *models.CommunicationLog) error
	Find(ctx context.Context, incidentID string, channel models.Channel) ([]models.CommunicationLog, error)
}

type communicationDatabase struct {
	db DatabaseHelper
}

// NewCommunicationDatabase initializes a new instance of communication database with the provided db connection
func NewCommunicationDatabase(db DatabaseHelper) CommunicationDatabase {
	return &communicationDatabase{
		db: db,
	}
}

func (c *communicationDatabase) InsertOne(ctx context.Context, entry *models.CommunicationLog) error {
	_, err := c.db.Collection(communicationName).InsertOne(ctx, entry)
	return err
}

// Find returns entries in insertion order; an empty channel matches every channel
func (c *communicationDatabase) Find(ctx context.Context, incidentID string, channel models.Channel) ([]models.CommunicationLog, error) {
	filter := bson.M{"incidentId": incidentID}
	if channel != "" {
		filter["channel"] = channel
	}
	var entries []models.CommunicationLog
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cr, err := c.db.Collection(communicationName).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
