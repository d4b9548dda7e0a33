package databases

// go generate: mockery --name IncidentDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ssm-mz/dispatch-api/models"
)

const incidentName = "incidents"

// IncidentDatabase contains the methods to use with the incident database
type IncidentDatabase interface {
	FindOne(ctx context.Context, id string) (*models.EmergencyCase, error)
	Find(ctx context.Context) ([]models.EmergencyCase, error)
	InsertOne(ctx context.Context, incident *models.EmergencyCase) error
	ReplaceOne(ctx context.Context, incident *models.EmergencyCase) error
}

type incidentDatabase struct {
	db DatabaseHelper
}

// NewIncidentDatabase initializes a new instance of incident database with the provided db connection
func NewIncidentDatabase(db DatabaseHelper) IncidentDatabase {
	return &incidentDatabase{
		db: db,
	}
}

func (i *incidentDatabase) FindOne(ctx context.Context, id string) (*models.EmergencyCase, error) {
	incident := &models.EmergencyCase{}
	err := i.db.Collection(incidentName).FindOne(ctx, bson.M{"_id": id}).Decode(&incident)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

func (i *incidentDatabase) Find(ctx context.Context) ([]models.EmergencyCase, error) {
	var incidents []models.EmergencyCase
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cr, err := i.db.Collection(incidentName).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&incidents)
	if err != nil {
		return nil, err
	}
	return incidents, nil
}

func (i *incidentDatabase) InsertOne(ctx context.Context, incident *models.EmergencyCase) error {
	_, err := i.db.Collection(incidentName).InsertOne(ctx, incident)
	return err
}

func (i *incidentDatabase) ReplaceOne(ctx context.Context, incident *models.EmergencyCase) error {
	return i.db.Collection(incidentName).ReplaceOne(ctx, bson.M{"_id": incident.ID}, incident)
}
