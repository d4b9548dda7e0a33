package databases

// go generate: mockery --name AmbulanceDatabase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ssm-mz/dispatch-api/models"
)

const ambulanceName = "ambulances"

// AmbulanceDatabase contains the methods to use with the fleet roster
type AmbulanceDatabase interface {
	FindOne(ctx context.Context, id string) (*models.Ambulance, error)
	Find(ctx context.Context) ([]models.Ambulance, error)
	InsertOne(ctx context.Context, ambulance *models.Ambulance) error
	ReplaceOne(ctx context.Context, ambulance *models.Ambulance) error
}

type ambulanceDatabase struct {
	db DatabaseHelper
}

// NewAmbulanceDatabase initializes a new instance of the roster with the provided db connection
func NewAmbulanceDatabase(db DatabaseHelper) AmbulanceDatabase {
	return &ambulanceDatabase{
		db: db,
	}
}

func (a *ambulanceDatabase) FindOne(ctx context.Context, id string) (*models.Ambulance, error) {
	ambulance := &models.Ambulance{}
	err := a.db.Collection(ambulanceName).FindOne(ctx, bson.M{"_id": id}).Decode(&ambulance)
	if err != nil {
		return nil, err
	}
	return ambulance, nil
}

func (a *ambulanceDatabase) Find(ctx context.Context) ([]models.Ambulance, error) {
	var ambulances []models.Ambulance
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cr, err := a.db.Collection(ambulanceName).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&ambulances)
	if err != nil {
		return nil, err
	}
	return ambulances, nil
}

func (a *ambulanceDatabase) InsertOne(ctx context.Context, ambulance *models.Ambulance) error {
	_, err := a.db.Collection(ambulanceName).InsertOne(ctx, ambulance)
	return err
}

func (a *ambulanceDatabase) ReplaceOne(ctx context.Context, ambulance *models.Ambulance) error {
	return a.db.Collection(ambulanceName).ReplaceOne(ctx, bson.M{"_id": ambulance.ID}, ambulance)
}

// SeedRoster inserts the units that are not in the roster yet. Existing units keep their
// stored state.
func SeedRoster(ctx context.Context, db AmbulanceDatabase, units []models.Ambulance) (int, error) {
	added := 0
	for i := range units {
		u := units[i]
		_, err := db.FindOne(ctx, u.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return added, err
		}
		if u.Phase == "" {
			u.Phase = models.PhaseIdle
		}
		if err := db.InsertOne(ctx, &u); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
