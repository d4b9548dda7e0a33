package databases

// go generate: mockery --name AuditDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ssm-mz/dispatch-api/models"
)

const auditName = "auditTrail"

// AuditFilter narrows an audit query. Empty fields match everything.
type AuditFilter struct {
	UserID    string
	CompanyID string
}

// AuditDatabase contains the methods to use with the audit trail
type AuditDatabase interface {
	InsertOne(ctx context.Context, entry *models.AuditLog) error
	Find(ctx context.Context, filter AuditFilter) ([]models.AuditLog, error)
	Trim(ctx context.Context, keep int) (int64, error)
}

type auditDatabase struct {
	db DatabaseHelper
}

// NewAuditDatabase initializes a new instance of audit database with the provided db connection
func NewAuditDatabase(db DatabaseHelper) AuditDatabase {
	return &auditDatabase{
		db: db,
	}
}

func (a *auditDatabase) InsertOne(ctx context.Context, entry *models.AuditLog) error {
	_, err := a.db.Collection(auditName).InsertOne(ctx, entry)
	return err
}

func (a *auditDatabase) Find(ctx context.Context, filter AuditFilter) ([]models.AuditLog, error) {
	f := bson.M{}
	if filter.UserID != "" {
		f["userId"] = filter.UserID
	}
	if filter.CompanyID != "" {
		f["companyId"] = filter.CompanyID
	}
	var entries []models.AuditLog
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cr, err := a.db.Collection(auditName).Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Trim deletes everything older than the keep most recent entries
func (a *auditDatabase) Trim(ctx context.Context, keep int) (int64, error) {
	var cutoff []models.AuditLog
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(keep)).
		SetLimit(1)
	cr, err := a.db.Collection(auditName).Find(ctx, bson.M{}, opts)
	if err != nil {
		return 0, err
	}
	if err = cr.Decode(&cutoff); err != nil {
		return 0, err
	}
	if len(cutoff) == 0 {
		return 0, nil
	}
	return a.db.Collection(auditName).DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lte": cutoff[0].Timestamp}})
}
