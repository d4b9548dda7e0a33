package databases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/models"
)

func TestMemoryIncidentDatabase(t *testing.T) {
	ctx := context.Background()
	db := databases.NewMemoryIncidentDatabase()

	first := &models.EmergencyCase{ID: "INC-1", Status: models.StatusActive}
	require.NoError(t, db.InsertOne(ctx, first))
	require.NoError(t, db.InsertOne(ctx, &models.EmergencyCase{ID: "INC-2"}))
	assert.Error(t, db.InsertOne(ctx, first), "duplicate id")

	// the store keeps its own copy
	first.Status = models.StatusClosed
	got, err := db.FindOne(ctx, "INC-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)

	got.Assignment = &models.Assignment{AmbulanceID: "ALPHA-1", Phase: models.PhasePendingAccept}
	require.NoError(t, db.ReplaceOne(ctx, got))
	got.Assignment.Phase = models.PhaseAtPatient

	again, err := db.FindOne(ctx, "INC-1")
	require.NoError(t, err)
	assert.Equal(t, models.PhasePendingAccept, again.Phase())

	all, err := db.Find(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "INC-2", all[0].ID)

	_, err = db.FindOne(ctx, "INC-404")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, db.ReplaceOne(ctx, &models.EmergencyCase{ID: "INC-404"}), models.ErrNotFound)
}

func TestMemoryAmbulanceDatabase(t *testing.T) {
	ctx := context.Background()
	db := databases.NewMemoryAmbulanceDatabase(
		models.Ambulance{ID: "GAMMA-3", Status: models.UnitAvailable},
		models.Ambulance{ID: "ALPHA-1", Status: models.UnitAvailable},
	)

	all, err := db.Find(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ALPHA-1", all[0].ID)
	assert.Equal(t, models.PhaseIdle, all[0].Phase)

	unit, err := db.FindOne(ctx, "ALPHA-1")
	require.NoError(t, err)
	unit.Phase = models.PhasePendingAccept
	unit.IncidentID = "INC-1"
	require.NoError(t, db.ReplaceOne(ctx, unit))

	unit, err = db.FindOne(ctx, "ALPHA-1")
	require.NoError(t, err)
	assert.False(t, unit.Assignable())
}

func TestMemoryAuditDatabase(t *testing.T) {
	ctx := context.Background()
	db := databases.NewMemoryAuditDatabase()
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, u := range []string{"ADM-001", "DRV-004", "ADM-001", "CLI-006"} {
		require.NoError(t, db.InsertOne(ctx, &models.AuditLog{
			ID:        string(rune('a' + i)),
			UserID:    u,
			CompanyID: map[string]string{"DRV-004": "AMB_RED_CROSS", "CLI-006": "ABSA"}[u],
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := db.Find(ctx, databases.AuditFilter{UserID: "ADM-001"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].ID)

	entries, err = db.Find(ctx, databases.AuditFilter{CompanyID: "ABSA"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	n, err := db.Trim(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	entries, err = db.Find(ctx, databases.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "d", entries[0].ID)
	assert.Equal(t, "c", entries[1].ID)
}

func TestMemoryCommunicationDatabase(t *testing.T) {
	ctx := context.Background()
	db := databases.NewMemoryCommunicationDatabase()
	require.NoError(t, db.InsertOne(ctx, &models.CommunicationLog{ID: "1", IncidentID: "INC-1", Channel: models.ChannelClient}))
	require.NoError(t, db.InsertOne(ctx, &models.CommunicationLog{ID: "2", IncidentID: "INC-1", Channel: models.ChannelAmbulance}))
	require.NoError(t, db.InsertOne(ctx, &models.CommunicationLog{ID: "3", IncidentID: "INC-2", Channel: models.ChannelClient}))

	all, err := db.Find(ctx, "INC-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	amb, err := db.Find(ctx, "INC-1", models.ChannelAmbulance)
	require.NoError(t, err)
	require.Len(t, amb, 1)
	assert.Equal(t, "2", amb[0].ID)
}

func TestSeedRosterKeepsExistingUnits(t *testing.T) {
	db := databases.NewMemoryAmbulanceDatabase(models.Ambulance{ID: "ALPHA-1", Phase: models.PhaseAtPatient})

	added, err := databases.SeedRoster(context.Background(), db, []models.Ambulance{
		{ID: "ALPHA-1"},
		{ID: "BETA-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	alpha, err := db.FindOne(context.Background(), "ALPHA-1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseAtPatient, alpha.Phase)
	beta, err := db.FindOne(context.Background(), "BETA-2")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseIdle, beta.Phase)
}
