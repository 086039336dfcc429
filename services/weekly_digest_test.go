package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/factory-app/hub"
	"github.com/yeremiapane/factory-app/models"
)

func TestWeeklyDigestRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.machine(t, 1, models.MachineActive)
	late := f.order(t, "PED-001", models.PriorityNormal, models.OrderPending, testWeek.AddDate(0, 0, -1), 100)
	f.order(t, "PED-002", models.PriorityNormal, models.OrderPending, testWeek.AddDate(0, 0, -3), 50)
	f.order(t, "PED-003", models.PriorityNormal, models.OrderPending, testWeek.AddDate(0, 0, 6), 70)
	_, err := f.svc.Assign(ctx, testWeek, late.Items[0].ID, m1.ID)
	require.NoError(t, err)

	rec := &recordingHub{}
	digest, err := NewWeeklyDigest(f.svc, rec).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, "2025-08-04", digest.WeekStart)
	assert.Equal(t, 2, digest.Late)
	assert.Equal(t, 100, digest.Metrics.TotalPlanned)
	assert.Equal(t, 2, digest.Metrics.UnassignedOrders)
	assert.Equal(t, []string{hub.EventWeekDigest}, rec.events)
}

func TestWeeklyDigestRejectsBadSchedule(t *testing.T) {
	f := newFixture(t)
	d := NewWeeklyDigest(f.svc, nil)
	assert.Error(t, d.Start("every monday"))

	require.NoError(t, d.Start("0 6 * * 1"))
	d.Stop()
}

func TestWeeklyDigestSkipsOverlappingRun(t *testing.T) {
	f := newFixture(t)
	d := NewWeeklyDigest(f.svc, nil)
	d.running = 1

	_, err := d.Run(context.Background())
	assert.ErrorIs(t, err, ErrDigestRunning)
}
