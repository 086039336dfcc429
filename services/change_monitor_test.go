package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/factory-app/hub"
	"github.com/yeremiapane/factory-app/models"
)

func TestChangeMonitorPublishesChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.machine(t, 1, models.MachineActive)
	o := f.order(t, "PED-001", models.PriorityNormal, models.OrderPending, testWeek, 100)
	_, err := f.svc.Assign(ctx, testWeek, o.Items[0].ID, m1.ID)
	require.NoError(t, err)

	rec := &recordingHub{}
	cm := NewChangeMonitor(f.db, rec, time.Second)

	n, err := cm.CheckChanges()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{hub.EventMachineUpdate, hub.EventOrderUpdate, hub.EventPlanningUpdate}, rec.events)

	ev := rec.data[0].(ChangeEvent)
	assert.Equal(t, models.ChangeInsert, ev.Action)
	assert.Equal(t, int64(m1.ID), ev.RecordID)
	assert.Equal(t, "Extrusora 01", ev.Record.(*models.Machine).Name)

	var pending int64
	require.NoError(t, f.db.Model(&models.DBChange{}).Where("processed = ?", false).Count(&pending).Error)
	assert.Zero(t, pending)

	n, err = cm.CheckChanges()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, rec.events, 3)
}

func TestChangeMonitorDeletedPlanHasNoRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := f.machine(t, 1, models.MachineActive)
	o := f.order(t, "PED-001", models.PriorityNormal, models.OrderPending, testWeek, 100)
	_, err := f.svc.Assign(ctx, testWeek, o.Items[0].ID, m1.ID)
	require.NoError(t, err)

	rec := &recordingHub{}
	cm := NewChangeMonitor(f.db, rec, time.Second)
	_, err = cm.CheckChanges()
	require.NoError(t, err)

	require.NoError(t, f.svc.Unassign(ctx, testWeek, o.Items[0].ID))
	rec.events, rec.data = nil, nil

	n, err := cm.CheckChanges()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, hub.EventPlanningUpdate, rec.events[0])
	ev := rec.data[0].(ChangeEvent)
	assert.Equal(t, models.ChangeDelete, ev.Action)
	assert.Nil(t, ev.Record)
}

func TestChangeMonitorPublishesDashboardStats(t *testing.T) {
	f := newFixture(t)
	f.machine(t, 1, models.MachineActive)

	rec := &recordingHub{}
	cm := NewChangeMonitor(f.db, rec, time.Second)
	cm.Stats = f.svc.DashboardStats

	_, err := cm.CheckChanges()
	require.NoError(t, err)
	require.Len(t, rec.events, 2)
	assert.Equal(t, hub.EventDashboard, rec.events[1])
	assert.Equal(t, 1, rec.data[1].(DashboardStats).TotalMachines)
}

func TestChangeMonitorStartStop(t *testing.T) {
	f := newFixture(t)
	f.machine(t, 1, models.MachineActive)

	rec := &hubSpy{published: make(chan string, 10)}
	cm := NewChangeMonitor(f.db, rec, 10*time.Millisecond)
	cm.Start()
	defer cm.Stop()

	select {
	case ev := <-rec.published:
		assert.Equal(t, hub.EventMachineUpdate, ev)
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}

	cm.Stop()
	cm.Stop()
}

type hubSpy struct {
	published chan string
}

func (h *hubSpy) Publish(event string, data interface{}) {
	h.published <- event
}
