package services

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/factory-app/hub"
	"github.com/yeremiapane/factory-app/utils"
)

// WeekDigest is the payload of the week_digest event.
type WeekDigest struct {
	WeekStart string      `json:"week_start"`
	Metrics   WeekMetrics `json:"metrics"`
	Late      int         `json:"late_lines"`
}

// WeeklyDigest periodically summarises the current planning week.
type WeeklyDigest struct {
	planning *PlanningService
	hub      Broadcaster
	cron     *cron.Cron
	running  int32
}

func NewWeeklyDigest(planning *PlanningService, h Broadcaster) *WeeklyDigest {
	return &WeeklyDigest{
		planning: planning,
		hub:      h,
		cron:     cron.New(cron.WithLogger(cron.PrintfLogger(utils.InfoLogger))),
	}
}

// Start schedules the digest with a standard 5 field cron expression.
func (d *WeeklyDigest) Start(schedule string) error {
	if _, err := d.cron.AddFunc(schedule, func() {
		if _, err := d.Run(context.Background()); err != nil {
			utils.ErrorLogger.WithError(err).Error("Weekly digest failed")
		}
	}); err != nil {
		return err
	}
	d.cron.Start()
	utils.InfoLogger.WithField("schedule", schedule).Info("Weekly digest scheduled")
	return nil
}

func (d *WeeklyDigest) Stop() {
	<-d.cron.Stop().Done()
}

// Run builds and publishes the digest once. A run already in progress makes
// the call return ErrDigestRunning.
func (d *WeeklyDigest) Run(ctx context.Context) (*WeekDigest, error) {
	if !atomic.CompareAndSwapInt32(&d.running, 0, 1) {
		return nil, ErrDigestRunning
	}
	defer atomic.StoreInt32(&d.running, 0)

	view, err := d.planning.LoadWeek(ctx, WeekStart(d.planning.Now()))
	if err != nil {
		return nil, err
	}

	digest := &WeekDigest{WeekStart: view.WeekStart, Metrics: view.Metrics}
	for _, m := range view.Machines {
		for _, l := range m.Lines {
			if l.Late {
				digest.Late++
			}
		}
	}
	for _, l := range view.UnassignedOrders {
		if l.Late {
			digest.Late++
		}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"week":                view.WeekStart,
		"total_planned":       view.Metrics.TotalPlanned,
		"assigned_lines":      view.Metrics.AssignedOrders,
		"unassigned_lines":    view.Metrics.UnassignedOrders,
		"overloaded_machines": view.Metrics.OverloadedMachines,
		"late_lines":          digest.Late,
	}).Info("Weekly planning digest")

	if d.hub != nil {
		d.hub.Publish(hub.EventWeekDigest, digest)
	}
	return digest, nil
}
