package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/factory-app/hub"
	"github.com/yeremiapane/factory-app/models"
	"github.com/yeremiapane/factory-app/utils"
	"gorm.io/gorm"
)

const changeBatchSize = 100

// Broadcaster receives the events produced from the change feed.
type Broadcaster interface {
	Publish(event string, data interface{})
}

// ChangeEvent is the payload pushed for a changed row.
type ChangeEvent struct {
	Action   string      `json:"action"`
	RecordID int64       `json:"record_id"`
	Record   interface{} `json:"record,omitempty"`
}

// ChangeMonitor polls the db_changes feed and pushes every change to the
// dashboard clients.
type ChangeMonitor struct {
	DB       *gorm.DB
	Hub      Broadcaster
	Interval time.Duration
	// Stats, when set, is published as a dashboard_update after each
	// batch that contained changes.
	Stats func(ctx context.Context) (DashboardStats, error)

	stopChan chan struct{}
	stopOnce sync.Once
}

func NewChangeMonitor(db *gorm.DB, h Broadcaster, interval time.Duration) *ChangeMonitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &ChangeMonitor{
		DB:       db,
		Hub:      h,
		Interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := cm.CheckChanges(); err != nil {
					utils.ErrorLogger.WithError(err).Error("Change monitor poll failed")
				}
			case <-cm.stopChan:
				return
			}
		}
	}()
	utils.InfoLogger.WithField("interval", cm.Interval.String()).Info("Change monitor started")
}

func (cm *ChangeMonitor) Stop() {
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
	})
}

// CheckChanges processes one batch of unprocessed changes and returns how
// many were handled.
func (cm *ChangeMonitor) CheckChanges() (int, error) {
	var changes []models.DBChange

	err := cm.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("processed = ?", false).
			Order("changed_at ASC, id ASC").
			Limit(changeBatchSize).
			Find(&changes).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(changes))
		for _, c := range changes {
			ids = append(ids, c.ID)
		}
		return tx.Model(&models.DBChange{}).
			Where("id IN ?", ids).
			Update("processed", true).Error
	})
	if err != nil {
		return 0, err
	}

	for _, change := range changes {
		utils.InfoLogger.WithFields(logrus.Fields{
			"table":     change.TableName,
			"action":    change.ActionType,
			"record_id": change.RecordID,
		}).Debug("Processing change")

		switch change.TableName {
		case "machines":
			cm.publish(hub.EventMachineUpdate, change, &models.Machine{})
		case "orders":
			cm.publish(hub.EventOrderUpdate, change, &models.Order{})
		case "order_items":
			cm.publish(hub.EventOrderUpdate, change, &models.OrderItem{})
		case "weekly_plannings":
			cm.publish(hub.EventPlanningUpdate, change, &models.WeeklyPlanning{})
		}
	}

	if len(changes) > 0 {
		utils.InfoLogger.Debugf("Processed %d changes", len(changes))
		cm.publishStats()
	}
	return len(changes), nil
}

func (cm *ChangeMonitor) publish(event string, change models.DBChange, record interface{}) {
	payload := ChangeEvent{Action: change.ActionType, RecordID: change.RecordID}
	if change.ActionType != models.ChangeDelete {
		if err := cm.DB.First(record, change.RecordID).Error; err != nil {
			utils.InfoLogger.WithError(err).
				WithField("table", change.TableName).
				Warn("Changed record no longer readable")
		} else {
			payload.Record = record
		}
	}
	cm.Hub.Publish(event, payload)
}

func (cm *ChangeMonitor) publishStats() {
	if cm.Stats == nil {
		return
	}
	stats, err := cm.Stats(context.Background())
	if err != nil {
		utils.InfoLogger.WithError(err).Warn("Dashboard stats unavailable")
		return
	}
	cm.Hub.Publish(hub.EventDashboard, stats)
}
