package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/casino-floor/database"
	"github.com/yeremiapane/casino-floor/floorfeed"
	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
	"gorm.io/gorm"
)

// EventMonitor drains the floor_events outbox into the floor hub.
type EventMonitor struct {
	DB        *gorm.DB
	Hub       *floorfeed.Hub
	Interval  time.Duration
	BatchSize int

	stopChan chan struct{}
	stopOnce sync.Once
}

func NewEventMonitor(db *gorm.DB, hub *floorfeed.Hub, interval time.Duration) *EventMonitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &EventMonitor{
		DB:        db,
		Hub:       hub,
		Interval:  interval,
		BatchSize: 100,
		stopChan:  make(chan struct{}),
	}
}

func (em *EventMonitor) Start() {
	go func() {
		ticker := time.NewTicker(em.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := em.ProcessPending(); err != nil {
					utils.ErrorLogger.Errorf("Error processing floor events: %v", err)
				}
			case <-em.stopChan:
				return
			}
		}
	}()
}

func (em *EventMonitor) Stop() {
	em.stopOnce.Do(func() { close(em.stopChan) })
}

// ProcessPending broadcasts one batch of unprocessed events in order and
// marks them processed. It returns the number of events handled.
func (em *EventMonitor) ProcessPending() (int, error) {
	var events []models.FloorEvent
	err := em.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("processed = ?", false).
			Order("changed_at ASC, id ASC").
			Limit(em.BatchSize).
			Find(&events).Error; err != nil {
			return err
		}

		for _, event := range events {
			em.dispatch(tx, event)
			if err := tx.Model(&models.FloorEvent{}).
				Where("id = ?", event.ID).
				Update("processed", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(events) > 0 {
		utils.InfoLogger.Debugf("Processed %d floor events", len(events))
	}
	return len(events), nil
}

func (em *EventMonitor) dispatch(tx *gorm.DB, event models.FloorEvent) {
	if event.Entity != database.EntityTableSession {
		utils.InfoLogger.Warnf("Skipping floor event %d with unknown entity %s", event.ID, event.Entity)
		return
	}

	var name string
	switch event.ActionType {
	case database.ActionSessionOpened:
		name = floorfeed.EventSessionOpened
	case database.ActionRundownStarted:
		name = floorfeed.EventRundownStarted
	case database.ActionSessionClosed:
		name = floorfeed.EventSessionClosed
	default:
		utils.InfoLogger.Warnf("Skipping floor event %d with unknown action %s", event.ID, event.ActionType)
		return
	}

	var session models.TableSession
	if err := tx.Where("casino_id = ?", event.CasinoID).Take(&session, "id = ?", event.RecordID).Error; err != nil {
		utils.ErrorLogger.Errorf("Error fetching session %s for floor event %d: %v", event.RecordID, event.ID, err)
		return
	}

	em.Hub.Broadcast(event.CasinoID, floorfeed.Message{Event: name, Data: session})
	em.Hub.Broadcast(event.CasinoID, floorfeed.Message{Event: floorfeed.EventFloorStats, Data: em.floorStats(tx, event.CasinoID)})
}

// FloorStats counts a casino's sessions by status.
type FloorStats struct {
	Open    int64 `json:"open"`
	Active  int64 `json:"active"`
	Rundown int64 `json:"rundown"`
}

func (em *EventMonitor) floorStats(tx *gorm.DB, casinoID string) FloorStats {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := tx.Model(&models.TableSession{}).
		Select("status, count(*) as count").
		Where("casino_id = ? AND status <> ?", casinoID, models.SessionClosed).
		Group("status").
		Scan(&rows).Error; err != nil {
		utils.ErrorLogger.Errorf("Error counting sessions for casino %s: %v", casinoID, err)
		return FloorStats{}
	}

	var stats FloorStats
	for _, r := range rows {
		switch r.Status {
		case models.SessionOpen:
			stats.Open = r.Count
		case models.SessionActive:
			stats.Active = r.Count
		case models.SessionRundown:
			stats.Rundown = r.Count
		}
	}
	return stats
}
