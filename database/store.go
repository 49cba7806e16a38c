// Package database is the persistence collaborator: gorm-backed procedures
// with row isolation per casino, actor binding and the table-session
// state machine.
package database

import (
	"context"
	"time"

	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
	"gorm.io/gorm"
)

type Store struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}

// actor returns the caller bound to ctx. Every procedure refuses to run
// without one.
func (s *Store) actor(ctx context.Context) (utils.Actor, error) {
	actor, ok := utils.ActorFrom(ctx)
	if !ok {
		return utils.Actor{}, utils.NewAppError(utils.CodeUnauthorized, "no authenticated staff bound to the call")
	}
	return actor, nil
}

// tenant scopes a query to the actor's casino.
func tenant(casinoID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("casino_id = ?", casinoID)
	}
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func recordEvent(tx *gorm.DB, casinoID, entity, recordID, action string, at time.Time) error {
	return tx.Create(&models.FloorEvent{
		CasinoID:   casinoID,
		Entity:     entity,
		RecordID:   recordID,
		ActionType: action,
		ChangedAt:  at,
	}).Error
}
