package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rejections raised by the session procedures. Callers on the other side
// of the boundary only see the message, so each one starts with its code.
var (
	ErrActiveSessionExists    = errors.New("active_session_exists")
	ErrInvalidStateTransition = errors.New("invalid_state_transition")
	ErrMissingClosingArtifact = errors.New("missing_closing_artifact")
	ErrSessionNotFound        = errors.New("session_not_found")
)

// Floor event actions
const (
	EntityTableSession   = "table_session"
	ActionSessionOpened  = "opened"
	ActionRundownStarted = "rundown_started"
	ActionSessionClosed  = "closed"
)

func present(s *string) bool {
	return s != nil && *s != ""
}

// sessionPrecedence orders non-closed statuses for GetCurrentTableSession.
var sessionPrecedence = map[string]int{
	models.SessionRundown: 0,
	models.SessionActive:  1,
	models.SessionOpen:    2,
}

// OpenTableSession starts a new ACTIVE session on a table.
func (s *Store) OpenTableSession(ctx context.Context, tableID string) (*models.TableSession, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	var session models.TableSession
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.GamingTable
		if err := tx.Scopes(tenant(actor.CasinoID)).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&table, "id = ?", tableID).Error; err != nil {
			return fmt.Errorf("gaming table %s: %w", tableID, err)
		}
		if table.Status != models.TableActive {
			return utils.NewAppError(utils.CodePrecondition, fmt.Sprintf("gaming table %s is %s", table.Label, table.Status))
		}

		var existing models.TableSession
		err := tx.Where("gaming_table_id = ? AND status <> ?", table.ID, models.SessionClosed).
			Take(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: table %s already has session %s (%s)", ErrActiveSessionExists, table.Label, existing.ID, existing.Status)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var settings models.CasinoSettings
		timezone, start := "", ""
		if err := tx.Scopes(tenant(actor.CasinoID)).Take(&settings).Error; err == nil {
			timezone, start = settings.Timezone, settings.GamingDayStartTime
		}
		now := s.now()
		gamingDay, err := GamingDay(now, timezone, start)
		if err != nil {
			return err
		}

		session = models.TableSession{
			CasinoID:        actor.CasinoID,
			GamingTableID:   table.ID,
			Status:          models.SessionActive,
			OpenedAt:        now,
			OpenedByStaffID: actor.StaffID,
			GamingDay:       gamingDay,
		}
		if err := tx.Create(&session).Error; err != nil {
			if utils.ClassifyError(err) == utils.CodeUniqueViolation {
				return fmt.Errorf("%w: table %s was opened concurrently", ErrActiveSessionExists, table.Label)
			}
			return err
		}
		return recordEvent(tx, actor.CasinoID, EntityTableSession, session.ID, ActionSessionOpened, now)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// StartTableRundown moves an open session into RUNDOWN.
func (s *Store) StartTableRundown(ctx context.Context, sessionID string) (*models.TableSession, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	var session models.TableSession
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lockSession(tx, actor, sessionID, &session); err != nil {
			return err
		}
		if session.Status != models.SessionOpen && session.Status != models.SessionActive {
			return fmt.Errorf("%w: cannot start rundown from %s", ErrInvalidStateTransition, session.Status)
		}

		now := s.now()
		staffID := actor.StaffID
		session.Status = models.SessionRundown
		session.RundownStartedAt = &now
		session.RundownStartedByStaffID = &staffID
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		return recordEvent(tx, actor.CasinoID, EntityTableSession, session.ID, ActionRundownStarted, now)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CloseTableSession closes a session from OPEN, ACTIVE or RUNDOWN. Closing
// straight from ACTIVE leaves the rundown fields empty.
func (s *Store) CloseTableSession(ctx context.Context, sessionID string, artifacts models.CloseArtifacts) (*models.TableSession, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if !present(artifacts.DropEventID) && !present(artifacts.ClosingInventorySnapshotID) {
		return nil, fmt.Errorf("%w: a drop event or closing inventory snapshot is required", ErrMissingClosingArtifact)
	}

	var session models.TableSession
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lockSession(tx, actor, sessionID, &session); err != nil {
			return err
		}
		if session.Status == models.SessionClosed {
			return fmt.Errorf("%w: session %s is already closed", ErrInvalidStateTransition, session.ID)
		}

		now := s.now()
		staffID := actor.StaffID
		session.Status = models.SessionClosed
		session.ClosedAt = &now
		session.ClosedByStaffID = &staffID
		if present(artifacts.DropEventID) {
			session.DropEventID = artifacts.DropEventID
		}
		if present(artifacts.ClosingInventorySnapshotID) {
			session.ClosingInventorySnapshotID = artifacts.ClosingInventorySnapshotID
		}
		if artifacts.Notes != nil {
			session.Notes = artifacts.Notes
		}
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		return recordEvent(tx, actor.CasinoID, EntityTableSession, session.ID, ActionSessionClosed, now)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetCurrentTableSession returns the table's non-closed session, or nil
// when the table has none.
func (s *Store) GetCurrentTableSession(ctx context.Context, tableID string) (*models.TableSession, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	var sessions []models.TableSession
	if err := s.DB.WithContext(ctx).Scopes(tenant(actor.CasinoID)).
		Where("gaming_table_id = ? AND status <> ?", tableID, models.SessionClosed).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessionPrecedence[sessions[i].Status] < sessionPrecedence[sessions[j].Status]
	})
	return &sessions[0], nil
}

// GetTableSession loads one session by id.
func (s *Store) GetTableSession(ctx context.Context, sessionID string) (*models.TableSession, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	var session models.TableSession
	if err := s.DB.WithContext(ctx).Scopes(tenant(actor.CasinoID)).Take(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, err
	}
	return &session, nil
}

// TableFloorView is a table with its current session, if any.
type TableFloorView struct {
	Table   models.GamingTable   `json:"table"`
	Session *models.TableSession `json:"session"`
}

// ListFloor returns every table of the casino with its current session.
func (s *Store) ListFloor(ctx context.Context) ([]TableFloorView, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx).Scopes(tenant(actor.CasinoID))
	var tables []models.GamingTable
	if err := db.Order("label ASC").Find(&tables).Error; err != nil {
		return nil, err
	}

	var open []models.TableSession
	if err := s.DB.WithContext(ctx).Scopes(tenant(actor.CasinoID)).
		Where("status <> ?", models.SessionClosed).Find(&open).Error; err != nil {
		return nil, err
	}
	current := make(map[string]models.TableSession, len(open))
	for _, sess := range open {
		prev, ok := current[sess.GamingTableID]
		if !ok || sessionPrecedence[sess.Status] < sessionPrecedence[prev.Status] {
			current[sess.GamingTableID] = sess
		}
	}

	views := make([]TableFloorView, 0, len(tables))
	for _, t := range tables {
		view := TableFloorView{Table: t}
		if sess, ok := current[t.ID]; ok {
			sess := sess
			view.Session = &sess
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Store) lockSession(tx *gorm.DB, actor utils.Actor, sessionID string, out *models.TableSession) error {
	err := tx.Scopes(tenant(actor.CasinoID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(out, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return err
}
