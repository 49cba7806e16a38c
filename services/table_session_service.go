package services

import (
	"context"

	"github.com/yeremiapane/casino-floor/database"
	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/tablesession"
	"github.com/yeremiapane/casino-floor/utils"
	"github.com/yeremiapane/casino-floor/wizard"
)

// CloseSessionInput carries the closing artifacts. The store decides
// whether at least one is present.
type CloseSessionInput struct {
	DropEventID                *string `json:"dropEventId" validate:"omitempty,max=64"`
	ClosingInventorySnapshotID *string `json:"closingInventorySnapshotId" validate:"omitempty,max=64"`
	Notes                      *string `json:"notes" validate:"omitempty,max=2000"`
}

// TableSessionService exposes the session lifecycle as server actions.
// Rejection codes stay verbatim in the envelope error.
type TableSessionService struct {
	client *tablesession.Client
	store  *database.Store
}

func NewTableSessionService(store *database.Store) *TableSessionService {
	return &TableSessionService{client: tablesession.NewClient(store), store: store}
}

func sessionEnvelope(ctx context.Context, res tablesession.Result) utils.Envelope[*models.TableSession] {
	if !res.OK() {
		return utils.FailureFrom[*models.TableSession](ctx, res.Err)
	}
	return utils.Success(ctx, res.Session)
}

func (s *TableSessionService) Open(ctx context.Context, tableID string) utils.Envelope[*models.TableSession] {
	actor, err := Authorize(ctx, CapTableSessionWrite)
	if err != nil {
		return utils.FailureFrom[*models.TableSession](ctx, err)
	}
	res := s.client.Open(ctx, tableID)
	if res.OK() {
		utils.InfoLogger.Infof("Table %s opened by %s (session %s)", tableID, actor.StaffID, res.Session.ID)
	}
	return sessionEnvelope(ctx, res)
}

func (s *TableSessionService) StartRundown(ctx context.Context, sessionID string) utils.Envelope[*models.TableSession] {
	if _, err := Authorize(ctx, CapTableSessionWrite); err != nil {
		return utils.FailureFrom[*models.TableSession](ctx, err)
	}
	return sessionEnvelope(ctx, s.client.StartRundown(ctx, sessionID))
}

func (s *TableSessionService) Close(ctx context.Context, sessionID string, in CloseSessionInput) utils.Envelope[*models.TableSession] {
	if err := wizard.ValidateInput(in); err != nil {
		return utils.FailureFrom[*models.TableSession](ctx, err)
	}
	actor, err := Authorize(ctx, CapTableSessionWrite)
	if err != nil {
		return utils.FailureFrom[*models.TableSession](ctx, err)
	}
	res := s.client.Close(ctx, sessionID, models.CloseArtifacts{
		DropEventID:                in.DropEventID,
		ClosingInventorySnapshotID: in.ClosingInventorySnapshotID,
		Notes:                      in.Notes,
	})
	if res.OK() {
		utils.InfoLogger.Infof("Session %s closed by %s", sessionID, actor.StaffID)
	}
	return sessionEnvelope(ctx, res)
}

// GetCurrent returns the table's current session; an idle table is an OK
// envelope with nil data.
func (s *TableSessionService) GetCurrent(ctx context.Context, tableID string) utils.Envelope[*models.TableSession] {
	if _, err := Authorize(ctx, CapFloorRead); err != nil {
		return utils.FailureFrom[*models.TableSession](ctx, err)
	}
	return sessionEnvelope(ctx, s.client.GetCurrent(ctx, tableID))
}

// ListFloor returns every table of the caller's casino with its current session.
func (s *TableSessionService) ListFloor(ctx context.Context) utils.Envelope[[]database.TableFloorView] {
	if _, err := Authorize(ctx, CapFloorRead); err != nil {
		return utils.FailureFrom[[]database.TableFloorView](ctx, err)
	}
	views, err := s.store.ListFloor(ctx)
	if err != nil {
		return utils.FailureFrom[[]database.TableFloorView](ctx, err)
	}
	return utils.Success(ctx, views)
}
