package wizard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
)

// fakeActions is an in-memory SetupActions.
type fakeActions struct {
	state   State
	seq     int
	failOn  map[string]string
	calls   []string
	gate    chan struct{}
	entered chan struct{}
}

func newFakeActions() *fakeActions {
	return &fakeActions{failOn: map[string]string{}}
}

func (f *fakeActions) nextID() string {
	f.seq++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", f.seq)
}

func (f *fakeActions) record(name string) (string, bool) {
	f.calls = append(f.calls, name)
	msg, fail := f.failOn[name]
	return msg, fail
}

func (f *fakeActions) GetSetupState(ctx context.Context) utils.Envelope[State] {
	if msg, fail := f.record("GetSetupState"); fail {
		return utils.Failure[State](ctx, utils.CodeInternal, msg)
	}
	return utils.Success(ctx, f.state.Clone())
}

func (f *fakeActions) UpdateCasinoSettings(ctx context.Context, in SettingsInput) utils.Envelope[*models.CasinoSettings] {
	if f.gate != nil {
		f.entered <- struct{}{}
		<-f.gate
	}
	if msg, fail := f.record("UpdateCasinoSettings"); fail {
		return utils.Failure[*models.CasinoSettings](ctx, utils.CodeForbidden, msg)
	}
	f.state.Settings = &models.CasinoSettings{
		ID:                 "settings-1",
		Timezone:           in.Timezone,
		GamingDayStartTime: in.GamingDayStartTime,
		TableBankMode:      in.TableBankMode,
		SetupStatus:        models.SetupInProgress,
	}
	settings := *f.state.Settings
	return utils.Success(ctx, &settings)
}

func (f *fakeActions) SeedGameSettings(ctx context.Context, in SeedGamesInput) utils.Envelope[[]models.GameSetting] {
	if msg, fail := f.record("SeedGameSettings"); fail {
		return utils.Failure[[]models.GameSetting](ctx, utils.CodeInternal, msg)
	}
	for _, gt := range in.GameTypes {
		f.state.Games = append(f.state.Games, models.GameSetting{ID: f.nextID(), GameType: gt, Code: gt, Name: gt})
	}
	return utils.Success(ctx, append([]models.GameSetting(nil), f.state.Games...))
}

func (f *fakeActions) CreateGameSetting(ctx context.Context, in GameInput) utils.Envelope[*models.GameSetting] {
	if msg, fail := f.record("CreateGameSetting"); fail {
		return utils.Failure[*models.GameSetting](ctx, utils.CodeUniqueViolation, msg)
	}
	g := models.GameSetting{ID: f.nextID(), GameType: in.GameType, Code: in.Code, Name: in.Name}
	f.state.Games = append(f.state.Games, g)
	return utils.Success(ctx, &g)
}

func (f *fakeActions) UpdateGameSetting(ctx context.Context, id string, in GameInput) utils.Envelope[*models.GameSetting] {
	f.record("UpdateGameSetting")
	for i := range f.state.Games {
		if f.state.Games[i].ID == id {
			f.state.Games[i].Name = in.Name
			f.state.Games[i].Code = in.Code
			g := f.state.Games[i]
			return utils.Success(ctx, &g)
		}
	}
	return utils.Failure[*models.GameSetting](ctx, utils.CodeNotFound, "game not found")
}

func (f *fakeActions) DeleteGameSetting(ctx context.Context, id string) utils.Envelope[string] {
	f.record("DeleteGameSetting")
	return utils.Success(ctx, id)
}

func (f *fakeActions) UpsertGamingTable(ctx context.Context, in TableInput) utils.Envelope[*models.GamingTable] {
	if msg, fail := f.record("UpsertGamingTable:" + in.Label); fail {
		return utils.Failure[*models.GamingTable](ctx, utils.CodeForeignKeyViolation, msg)
	}
	t := models.GamingTable{ID: f.nextID(), Label: in.Label, GameType: in.GameType, GameSettingsID: in.GameSettingsID}
	f.state.Tables = append(f.state.Tables, t)
	return utils.Success(ctx, &t)
}

func (f *fakeActions) UpdateTableParTarget(ctx context.Context, in ParTargetInput) utils.Envelope[*models.GamingTable] {
	f.record("UpdateTableParTarget")
	for i := range f.state.Tables {
		if f.state.Tables[i].ID == in.TableID {
			f.state.Tables[i].ParTotalCents = in.ParTotalCents
			t := f.state.Tables[i]
			return utils.Success(ctx, &t)
		}
	}
	return utils.Failure[*models.GamingTable](ctx, utils.CodeNotFound, "table not found")
}

func (f *fakeActions) CompleteSetup(ctx context.Context) utils.Envelope[*models.CasinoSettings] {
	f.record("CompleteSetup")
	settings := *f.state.Settings
	settings.SetupStatus = models.SetupReady
	f.state.Settings = &settings
	return utils.Success(ctx, &settings)
}

func (f *fakeActions) SkipSetup(ctx context.Context) utils.Envelope[*models.CasinoSettings] {
	f.record("SkipSetup")
	settings := models.CasinoSettings{SetupStatus: models.SetupReady}
	return utils.Success(ctx, &settings)
}

func validSettingsInput() SettingsInput {
	return SettingsInput{Timezone: "America/New_York", GamingDayStartTime: "06:00", TableBankMode: models.BankModeImprestToPar}
}

func TestLoadResumesAtFirstIncompleteStep(t *testing.T) {
	fake := newFakeActions()
	fake.state = State{Settings: completeSettings()}

	o := NewOrchestrator(fake)
	out := o.Load(context.Background())
	require.True(t, out.OK())
	assert.Equal(t, StepGameSettings, out.Step)
}

func TestLoadFailureSurfacesError(t *testing.T) {
	fake := newFakeActions()
	fake.failOn["GetSetupState"] = "database unavailable"

	out := NewOrchestrator(fake).Load(context.Background())
	assert.False(t, out.OK())
	assert.Equal(t, "database unavailable", out.Error)
	assert.Equal(t, 0, out.Step)
}

func TestGoNextFromCompleteStepZero(t *testing.T) {
	fake := newFakeActions()
	fake.state = State{Settings: completeSettings()}
	o := NewOrchestrator(fake)
	o.Load(context.Background())
	o.JumpTo(StepCasinoBasics)

	out := o.GoNext()
	assert.True(t, out.OK())
	assert.True(t, out.Moved)
	assert.Equal(t, StepGameSettings, out.Step)
	assert.Empty(t, out.Issues)
}

func TestGoNextBlockedByMissingFields(t *testing.T) {
	o := NewOrchestrator(newFakeActions())

	out := o.GoNext()
	assert.False(t, out.OK())
	assert.False(t, out.Moved)
	assert.Equal(t, StepCasinoBasics, o.Step())
	assert.Len(t, out.Issues, 3)
}

func TestJumpStopsAtFirstFailingStep(t *testing.T) {
	fake := newFakeActions()
	fake.state = State{
		Settings: completeSettings(),
		Games:    []models.GameSetting{{ID: "g1", GameType: models.GameBlackjack}},
		Tables: []models.GamingTable{
			{ID: "t1", Label: "BJ-01", GameType: models.GameBlackjack, GameSettingsID: ptr("g1")},
			{ID: "t2", Label: "BJ-01", GameType: models.GameBlackjack, GameSettingsID: ptr("g1")},
		},
	}
	o := NewOrchestrator(fake)
	o.Load(context.Background())
	require.Equal(t, StepTables, o.Step())

	out := o.JumpTo(StepReview)
	assert.False(t, out.OK())
	assert.Equal(t, StepTables, out.Step)
	require.NotEmpty(t, out.Issues)
	assert.Equal(t, RuleDuplicateLabel, out.Issues[0].RuleID)

	// from step 1 the jump lands on the failing step 2, not the destination
	o.JumpTo(StepGameSettings)
	out = o.JumpTo(StepReview)
	assert.True(t, out.Moved)
	assert.Equal(t, StepTables, out.Step)
}

func TestBackwardNavigationIsUnconditional(t *testing.T) {
	fake := newFakeActions()
	fake.state = State{Settings: completeSettings()}
	o := NewOrchestrator(fake)
	o.Load(context.Background())

	// state is still broken for step 1, but going back never validates
	out := o.GoBack()
	assert.True(t, out.Moved)
	assert.Equal(t, StepCasinoBasics, out.Step)

	out = o.GoBack()
	assert.False(t, out.Moved)
	assert.True(t, out.OK())
}

func TestSkipBypassesValidation(t *testing.T) {
	o := NewOrchestrator(newFakeActions())
	out := o.SkipStep()
	assert.True(t, out.Moved)
	assert.Equal(t, StepGameSettings, out.Step)
}

func TestJumpOutOfRange(t *testing.T) {
	o := NewOrchestrator(newFakeActions())
	out := o.JumpTo(TotalSteps)
	assert.Equal(t, utils.CodeValidation, out.Code)
}

func TestSaveSettingsReplacesSliceAndAdvances(t *testing.T) {
	fake := newFakeActions()
	o := NewOrchestrator(fake)

	out := o.SaveSettings(context.Background(), validSettingsInput())
	require.True(t, out.OK(), out.Error)
	assert.Equal(t, StepGameSettings, out.Step)
	assert.Equal(t, "settings-1", o.State().Settings.ID)
	assert.Equal(t, models.BankModeImprestToPar, o.State().Settings.TableBankMode)
}

func TestSaveSettingsRejectsInvalidInputWithoutRemoteCall(t *testing.T) {
	fake := newFakeActions()
	o := NewOrchestrator(fake)

	in := validSettingsInput()
	in.Timezone = "Mars/Olympus"
	in.GamingDayStartTime = "6am"
	out := o.SaveSettings(context.Background(), in)
	assert.Equal(t, utils.CodeValidation, out.Code)
	assert.Contains(t, out.Error, "Timezone")
	assert.Contains(t, out.Error, "GamingDayStartTime")
	assert.Empty(t, fake.calls)
}

func TestSaveFailureKeepsPointerAndSurfacesVerbatim(t *testing.T) {
	fake := newFakeActions()
	fake.failOn["UpdateCasinoSettings"] = "role dealer cannot update settings"
	o := NewOrchestrator(fake)

	out := o.SaveSettings(context.Background(), validSettingsInput())
	assert.Equal(t, utils.CodeForbidden, out.Code)
	assert.Equal(t, "role dealer cannot update settings", out.Error)
	assert.Equal(t, StepCasinoBasics, o.Step())
	assert.Nil(t, o.State().Settings)
}

func TestGameCRUDReconcilesRows(t *testing.T) {
	fake := newFakeActions()
	o := NewOrchestrator(fake)
	ctx := context.Background()

	out := o.CreateGame(ctx, GameInput{GameType: models.GamePoker, Code: "uth", Name: "Ultimate Texas"})
	require.True(t, out.OK(), out.Error)
	games := o.State().Games
	require.Len(t, games, 1)

	out = o.UpdateGame(ctx, games[0].ID, GameInput{GameType: models.GamePoker, Code: "uth", Name: "Ultimate Texas Hold'em"})
	require.True(t, out.OK(), out.Error)
	assert.Equal(t, "Ultimate Texas Hold'em", o.State().Games[0].Name)

	out = o.DeleteGame(ctx, games[0].ID)
	require.True(t, out.OK())
	assert.Empty(t, o.State().Games)
}

func TestTableDraftsUseInstanceSequence(t *testing.T) {
	a := NewOrchestrator(newFakeActions())
	b := NewOrchestrator(newFakeActions())

	k1, _ := a.AddTableDraft(TableInput{Label: "BJ-01", GameType: models.GameBlackjack})
	k2, _ := a.AddTableDraft(TableInput{Label: "BJ-02", GameType: models.GameBlackjack})
	k3, _ := b.AddTableDraft(TableInput{Label: "BJ-01", GameType: models.GameBlackjack})

	assert.Equal(t, "draft-1", k1)
	assert.Equal(t, "draft-2", k2)
	assert.Equal(t, "draft-1", k3)

	a.RemoveTableDraft(k1)
	assert.Len(t, a.Snapshot().Drafts, 1)
}

func TestSaveTablesStopsOnFirstFailure(t *testing.T) {
	fake := newFakeActions()
	fake.state = State{Settings: completeSettings(), Games: []models.GameSetting{{ID: "g1", GameType: models.GameRoulette}}}
	fake.failOn["UpsertGamingTable:RL-02"] = "game settings do not exist"
	o := NewOrchestrator(fake)
	o.Load(context.Background())
	require.Equal(t, StepTables, o.Step())

	o.AddTableDraft(TableInput{Label: "RL-01", GameType: models.GameRoulette})
	o.AddTableDraft(TableInput{Label: "RL-02", GameType: models.GameRoulette})
	o.AddTableDraft(TableInput{Label: "RL-03", GameType: models.GameRoulette})

	out := o.SaveTables(context.Background())
	assert.Equal(t, utils.CodeForeignKeyViolation, out.Code)
	assert.Contains(t, out.Error, "RL-02")
	assert.Equal(t, StepTables, out.Step)

	snap := o.Snapshot()
	assert.Len(t, snap.State.Tables, 1)
	assert.Len(t, snap.Drafts, 2)
	assert.False(t, snap.Busy)
}

func TestCorrectedTablesReplaceFailedDrafts(t *testing.T) {
	fake := newFakeActions()
	fake.state = State{Settings: completeSettings(), Games: []models.GameSetting{{ID: "g1", GameType: models.GameRoulette}}}
	fake.failOn["UpsertGamingTable:RL-bad"] = "game setting does not exist"
	o := NewOrchestrator(fake)
	o.Load(context.Background())

	_, out := o.ReplaceTableDrafts([]TableInput{{Label: "RL-bad", GameType: models.GameRoulette}})
	require.True(t, out.OK())
	out = o.SaveTables(context.Background())
	require.Equal(t, utils.CodeForeignKeyViolation, out.Code)
	require.Len(t, o.Snapshot().Drafts, 1)

	keys, out := o.ReplaceTableDrafts([]TableInput{{Label: "RL-01", GameType: models.GameRoulette}})
	require.True(t, out.OK())
	assert.Equal(t, []string{"draft-2"}, keys)
	out = o.SaveTables(context.Background())
	require.True(t, out.OK(), out.Error)
	assert.Equal(t, StepParTargets, out.Step)
	assert.Empty(t, o.Snapshot().Drafts)
}

func TestReplaceTableDraftsIsAllOrNothing(t *testing.T) {
	o := NewOrchestrator(newFakeActions())
	o.AddTableDraft(TableInput{Label: "BJ-01", GameType: models.GameBlackjack})

	_, out := o.ReplaceTableDrafts([]TableInput{
		{Label: "RL-01", GameType: models.GameRoulette},
		{Label: "XX-01", GameType: "craps"},
	})
	assert.Equal(t, utils.CodeValidation, out.Code)
	assert.Contains(t, out.Error, "XX-01")
	require.Len(t, o.Snapshot().Drafts, 1)
	assert.Equal(t, "BJ-01", o.Snapshot().Drafts[0].Input.Label)
}

func TestLoadDiscardsQueuedDrafts(t *testing.T) {
	fake := newFakeActions()
	fake.state = State{Settings: completeSettings(), Games: []models.GameSetting{{ID: "g1", GameType: models.GameRoulette}}}
	o := NewOrchestrator(fake)
	o.AddTableDraft(TableInput{Label: "RL-01", GameType: models.GameRoulette})
	require.Len(t, o.Snapshot().Drafts, 1)

	require.True(t, o.Load(context.Background()).OK())
	assert.Empty(t, o.Snapshot().Drafts)
}

func TestFullWizardRun(t *testing.T) {
	fake := newFakeActions()
	o := NewOrchestrator(fake)
	ctx := context.Background()

	require.True(t, o.Load(ctx).OK())
	require.True(t, o.SaveSettings(ctx, validSettingsInput()).OK())

	out := o.SeedGames(ctx, SeedGamesInput{GameTypes: []string{models.GameBlackjack, models.GameRoulette}})
	require.True(t, out.OK(), out.Error)
	assert.Equal(t, StepTables, out.Step)

	o.AddTableDraft(TableInput{Label: "BJ-01", GameType: models.GameBlackjack})
	out = o.SaveTables(ctx)
	require.True(t, out.OK(), out.Error)
	assert.Equal(t, StepParTargets, out.Step)
	// single blackjack variant, unlinked: warning only
	assert.Equal(t, RuleLinkSingle, out.Issues[0].RuleID)

	table := o.State().Tables[0]
	out = o.SaveParTargets(ctx, []ParTargetInput{{TableID: table.ID, ParTotalCents: ptr(int64(2500000))}})
	require.True(t, out.OK(), out.Error)
	assert.Equal(t, StepReview, out.Step)

	out = o.Complete(ctx)
	require.True(t, out.OK(), out.Error)
	assert.True(t, o.Completed())
	assert.Equal(t, models.SetupReady, o.State().Settings.SetupStatus)
}

func TestCompleteAuditRedirectsToFailingStep(t *testing.T) {
	fake := newFakeActions()
	fake.state = State{Settings: completeSettings()}
	o := NewOrchestrator(fake)
	o.Load(context.Background())
	o.SkipStep()
	o.SkipStep()
	o.SkipStep()
	require.Equal(t, StepReview, o.Step())

	out := o.Complete(context.Background())
	assert.Equal(t, utils.CodePrecondition, out.Code)
	assert.Equal(t, StepGameSettings, out.Step)
	assert.NotContains(t, fake.calls, "CompleteSetup")
}

func TestNavigationRefusedWhileCallInFlight(t *testing.T) {
	fake := newFakeActions()
	fake.gate = make(chan struct{})
	fake.entered = make(chan struct{})
	o := NewOrchestrator(fake)

	done := make(chan Outcome)
	go func() { done <- o.SaveSettings(context.Background(), validSettingsInput()) }()

	select {
	case <-fake.entered:
	case <-time.After(time.Second):
		t.Fatal("save never reached the remote call")
	}

	assert.True(t, o.Snapshot().Busy)
	assert.Equal(t, utils.CodePrecondition, o.GoNext().Code)
	assert.Equal(t, utils.CodePrecondition, o.SaveSettings(context.Background(), validSettingsInput()).Code)

	close(fake.gate)
	out := <-done
	assert.True(t, out.OK())
	assert.False(t, o.Snapshot().Busy)
}
