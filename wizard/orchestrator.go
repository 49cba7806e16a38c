package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
)

// SetupActions is the server-action surface the orchestrator drives. Every
// call returns an envelope; none of them panic or return a bare error.
type SetupActions interface {
	GetSetupState(ctx context.Context) utils.Envelope[State]
	UpdateCasinoSettings(ctx context.Context, in SettingsInput) utils.Envelope[*models.CasinoSettings]
	SeedGameSettings(ctx context.Context, in SeedGamesInput) utils.Envelope[[]models.GameSetting]
	CreateGameSetting(ctx context.Context, in GameInput) utils.Envelope[*models.GameSetting]
	UpdateGameSetting(ctx context.Context, id string, in GameInput) utils.Envelope[*models.GameSetting]
	DeleteGameSetting(ctx context.Context, id string) utils.Envelope[string]
	UpsertGamingTable(ctx context.Context, in TableInput) utils.Envelope[*models.GamingTable]
	UpdateTableParTarget(ctx context.Context, in ParTargetInput) utils.Envelope[*models.GamingTable]
	CompleteSetup(ctx context.Context) utils.Envelope[*models.CasinoSettings]
	SkipSetup(ctx context.Context) utils.Envelope[*models.CasinoSettings]
}

// Outcome reports what a command did. Step is always the pointer after the
// command; Code and Error are set when the command was refused or failed.
type Outcome struct {
	Step   int               `json:"step"`
	Moved  bool              `json:"moved"`
	Issues []ValidationIssue `json:"issues"`
	Code   string            `json:"code,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// OK reports whether the command was carried out.
func (o Outcome) OK() bool {
	return o.Code == ""
}

// TableDraft is an unsaved table row. Key is local to one orchestrator.
type TableDraft struct {
	Key   string     `json:"key"`
	Input TableInput `json:"input"`
}

// Orchestrator sequences the setup steps for one user session. Only one
// remote call may be outstanding at a time; commands issued meanwhile are
// refused rather than queued.
type Orchestrator struct {
	actions SetupActions

	mu        sync.Mutex
	state     State
	step      int
	issues    []ValidationIssue
	drafts    []TableDraft
	draftSeq  int
	inFlight  bool
	completed bool
}

func NewOrchestrator(actions SetupActions) *Orchestrator {
	return &Orchestrator{actions: actions}
}

// Snapshot is a read-only view of the orchestrator.
type Snapshot struct {
	Step      int               `json:"step"`
	StepName  string            `json:"stepName"`
	State     State             `json:"state"`
	Issues    []ValidationIssue `json:"issues"`
	Drafts    []TableDraft      `json:"drafts"`
	Busy      bool              `json:"busy"`
	Completed bool              `json:"completed"`
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		Step:      o.step,
		StepName:  StepName(o.step),
		State:     o.state.Clone(),
		Issues:    append([]ValidationIssue(nil), o.issues...),
		Drafts:    append([]TableDraft(nil), o.drafts...),
		Busy:      o.inFlight,
		Completed: o.completed,
	}
}

func (o *Orchestrator) Step() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Clone()
}

func (o *Orchestrator) Issues() []ValidationIssue {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]ValidationIssue(nil), o.issues...)
}

// outcome must be called with mu held.
func (o *Orchestrator) outcome(moved bool) Outcome {
	return Outcome{Step: o.step, Moved: moved, Issues: append([]ValidationIssue(nil), o.issues...)}
}

func (o *Orchestrator) refused(code, msg string) Outcome {
	out := o.outcome(false)
	out.Code = code
	out.Error = msg
	return out
}

const busyMessage = "another operation is still in progress"

// Load rehydrates the state from the server and places the pointer on the
// resume step.
func (o *Orchestrator) Load(ctx context.Context) Outcome {
	if out, ok := o.begin(); !ok {
		return out
	}
	env := o.actions.GetSetupState(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = false
	if !env.OK {
		return o.refused(env.Code, env.Error)
	}
	o.state = env.Data.Clone()
	o.step = ResumeStep(o.state)
	o.issues = nil
	o.drafts = nil
	o.completed = o.state.Settings != nil && o.state.Settings.SetupStatus == models.SetupReady
	return o.outcome(true)
}

// GoNext validates the current step and advances one step.
func (o *Orchestrator) GoNext() Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return o.refused(utils.CodePrecondition, busyMessage)
	}
	if o.step >= TotalSteps-1 {
		return o.refused(utils.CodePrecondition, "already on the last step")
	}
	return o.forwardLocked(o.step + 1)
}

// GoBack moves one step back without validation.
func (o *Orchestrator) GoBack() Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return o.refused(utils.CodePrecondition, busyMessage)
	}
	if o.step == 0 {
		return o.outcome(false)
	}
	o.step--
	o.issues = nil
	return o.outcome(true)
}

// JumpTo navigates directly to target. Backward jumps are unconditional.
// Forward jumps validate every step from the current one up to target and
// stop on the first step that fails.
func (o *Orchestrator) JumpTo(target int) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return o.refused(utils.CodePrecondition, busyMessage)
	}
	if target < 0 || target >= TotalSteps {
		return o.refused(utils.CodeValidation, fmt.Sprintf("step %d out of range", target))
	}
	if target == o.step {
		return o.outcome(false)
	}
	if target < o.step {
		o.step = target
		o.issues = nil
		return o.outcome(true)
	}
	return o.forwardLocked(target)
}

// SkipStep moves forward one step without validation. Used by optional
// steps such as par targets.
func (o *Orchestrator) SkipStep() Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return o.refused(utils.CodePrecondition, busyMessage)
	}
	if o.step >= TotalSteps-1 {
		return o.refused(utils.CodePrecondition, "already on the last step")
	}
	o.step++
	o.issues = nil
	return o.outcome(true)
}

func (o *Orchestrator) forwardLocked(target int) Outcome {
	start := o.step
	var warnings []ValidationIssue
	for s := start; s < target; s++ {
		res := ValidateStep(s, o.state)
		if !res.Valid {
			o.step = s
			o.issues = res.Issues
			out := o.outcome(s != start)
			out.Code = utils.CodePrecondition
			out.Error = fmt.Sprintf("step %s has unresolved issues", StepName(s))
			return out
		}
		warnings = append(warnings, res.Issues...)
	}
	o.step = target
	o.issues = warnings
	return o.outcome(true)
}

func (o *Orchestrator) begin() (Outcome, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return o.refused(utils.CodePrecondition, busyMessage), false
	}
	o.inFlight = true
	return Outcome{}, true
}

// finish clears the in-flight flag; it must be called with mu held.
func (o *Orchestrator) finishLocked() {
	o.inFlight = false
}

func (o *Orchestrator) inputRefused(err error) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.refused(utils.ClassifyError(err), err.Error())
}

// SaveSettings persists the casino basics and, on success, advances past
// the step.
func (o *Orchestrator) SaveSettings(ctx context.Context, in SettingsInput) Outcome {
	if err := ValidateInput(in); err != nil {
		return o.inputRefused(err)
	}
	if out, ok := o.begin(); !ok {
		return out
	}
	env := o.actions.UpdateCasinoSettings(ctx, in)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishLocked()
	if !env.OK {
		return o.refused(env.Code, env.Error)
	}
	o.state.Settings = env.Data
	return o.advanceFromLocked(StepCasinoBasics)
}

// SeedGames installs the default variants for the chosen game types and
// replaces the local game list with the server's.
func (o *Orchestrator) SeedGames(ctx context.Context, in SeedGamesInput) Outcome {
	if err := ValidateInput(in); err != nil {
		return o.inputRefused(err)
	}
	if out, ok := o.begin(); !ok {
		return out
	}
	env := o.actions.SeedGameSettings(ctx, in)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishLocked()
	if !env.OK {
		return o.refused(env.Code, env.Error)
	}
	o.state.Games = append([]models.GameSetting(nil), env.Data...)
	return o.advanceFromLocked(StepGameSettings)
}

func (o *Orchestrator) CreateGame(ctx context.Context, in GameInput) Outcome {
	if err := ValidateInput(in); err != nil {
		return o.inputRefused(err)
	}
	if out, ok := o.begin(); !ok {
		return out
	}
	env := o.actions.CreateGameSetting(ctx, in)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishLocked()
	if !env.OK {
		return o.refused(env.Code, env.Error)
	}
	o.state.Games = append(o.state.Games, *env.Data)
	return o.outcome(false)
}

func (o *Orchestrator) UpdateGame(ctx context.Context, id string, in GameInput) Outcome {
	if err := ValidateInput(in); err != nil {
		return o.inputRefused(err)
	}
	if out, ok := o.begin(); !ok {
		return out
	}
	env := o.actions.UpdateGameSetting(ctx, id, in)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishLocked()
	if !env.OK {
		return o.refused(env.Code, env.Error)
	}
	o.state.Games = replaceGame(o.state.Games, *env.Data)
	return o.outcome(false)
}

func (o *Orchestrator) DeleteGame(ctx context.Context, id string) Outcome {
	if out, ok := o.begin(); !ok {
		return out
	}
	env := o.actions.DeleteGameSetting(ctx, id)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishLocked()
	if !env.OK {
		return o.refused(env.Code, env.Error)
	}
	games := o.state.Games[:0:0]
	for _, g := range o.state.Games {
		if g.ID != env.Data {
			games = append(games, g)
		}
	}
	o.state.Games = games
	return o.outcome(false)
}

// AddTableDraft queues an unsaved table row and returns its local key.
func (o *Orchestrator) AddTableDraft(in TableInput) (string, Outcome) {
	if err := ValidateInput(in); err != nil {
		return "", o.inputRefused(err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.draftSeq++
	key := fmt.Sprintf("draft-%d", o.draftSeq)
	o.drafts = append(o.drafts, TableDraft{Key: key, Input: in})
	return key, o.outcome(false)
}

// ReplaceTableDrafts discards every queued row and queues ins instead. No
// row is queued unless all of them pass the input schema.
func (o *Orchestrator) ReplaceTableDrafts(ins []TableInput) ([]string, Outcome) {
	for _, in := range ins {
		if err := ValidateInput(in); err != nil {
			return nil, o.inputRefused(fmt.Errorf("%s: %w", in.Label, err))
		}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return nil, o.refused(utils.CodePrecondition, busyMessage)
	}
	keys := make([]string, 0, len(ins))
	o.drafts = make([]TableDraft, 0, len(ins))
	for _, in := range ins {
		o.draftSeq++
		key := fmt.Sprintf("draft-%d", o.draftSeq)
		o.drafts = append(o.drafts, TableDraft{Key: key, Input: in})
		keys = append(keys, key)
	}
	return keys, o.outcome(false)
}

// RemoveTableDraft drops an unsaved row; unknown keys are ignored.
func (o *Orchestrator) RemoveTableDraft(key string) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	drafts := o.drafts[:0:0]
	for _, d := range o.drafts {
		if d.Key != key {
			drafts = append(drafts, d)
		}
	}
	o.drafts = drafts
	return o.outcome(false)
}

// SaveTables persists the queued drafts in order. Each saved row replaces
// its draft in the local table list; the first failure stops the batch,
// leaves the remaining drafts queued and keeps the pointer in place. When
// every draft is saved the step is validated and the pointer advances.
func (o *Orchestrator) SaveTables(ctx context.Context) Outcome {
	if out, ok := o.begin(); !ok {
		return out
	}
	o.mu.Lock()
	drafts := append([]TableDraft(nil), o.drafts...)
	o.mu.Unlock()

	for _, d := range drafts {
		env := o.actions.UpsertGamingTable(ctx, d.Input)

		o.mu.Lock()
		if !env.OK {
			o.finishLocked()
			out := o.refused(env.Code, fmt.Sprintf("%s: %s", d.Input.Label, env.Error))
			o.mu.Unlock()
			return out
		}
		o.state.Tables = replaceTable(o.state.Tables, *env.Data)
		o.drafts = removeDraft(o.drafts, d.Key)
		o.mu.Unlock()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishLocked()
	return o.advanceFromLocked(StepTables)
}

// SaveParTargets persists par values and advances past the par step.
func (o *Orchestrator) SaveParTargets(ctx context.Context, targets []ParTargetInput) Outcome {
	for _, t := range targets {
		if err := ValidateInput(t); err != nil {
			return o.inputRefused(err)
		}
	}
	if out, ok := o.begin(); !ok {
		return out
	}

	for _, t := range targets {
		env := o.actions.UpdateTableParTarget(ctx, t)

		o.mu.Lock()
		if !env.OK {
			o.finishLocked()
			out := o.refused(env.Code, env.Error)
			o.mu.Unlock()
			return out
		}
		o.state.Tables = replaceTable(o.state.Tables, *env.Data)
		o.mu.Unlock()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishLocked()
	return o.advanceFromLocked(StepParTargets)
}

// Complete audits every step, then marks setup complete on the server. A
// failing audit places the pointer on the first failing step instead.
func (o *Orchestrator) Complete(ctx context.Context) Outcome {
	o.mu.Lock()
	if o.inFlight {
		out := o.refused(utils.CodePrecondition, busyMessage)
		o.mu.Unlock()
		return out
	}
	for s := 0; s < TotalSteps; s++ {
		res := ValidateStep(s, o.state)
		if !res.Valid {
			moved := o.step != s
			o.step = s
			o.issues = res.Issues
			out := o.outcome(moved)
			out.Code = utils.CodePrecondition
			out.Error = fmt.Sprintf("step %s has unresolved issues", StepName(s))
			o.mu.Unlock()
			return out
		}
	}
	o.inFlight = true
	o.mu.Unlock()

	env := o.actions.CompleteSetup(ctx)
	return o.finishSetup(env)
}

// SkipSetup leaves the wizard without completing it.
func (o *Orchestrator) SkipSetup(ctx context.Context) Outcome {
	if out, ok := o.begin(); !ok {
		return out
	}
	env := o.actions.SkipSetup(ctx)
	return o.finishSetup(env)
}

func (o *Orchestrator) finishSetup(env utils.Envelope[*models.CasinoSettings]) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishLocked()
	if !env.OK {
		return o.refused(env.Code, env.Error)
	}
	o.state.Settings = env.Data
	o.completed = true
	o.issues = nil
	return o.outcome(false)
}

// Completed reports whether setup was completed or skipped.
func (o *Orchestrator) Completed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.completed
}

// advanceFromLocked moves past step after a successful save, but only when
// the pointer is still on that step.
func (o *Orchestrator) advanceFromLocked(step int) Outcome {
	if o.step != step || step >= TotalSteps-1 {
		o.issues = nil
		return o.outcome(false)
	}
	return o.forwardLocked(step + 1)
}

func replaceGame(games []models.GameSetting, row models.GameSetting) []models.GameSetting {
	for i := range games {
		if games[i].ID == row.ID {
			out := append([]models.GameSetting(nil), games...)
			out[i] = row
			return out
		}
	}
	return append(games, row)
}

func replaceTable(tables []models.GamingTable, row models.GamingTable) []models.GamingTable {
	for i := range tables {
		if tables[i].ID == row.ID {
			out := append([]models.GamingTable(nil), tables...)
			out[i] = row
			return out
		}
	}
	return append(tables, row)
}

func removeDraft(drafts []TableDraft, key string) []TableDraft {
	out := drafts[:0:0]
	for _, d := range drafts {
		if d.Key != key {
			out = append(out, d)
		}
	}
	return out
}
