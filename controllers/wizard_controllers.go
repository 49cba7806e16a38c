package controllers

import (
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/casino-floor/utils"
	"github.com/yeremiapane/casino-floor/wizard"
)

// WizardController hosts one setup orchestrator per staff member, so a
// thin client can drive the wizard with plain commands.
type WizardController struct {
	actions wizard.SetupActions

	mu       sync.Mutex
	sessions map[string]*wizard.Orchestrator
}

func NewWizardController(actions wizard.SetupActions) *WizardController {
	return &WizardController{actions: actions, sessions: make(map[string]*wizard.Orchestrator)}
}

type wizardReply struct {
	Outcome  wizard.Outcome  `json:"outcome"`
	Snapshot wizard.Snapshot `json:"snapshot"`
}

// session returns the caller's orchestrator and whether it was just created.
func (wc *WizardController) session(c *gin.Context) (*wizard.Orchestrator, bool) {
	actor, _ := utils.ActorFrom(c.Request.Context())
	key := actor.CasinoID + "/" + actor.StaffID

	wc.mu.Lock()
	defer wc.mu.Unlock()
	if o, ok := wc.sessions[key]; ok {
		return o, false
	}
	o := wizard.NewOrchestrator(wc.actions)
	wc.sessions[key] = o
	return o, true
}

func (wc *WizardController) drop(c *gin.Context) {
	actor, _ := utils.ActorFrom(c.Request.Context())
	wc.mu.Lock()
	defer wc.mu.Unlock()
	delete(wc.sessions, actor.CasinoID+"/"+actor.StaffID)
}

func (wc *WizardController) reply(c *gin.Context, o *wizard.Orchestrator, out wizard.Outcome) {
	ctx := c.Request.Context()
	data := wizardReply{Outcome: out, Snapshot: o.Snapshot()}
	if out.OK() {
		utils.RespondEnvelope(c, utils.Success(ctx, data))
		return
	}
	env := utils.Failure[wizardReply](ctx, out.Code, out.Error)
	env.Data = data
	utils.RespondEnvelope(c, env)
}

// loaded returns an orchestrator that has read the server state at least once.
func (wc *WizardController) loaded(c *gin.Context) (*wizard.Orchestrator, bool) {
	o, fresh := wc.session(c)
	if !fresh {
		return o, true
	}
	if out := o.Load(c.Request.Context()); !out.OK() {
		wc.drop(c)
		wc.reply(c, o, out)
		return nil, false
	}
	return o, true
}

// Get -> current wizard snapshot; ?reload=true re-reads the server state
func (wc *WizardController) Get(c *gin.Context) {
	o, fresh := wc.session(c)
	if fresh || c.Query("reload") == "true" {
		out := o.Load(c.Request.Context())
		if !out.OK() && fresh {
			wc.drop(c)
		}
		wc.finish(c, o, out)
		return
	}
	wc.reply(c, o, wizard.Outcome{Step: o.Step(), Issues: o.Issues()})
}

func (wc *WizardController) Next(c *gin.Context) {
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.GoNext())
	}
}

func (wc *WizardController) Back(c *gin.Context) {
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.GoBack())
	}
}

func (wc *WizardController) Jump(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		utils.RespondEnvelope(c, utils.Failure[any](c.Request.Context(), utils.CodeValidation, "step must be a number"))
		return
	}
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.JumpTo(step))
	}
}

func (wc *WizardController) SkipStep(c *gin.Context) {
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.SkipStep())
	}
}

func (wc *WizardController) SaveSettings(c *gin.Context) {
	var req wizard.SettingsInput
	if !bindJSON(c, &req) {
		return
	}
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.SaveSettings(c.Request.Context(), req))
	}
}

func (wc *WizardController) SeedGames(c *gin.Context) {
	var req wizard.SeedGamesInput
	if !bindJSON(c, &req) {
		return
	}
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.SeedGames(c.Request.Context(), req))
	}
}

// SaveTables replaces the draft queue with the given rows, or keeps the
// queue when none are given, and saves every queued draft.
func (wc *WizardController) SaveTables(c *gin.Context) {
	var req struct {
		Tables []wizard.TableInput `json:"tables"`
	}
	if !bindJSON(c, &req) {
		return
	}
	o, ok := wc.loaded(c)
	if !ok {
		return
	}
	if len(req.Tables) > 0 {
		if _, out := o.ReplaceTableDrafts(req.Tables); !out.OK() {
			wc.reply(c, o, out)
			return
		}
	}
	wc.reply(c, o, o.SaveTables(c.Request.Context()))
}

// AddTableDraft queues one row without saving it.
func (wc *WizardController) AddTableDraft(c *gin.Context) {
	var req wizard.TableInput
	if !bindJSON(c, &req) {
		return
	}
	if o, ok := wc.loaded(c); ok {
		_, out := o.AddTableDraft(req)
		wc.reply(c, o, out)
	}
}

func (wc *WizardController) RemoveTableDraft(c *gin.Context) {
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.RemoveTableDraft(c.Param("key")))
	}
}

func (wc *WizardController) CreateGame(c *gin.Context) {
	var req wizard.GameInput
	if !bindJSON(c, &req) {
		return
	}
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.CreateGame(c.Request.Context(), req))
	}
}

func (wc *WizardController) UpdateGame(c *gin.Context) {
	var req wizard.GameInput
	if !bindJSON(c, &req) {
		return
	}
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.UpdateGame(c.Request.Context(), c.Param("game_id"), req))
	}
}

func (wc *WizardController) DeleteGame(c *gin.Context) {
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.DeleteGame(c.Request.Context(), c.Param("game_id")))
	}
}

func (wc *WizardController) SavePar(c *gin.Context) {
	var req struct {
		Targets []wizard.ParTargetInput `json:"targets"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if o, ok := wc.loaded(c); ok {
		wc.reply(c, o, o.SaveParTargets(c.Request.Context(), req.Targets))
	}
}

// Complete and Skip release the caller's orchestrator once setup is done.
// Get does the same for a casino that is already set up.
func (wc *WizardController) Complete(c *gin.Context) {
	if o, ok := wc.loaded(c); ok {
		wc.finish(c, o, o.Complete(c.Request.Context()))
	}
}

func (wc *WizardController) Skip(c *gin.Context) {
	if o, ok := wc.loaded(c); ok {
		wc.finish(c, o, o.SkipSetup(c.Request.Context()))
	}
}

func (wc *WizardController) finish(c *gin.Context, o *wizard.Orchestrator, out wizard.Outcome) {
	wc.reply(c, o, out)
	if o.Completed() {
		wc.drop(c)
	}
}

// Sessions reports how many staff members hold a live orchestrator.
func (wc *WizardController) Sessions() int {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return len(wc.sessions)
}
