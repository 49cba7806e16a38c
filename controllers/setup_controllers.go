package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/casino-floor/services"
	"github.com/yeremiapane/casino-floor/utils"
	"github.com/yeremiapane/casino-floor/wizard"
)

// SetupController exposes the setup server actions one-to-one. Input
// schemas are checked by the service, so binding only decodes.
type SetupController struct {
	svc *services.SetupService
}

func NewSetupController(svc *services.SetupService) *SetupController {
	return &SetupController{svc: svc}
}

func (sc *SetupController) GetState(c *gin.Context) {
	utils.RespondEnvelope(c, sc.svc.GetSetupState(c.Request.Context()))
}

func (sc *SetupController) UpdateSettings(c *gin.Context) {
	var req wizard.SettingsInput
	if !bindJSON(c, &req) {
		return
	}
	utils.RespondEnvelope(c, sc.svc.UpdateCasinoSettings(c.Request.Context(), req))
}

func (sc *SetupController) SeedGames(c *gin.Context) {
	var req wizard.SeedGamesInput
	if !bindJSON(c, &req) {
		return
	}
	utils.RespondEnvelope(c, sc.svc.SeedGameSettings(c.Request.Context(), req))
}

func (sc *SetupController) CreateGame(c *gin.Context) {
	var req wizard.GameInput
	if !bindJSON(c, &req) {
		return
	}
	utils.RespondEnvelope(c, sc.svc.CreateGameSetting(c.Request.Context(), req))
}

func (sc *SetupController) UpdateGame(c *gin.Context) {
	var req wizard.GameInput
	if !bindJSON(c, &req) {
		return
	}
	utils.RespondEnvelope(c, sc.svc.UpdateGameSetting(c.Request.Context(), c.Param("game_id"), req))
}

func (sc *SetupController) DeleteGame(c *gin.Context) {
	utils.RespondEnvelope(c, sc.svc.DeleteGameSetting(c.Request.Context(), c.Param("game_id")))
}

// UpsertTable -> create a table, or update it when the body carries an id
func (sc *SetupController) UpsertTable(c *gin.Context) {
	var req wizard.TableInput
	if !bindJSON(c, &req) {
		return
	}
	utils.RespondEnvelope(c, sc.svc.UpsertGamingTable(c.Request.Context(), req))
}

func (sc *SetupController) UpdatePar(c *gin.Context) {
	var req struct {
		ParTotalCents *int64 `json:"parTotalCents"`
	}
	if !bindJSON(c, &req) {
		return
	}
	utils.RespondEnvelope(c, sc.svc.UpdateTableParTarget(c.Request.Context(), wizard.ParTargetInput{
		TableID:       c.Param("table_id"),
		ParTotalCents: req.ParTotalCents,
	}))
}

func (sc *SetupController) Complete(c *gin.Context) {
	utils.RespondEnvelope(c, sc.svc.CompleteSetup(c.Request.Context()))
}

func (sc *SetupController) Skip(c *gin.Context) {
	utils.RespondEnvelope(c, sc.svc.SkipSetup(c.Request.Context()))
}
