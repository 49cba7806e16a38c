package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/casino-floor/services"
	"github.com/yeremiapane/casino-floor/utils"
)

type TableSessionController struct {
	svc *services.TableSessionService
}

func NewTableSessionController(svc *services.TableSessionService) *TableSessionController {
	return &TableSessionController{svc: svc}
}

// ListFloor -> every table with its current session
func (tc *TableSessionController) ListFloor(c *gin.Context) {
	utils.RespondEnvelope(c, tc.svc.ListFloor(c.Request.Context()))
}

// GetCurrent -> current session of a table, data is null when idle
func (tc *TableSessionController) GetCurrent(c *gin.Context) {
	utils.RespondEnvelope(c, tc.svc.GetCurrent(c.Request.Context(), c.Param("table_id")))
}

func (tc *TableSessionController) Open(c *gin.Context) {
	utils.RespondEnvelope(c, tc.svc.Open(c.Request.Context(), c.Param("table_id")))
}

func (tc *TableSessionController) StartRundown(c *gin.Context) {
	utils.RespondEnvelope(c, tc.svc.StartRundown(c.Request.Context(), c.Param("session_id")))
}

func (tc *TableSessionController) Close(c *gin.Context) {
	var req services.CloseSessionInput
	if !bindJSON(c, &req) {
		return
	}
	utils.RespondEnvelope(c, tc.svc.Close(c.Request.Context(), c.Param("session_id"), req))
}
