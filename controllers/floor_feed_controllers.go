package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/casino-floor/floorfeed"
	"github.com/yeremiapane/casino-floor/utils"
)

type FloorFeedController struct {
	hub      *floorfeed.Hub
	upgrader websocket.Upgrader
}

// NewFloorFeedController accepts upgrades from allowedOrigin only; "*"
// accepts any origin.
func NewFloorFeedController(hub *floorfeed.Hub, allowedOrigin string) *FloorFeedController {
	return &FloorFeedController{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// Handle -> websocket feed of the caller's casino floor
func (fc *FloorFeedController) Handle(c *gin.Context) {
	actor, ok := utils.ActorFrom(c.Request.Context())
	if !ok {
		utils.AbortWithCode(c, utils.CodeUnauthorized, "unauthorized")
		return
	}

	ws, err := fc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Floor feed upgrade failed: %v", err)
		return
	}

	fc.hub.Register(ws, actor.CasinoID, actor.Role)
	utils.InfoLogger.Printf("Floor feed client connected: staff=%s casino=%s", actor.StaffID, actor.CasinoID)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	fc.hub.Unregister(ws)
}
