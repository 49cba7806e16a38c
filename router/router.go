package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/casino-floor/config"
	"github.com/yeremiapane/casino-floor/controllers"
	"github.com/yeremiapane/casino-floor/database"
	"github.com/yeremiapane/casino-floor/floorfeed"
	"github.com/yeremiapane/casino-floor/middlewares"
	"github.com/yeremiapane/casino-floor/services"
	"github.com/yeremiapane/casino-floor/utils"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, hub *floorfeed.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		utils.ErrorLogger.Printf("Invalid trusted proxies %v: %v", cfg.TrustedProxies, err)
	}

	r.Use(middlewares.RequestMeta())
	r.Use(middlewares.SecurityHeaders(cfg.HSTSMaxAge))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).RateLimit())

	store := database.NewStore(db)
	setupSvc := services.NewSetupService(store)
	sessionSvc := services.NewTableSessionService(store)

	staffCtrl := controllers.NewStaffController(db)
	setupCtrl := controllers.NewSetupController(setupSvc)
	wizardCtrl := controllers.NewWizardController(setupSvc)
	sessionCtrl := controllers.NewTableSessionController(sessionSvc)
	feedCtrl := controllers.NewFloorFeedController(hub, cfg.CORSOrigin)

	r.NoRoute(func(c *gin.Context) {
		utils.AbortWithCode(c, utils.CodeNotFound, "route not found")
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		utils.RespondJSON(c, 200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", staffCtrl.Register)
		public.POST("/login", staffCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", staffCtrl.GetProfile)
	auth.POST("/logout", staffCtrl.Logout)
	auth.POST("/staff", middlewares.RequireCapability(services.CapSetup), staffCtrl.CreateStaff)

	// FLOOR
	auth.GET("/tables", sessionCtrl.ListFloor)
	auth.POST("/tables", setupCtrl.UpsertTable)
	auth.GET("/tables/:table_id/session", sessionCtrl.GetCurrent)
	auth.POST("/tables/:table_id/session", sessionCtrl.Open)
	auth.POST("/table-sessions/:session_id/rundown", sessionCtrl.StartRundown)
	auth.POST("/table-sessions/:session_id/close", sessionCtrl.Close)

	// SETUP
	auth.GET("/setup", setupCtrl.GetState)
	auth.PATCH("/setup/settings", setupCtrl.UpdateSettings)
	auth.POST("/setup/games/seed", setupCtrl.SeedGames)
	auth.POST("/setup/games", setupCtrl.CreateGame)
	auth.PATCH("/setup/games/:game_id", setupCtrl.UpdateGame)
	auth.DELETE("/setup/games/:game_id", setupCtrl.DeleteGame)
	auth.POST("/setup/tables", setupCtrl.UpsertTable)
	auth.PATCH("/setup/tables/:table_id/par", setupCtrl.UpdatePar)
	auth.POST("/setup/complete", setupCtrl.Complete)
	auth.POST("/setup/skip", setupCtrl.Skip)

	// SETUP WIZARD
	wiz := auth.Group("/setup/wizard")
	wiz.Use(middlewares.RequireCapability(services.CapSetup))
	{
		wiz.GET("", wizardCtrl.Get)
		wiz.POST("/next", wizardCtrl.Next)
		wiz.POST("/back", wizardCtrl.Back)
		wiz.POST("/jump/:step", wizardCtrl.Jump)
		wiz.POST("/skip-step", wizardCtrl.SkipStep)
		wiz.POST("/settings", wizardCtrl.SaveSettings)
		wiz.POST("/games/seed", wizardCtrl.SeedGames)
		wiz.POST("/games", wizardCtrl.CreateGame)
		wiz.PATCH("/games/:game_id", wizardCtrl.UpdateGame)
		wiz.DELETE("/games/:game_id", wizardCtrl.DeleteGame)
		wiz.POST("/tables", wizardCtrl.SaveTables)
		wiz.POST("/tables/drafts", wizardCtrl.AddTableDraft)
		wiz.DELETE("/tables/drafts/:key", wizardCtrl.RemoveTableDraft)
		wiz.POST("/par", wizardCtrl.SavePar)
		wiz.POST("/complete", wizardCtrl.Complete)
		wiz.POST("/skip", wizardCtrl.Skip)
	}

	// WebSocket feed, token passed as a query parameter
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware(), middlewares.RequireCapability(services.CapFloorRead))
	{
		wsGroup.GET("/floor", feedCtrl.Handle)
	}

	return r
}
