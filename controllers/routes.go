package controllers

import (
	"Longshot/middlewares"

	"github.com/gin-gonic/gin"
)

func (s *Server) initializeRoutes() {

	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRequired := middlewares.TokenAuthMiddleware(s.DB)
	authOptional := middlewares.OptionalAuthMiddleware(s.DB)
	adminOnly := middlewares.AdminOnlyMiddleware()

	v1 := s.Router.Group("/api/v1")
	{
		// Users routes
		v1.POST("/login", s.Login)
		v1.POST("/users", s.CreateUser)
		v1.GET("/users", s.GetUsers)
		v1.GET("/users/:id", s.GetUser)
		v1.PUT("/users/:id", authRequired, s.UpdateUser)
		v1.DELETE("/users/:id", authRequired, s.DeleteUser)
		v1.GET("/transactions/me", authRequired, s.GetMyTransactions)

		// Teams & rosters
		v1.GET("/teams", s.GetTeams)
		v1.GET("/teams/:id", s.GetTeam)
		v1.POST("/teams", authRequired, adminOnly, s.CreateTeam)
		v1.PUT("/teams/:id", authRequired, adminOnly, s.UpdateTeam)
		v1.DELETE("/teams/:id", authRequired, adminOnly, s.DeleteTeam)
		v1.POST("/teams/:id/players", authRequired, adminOnly, s.AddPlayer)
		v1.DELETE("/players/:id", authRequired, adminOnly, s.DeletePlayer)

		// Games
		v1.GET("/games", authOptional, s.GetGames)
		v1.GET("/games/:id", authOptional, s.GetGame)
		v1.POST("/games", authRequired, adminOnly, s.CreateGame)
		v1.PUT("/games/:id", authRequired, adminOnly, s.UpdateGame)
		v1.PUT("/games/:id/result", authRequired, adminOnly, s.RecordGameResult)
		v1.DELETE("/games/:id", authRequired, adminOnly, s.DeleteGame)

		// Straight bets
		v1.POST("/bets", authRequired, s.PlaceBet)
		v1.GET("/bets/me", authRequired, s.GetMyBets)
		v1.GET("/bets/all", authRequired, s.GetAllBets)

		// Prop bets
		v1.GET("/propbets", authRequired, s.GetPropBets)
		v1.GET("/propbets/:id", authRequired, s.GetPropBet)
		v1.POST("/propbets", authRequired, adminOnly, s.CreatePropBet)
		v1.PUT("/propbets/:id", authRequired, adminOnly, s.UpdatePropBet)
		v1.DELETE("/propbets/:id", authRequired, adminOnly, s.DeletePropBet)

		// Leaderboard
		v1.GET("/leaderboard", authOptional, s.GetLeaderboard)

		// Notifications
		v1.GET("/notifications/me", authRequired, s.GetMyNotifications)
		v1.PUT("/notifications/:id/read", authRequired, s.MarkNotificationRead)

		// Brackets: public reads and entry submission
		v1.GET("/brackets/active", authOptional, s.GetActiveBracket)
		v1.GET("/brackets/admin", authRequired, adminOnly, s.AdminListBrackets)
		v1.GET("/brackets/:id", authOptional, s.GetBracket)
		v1.GET("/brackets/:id/leaderboard", authOptional, s.GetBracketLeaderboard)
		v1.GET("/brackets/:id/entries/me", authRequired, s.GetMyBracketEntry)
		v1.POST("/brackets/:id/entries", authRequired, s.SubmitBracketEntry)

		// Brackets: admin lifecycle
		v1.POST("/brackets", authRequired, adminOnly, s.CreateBracket)
		v1.PUT("/brackets/:id", authRequired, adminOnly, s.UpdateBracket)
		v1.PUT("/brackets/:id/teams", authRequired, adminOnly, s.SetBracketTeams)
		v1.POST("/brackets/:id/seed", authRequired, adminOnly, s.SeedBracketGames)
		v1.PUT("/brackets/:id/games/:gameId/winner", authRequired, adminOnly, s.SetBracketGameWinner)
		v1.DELETE("/brackets/:id", authRequired, adminOnly, s.DeleteBracket)
	}
}
