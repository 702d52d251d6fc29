package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"Longshot/cache"
	"Longshot/models"
	httpctx "Longshot/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// GetGames lists the betting board. Regular users only see games inside the
// visibility window; admins see everything.
func (server *Server) GetGames(c *gin.Context) {
	game := models.Game{}

	var games *[]models.Game
	var err error
	if httpctx.IsAdminRequest(c) {
		games, err = game.FindAllGames(server.DB)
	} else {
		games, err = game.FindVisibleGames(server.DB)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": games,
	})
}

func (server *Server) GetGame(c *gin.Context) {
	gid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	game := models.Game{}
	gameGotten, err := game.FindGameByID(server.DB, uint(gid64))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	if !gameGotten.Visible && !httpctx.IsAdminRequest(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": gameGotten,
	})
}

func (server *Server) CreateGame(c *gin.Context) {
	var game models.Game
	if err := c.ShouldBindJSON(&game); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game.Prepare()
	if errorMessages := game.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	gameCreated, err := game.SaveGame(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create game"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": gameCreated,
	})
}

func (server *Server) UpdateGame(c *gin.Context) {
	gid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	var game models.Game
	if err := c.ShouldBindJSON(&game); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	game.ID = uint(gid64)

	gameUpdated, err := game.UpdateGame(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": gameUpdated,
	})
}

// RecordGameResult stores the final score and settles every pending bet on
// the game: won bets get their potential win credited, every bettor gets an
// inbox notification, and the cached leaderboard is dropped.
func (server *Server) RecordGameResult(c *gin.Context) {
	gid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	var body struct {
		HomeScore *int `json:"home_score"`
		AwayScore *int `json:"away_score"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.HomeScore == nil || body.AwayScore == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "home_score and away_score are required"})
		return
	}

	game := models.Game{}
	if _, err := game.FindGameByID(server.DB, uint(gid64)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	if game.Status == models.GameStatusFinal {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Game result already recorded"})
		return
	}

	if err := game.RecordResult(server.DB, *body.HomeScore, *body.AwayScore); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to record result"})
		return
	}

	if err := server.settleGameBets(&game); err != nil {
		log.Printf("settle bets for game %d: %v", game.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Result recorded but bet settlement failed; retry the result"})
		return
	}

	server.invalidateLeaderboardCache()

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Result recorded and bets settled",
	})
}

func (server *Server) settleGameBets(game *models.Game) error {
	bet := models.Bet{}
	pending, err := bet.FindPendingGameBets(server.DB, game.ID)
	if err != nil {
		return err
	}

	for i := range *pending {
		b := &(*pending)[i]
		won := b.TeamID != nil && game.WinnerTeamID != nil && *b.TeamID == *game.WinnerTeamID
		note := fmt.Sprintf("Game %d payout", game.ID)
		if err := b.Resolve(server.DB, won, note); err != nil {
			return err
		}

		title := "Bet lost"
		message := fmt.Sprintf("Your %.0f bet on game %d did not hit.", b.Amount, game.ID)
		if won {
			title = "Bet won!"
			message = fmt.Sprintf("Your bet on game %d paid out %.0f.", game.ID, b.PotentialWin)
		}
		dedup := fmt.Sprintf("bet:%d:settled", b.ID)
		if err := models.NotifyOnce(server.DB, b.UserID, "bet_settled", title, message, dedup); err != nil {
			return err
		}
	}
	return nil
}

func (server *Server) invalidateLeaderboardCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.DeleteByPrefix(ctx, leaderboardCacheKey); err != nil {
		log.Printf("leaderboard cache invalidation: %v", err)
	}
}

func (server *Server) DeleteGame(c *gin.Context) {
	gid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	game := models.Game{}
	if _, err := game.DeleteGame(server.DB, uint(gid64)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Game deleted",
	})
}
