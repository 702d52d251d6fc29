package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"Longshot/cache"
	"Longshot/leaderboard"
	"Longshot/models"

	"github.com/gin-gonic/gin"
)

const (
	leaderboardCacheKey = "leaderboard:sitewide"
	leaderboardCacheTTL = 30 * time.Second
)

// GetLeaderboard ranks every non-admin user by the composite score. Results
// are cached per sort order for a short window since the ranking walks the
// whole bets table.
func (server *Server) GetLeaderboard(c *gin.Context) {
	order := leaderboard.SortOrder(c.DefaultQuery("sort", string(leaderboard.SortByScore)))
	switch order {
	case leaderboard.SortByScore, leaderboard.SortByBalance, leaderboard.SortByWinRate, leaderboard.SortByProfit:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sort must be score, balance, winRate or profit"})
		return
	}

	cacheKey := leaderboardCacheKey + ":" + string(order)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if cached, err := cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var standings []leaderboard.Standing
		if err := json.Unmarshal([]byte(cached), &standings); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"status":   http.StatusOK,
				"response": standings,
			})
			return
		}
	}

	user := models.User{}
	users, err := user.FindAllUsers(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch users"})
		return
	}

	bet := models.Bet{}
	bets, err := bet.FindAllBets(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bets"})
		return
	}

	userRecords := make([]leaderboard.UserRecord, len(*users))
	for i, u := range *users {
		userRecords[i] = leaderboard.UserRecord{
			ID:       u.ID,
			Username: u.Username,
			Balance:  u.Balance,
			IsAdmin:  u.IsAdmin,
		}
	}

	betRecords := make([]leaderboard.BetRecord, len(*bets))
	for i, b := range *bets {
		betRecords[i] = leaderboard.BetRecord{
			UserID:       b.UserID,
			Status:       b.Status,
			Outcome:      b.Outcome,
			Amount:       b.Amount,
			PotentialWin: b.PotentialWin,
		}
	}

	standings := leaderboard.Rank(userRecords, betRecords, order)

	if payload, err := json.Marshal(standings); err == nil {
		if err := cache.Set(ctx, cacheKey, payload, leaderboardCacheTTL); err != nil {
			log.Printf("leaderboard cache set: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": standings,
	})
}
