package controllers

import (
	"fmt"
	"net/http"

	"Longshot/models"
	httpctx "Longshot/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PlaceBet accepts a wager on a game or a prop bet. The stake is debited up
// front; the potential win is only credited when the bet resolves as won.
func (server *Server) PlaceBet(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var bet models.Bet
	if err := c.ShouldBindJSON(&bet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bet.UserID = userID

	bet.Prepare()
	if errorMessages := bet.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	if bet.GameID != nil {
		game := models.Game{}
		if _, err := game.FindGameByID(server.DB, *bet.GameID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		if game.Status != models.GameStatusScheduled {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Game is no longer open for bets"})
			return
		}
		if bet.TeamID != nil && *bet.TeamID != game.HomeTeamID && *bet.TeamID != game.AwayTeamID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Team is not playing in this game"})
			return
		}
	} else {
		propBet := models.PropBet{}
		if _, err := propBet.FindPropBetByID(server.DB, *bet.PropBetID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prop bet not found"})
			return
		}
		if propBet.Status != models.PropBetStatusOpen {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prop bet is no longer open"})
			return
		}
	}

	user := models.User{}
	userGotten, err := user.FindUserByID(server.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch user"})
		return
	}
	if userGotten.Balance < bet.Amount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
		return
	}

	err = server.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.UpdateUserBalance(tx, userID, -bet.Amount); err != nil {
			return err
		}
		note := fmt.Sprintf("%.0f %s confidence bet placed", bet.Amount, bet.Confidence)
		if err := models.CreateTransaction(tx, userID, models.TxBetPlaced, -bet.Amount, note); err != nil {
			return err
		}
		if _, err := bet.SaveBet(tx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to place bet"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": bet,
	})
}

func (server *Server) GetMyBets(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bet := models.Bet{}
	bets, err := bet.FindUserBets(server.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": bets,
	})
}

// GetAllBets powers the community feed: everyone can see who bet what.
func (server *Server) GetAllBets(c *gin.Context) {
	bet := models.Bet{}
	bets, err := bet.FindAllBets(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": bets,
	})
}
