package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"Longshot/models"

	"github.com/gin-gonic/gin"
)

func (server *Server) GetPropBets(c *gin.Context) {
	propBet := models.PropBet{}
	propBets, err := propBet.FindAllPropBets(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch prop bets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": propBets,
	})
}

func (server *Server) GetPropBet(c *gin.Context) {
	pid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prop bet ID"})
		return
	}

	propBet := models.PropBet{}
	propBetGotten, err := propBet.FindPropBetByID(server.DB, uint(pid64))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prop bet not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": propBetGotten,
	})
}

func (server *Server) CreatePropBet(c *gin.Context) {
	var propBet models.PropBet
	if err := c.ShouldBindJSON(&propBet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	propBet.Prepare()
	if errorMessages := propBet.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	propBetCreated, err := propBet.SavePropBet(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create prop bet"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": propBetCreated,
	})
}

// UpdatePropBet changes a prop's status. Moving it to resolved settles every
// pending wager against the declared outcome.
func (server *Server) UpdatePropBet(c *gin.Context) {
	pid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prop bet ID"})
		return
	}

	var body struct {
		Status  string `json:"status"`
		Outcome string `json:"outcome"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch body.Status {
	case models.PropBetStatusOpen, models.PropBetStatusClosed, models.PropBetStatusResolved:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be open, closed or resolved"})
		return
	}
	if body.Status == models.PropBetStatusResolved && body.Outcome != "yes" && body.Outcome != "no" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Resolved prop bets need a yes/no outcome"})
		return
	}

	propBet := models.PropBet{}
	if _, err := propBet.FindPropBetByID(server.DB, uint(pid64)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prop bet not found"})
		return
	}
	if propBet.Status == models.PropBetStatusResolved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prop bet already resolved"})
		return
	}

	if err := propBet.UpdateStatus(server.DB, body.Status, body.Outcome); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update prop bet"})
		return
	}

	if body.Status == models.PropBetStatusResolved {
		if err := server.settlePropBets(&propBet); err != nil {
			log.Printf("settle prop bet %d: %v", propBet.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Prop bet resolved but settlement failed; retry the update"})
			return
		}
		server.invalidateLeaderboardCache()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": propBet,
	})
}

func (server *Server) settlePropBets(propBet *models.PropBet) error {
	bet := models.Bet{}
	pending, err := bet.FindPendingPropBets(server.DB, propBet.ID)
	if err != nil {
		return err
	}

	for i := range *pending {
		b := &(*pending)[i]
		won := b.Choice == propBet.Outcome
		note := fmt.Sprintf("%q prop payout", propBet.Title)
		if err := b.Resolve(server.DB, won, note); err != nil {
			return err
		}

		title := "Prop bet lost"
		message := fmt.Sprintf("%q resolved %s; your %s pick did not hit.", propBet.Title, propBet.Outcome, b.Choice)
		if won {
			title = "Prop bet won!"
			message = fmt.Sprintf("%q resolved %s and paid out %.0f.", propBet.Title, propBet.Outcome, b.PotentialWin)
		}
		dedup := fmt.Sprintf("bet:%d:settled", b.ID)
		if err := models.NotifyOnce(server.DB, b.UserID, "bet_settled", title, message, dedup); err != nil {
			return err
		}
	}
	return nil
}

func (server *Server) DeletePropBet(c *gin.Context) {
	pid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prop bet ID"})
		return
	}

	propBet := models.PropBet{}
	if _, err := propBet.DeletePropBet(server.DB, uint(pid64)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete prop bet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Prop bet deleted",
	})
}
