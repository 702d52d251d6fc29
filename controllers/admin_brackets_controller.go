package controllers

import (
	"net/http"
	"strconv"

	"Longshot/models"
	"Longshot/responses"

	"github.com/gin-gonic/gin"
)

func (server *Server) AdminListBrackets(c *gin.Context) {
	bracket := models.Bracket{}
	brackets, err := bracket.FindAllBrackets(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch brackets"})
		return
	}

	rows := make([]responses.BracketResponse, len(*brackets))
	for i := range *brackets {
		rows[i] = *responses.ToBracketResponse(&(*brackets)[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": rows,
	})
}

func (server *Server) CreateBracket(c *gin.Context) {
	var bracket models.Bracket
	if err := c.ShouldBindJSON(&bracket); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bracket.Prepare()
	if errorMessages := bracket.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	bracketCreated, err := bracket.SaveBracket(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create bracket"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": responses.ToBracketResponse(bracketCreated),
	})
}

// UpdateBracket edits metadata and status. Changing payout_per_point on a
// bracket with recorded winners reprices every entry, so the engine recalc
// runs after the save.
func (server *Server) UpdateBracket(c *gin.Context) {
	bid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bracket ID"})
		return
	}

	bracket := models.Bracket{}
	if _, err := bracket.FindBracketByID(server.DB, uint(bid64)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bracket not found"})
		return
	}

	var body models.Bracket
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = bracket.ID

	body.Prepare()
	if errorMessages := body.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	bracketUpdated, err := body.UpdateBracket(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update bracket"})
		return
	}

	if bracketUpdated.PayoutPerPoint != bracket.PayoutPerPoint {
		if err := server.Engine.Recalculate(bracketUpdated.ID); err != nil {
			server.respondEngineError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": responses.ToBracketResponse(bracketUpdated),
	})
}

// SetBracketTeams replaces the 8-team field. Rejected once games are seeded,
// since team IDs are baked into the round-1 matchups by then.
func (server *Server) SetBracketTeams(c *gin.Context) {
	bid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bracket ID"})
		return
	}

	bracket := models.Bracket{}
	if _, err := bracket.FindBracketByID(server.DB, uint(bid64)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bracket not found"})
		return
	}

	var seeded int64
	if err := server.DB.Model(&models.BracketGame{}).Where("bracket_id = ?", bracket.ID).Count(&seeded).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bracket games"})
		return
	}
	if seeded > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Games already seeded for this bracket"})
		return
	}

	var body struct {
		Teams []models.BracketTeam `json:"teams"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(body.Teams) != models.BracketSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You must set all 8 teams before seeding games"})
		return
	}
	seen := make(map[int]bool, models.BracketSize)
	for _, team := range body.Teams {
		if team.Seed < 1 || team.Seed > models.BracketSize || seen[team.Seed] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Seeds must be unique numbers from 1 to 8"})
			return
		}
		seen[team.Seed] = true
	}

	if err := models.ReplaceBracketTeams(server.DB, bracket.ID, body.Teams); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to set bracket teams"})
		return
	}

	bracketTeam := models.BracketTeam{}
	teams, err := bracketTeam.FindBracketTeams(server.DB, bracket.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bracket teams"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": teams,
	})
}

// SeedBracketGames creates the 7-game structure from the saved seeds.
func (server *Server) SeedBracketGames(c *gin.Context) {
	bid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bracket ID"})
		return
	}

	if err := server.Engine.SeedGames(uint(bid64)); err != nil {
		server.respondEngineError(c, err)
		return
	}

	bracketGame := models.BracketGame{}
	games, err := bracketGame.FindBracketGames(server.DB, uint(bid64))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bracket games"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": games,
	})
}

// DeleteBracket removes a bracket and everything hanging off it. Payouts
// already credited stay on user balances; only the bracket rows go.
func (server *Server) DeleteBracket(c *gin.Context) {
	bid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bracket ID"})
		return
	}

	bracket := models.Bracket{}
	if _, err := bracket.FindBracketByID(server.DB, uint(bid64)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bracket not found"})
		return
	}

	if _, err := bracket.DeleteBracket(server.DB, bracket.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete bracket"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Bracket deleted",
	})
}

// SetBracketGameWinner records a winner, or clears one when winnerTeamId is
// null. Propagation and payout recalculation happen inside the engine call.
func (server *Server) SetBracketGameWinner(c *gin.Context) {
	bid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bracket ID"})
		return
	}
	gid64, err := strconv.ParseUint(c.Param("gameId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	var body struct {
		WinnerTeamID *uint `json:"winnerTeamId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := server.Engine.SetWinner(uint(bid64), uint(gid64), body.WinnerTeamID); err != nil {
		server.respondEngineError(c, err)
		return
	}

	bracketGame := models.BracketGame{}
	games, err := bracketGame.FindBracketGames(server.DB, uint(bid64))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bracket games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": games,
	})
}
