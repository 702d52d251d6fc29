package controllers

import (
	"net/http"
	"strconv"

	"Longshot/models"

	"github.com/gin-gonic/gin"
)

// GetTeams returns all teams with their rosters.
func (server *Server) GetTeams(c *gin.Context) {
	team := models.Team{}
	teams, err := team.FindAllTeams(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch teams"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": teams,
	})
}

func (server *Server) GetTeam(c *gin.Context) {
	tid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	team := models.Team{}
	teamGotten, err := team.FindTeamByID(server.DB, uint(tid64))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": teamGotten,
	})
}

func (server *Server) CreateTeam(c *gin.Context) {
	var team models.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team.Prepare()
	if errorMessages := team.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	teamCreated, err := team.SaveTeam(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create team"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": teamCreated,
	})
}

func (server *Server) UpdateTeam(c *gin.Context) {
	tid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var team models.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team.ID = uint(tid64)
	team.Prepare()
	if errorMessages := team.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	teamUpdated, err := team.UpdateTeam(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": teamUpdated,
	})
}

func (server *Server) DeleteTeam(c *gin.Context) {
	tid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	team := models.Team{}
	if _, err := team.DeleteTeam(server.DB, uint(tid64)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Team deleted",
	})
}

// AddPlayer adds a roster entry to a team.
func (server *Server) AddPlayer(c *gin.Context) {
	tid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var player models.Player
	if err := c.ShouldBindJSON(&player); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if player.Name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Required player name"})
		return
	}

	player.TeamID = uint(tid64)
	playerCreated, err := player.SavePlayer(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to add player"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": playerCreated,
	})
}

func (server *Server) DeletePlayer(c *gin.Context) {
	pid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player ID"})
		return
	}

	player := models.Player{}
	if _, err := player.DeletePlayer(server.DB, uint(pid64)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete player"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Player deleted",
	})
}
