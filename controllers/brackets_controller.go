package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"Longshot/engine"
	"Longshot/models"
	"Longshot/responses"
	httpctx "Longshot/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetActiveBracket returns the current bracket with its teams and games.
// When no bracket exists the payload carries a null bracket instead of a 404
// so the client can render the "nothing running" state.
func (server *Server) GetActiveBracket(c *gin.Context) {
	bracket := models.Bracket{}
	bracketGotten, err := bracket.FindActiveBracket(server.DB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"status":   http.StatusOK,
				"response": responses.BracketDetailResponse{},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bracket"})
		return
	}

	server.respondBracketDetail(c, bracketGotten)
}

func (server *Server) GetBracket(c *gin.Context) {
	bid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bracket ID"})
		return
	}

	bracket := models.Bracket{}
	bracketGotten, err := bracket.FindBracketByID(server.DB, uint(bid64))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bracket not found"})
		return
	}

	server.respondBracketDetail(c, bracketGotten)
}

func (server *Server) respondBracketDetail(c *gin.Context, bracket *models.Bracket) {
	bracketTeam := models.BracketTeam{}
	teams, err := bracketTeam.FindBracketTeams(server.DB, bracket.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bracket teams"})
		return
	}

	bracketGame := models.BracketGame{}
	games, err := bracketGame.FindBracketGames(server.DB, bracket.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bracket games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": responses.ToBracketDetail(bracket, *teams, *games),
	})
}

func (server *Server) GetBracketLeaderboard(c *gin.Context) {
	bid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bracket ID"})
		return
	}

	entry := models.BracketEntry{}
	entries, err := entry.FindLeaderboardEntries(server.DB, uint(bid64))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch bracket leaderboard"})
		return
	}

	rows := make([]responses.BracketLeaderboardRow, len(*entries))
	for i, e := range *entries {
		rows[i] = responses.BracketLeaderboardRow{
			ID:        e.ID,
			Username:  e.User.Username,
			Points:    e.Points,
			Payout:    e.Payout,
			CreatedAt: e.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": rows,
	})
}

// GetMyBracketEntry returns null when the user has not entered yet, so the
// client can tell "no entry" from an error without a 404 dance.
func (server *Server) GetMyBracketEntry(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bracket ID"})
		return
	}

	entry := models.BracketEntry{}
	entryGotten, err := entry.FindUserEntry(server.DB, uint(bid64), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"status":   http.StatusOK,
				"response": nil,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": entryGotten,
	})
}

// SubmitBracketEntry validates and stores the user's picks. The body is
// decoded strictly: unknown fields anywhere in the payload are rejected
// rather than silently dropped.
func (server *Server) SubmitBracketEntry(c *gin.Context) {
	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bid64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bracket ID"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
		return
	}

	var payload struct {
		Picks models.BracketPicks `json:"picks"`
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid picks payload: " + err.Error()})
		return
	}

	entryCreated, err := server.Engine.SubmitEntry(uint(bid64), userID, payload.Picks)
	if err != nil {
		server.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": entryCreated,
	})
}

// respondEngineError maps engine errors onto HTTP statuses: user mistakes
// are 400s with the engine's message, missing resources are 404s, anything
// else is a 500 with the detail kept out of the response.
func (server *Server) respondEngineError(c *gin.Context, err error) {
	var notFound *engine.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}
	if engine.IsClientError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
}
