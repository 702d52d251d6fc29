package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Longshot/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetLeaderboardRanksUsers(t *testing.T) {
	server := newTestServer(t)
	sharp := createTestUser(t, server.DB, "sharp")
	_ = createTestUser(t, server.DB, "quiet")
	admin := createTestUser(t, server.DB, "boss")
	server.DB.Model(&models.User{}).Where("id = ?", admin.ID).Update("is_admin", true)

	// Three resolved wins for sharp; quiet never bet.
	for i := 0; i < 3; i++ {
		bet := models.Bet{
			UserID:       sharp.ID,
			Amount:       100,
			Confidence:   "medium",
			Multiplier:   2,
			PotentialWin: 200,
			Status:       models.BetStatusResolved,
			Outcome:      models.BetOutcomeWon,
		}
		assert.NoError(t, server.DB.Create(&bet).Error)
	}

	r := gin.New()
	r.GET("/api/v1/leaderboard", server.GetLeaderboard)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	rows := body["response"].([]interface{})

	// Admin excluded; sharp ranks above the inactive user.
	assert.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "sharp", first["username"])
	tier := first["tier"].(map[string]interface{})
	assert.NotEmpty(t, tier["name"])
}

func TestGetLeaderboardRejectsUnknownSort(t *testing.T) {
	server := newTestServer(t)

	r := gin.New()
	r.GET("/api/v1/leaderboard", server.GetLeaderboard)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/leaderboard?sort=cleverness", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
