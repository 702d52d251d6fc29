package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Longshot/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestResolvePropBetSettlesWagers(t *testing.T) {
	server := newTestServer(t)
	yesUser := createTestUser(t, server.DB, "optimist")
	noUser := createTestUser(t, server.DB, "pessimist")

	propBet := models.PropBet{Title: "Five sets this week?", YesOdds: 2.5, NoOdds: 1.4}
	propBet.Prepare()
	assert.NoError(t, server.DB.Create(&propBet).Error)

	r := gin.New()
	r.POST("/api/v1/bets", asUser(yesUser.ID, false), server.PlaceBet)
	r.POST("/api/v1/bets/no", asUser(noUser.ID, false), server.PlaceBet)
	r.PUT("/api/v1/propbets/:id", asUser(999, true), server.UpdatePropBet)

	place := func(path, choice string) {
		payload, _ := json.Marshal(map[string]interface{}{
			"prop_bet_id": propBet.ID,
			"choice":      choice,
			"amount":      100,
			"confidence":  "low",
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	place("/api/v1/bets", "yes")
	place("/api/v1/bets/no", "no")

	resolveBody, _ := json.Marshal(map[string]string{"status": "resolved", "outcome": "yes"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/propbets/%d", propBet.ID), bytes.NewBuffer(resolveBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Yes: 1000 - 100 stake + 150 low-confidence payout. No: 1000 - 100.
	var winner, loser models.User
	assert.NoError(t, server.DB.First(&winner, yesUser.ID).Error)
	assert.NoError(t, server.DB.First(&loser, noUser.ID).Error)
	assert.Equal(t, float64(1050), winner.Balance)
	assert.Equal(t, float64(900), loser.Balance)

	// A second resolution attempt is rejected.
	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/propbets/%d", propBet.ID), bytes.NewBuffer(resolveBody))
	req2.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusBadRequest, w2.Code)
	assert.Contains(t, w2.Body.String(), "already resolved")
}

func TestUpdatePropBetRequiresOutcomeWhenResolving(t *testing.T) {
	server := newTestServer(t)

	propBet := models.PropBet{Title: "Upset in round one?", YesOdds: 3, NoOdds: 1.2}
	propBet.Prepare()
	assert.NoError(t, server.DB.Create(&propBet).Error)

	r := gin.New()
	r.PUT("/api/v1/propbets/:id", asUser(999, true), server.UpdatePropBet)

	body, _ := json.Marshal(map[string]string{"status": "resolved"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/propbets/%d", propBet.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "yes/no outcome")
}
