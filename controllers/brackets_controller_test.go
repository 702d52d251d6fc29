package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Longshot/engine"
	"Longshot/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server against an in-memory SQLite database with the
// full schema migrated, the way the real Initialize does against Postgres.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	server := &Server{DB: db, Engine: engine.New(db, nil)}
	if err := server.AutoMigrate(); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
	return server
}

// asUser stands in for TokenAuthMiddleware so handler tests skip JWT
// plumbing and set identity directly.
func asUser(userID uint, admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("isAdmin", admin)
		c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := models.User{Username: name, Email: name + "@example.com", Password: "password123"}
	user.Prepare()
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

func createOpenBracket(t *testing.T, server *Server, entryFee float64) (*models.Bracket, map[int]uint) {
	t.Helper()

	bracket := models.Bracket{
		Name:           "Playoffs",
		Season:         "2026",
		EntryFee:       entryFee,
		PayoutPerPoint: 1000,
		Status:         models.BracketStatusOpen,
	}
	if err := server.DB.Create(&bracket).Error; err != nil {
		t.Fatalf("Failed to create bracket: %v", err)
	}

	teams := make([]models.BracketTeam, models.BracketSize)
	for i := range teams {
		teams[i] = models.BracketTeam{Seed: i + 1, Name: fmt.Sprintf("Team %d", i+1)}
	}
	if err := models.ReplaceBracketTeams(server.DB, bracket.ID, teams); err != nil {
		t.Fatalf("Failed to create bracket teams: %v", err)
	}
	if err := server.Engine.SeedGames(bracket.ID); err != nil {
		t.Fatalf("Failed to seed games: %v", err)
	}

	var saved []models.BracketTeam
	if err := server.DB.Where("bracket_id = ?", bracket.ID).Find(&saved).Error; err != nil {
		t.Fatalf("Failed to load bracket teams: %v", err)
	}
	bySeed := make(map[int]uint, len(saved))
	for _, team := range saved {
		bySeed[team.Seed] = team.ID
	}
	return &bracket, bySeed
}

func picksPayload(bySeed map[int]uint) []byte {
	payload := map[string]interface{}{
		"picks": map[string]map[string]uint{
			"round1": {"game1": bySeed[1], "game2": bySeed[4], "game3": bySeed[2], "game4": bySeed[3]},
			"round2": {"game1": bySeed[1], "game2": bySeed[2]},
			"round3": {"game1": bySeed[1]},
		},
	}
	body, _ := json.Marshal(payload)
	return body
}

func TestGetActiveBracketWhenNoneExists(t *testing.T) {
	server := newTestServer(t)
	r := gin.New()
	r.GET("/api/v1/brackets/active", server.GetActiveBracket)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/brackets/active", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	response := body["response"].(map[string]interface{})
	assert.Nil(t, response["bracket"])
}

func TestGetActiveBracketReturnsDetail(t *testing.T) {
	server := newTestServer(t)
	_, _ = createOpenBracket(t, server, 500)

	r := gin.New()
	r.GET("/api/v1/brackets/active", server.GetActiveBracket)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/brackets/active", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	response := body["response"].(map[string]interface{})
	bracket := response["bracket"].(map[string]interface{})
	assert.Equal(t, "Playoffs", bracket["name"])
	assert.Len(t, response["teams"].([]interface{}), 8)
	assert.Len(t, response["games"].([]interface{}), 7)
}

func TestSubmitBracketEntry(t *testing.T) {
	server := newTestServer(t)
	bracket, bySeed := createOpenBracket(t, server, 500)
	user := createTestUser(t, server.DB, "alice")

	r := gin.New()
	r.POST("/api/v1/brackets/:id/entries", asUser(user.ID, false), server.SubmitBracketEntry)

	w := httptest.NewRecorder()
	url := fmt.Sprintf("/api/v1/brackets/%d/entries", bracket.ID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(picksPayload(bySeed)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	entry := body["response"].(map[string]interface{})
	assert.Equal(t, float64(user.ID), entry["user_id"])
	assert.Equal(t, float64(0), entry["points"])

	// Duplicate submission gets the engine's message as a 400.
	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(picksPayload(bySeed)))
	req2.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusBadRequest, w2.Code)
	assert.Contains(t, w2.Body.String(), "You already submitted a bracket")
}

func TestSubmitBracketEntryRejectsUnknownJSONKeys(t *testing.T) {
	server := newTestServer(t)
	bracket, bySeed := createOpenBracket(t, server, 0)
	user := createTestUser(t, server.DB, "bob")

	r := gin.New()
	r.POST("/api/v1/brackets/:id/entries", asUser(user.ID, false), server.SubmitBracketEntry)

	payload := map[string]interface{}{
		"picks": map[string]map[string]uint{
			"round1": {"game1": bySeed[1], "game2": bySeed[4], "game3": bySeed[2], "game4": bySeed[3]},
			"round2": {"game1": bySeed[1], "game2": bySeed[2]},
			"round3": {"game1": bySeed[1]},
		},
		"extra": "field",
	}
	body, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	url := fmt.Sprintf("/api/v1/brackets/%d/entries", bracket.ID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid picks payload")
}

func TestSubmitBracketEntryMissingBracket(t *testing.T) {
	server := newTestServer(t)
	user := createTestUser(t, server.DB, "cara")

	r := gin.New()
	r.POST("/api/v1/brackets/:id/entries", asUser(user.ID, false), server.SubmitBracketEntry)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/brackets/999/entries",
		bytes.NewBufferString(`{"picks":{"round1":{},"round2":{},"round3":{}}}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMyBracketEntryNullWhenAbsent(t *testing.T) {
	server := newTestServer(t)
	bracket, _ := createOpenBracket(t, server, 0)
	user := createTestUser(t, server.DB, "dana")

	r := gin.New()
	r.GET("/api/v1/brackets/:id/entries/me", asUser(user.ID, false), server.GetMyBracketEntry)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/brackets/%d/entries/me", bracket.ID), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body["response"])
}

func TestBracketWinnerFlowUpdatesLeaderboard(t *testing.T) {
	server := newTestServer(t)
	bracket, bySeed := createOpenBracket(t, server, 0)
	admin := createTestUser(t, server.DB, "admin")
	server.DB.Model(&models.User{}).Where("id = ?", admin.ID).Update("is_admin", true)
	user := createTestUser(t, server.DB, "erin")

	r := gin.New()
	r.POST("/api/v1/brackets/:id/entries", asUser(user.ID, false), server.SubmitBracketEntry)
	r.PUT("/api/v1/brackets/:id/games/:gameId/winner", asUser(admin.ID, true), server.SetBracketGameWinner)
	r.GET("/api/v1/brackets/:id/leaderboard", server.GetBracketLeaderboard)

	// Submit a full entry.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/brackets/%d/entries", bracket.ID), bytes.NewBuffer(picksPayload(bySeed)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Record the quarterfinal-1 winner matching the entry's pick.
	var game models.BracketGame
	err := server.DB.Where("bracket_id = ? AND round = 1 AND game_number = 1", bracket.ID).First(&game).Error
	assert.NoError(t, err)

	winnerBody, _ := json.Marshal(map[string]uint{"winnerTeamId": bySeed[1]})
	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/brackets/%d/games/%d/winner", bracket.ID, game.ID), bytes.NewBuffer(winnerBody))
	req2.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)

	// The leaderboard now carries 10 points and the matching payout.
	w3 := httptest.NewRecorder()
	req3, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/brackets/%d/leaderboard", bracket.ID), nil)
	r.ServeHTTP(w3, req3)
	assert.Equal(t, http.StatusOK, w3.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w3.Body.Bytes(), &body))
	rows := body["response"].([]interface{})
	assert.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "erin", row["username"])
	assert.Equal(t, float64(10), row["points"])
	assert.Equal(t, float64(10000), row["payout"])
}

func TestSetBracketGameWinnerRejectsOutsider(t *testing.T) {
	server := newTestServer(t)
	bracket, bySeed := createOpenBracket(t, server, 0)
	admin := createTestUser(t, server.DB, "admin2")

	r := gin.New()
	r.PUT("/api/v1/brackets/:id/games/:gameId/winner", asUser(admin.ID, true), server.SetBracketGameWinner)

	var game models.BracketGame
	err := server.DB.Where("bracket_id = ? AND round = 1 AND game_number = 1", bracket.ID).First(&game).Error
	assert.NoError(t, err)

	// Seed 2 plays in game 3, not game 1.
	winnerBody, _ := json.Marshal(map[string]uint{"winnerTeamId": bySeed[2]})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/brackets/%d/games/%d/winner", bracket.ID, game.ID), bytes.NewBuffer(winnerBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Winner must be one of the teams in this game")
}

func TestSetBracketTeamsValidatesSeeds(t *testing.T) {
	server := newTestServer(t)
	admin := createTestUser(t, server.DB, "admin3")

	bracket := models.Bracket{Name: "Fresh", Status: models.BracketStatusOpen, PayoutPerPoint: 1000}
	assert.NoError(t, server.DB.Create(&bracket).Error)

	r := gin.New()
	r.PUT("/api/v1/brackets/:id/teams", asUser(admin.ID, true), server.SetBracketTeams)

	teams := make([]map[string]interface{}, 8)
	for i := range teams {
		teams[i] = map[string]interface{}{"seed": 1, "name": fmt.Sprintf("Team %d", i+1)}
	}
	body, _ := json.Marshal(map[string]interface{}{"teams": teams})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/brackets/%d/teams", bracket.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Seeds must be unique numbers from 1 to 8")
}
