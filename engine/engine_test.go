package engine

import (
	"fmt"
	"testing"

	"Longshot/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Notification{},
		&models.Bracket{},
		&models.BracketTeam{},
		&models.BracketGame{},
		&models.BracketEntry{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	return New(db, nil), db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := models.User{
		Username: name,
		Email:    name + "@example.com",
		Password: "password123",
	}
	user.Prepare()
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

// createSeededBracket builds an open bracket with 8 teams and a seeded
// 7-game grid, returning the bracket and a seed -> team ID lookup.
func createSeededBracket(t *testing.T, e *Engine, db *gorm.DB, entryFee float64) (*models.Bracket, map[int]uint) {
	t.Helper()

	bracket := models.Bracket{
		Name:           "Test Invitational",
		Season:         "2026",
		EntryFee:       entryFee,
		PayoutPerPoint: 1000,
		Status:         models.BracketStatusOpen,
	}
	if err := db.Create(&bracket).Error; err != nil {
		t.Fatalf("Failed to create bracket: %v", err)
	}

	teams := make([]models.BracketTeam, models.BracketSize)
	for i := range teams {
		teams[i] = models.BracketTeam{Seed: i + 1, Name: fmt.Sprintf("Team %d", i+1)}
	}
	if err := models.ReplaceBracketTeams(db, bracket.ID, teams); err != nil {
		t.Fatalf("Failed to create bracket teams: %v", err)
	}

	if err := e.SeedGames(bracket.ID); err != nil {
		t.Fatalf("Failed to seed games: %v", err)
	}

	var saved []models.BracketTeam
	if err := db.Where("bracket_id = ?", bracket.ID).Find(&saved).Error; err != nil {
		t.Fatalf("Failed to load bracket teams: %v", err)
	}
	bySeed := make(map[int]uint, len(saved))
	for _, team := range saved {
		bySeed[team.Seed] = team.ID
	}
	return &bracket, bySeed
}

// validPicks picks seeds 1, 4, 2 and 3 through the quarterfinals, seeds 1
// and 2 through the semis, and seed 1 to win it all. Every pick is
// consistent with the round-1 pairings (1,8) (4,5) (2,7) (3,6).
func validPicks(bySeed map[int]uint) models.BracketPicks {
	return models.BracketPicks{
		Round1: map[string]uint{
			"game1": bySeed[1],
			"game2": bySeed[4],
			"game3": bySeed[2],
			"game4": bySeed[3],
		},
		Round2: map[string]uint{
			"game1": bySeed[1],
			"game2": bySeed[2],
		},
		Round3: map[string]uint{
			"game1": bySeed[1],
		},
	}
}

func findGame(t *testing.T, db *gorm.DB, bracketID uint, round, number int) *models.BracketGame {
	t.Helper()

	var game models.BracketGame
	err := db.Where("bracket_id = ? AND round = ? AND game_number = ?", bracketID, round, number).First(&game).Error
	if err != nil {
		t.Fatalf("Failed to load game r%dg%d: %v", round, number, err)
	}
	return &game
}

func userBalance(t *testing.T, db *gorm.DB, userID uint) float64 {
	t.Helper()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	return user.Balance
}

func TestSeedGamesCreatesFullGrid(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 0)

	var games []models.BracketGame
	err := db.Where("bracket_id = ?", bracket.ID).Order("round asc, game_number asc").Find(&games).Error
	assert.NoError(t, err)
	assert.Len(t, games, 7)

	// Round 1 pairings follow the fixed seed grid.
	pairings := [][2]int{{1, 8}, {4, 5}, {2, 7}, {3, 6}}
	for i, pairing := range pairings {
		game := games[i]
		assert.Equal(t, 1, game.Round)
		assert.Equal(t, i+1, game.GameNumber)
		if assert.NotNil(t, game.Team1ID) && assert.NotNil(t, game.Team2ID) {
			assert.Equal(t, bySeed[pairing[0]], *game.Team1ID)
			assert.Equal(t, bySeed[pairing[1]], *game.Team2ID)
		}
	}

	// Rounds 2 and 3 exist but have empty slots until winners propagate.
	for _, game := range games[4:] {
		assert.Nil(t, game.Team1ID)
		assert.Nil(t, game.Team2ID)
		assert.Nil(t, game.WinnerTeamID)
		assert.Equal(t, models.BracketGameScheduled, game.Status)
	}
}

func TestSeedGamesRejectsSecondRun(t *testing.T) {
	e, db := setupEngine(t)
	bracket, _ := createSeededBracket(t, e, db, 0)

	err := e.SeedGames(bracket.ID)
	assert.EqualError(t, err, "Games already seeded for this bracket")
	assert.True(t, IsClientError(err))
}

func TestSeedGamesRequiresEightTeams(t *testing.T) {
	e, db := setupEngine(t)

	bracket := models.Bracket{Name: "Short Field", Status: models.BracketStatusOpen, PayoutPerPoint: 1000}
	assert.NoError(t, db.Create(&bracket).Error)

	teams := []models.BracketTeam{
		{Seed: 1, Name: "Only"},
		{Seed: 2, Name: "Two"},
	}
	assert.NoError(t, models.ReplaceBracketTeams(db, bracket.ID, teams))

	err := e.SeedGames(bracket.ID)
	assert.EqualError(t, err, "You must set all 8 teams before seeding games")
}

func TestSubmitEntryDebitsFeeAndStoresPicks(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 500)
	user := createUser(t, db, "alice")

	entry, err := e.SubmitEntry(bracket.ID, user.ID, validPicks(bySeed))
	assert.NoError(t, err)
	assert.NotNil(t, entry)
	assert.Equal(t, 0, entry.Points)
	assert.Equal(t, float64(0), entry.Payout)

	// Starting balance minus the entry fee.
	assert.Equal(t, float64(500), userBalance(t, db, user.ID))

	var tx models.Transaction
	err = db.Where("user_id = ? AND kind = ?", user.ID, models.TxBracketEntry).First(&tx).Error
	assert.NoError(t, err)
	assert.Equal(t, float64(-500), tx.Amount)
	assert.Equal(t, "Test Invitational bracket entry fee", tx.Note)
}

func TestSubmitEntryRejectsSemifinalFromWrongSide(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 500)
	user := createUser(t, db, "bob")

	picks := validPicks(bySeed)
	// Seed 2 won quarterfinal game 3, so it cannot appear in semifinal 1.
	picks.Round2["game1"] = bySeed[2]

	entry, err := e.SubmitEntry(bracket.ID, user.ID, picks)
	assert.Nil(t, entry)
	assert.EqualError(t, err, "Semifinal picks must come from your quarterfinal winners")
	assert.True(t, IsClientError(err))

	// Validation failure leaves no partial state: no entry, no debit.
	var count int64
	db.Model(&models.BracketEntry{}).Where("bracket_id = ?", bracket.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, float64(1000), userBalance(t, db, user.ID))
}

func TestSubmitEntryRejectsIncompleteAndUnknownPicks(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 0)
	user := createUser(t, db, "cara")

	missing := validPicks(bySeed)
	delete(missing.Round1, "game2")
	_, err := e.SubmitEntry(bracket.ID, user.ID, missing)
	assert.EqualError(t, err, "Complete all quarterfinal picks")

	noFinal := validPicks(bySeed)
	delete(noFinal.Round3, "game1")
	_, err = e.SubmitEntry(bracket.ID, user.ID, noFinal)
	assert.EqualError(t, err, "Complete your final pick")

	extra := validPicks(bySeed)
	extra.Round2["game9"] = bySeed[1]
	_, err = e.SubmitEntry(bracket.ID, user.ID, extra)
	assert.Error(t, err)
	assert.True(t, IsClientError(err))
}

func TestSubmitEntryRejectsDuplicate(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 0)
	user := createUser(t, db, "dana")

	_, err := e.SubmitEntry(bracket.ID, user.ID, validPicks(bySeed))
	assert.NoError(t, err)

	_, err = e.SubmitEntry(bracket.ID, user.ID, validPicks(bySeed))
	assert.EqualError(t, err, "You already submitted a bracket")
}

func TestSubmitEntryRejectsClosedBracket(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 0)
	user := createUser(t, db, "erin")

	assert.NoError(t, db.Model(&models.Bracket{}).Where("id = ?", bracket.ID).
		Update("status", models.BracketStatusLocked).Error)

	_, err := e.SubmitEntry(bracket.ID, user.ID, validPicks(bySeed))
	assert.EqualError(t, err, "Bracket is not open for entries")
}

func TestSubmitEntryRequiresSeededGames(t *testing.T) {
	e, db := setupEngine(t)

	bracket := models.Bracket{Name: "Unseeded", Status: models.BracketStatusOpen, PayoutPerPoint: 1000}
	assert.NoError(t, db.Create(&bracket).Error)
	user := createUser(t, db, "fred")

	_, err := e.SubmitEntry(bracket.ID, user.ID, models.BracketPicks{
		Round1: map[string]uint{"game1": 1, "game2": 2, "game3": 3, "game4": 4},
		Round2: map[string]uint{"game1": 1, "game2": 3},
		Round3: map[string]uint{"game1": 1},
	})
	assert.EqualError(t, err, "Bracket games not seeded yet")
}

func TestSubmitEntryRequiresEntryFeeBalance(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 5000)
	user := createUser(t, db, "gil")

	_, err := e.SubmitEntry(bracket.ID, user.ID, validPicks(bySeed))
	assert.EqualError(t, err, "Insufficient balance for entry fee")
	assert.Equal(t, float64(1000), userBalance(t, db, user.ID))
}

func TestSetWinnerPropagatesSlotsDownstream(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 0)

	g1 := findGame(t, db, bracket.ID, 1, 1)
	g2 := findGame(t, db, bracket.ID, 1, 2)

	winner1 := bySeed[1]
	winner2 := bySeed[5]
	assert.NoError(t, e.SetWinner(bracket.ID, g1.ID, &winner1))
	assert.NoError(t, e.SetWinner(bracket.ID, g2.ID, &winner2))

	semi1 := findGame(t, db, bracket.ID, 2, 1)
	if assert.NotNil(t, semi1.Team1ID) && assert.NotNil(t, semi1.Team2ID) {
		assert.Equal(t, bySeed[1], *semi1.Team1ID)
		assert.Equal(t, bySeed[5], *semi1.Team2ID)
	}

	// The other semifinal stays empty until its quarterfinals resolve.
	semi2 := findGame(t, db, bracket.ID, 2, 2)
	assert.Nil(t, semi2.Team1ID)
	assert.Nil(t, semi2.Team2ID)
}

func TestSetWinnerRejectsTeamOutsideGame(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 0)

	g1 := findGame(t, db, bracket.ID, 1, 1)
	outsider := bySeed[2]
	err := e.SetWinner(bracket.ID, g1.ID, &outsider)
	assert.EqualError(t, err, "Winner must be one of the teams in this game")
}

// sweepBracket records winners for all seven games following the given
// picks, quarterfinals first so propagation fills the later slots.
func sweepBracket(t *testing.T, e *Engine, db *gorm.DB, bracketID uint, picks models.BracketPicks) {
	t.Helper()

	for round := 1; round <= models.BracketRounds; round++ {
		for n := 1; n <= models.GamesPerRound(round); n++ {
			game := findGame(t, db, bracketID, round, n)
			winner := picks.Round(round)[models.PickKey(n)]
			if err := e.SetWinner(bracketID, game.ID, &winner); err != nil {
				t.Fatalf("Failed to set winner r%dg%d: %v", round, n, err)
			}
		}
	}
}

func TestPerfectBracketPaysFullPayout(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 500)
	user := createUser(t, db, "hana")

	picks := validPicks(bySeed)
	_, err := e.SubmitEntry(bracket.ID, user.ID, picks)
	assert.NoError(t, err)

	sweepBracket(t, e, db, bracket.ID, picks)

	// 4 quarterfinals x 10 + 2 semis x 20 + final x 40 = 120 points.
	var entry models.BracketEntry
	assert.NoError(t, db.Where("bracket_id = ? AND user_id = ?", bracket.ID, user.ID).First(&entry).Error)
	assert.Equal(t, 120, entry.Points)
	assert.Equal(t, float64(120000), entry.Payout)

	// 1000 start - 500 fee + 120000 payout.
	assert.Equal(t, float64(120500), userBalance(t, db, user.ID))

	var reloaded models.Bracket
	assert.NoError(t, db.First(&reloaded, bracket.ID).Error)
	assert.Equal(t, models.BracketStatusCompleted, reloaded.Status)
}

func TestCorrectionCascadesAndAppliesNegativeDelta(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 500)
	user := createUser(t, db, "ivan")

	picks := validPicks(bySeed)
	_, err := e.SubmitEntry(bracket.ID, user.ID, picks)
	assert.NoError(t, err)
	sweepBracket(t, e, db, bracket.ID, picks)

	// Correct quarterfinal 1: seed 8 actually won. The recorded semifinal
	// and final winners depended on seed 1 and must be un-resolved.
	g1 := findGame(t, db, bracket.ID, 1, 1)
	upset := bySeed[8]
	assert.NoError(t, e.SetWinner(bracket.ID, g1.ID, &upset))

	semi1 := findGame(t, db, bracket.ID, 2, 1)
	assert.Nil(t, semi1.WinnerTeamID)
	assert.Equal(t, models.BracketGameScheduled, semi1.Status)
	final := findGame(t, db, bracket.ID, 3, 1)
	assert.Nil(t, final.WinnerTeamID)

	// Only quarterfinals 2-4 still match: 30 points, 30000 payout. The
	// 90000 difference is clawed back as a signed adjustment.
	var entry models.BracketEntry
	assert.NoError(t, db.Where("bracket_id = ? AND user_id = ?", bracket.ID, user.ID).First(&entry).Error)
	assert.Equal(t, 30, entry.Points)
	assert.Equal(t, float64(30000), entry.Payout)
	assert.Equal(t, float64(30500), userBalance(t, db, user.ID))

	var adjustment models.Transaction
	err = db.Where("user_id = ? AND kind = ?", user.ID, models.TxBracketAdjustment).First(&adjustment).Error
	assert.NoError(t, err)
	assert.Equal(t, float64(-90000), adjustment.Amount)
	assert.Equal(t, "Test Invitational bracket payout update", adjustment.Note)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 0)
	user := createUser(t, db, "june")

	picks := validPicks(bySeed)
	_, err := e.SubmitEntry(bracket.ID, user.ID, picks)
	assert.NoError(t, err)
	sweepBracket(t, e, db, bracket.ID, picks)

	balanceAfterSweep := userBalance(t, db, user.ID)
	var txCount, noteCount int64
	db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&txCount)
	db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&noteCount)

	// A no-change recalculation applies zero deltas: same balance, no new
	// ledger rows, no repeat notifications.
	assert.NoError(t, e.Recalculate(bracket.ID))
	assert.NoError(t, e.Recalculate(bracket.ID))

	assert.Equal(t, balanceAfterSweep, userBalance(t, db, user.ID))
	var txCountAfter, noteCountAfter int64
	db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&txCountAfter)
	db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&noteCountAfter)
	assert.Equal(t, txCount, txCountAfter)
	assert.Equal(t, noteCount, noteCountAfter)
}

func TestClearingWinnerReopensGame(t *testing.T) {
	e, db := setupEngine(t)
	bracket, bySeed := createSeededBracket(t, e, db, 0)

	g1 := findGame(t, db, bracket.ID, 1, 1)
	winner := bySeed[1]
	assert.NoError(t, e.SetWinner(bracket.ID, g1.ID, &winner))
	assert.NoError(t, e.SetWinner(bracket.ID, g1.ID, nil))

	reloaded := findGame(t, db, bracket.ID, 1, 1)
	assert.Nil(t, reloaded.WinnerTeamID)
	assert.Equal(t, models.BracketGameScheduled, reloaded.Status)

	semi1 := findGame(t, db, bracket.ID, 2, 1)
	assert.Nil(t, semi1.Team1ID)
}

func TestParseRoundPoints(t *testing.T) {
	points, err := ParseRoundPoints("")
	assert.NoError(t, err)
	assert.Equal(t, DefaultRoundPoints(), points)

	points, err = ParseRoundPoints("5,15,45")
	assert.NoError(t, err)
	assert.Equal(t, RoundPoints{1: 5, 2: 15, 3: 45}, points)

	_, err = ParseRoundPoints("5,15")
	assert.Error(t, err)
	_, err = ParseRoundPoints("a,b,c")
	assert.Error(t, err)
}
