package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"Longshot/models"

	"gorm.io/gorm"
)

// Engine owns the bracket lifecycle: game seeding, winner propagation, entry
// submission and delta-based payout recalculation. It is the only writer of
// BracketGame and BracketEntry rows.
type Engine struct {
	DB     *gorm.DB
	Points RoundPoints

	// One mutex per bracket. Two recalculations running concurrently for the
	// same bracket could double-apply a payout delta, so every mutating
	// operation serializes on its bracket.
	locks sync.Map
}

func New(db *gorm.DB, points RoundPoints) *Engine {
	if points == nil {
		points = DefaultRoundPoints()
	}
	return &Engine{DB: db, Points: points}
}

func (e *Engine) lockBracket(bracketID uint) func() {
	mu, _ := e.locks.LoadOrStore(bracketID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

//
// ===============================
// SEEDING
// ===============================
//

// round1Pairings is standard single-elimination bracketing for 8 seeds:
// game1 1v8, game2 4v5, game3 2v7, game4 3v6.
var round1Pairings = [4][2]int{{1, 8}, {4, 5}, {2, 7}, {3, 6}}

// SeedGames generates the 7-game grid for a bracket. It is a one-time,
// irreversible operation: round 1 is paired by seed, rounds 2 and 3 start
// with empty team slots.
func (e *Engine) SeedGames(bracketID uint) error {
	bracket := models.Bracket{}
	if _, err := bracket.FindBracketByID(e.DB, bracketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "Bracket"}
		}
		return storageError("load bracket", err)
	}

	var existing int64
	if err := e.DB.Model(&models.BracketGame{}).Where("bracket_id = ?", bracketID).Count(&existing).Error; err != nil {
		return storageError("count games", err)
	}
	if existing > 0 {
		return validationErrorf("Games already seeded for this bracket")
	}

	bracketTeam := models.BracketTeam{}
	teams, err := bracketTeam.FindBracketTeams(e.DB, bracketID)
	if err != nil {
		return storageError("load teams", err)
	}
	if len(*teams) != models.BracketSize {
		return validationErrorf("You must set all 8 teams before seeding games")
	}

	teamBySeed := make(map[int]uint, models.BracketSize)
	for _, team := range *teams {
		if team.Seed < 1 || team.Seed > models.BracketSize {
			return validationErrorf("Seeds must be unique numbers from 1 to 8")
		}
		if _, dup := teamBySeed[team.Seed]; dup {
			return validationErrorf("Seeds must be unique numbers from 1 to 8")
		}
		teamBySeed[team.Seed] = team.ID
	}
	if len(teamBySeed) != models.BracketSize {
		return validationErrorf("Seeds must be unique numbers from 1 to 8")
	}

	games := make([]models.BracketGame, 0, 7)
	for i, pairing := range round1Pairings {
		team1 := teamBySeed[pairing[0]]
		team2 := teamBySeed[pairing[1]]
		games = append(games, models.BracketGame{
			BracketID:  bracketID,
			Round:      1,
			GameNumber: i + 1,
			Team1ID:    &team1,
			Team2ID:    &team2,
			Status:     models.BracketGameScheduled,
		})
	}
	for round := 2; round <= models.BracketRounds; round++ {
		for n := 1; n <= models.GamesPerRound(round); n++ {
			games = append(games, models.BracketGame{
				BracketID:  bracketID,
				Round:      round,
				GameNumber: n,
				Status:     models.BracketGameScheduled,
			})
		}
	}

	if err := e.DB.Create(&games).Error; err != nil {
		return storageError("create games", err)
	}
	return nil
}

//
// ===============================
// WINNER ASSIGNMENT & PROPAGATION
// ===============================
//

// SetWinner records (or clears, with nil) a game's winner, propagates team
// slots downstream and recalculates every entry's points and payout.
func (e *Engine) SetWinner(bracketID, gameID uint, winnerTeamID *uint) error {
	unlock := e.lockBracket(bracketID)
	defer unlock()

	game := models.BracketGame{}
	if _, err := game.FindBracketGameByID(e.DB, bracketID, gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "Bracket game"}
		}
		return storageError("load game", err)
	}

	if winnerTeamID != nil && !inSlots(*winnerTeamID, game.Team1ID, game.Team2ID) {
		return validationErrorf("Winner must be one of the teams in this game")
	}

	status := models.BracketGameScheduled
	if winnerTeamID != nil {
		status = models.BracketGameCompleted
	}
	if err := e.DB.Model(&models.BracketGame{}).Where("id = ?", game.ID).Updates(map[string]interface{}{
		"winner_team_id": winnerTeamID,
		"status":         status,
		"updated_at":     time.Now(),
	}).Error; err != nil {
		return storageError("update winner", err)
	}

	if err := e.propagate(bracketID); err != nil {
		return err
	}
	return e.recalculateLocked(bracketID)
}

// Recalculate re-runs point and payout computation for every entry in the
// bracket. Safe to call repeatedly; a no-change run applies zero deltas.
func (e *Engine) Recalculate(bracketID uint) error {
	unlock := e.lockBracket(bracketID)
	defer unlock()
	return e.recalculateLocked(bracketID)
}

func inSlots(teamID uint, slot1, slot2 *uint) bool {
	if slot1 != nil && *slot1 == teamID {
		return true
	}
	if slot2 != nil && *slot2 == teamID {
		return true
	}
	return false
}

// propagate repopulates round-2 and round-3 team slots from upstream winners
// by fixed bracket position. A downstream game whose recorded winner no
// longer appears in its slots is reset to scheduled with no winner, so
// correcting an early-round result un-resolves everything that depended on it.
func (e *Engine) propagate(bracketID uint) error {
	bracketGame := models.BracketGame{}
	games, err := bracketGame.FindBracketGames(e.DB, bracketID)
	if err != nil {
		return storageError("load games", err)
	}

	byRound := make(map[int]map[int]*models.BracketGame)
	for i := range *games {
		game := &(*games)[i]
		if byRound[game.Round] == nil {
			byRound[game.Round] = make(map[int]*models.BracketGame)
		}
		byRound[game.Round][game.GameNumber] = game
	}

	updateGame := func(game *models.BracketGame, team1, team2 *uint) error {
		if game == nil {
			return nil
		}

		winner := game.WinnerTeamID
		status := game.Status
		switch {
		case winner != nil && !inSlots(*winner, team1, team2):
			winner = nil
			status = models.BracketGameScheduled
		case winner != nil && team1 != nil && team2 != nil:
			status = models.BracketGameCompleted
		case winner == nil:
			status = models.BracketGameScheduled
		}

		if err := e.DB.Model(&models.BracketGame{}).Where("id = ?", game.ID).Updates(map[string]interface{}{
			"team1_id":       team1,
			"team2_id":       team2,
			"winner_team_id": winner,
			"status":         status,
			"updated_at":     time.Now(),
		}).Error; err != nil {
			return storageError("propagate game", err)
		}

		game.Team1ID = team1
		game.Team2ID = team2
		game.WinnerTeamID = winner
		game.Status = status
		return nil
	}

	winnerOf := func(round, number int) *uint {
		if byRound[round] == nil || byRound[round][number] == nil {
			return nil
		}
		return byRound[round][number].WinnerTeamID
	}

	// Semifinal 1 <- quarterfinals 1,2; semifinal 2 <- quarterfinals 3,4.
	if err := updateGame(byRound[2][1], winnerOf(1, 1), winnerOf(1, 2)); err != nil {
		return err
	}
	if err := updateGame(byRound[2][2], winnerOf(1, 3), winnerOf(1, 4)); err != nil {
		return err
	}
	// Final <- semifinals 1,2.
	if err := updateGame(byRound[3][1], winnerOf(2, 1), winnerOf(2, 2)); err != nil {
		return err
	}

	if final := byRound[3][1]; final != nil && final.WinnerTeamID != nil {
		if err := e.DB.Model(&models.Bracket{}).Where("id = ?", bracketID).Updates(map[string]interface{}{
			"status":     models.BracketStatusCompleted,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return storageError("complete bracket", err)
		}
	}
	return nil
}

//
// ===============================
// RECALCULATION
// ===============================
//

func (e *Engine) computePoints(picks models.BracketPicks, winnersByRound map[int]map[string]uint) int {
	points := 0
	for round := 1; round <= models.BracketRounds; round++ {
		for gameKey, winnerID := range winnersByRound[round] {
			if picks.Round(round)[gameKey] == winnerID {
				points += e.Points[round]
			}
		}
	}
	return points
}

// recalculateLocked recomputes every entry from scratch and settles each via
// a signed delta against the previously stored payout. Recomputing fully
// rather than incrementally keeps repeated admin corrections idempotent.
// The batch aborts on the first storage error; the delta design makes a
// re-run safe, so a half-finished batch is recovered by running again.
func (e *Engine) recalculateLocked(bracketID uint) error {
	bracket := models.Bracket{}
	if _, err := bracket.FindBracketByID(e.DB, bracketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "Bracket"}
		}
		return storageError("load bracket", err)
	}

	bracketGame := models.BracketGame{}
	games, err := bracketGame.FindBracketGames(e.DB, bracketID)
	if err != nil {
		return storageError("load games", err)
	}

	winnersByRound := make(map[int]map[string]uint)
	for _, game := range *games {
		if game.WinnerTeamID == nil {
			continue
		}
		if winnersByRound[game.Round] == nil {
			winnersByRound[game.Round] = make(map[string]uint)
		}
		winnersByRound[game.Round][models.PickKey(game.GameNumber)] = *game.WinnerTeamID
	}

	bracketEntry := models.BracketEntry{}
	entries, err := bracketEntry.FindBracketEntries(e.DB, bracketID)
	if err != nil {
		return storageError("load entries", err)
	}

	for _, entry := range *entries {
		points := e.computePoints(entry.Picks, winnersByRound)
		payout := roundCurrency(float64(points) * bracket.PayoutPerPoint)
		delta := payout - entry.Payout

		err := e.DB.Transaction(func(tx *gorm.DB) error {
			if delta != 0 {
				kind := models.TxBracketPayout
				if delta < 0 {
					kind = models.TxBracketAdjustment
				}
				if err := models.UpdateUserBalance(tx, entry.UserID, delta); err != nil {
					return err
				}
				note := fmt.Sprintf("%s bracket payout update", bracket.Name)
				if err := models.CreateTransaction(tx, entry.UserID, kind, delta, note); err != nil {
					return err
				}
				dedup := fmt.Sprintf("bracket:%d:entry:%d:payout:%.0f", bracketID, entry.ID, payout)
				if err := models.NotifyOnce(tx, entry.UserID, "bracket_payout",
					"Bracket payout updated",
					fmt.Sprintf("Your %s entry is now worth %.0f points.", bracket.Name, float64(points)),
					dedup); err != nil {
					return err
				}
			}

			return tx.Model(&models.BracketEntry{}).Where("id = ?", entry.ID).Updates(map[string]interface{}{
				"points":     points,
				"payout":     payout,
				"updated_at": time.Now(),
			}).Error
		})
		if err != nil {
			return storageError("settle entry", err)
		}
	}
	return nil
}

//
// ===============================
// ENTRY SUBMISSION
// ===============================
//

// expectedPickKeys rejects pick maps carrying keys that do not belong to the
// round, instead of silently ignoring them.
func expectedPickKeys(picks map[string]uint, round int) error {
	valid := make(map[string]bool, models.GamesPerRound(round))
	for n := 1; n <= models.GamesPerRound(round); n++ {
		valid[models.PickKey(n)] = true
	}
	for key := range picks {
		if !valid[key] {
			return validationErrorf("Unexpected pick %q in round %d", key, round)
		}
	}
	return nil
}

// SubmitEntry validates and stores a user's picks. Validation failures leave
// no partial state: the fee debit and the entry insert share one transaction,
// and both happen only after every pick has been checked.
func (e *Engine) SubmitEntry(bracketID, userID uint, picks models.BracketPicks) (*models.BracketEntry, error) {
	unlock := e.lockBracket(bracketID)
	defer unlock()

	bracket := models.Bracket{}
	if _, err := bracket.FindBracketByID(e.DB, bracketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "Bracket"}
		}
		return nil, storageError("load bracket", err)
	}
	if bracket.Status != models.BracketStatusOpen {
		return nil, &InvalidStateError{Msg: "Bracket is not open for entries"}
	}

	var existing int64
	if err := e.DB.Model(&models.BracketEntry{}).
		Where("bracket_id = ? AND user_id = ?", bracketID, userID).
		Count(&existing).Error; err != nil {
		return nil, storageError("check entry", err)
	}
	if existing > 0 {
		return nil, &DuplicateEntryError{}
	}

	for round := 1; round <= models.BracketRounds; round++ {
		if err := expectedPickKeys(picks.Round(round), round); err != nil {
			return nil, err
		}
	}

	var round1Games []models.BracketGame
	if err := e.DB.Where("bracket_id = ? AND round = ?", bracketID, 1).
		Order("game_number asc").
		Find(&round1Games).Error; err != nil {
		return nil, storageError("load round 1", err)
	}
	if len(round1Games) != models.GamesPerRound(1) {
		return nil, &NotSeededError{}
	}

	round1Picks := make(map[int]uint, len(round1Games))
	for _, game := range round1Games {
		if game.Team1ID == nil || game.Team2ID == nil {
			return nil, &NotSeededError{}
		}
		pick, ok := picks.Round1[models.PickKey(game.GameNumber)]
		if !ok || pick == 0 {
			return nil, &IncompletePickError{Msg: "Complete all quarterfinal picks"}
		}
		if pick != *game.Team1ID && pick != *game.Team2ID {
			return nil, &InvalidPickError{Msg: "Quarterfinal pick must be one of the teams"}
		}
		round1Picks[game.GameNumber] = pick
	}

	// Semifinal picks must be internally consistent with the caller's own
	// quarterfinal picks, not with stored game state, so a bracket can be
	// filled out before any game is played.
	semi1Pick, semi1OK := picks.Round2[models.PickKey(1)]
	semi2Pick, semi2OK := picks.Round2[models.PickKey(2)]
	if !semi1OK || semi1Pick == 0 || !semi2OK || semi2Pick == 0 {
		return nil, &IncompletePickError{Msg: "Complete all semifinal picks"}
	}
	if (semi1Pick != round1Picks[1] && semi1Pick != round1Picks[2]) ||
		(semi2Pick != round1Picks[3] && semi2Pick != round1Picks[4]) {
		return nil, &InvalidPickError{Msg: "Semifinal picks must come from your quarterfinal winners"}
	}

	finalPick, finalOK := picks.Round3[models.PickKey(1)]
	if !finalOK || finalPick == 0 {
		return nil, &IncompletePickError{Msg: "Complete your final pick"}
	}
	if finalPick != semi1Pick && finalPick != semi2Pick {
		return nil, &InvalidPickError{Msg: "Final pick must be one of your semifinal winners"}
	}

	if bracket.EntryFee > 0 {
		user := models.User{}
		if _, err := user.FindUserByID(e.DB, userID); err != nil {
			return nil, &NotFoundError{Resource: "User"}
		}
		if user.Balance < bracket.EntryFee {
			return nil, &InsufficientBalanceError{}
		}
	}

	entry := models.BracketEntry{
		BracketID: bracketID,
		UserID:    userID,
		Picks:     picks,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if bracket.EntryFee > 0 {
			if err := models.UpdateUserBalance(tx, userID, -bracket.EntryFee); err != nil {
				return err
			}
			note := fmt.Sprintf("%s bracket entry fee", bracket.Name)
			if err := models.CreateTransaction(tx, userID, models.TxBracketEntry, -bracket.EntryFee, note); err != nil {
				return err
			}
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		// The composite unique index on (bracket_id, user_id) is the real
		// guard against two simultaneous submissions; the count above is
		// only the friendly fast path.
		if isUniqueViolation(err) {
			return nil, &DuplicateEntryError{}
		}
		return nil, storageError("create entry", err)
	}

	// A freshly submitted entry that already matches resolved games gets
	// credited immediately.
	if err := e.recalculateLocked(bracketID); err != nil {
		return nil, err
	}

	if _, err := entry.FindUserEntry(e.DB, bracketID, userID); err != nil {
		return nil, storageError("reload entry", err)
	}
	return &entry, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
