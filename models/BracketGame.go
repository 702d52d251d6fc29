package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BracketGameScheduled = "scheduled"
	BracketGameCompleted = "completed"

	// Rounds 1..3: quarterfinals (4 games), semifinals (2), final (1).
	BracketRounds = 3
)

// BracketGame is one slot in the single-elimination grid. Team slots in
// rounds 2 and 3 are only ever populated by winner propagation, never
// directly by admins.
type BracketGame struct {
	ID         uint `gorm:"primary_key;autoIncrement" json:"id"`
	BracketID  uint `gorm:"not null;index;uniqueIndex:idx_bracket_round_game,priority:1" json:"bracket_id"`
	Round      int  `gorm:"not null;uniqueIndex:idx_bracket_round_game,priority:2" json:"round"`
	GameNumber int  `gorm:"not null;uniqueIndex:idx_bracket_round_game,priority:3" json:"game_number"`

	Team1ID      *uint  `json:"team1_id"`
	Team2ID      *uint  `json:"team2_id"`
	WinnerTeamID *uint  `json:"winner_team_id"`
	Status       string `gorm:"size:20;not null;default:'scheduled'" json:"status"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// GamesPerRound returns how many games round r holds in the fixed 8-team grid.
func GamesPerRound(round int) int {
	switch round {
	case 1:
		return 4
	case 2:
		return 2
	case 3:
		return 1
	}
	return 0
}

func (bg *BracketGame) FindBracketGames(db *gorm.DB, bracketID uint) (*[]BracketGame, error) {
	var games []BracketGame
	err := db.Where("bracket_id = ?", bracketID).
		Order("round asc").
		Order("game_number asc").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return &games, nil
}

func (bg *BracketGame) FindBracketGameByID(db *gorm.DB, bracketID, gameID uint) (*BracketGame, error) {
	err := db.Where("id = ? AND bracket_id = ?", gameID, bracketID).First(&bg).Error
	if err != nil {
		return nil, err
	}
	return bg, nil
}
