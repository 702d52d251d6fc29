package models

import (
	"errors"
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	GameStatusScheduled = "scheduled"
	GameStatusFinal     = "final"
)

type Game struct {
	ID         uint   `gorm:"primary_key;autoIncrement" json:"id"`
	HomeTeam   Team   `json:"home_team"`
	HomeTeamID uint   `gorm:"not null;index" json:"home_team_id"`
	AwayTeam   Team   `json:"away_team"`
	AwayTeamID uint   `gorm:"not null;index" json:"away_team_id"`
	Sport      string `gorm:"size:40" json:"sport"`
	Location   string `gorm:"size:255" json:"location"`

	GameDate time.Time `gorm:"not null;index" json:"game_date"`
	// Visible is flipped by the scheduler: games surface two days before
	// tip-off and disappear at the midnight after game day.
	Visible bool `gorm:"not null;default:false" json:"visible"`

	Status       string `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	HomeScore    *int   `json:"home_score"`
	AwayScore    *int   `json:"away_score"`
	WinnerTeamID *uint  `json:"winner_team_id"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (g *Game) Prepare() {
	g.Sport = html.EscapeString(strings.TrimSpace(g.Sport))
	g.Location = html.EscapeString(strings.TrimSpace(g.Location))
	g.HomeTeam = Team{}
	g.AwayTeam = Team{}
	g.CreatedAt = time.Now()
	g.UpdatedAt = time.Now()

	if g.Status == "" {
		g.Status = GameStatusScheduled
	}
}

func (g *Game) Validate() map[string]string {
	errorsMap := make(map[string]string)

	if g.HomeTeamID == 0 {
		errorsMap["Required_home_team"] = errors.New("required home team").Error()
	}
	if g.AwayTeamID == 0 {
		errorsMap["Required_away_team"] = errors.New("required away team").Error()
	}
	if g.HomeTeamID != 0 && g.HomeTeamID == g.AwayTeamID {
		errorsMap["Invalid_teams"] = errors.New("a team cannot play itself").Error()
	}
	if g.GameDate.IsZero() {
		errorsMap["Required_game_date"] = errors.New("required game date").Error()
	}

	return errorsMap
}

func (g *Game) SaveGame(db *gorm.DB) (*Game, error) {
	if err := db.Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// FindVisibleGames returns the games currently open on the betting board.
func (g *Game) FindVisibleGames(db *gorm.DB) (*[]Game, error) {
	var games []Game
	err := db.
		Preload("HomeTeam").
		Preload("AwayTeam").
		Where("visible = ?", true).
		Order("game_date asc").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return &games, nil
}

func (g *Game) FindAllGames(db *gorm.DB) (*[]Game, error) {
	var games []Game
	err := db.
		Preload("HomeTeam").
		Preload("AwayTeam").
		Order("game_date asc").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return &games, nil
}

func (g *Game) FindGameByID(db *gorm.DB, id uint) (*Game, error) {
	err := db.Preload("HomeTeam").Preload("AwayTeam").Where("id = ?", id).First(&g).Error
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) UpdateGame(db *gorm.DB) (*Game, error) {
	g.UpdatedAt = time.Now()

	err := db.Model(&Game{}).
		Where("id = ?", g.ID).
		Updates(map[string]interface{}{
			"sport":      g.Sport,
			"location":   g.Location,
			"game_date":  g.GameDate,
			"visible":    g.Visible,
			"updated_at": g.UpdatedAt,
		}).Error
	if err != nil {
		return nil, err
	}
	return g, nil
}

// RecordResult stores the final score and winner. Bet settlement is handled
// by the caller so it can run in the same request.
func (g *Game) RecordResult(db *gorm.DB, homeScore, awayScore int) error {
	winner := g.HomeTeamID
	if awayScore > homeScore {
		winner = g.AwayTeamID
	}
	g.HomeScore = &homeScore
	g.AwayScore = &awayScore
	g.WinnerTeamID = &winner
	g.Status = GameStatusFinal
	g.UpdatedAt = time.Now()

	return db.Model(&Game{}).
		Where("id = ?", g.ID).
		Updates(map[string]interface{}{
			"home_score":     g.HomeScore,
			"away_score":     g.AwayScore,
			"winner_team_id": g.WinnerTeamID,
			"status":         g.Status,
			"updated_at":     g.UpdatedAt,
		}).Error
}

func (g *Game) DeleteGame(db *gorm.DB, id uint) (int64, error) {
	result := db.Delete(&Game{}, id)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
