package models

import (
	"errors"
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID          uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Name        string    `gorm:"size:255;not null;unique" json:"name"`
	Type        string    `gorm:"size:40;not null" json:"type"`
	Description string    `gorm:"text" json:"description"`
	CoachName   string    `gorm:"size:255" json:"coach_name"`
	CoachEmail  string    `gorm:"size:100" json:"coach_email"`
	Players     []Player  `gorm:"foreignKey:TeamID" json:"players"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type Player struct {
	ID       uint   `gorm:"primary_key;autoIncrement" json:"id"`
	Team     Team   `json:"-"`
	TeamID   uint   `gorm:"not null;index" json:"team_id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Number   int    `json:"number"`
	Position string `gorm:"size:60" json:"position"`
}

func (t *Team) Prepare() {
	t.Name = html.EscapeString(strings.TrimSpace(t.Name))
	t.Type = html.EscapeString(strings.TrimSpace(t.Type))
	t.Description = html.EscapeString(strings.TrimSpace(t.Description))
	t.CoachName = html.EscapeString(strings.TrimSpace(t.CoachName))
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Team) Validate() map[string]string {
	errorsMap := make(map[string]string)

	if t.Name == "" {
		errorsMap["Required_name"] = errors.New("required name").Error()
	}
	if t.Type == "" {
		errorsMap["Required_type"] = errors.New("required type").Error()
	}

	return errorsMap
}

func (t *Team) SaveTeam(db *gorm.DB) (*Team, error) {
	if err := db.Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Team) FindAllTeams(db *gorm.DB) (*[]Team, error) {
	var teams []Team
	err := db.Preload("Players").Order("name asc").Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return &teams, nil
}

func (t *Team) FindTeamByID(db *gorm.DB, id uint) (*Team, error) {
	err := db.Preload("Players").Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Team) UpdateTeam(db *gorm.DB) (*Team, error) {
	t.UpdatedAt = time.Now()

	err := db.Model(&Team{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"name":        t.Name,
			"type":        t.Type,
			"description": t.Description,
			"coach_name":  t.CoachName,
			"coach_email": t.CoachEmail,
			"updated_at":  t.UpdatedAt,
		}).Error
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Team) DeleteTeam(db *gorm.DB, id uint) (int64, error) {
	if err := db.Where("team_id = ?", id).Delete(&Player{}).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&Team{}, id)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (p *Player) SavePlayer(db *gorm.DB) (*Player, error) {
	if err := db.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Player) FindTeamPlayers(db *gorm.DB, teamID uint) (*[]Player, error) {
	var players []Player
	err := db.Where("team_id = ?", teamID).Order("number asc").Find(&players).Error
	if err != nil {
		return nil, err
	}
	return &players, nil
}

func (p *Player) DeletePlayer(db *gorm.DB, id uint) (int64, error) {
	result := db.Delete(&Player{}, id)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
