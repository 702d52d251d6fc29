package models

import (
	"errors"
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	PropBetStatusOpen     = "open"
	PropBetStatusClosed   = "closed"
	PropBetStatusResolved = "resolved"
)

type PropBet struct {
	ID          uint    `gorm:"primary_key;autoIncrement" json:"id"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"text" json:"description"`
	TeamType    string  `gorm:"size:40;not null;default:'General'" json:"team_type"`
	YesOdds     float64 `gorm:"not null" json:"yes_odds"`
	NoOdds      float64 `gorm:"not null" json:"no_odds"`

	Status    string     `gorm:"size:20;not null;default:'open'" json:"status"`
	Outcome   string     `gorm:"size:10" json:"outcome"`
	ExpiresAt *time.Time `json:"expires_at"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (p *PropBet) Prepare() {
	p.Title = html.EscapeString(strings.TrimSpace(p.Title))
	p.Description = html.EscapeString(strings.TrimSpace(p.Description))
	p.TeamType = strings.TrimSpace(p.TeamType)
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	if p.TeamType == "" {
		p.TeamType = "General"
	}
	if p.Status == "" {
		p.Status = PropBetStatusOpen
	}
}

func (p *PropBet) Validate() map[string]string {
	errorsMap := make(map[string]string)

	if p.Title == "" {
		errorsMap["Required_title"] = errors.New("required title").Error()
	}
	if p.YesOdds <= 0 {
		errorsMap["Invalid_yes_odds"] = errors.New("yes odds must be positive").Error()
	}
	if p.NoOdds <= 0 {
		errorsMap["Invalid_no_odds"] = errors.New("no odds must be positive").Error()
	}

	return errorsMap
}

func (p *PropBet) SavePropBet(db *gorm.DB) (*PropBet, error) {
	if err := db.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PropBet) FindAllPropBets(db *gorm.DB) (*[]PropBet, error) {
	var propBets []PropBet
	err := db.Order("created_at desc").Find(&propBets).Error
	if err != nil {
		return nil, err
	}
	return &propBets, nil
}

func (p *PropBet) FindPropBetByID(db *gorm.DB, id uint) (*PropBet, error) {
	err := db.Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PropBet) UpdateStatus(db *gorm.DB, status, outcome string) error {
	p.Status = status
	p.Outcome = strings.ToLower(strings.TrimSpace(outcome))
	p.UpdatedAt = time.Now()

	return db.Model(&PropBet{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"status":     p.Status,
			"outcome":    p.Outcome,
			"updated_at": p.UpdatedAt,
		}).Error
}

func (p *PropBet) DeletePropBet(db *gorm.DB, id uint) (int64, error) {
	result := db.Delete(&PropBet{}, id)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
