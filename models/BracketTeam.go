package models

import (
	"fmt"
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

// BracketSize is fixed: 8 teams, 3 scored rounds. The display bracket and
// the scored bracket share this one structure.
const BracketSize = 8

type BracketTeam struct {
	ID        uint   `gorm:"primary_key;autoIncrement" json:"id"`
	BracketID uint   `gorm:"not null;index;uniqueIndex:idx_bracket_seed,priority:1" json:"bracket_id"`
	Seed      int    `gorm:"not null;uniqueIndex:idx_bracket_seed,priority:2" json:"seed"`
	Name      string `gorm:"size:255;not null" json:"name"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (bt *BracketTeam) Prepare() {
	bt.Name = html.EscapeString(strings.TrimSpace(bt.Name))
	if bt.Name == "" {
		bt.Name = fmt.Sprintf("TBD Seed %d", bt.Seed)
	}
	bt.CreatedAt = time.Now()
}

// ReplaceBracketTeams swaps the full 8-team field for a bracket in one
// transaction. Seeding validation (unique 1..8) is the caller's job.
func ReplaceBracketTeams(db *gorm.DB, bracketID uint, teams []BracketTeam) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bracket_id = ?", bracketID).Delete(&BracketTeam{}).Error; err != nil {
			return err
		}
		for i := range teams {
			teams[i].ID = 0
			teams[i].BracketID = bracketID
			teams[i].Prepare()
			if err := tx.Create(&teams[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (bt *BracketTeam) FindBracketTeams(db *gorm.DB, bracketID uint) (*[]BracketTeam, error) {
	var teams []BracketTeam
	err := db.Where("bracket_id = ?", bracketID).Order("seed asc").Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return &teams, nil
}
