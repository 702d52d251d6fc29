package models

import (
	"errors"
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	BracketStatusOpen       = "open"
	BracketStatusLocked     = "locked"
	BracketStatusInProgress = "in-progress"
	BracketStatusCompleted  = "completed"
)

// Bracket is one 8-team, 3-round single-elimination tournament being bet on.
// Entry fee and payout rate are admin-editable while the bracket is not
// completed; the engine flips status to completed when the final is decided.
type Bracket struct {
	ID             uint    `gorm:"primary_key;autoIncrement" json:"id"`
	Name           string  `gorm:"size:255;not null" json:"name"`
	Season         string  `gorm:"size:60" json:"season"`
	EntryFee       float64 `gorm:"not null;default:0" json:"entry_fee"`
	PayoutPerPoint float64 `gorm:"not null;default:1000" json:"payout_per_point"`
	Status         string  `gorm:"size:20;not null;default:'open'" json:"status"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func validBracketStatus(status string) bool {
	switch status {
	case BracketStatusOpen, BracketStatusLocked, BracketStatusInProgress, BracketStatusCompleted:
		return true
	}
	return false
}

func (b *Bracket) Prepare() {
	b.Name = html.EscapeString(strings.TrimSpace(b.Name))
	b.Season = html.EscapeString(strings.TrimSpace(b.Season))
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()

	if b.Status == "" {
		b.Status = BracketStatusOpen
	}
	if b.PayoutPerPoint == 0 {
		b.PayoutPerPoint = 1000
	}
}

func (b *Bracket) Validate() map[string]string {
	errorsMap := make(map[string]string)

	if b.Name == "" {
		errorsMap["Required_name"] = errors.New("required name").Error()
	}
	if !validBracketStatus(b.Status) {
		errorsMap["Invalid_status"] = errors.New("invalid bracket status").Error()
	}
	if b.EntryFee < 0 {
		errorsMap["Invalid_entry_fee"] = errors.New("entry fee cannot be negative").Error()
	}
	if b.PayoutPerPoint < 0 {
		errorsMap["Invalid_payout_per_point"] = errors.New("payout per point cannot be negative").Error()
	}

	return errorsMap
}

func (b *Bracket) SaveBracket(db *gorm.DB) (*Bracket, error) {
	if err := db.Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bracket) FindBracketByID(db *gorm.DB, id uint) (*Bracket, error) {
	err := db.Where("id = ?", id).First(&b).Error
	if err != nil {
		return nil, err
	}
	return b, nil
}

// FindActiveBracket returns the most recently created bracket, completed or
// not, so the frontend can keep showing final standings after the tournament.
func (b *Bracket) FindActiveBracket(db *gorm.DB) (*Bracket, error) {
	err := db.
		Where("status IN ?", []string{BracketStatusOpen, BracketStatusLocked, BracketStatusInProgress, BracketStatusCompleted}).
		Order("created_at desc").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bracket) FindAllBrackets(db *gorm.DB) (*[]Bracket, error) {
	var brackets []Bracket
	err := db.Order("created_at desc").Find(&brackets).Error
	if err != nil {
		return nil, err
	}
	return &brackets, nil
}

func (b *Bracket) UpdateBracket(db *gorm.DB) (*Bracket, error) {
	b.UpdatedAt = time.Now()

	err := db.Model(&Bracket{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"name":             b.Name,
			"season":           b.Season,
			"entry_fee":        b.EntryFee,
			"payout_per_point": b.PayoutPerPoint,
			"status":           b.Status,
			"updated_at":       b.UpdatedAt,
		}).Error
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bracket) DeleteBracket(db *gorm.DB, id uint) (int64, error) {
	if err := db.Where("bracket_id = ?", id).Delete(&BracketEntry{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("bracket_id = ?", id).Delete(&BracketGame{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("bracket_id = ?", id).Delete(&BracketTeam{}).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&Bracket{}, id)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
