package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// BracketPicks is the persisted pick structure: round -> "game<N>" -> team id.
// Decoding is strict; unknown top-level keys are rejected rather than
// silently defaulted.
type BracketPicks struct {
	Round1 map[string]uint `json:"round1"`
	Round2 map[string]uint `json:"round2"`
	Round3 map[string]uint `json:"round3"`
}

// PickKey builds the stable "game<N>" key for a game number within a round.
func PickKey(gameNumber int) string {
	return fmt.Sprintf("game%d", gameNumber)
}

func (p *BracketPicks) UnmarshalJSON(data []byte) error {
	type plain BracketPicks
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var decoded plain
	if err := dec.Decode(&decoded); err != nil {
		return err
	}
	*p = BracketPicks(decoded)
	if p.Round1 == nil {
		p.Round1 = map[string]uint{}
	}
	if p.Round2 == nil {
		p.Round2 = map[string]uint{}
	}
	if p.Round3 == nil {
		p.Round3 = map[string]uint{}
	}
	return nil
}

// Round returns the pick map for a round number; nil for out-of-range rounds.
func (p BracketPicks) Round(round int) map[string]uint {
	switch round {
	case 1:
		return p.Round1
	case 2:
		return p.Round2
	case 3:
		return p.Round3
	}
	return nil
}

// Value / Scan store picks as a JSON column, which works on both Postgres
// and the SQLite test driver.
func (p BracketPicks) Value() (driver.Value, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (p *BracketPicks) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = BracketPicks{Round1: map[string]uint{}, Round2: map[string]uint{}, Round3: map[string]uint{}}
		return nil
	case []byte:
		return p.UnmarshalJSON(v)
	case string:
		return p.UnmarshalJSON([]byte(v))
	}
	return errors.New("incompatible type for BracketPicks")
}

// BracketEntry is one user's submitted picks for a bracket. Picks are
// immutable after submission; points and payout are owned by the engine's
// recalculation and never written anywhere else.
type BracketEntry struct {
	ID        uint `gorm:"primary_key;autoIncrement" json:"id"`
	BracketID uint `gorm:"not null;index;uniqueIndex:idx_bracket_entry_user,priority:1" json:"bracket_id"`
	User      User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_bracket_entry_user,priority:2" json:"user_id"`

	Picks  BracketPicks `gorm:"type:text" json:"picks"`
	Points int          `gorm:"not null;default:0" json:"points"`
	Payout float64      `gorm:"not null;default:0" json:"payout"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (be *BracketEntry) FindBracketEntries(db *gorm.DB, bracketID uint) (*[]BracketEntry, error) {
	var entries []BracketEntry
	err := db.Where("bracket_id = ?", bracketID).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return &entries, nil
}

func (be *BracketEntry) FindUserEntry(db *gorm.DB, bracketID, userID uint) (*BracketEntry, error) {
	err := db.Where("bracket_id = ? AND user_id = ?", bracketID, userID).First(&be).Error
	if err != nil {
		return nil, err
	}
	return be, nil
}

// FindLeaderboardEntries joins entries with their owners, points descending,
// with admin accounts excluded.
func (be *BracketEntry) FindLeaderboardEntries(db *gorm.DB, bracketID uint) (*[]BracketEntry, error) {
	var entries []BracketEntry
	err := db.
		Joins("JOIN users ON users.id = bracket_entries.user_id").
		Where("bracket_entries.bracket_id = ? AND users.is_admin = ?", bracketID, false).
		Order("bracket_entries.points desc").
		Preload("User").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return &entries, nil
}
