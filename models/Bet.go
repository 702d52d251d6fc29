package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	BetStatusPending  = "pending"
	BetStatusResolved = "resolved"

	BetOutcomeWon  = "won"
	BetOutcomeLost = "lost"
)

// ConfidenceMultipliers maps a wager's chosen risk tier to its payout
// multiplier. Higher confidence pays more but the stake is the same.
var ConfidenceMultipliers = map[string]float64{
	"low":    1.5,
	"medium": 2.0,
	"high":   3.0,
}

// Bet is a straight wager on a game winner or a yes/no prop. Exactly one of
// GameID/PropBetID is set; Choice holds "yes"/"no" for props and TeamID the
// picked side for games.
type Bet struct {
	ID     uint `gorm:"primary_key;autoIncrement" json:"id"`
	User   User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	GameID    *uint  `gorm:"index" json:"game_id"`
	TeamID    *uint  `json:"team_id"`
	PropBetID *uint  `gorm:"index" json:"prop_bet_id"`
	Choice    string `gorm:"size:10" json:"choice"`

	Amount       float64 `gorm:"not null" json:"amount"`
	Confidence   string  `gorm:"size:10;not null" json:"confidence"`
	Multiplier   float64 `gorm:"not null" json:"multiplier"`
	PotentialWin float64 `gorm:"not null" json:"potential_win"`

	Status     string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Outcome    string     `gorm:"size:10" json:"outcome"`
	ResolvedAt *time.Time `json:"resolved_at"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (b *Bet) Prepare() {
	b.Confidence = strings.ToLower(strings.TrimSpace(b.Confidence))
	b.Choice = strings.ToLower(strings.TrimSpace(b.Choice))
	b.Status = BetStatusPending
	b.Outcome = ""
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()

	if multiplier, ok := ConfidenceMultipliers[b.Confidence]; ok {
		b.Multiplier = multiplier
		b.PotentialWin = b.Amount * multiplier
	}
}

func (b *Bet) Validate() map[string]string {
	errorsMap := make(map[string]string)

	if b.Amount <= 0 {
		errorsMap["Invalid_amount"] = errors.New("bet amount must be positive").Error()
	}
	if _, ok := ConfidenceMultipliers[b.Confidence]; !ok {
		errorsMap["Invalid_confidence"] = errors.New("confidence must be low, medium or high").Error()
	}

	switch {
	case b.GameID != nil:
		if b.TeamID == nil {
			errorsMap["Required_team"] = errors.New("pick a team for a game bet").Error()
		}
	case b.PropBetID != nil:
		if b.Choice != "yes" && b.Choice != "no" {
			errorsMap["Invalid_choice"] = errors.New("prop bet choice must be yes or no").Error()
		}
	default:
		errorsMap["Required_target"] = errors.New("a bet needs a game or a prop bet").Error()
	}

	return errorsMap
}

func (b *Bet) SaveBet(db *gorm.DB) (*Bet, error) {
	if err := db.Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bet) FindUserBets(db *gorm.DB, uid uint) (*[]Bet, error) {
	var bets []Bet
	err := db.Where("user_id = ?", uid).Order("created_at desc").Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return &bets, nil
}

func (b *Bet) FindAllBets(db *gorm.DB) (*[]Bet, error) {
	var bets []Bet
	err := db.Order("created_at desc").Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return &bets, nil
}

func (b *Bet) FindPendingGameBets(db *gorm.DB, gameID uint) (*[]Bet, error) {
	var bets []Bet
	err := db.Where("game_id = ? AND status = ?", gameID, BetStatusPending).Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return &bets, nil
}

func (b *Bet) FindPendingPropBets(db *gorm.DB, propBetID uint) (*[]Bet, error) {
	var bets []Bet
	err := db.Where("prop_bet_id = ? AND status = ?", propBetID, BetStatusPending).Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return &bets, nil
}

// Resolve marks the bet settled. Won bets are credited their potential win
// and the credit is recorded in the ledger, all inside one transaction.
func (b *Bet) Resolve(db *gorm.DB, won bool, note string) error {
	outcome := BetOutcomeLost
	if won {
		outcome = BetOutcomeWon
	}
	now := time.Now()

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Bet{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
			"status":      BetStatusResolved,
			"outcome":     outcome,
			"resolved_at": now,
			"updated_at":  now,
		}).Error; err != nil {
			return err
		}

		if won {
			if err := UpdateUserBalance(tx, b.UserID, b.PotentialWin); err != nil {
				return err
			}
			if err := CreateTransaction(tx, b.UserID, TxBetPayout, b.PotentialWin, note); err != nil {
				return err
			}
		}

		b.Status = BetStatusResolved
		b.Outcome = outcome
		b.ResolvedAt = &now
		return nil
	})
}
