package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction kinds written by the engine and the bet flows.
const (
	TxBetPlaced         = "bet_placed"
	TxBetPayout         = "bet_payout"
	TxBracketEntry      = "bracket_entry"
	TxBracketPayout     = "bracket_payout"
	TxBracketAdjustment = "bracket_adjustment"
)

// Transaction is the append-only ledger. Every balance change carries exactly
// one row recording the signed delta, never an absolute balance.
type Transaction struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Kind      string    `gorm:"size:40;not null" json:"kind"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Note      string    `gorm:"size:255" json:"note"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func CreateTransaction(db *gorm.DB, userID uint, kind string, amount float64, note string) error {
	tx := Transaction{
		UserID:    userID,
		Kind:      kind,
		Amount:    amount,
		Note:      note,
		CreatedAt: time.Now(),
	}
	return db.Create(&tx).Error
}

func (t *Transaction) FindUserTransactions(db *gorm.DB, uid uint) (*[]Transaction, error) {
	var transactions []Transaction
	err := db.Where("user_id = ?", uid).Order("created_at desc").Limit(200).Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return &transactions, nil
}
