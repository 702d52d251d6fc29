package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an in-app inbox row. Delivery (email, push) is out of
// scope; clients poll GET /notifications/me.
type Notification struct {
	ID     uint `gorm:"primary_key;autoIncrement" json:"id"`
	User   User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	Kind    string `gorm:"size:40;not null" json:"kind"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Message string `gorm:"text" json:"message"`
	Read    bool   `gorm:"not null;default:false" json:"read"`

	// DedupKey lets a re-run of bet settlement or bracket recalculation skip
	// notifications it already wrote.
	DedupKey string `gorm:"size:80;uniqueIndex" json:"-"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// NotifyOnce inserts a notification unless one with the same dedup key
// already exists. An empty key gets a random one, which never dedups.
func NotifyOnce(db *gorm.DB, userID uint, kind, title, message, dedupKey string) error {
	if dedupKey == "" {
		dedupKey = uuid.NewString()
	}

	var count int64
	if err := db.Model(&Notification{}).Where("dedup_key = ?", dedupKey).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	n := Notification{
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		DedupKey:  dedupKey,
		CreatedAt: time.Now(),
	}
	return db.Create(&n).Error
}

func (n *Notification) FindUserNotifications(db *gorm.DB, uid uint) (*[]Notification, error) {
	var notifications []Notification
	err := db.Where("user_id = ?", uid).Order("created_at desc").Limit(100).Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return &notifications, nil
}

func (n *Notification) MarkRead(db *gorm.DB, id, uid uint) (int64, error) {
	result := db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, uid).
		Update("read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
