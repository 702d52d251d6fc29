// Package scheduler flips game visibility on a timer: a game surfaces on the
// betting board two days before tip-off and disappears at the midnight
// (Pacific) after game day.
package scheduler

import (
	"log"
	"time"

	"Longshot/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const visibilityLeadTime = 48 * time.Hour

type Scheduler struct {
	db   *gorm.DB
	cron *cron.Cron
	loc  *time.Location
}

func New(db *gorm.DB) *Scheduler {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		log.Printf("scheduler: falling back to UTC: %v", err)
		loc = time.UTC
	}
	return &Scheduler{db: db, cron: cron.New(), loc: loc}
}

// Start runs one sweep immediately and then every 5 minutes.
func (s *Scheduler) Start() error {
	if err := s.Sweep(time.Now()); err != nil {
		log.Printf("scheduler: initial sweep failed: %v", err)
	}

	_, err := s.cron.AddFunc("*/5 * * * *", func() {
		if err := s.Sweep(time.Now()); err != nil {
			log.Printf("scheduler: sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// WindowFor returns the [show, hide) visibility window for a game date.
func (s *Scheduler) WindowFor(gameDate time.Time) (time.Time, time.Time) {
	local := gameDate.In(s.loc)
	show := local.Add(-visibilityLeadTime)
	hide := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)
	return show, hide
}

// Sweep reconciles every game's visible flag against its window.
func (s *Scheduler) Sweep(now time.Time) error {
	var games []models.Game
	if err := s.db.Find(&games).Error; err != nil {
		return err
	}

	for _, game := range games {
		show, hide := s.WindowFor(game.GameDate)
		visible := !now.Before(show) && now.Before(hide)
		if visible == game.Visible {
			continue
		}
		if err := s.db.Model(&models.Game{}).Where("id = ?", game.ID).Updates(map[string]interface{}{
			"visible":    visible,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
