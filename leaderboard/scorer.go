// Package leaderboard derives the sitewide ranking from resolved-bet
// history. Everything here is pure computation over in-memory records; the
// controller fetches users and bets and hands them in.
package leaderboard

import (
	"math"
	"sort"
)

type BetRecord struct {
	UserID       uint
	Status       string
	Outcome      string
	Amount       float64
	PotentialWin float64
}

type UserRecord struct {
	ID       uint
	Username string
	Balance  float64
	IsAdmin  bool
}

type UserStats struct {
	TotalBets     int     `json:"total_bets"`
	ResolvedCount int     `json:"resolved_count"`
	Won           int     `json:"won"`
	Lost          int     `json:"lost"`
	Pending       int     `json:"pending"`
	TotalWagered  float64 `json:"total_wagered"`
	TotalWinnings float64 `json:"total_winnings"`
	NetProfit     float64 `json:"net_profit"`
	WinRate       float64 `json:"win_rate"`
	ROI           float64 `json:"roi"`
}

// ScoreBreakdown holds each factor's weighted contribution, rounded to one
// decimal for display.
type ScoreBreakdown struct {
	WinRate  float64 `json:"win_rate"`
	ROI      float64 `json:"roi"`
	Profit   float64 `json:"profit"`
	Activity float64 `json:"activity"`
}

type RankingScore struct {
	Total     float64        `json:"total"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

type Standing struct {
	UserID   uint         `json:"user_id"`
	Username string       `json:"username"`
	Balance  float64      `json:"balance"`
	Stats    UserStats    `json:"stats"`
	Score    RankingScore `json:"ranking_score"`
	Tier     Tier         `json:"tier"`
}

type SortOrder string

const (
	SortByScore   SortOrder = "score"
	SortByBalance SortOrder = "balance"
	SortByWinRate SortOrder = "winRate"
	SortByProfit  SortOrder = "profit"
)

// Composite score weights: win rate 35%, ROI 25%, profit 25%, activity 15%.
const (
	weightWinRate  = 0.35
	weightROI      = 0.25
	weightProfit   = 0.25
	weightActivity = 0.15
)

// minBetsForFullScore scales down low-activity users; full weight only
// arrives at 3+ resolved bets.
const minBetsForFullScore = 3

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ComputeStats aggregates one user's bet records.
func ComputeStats(bets []BetRecord) UserStats {
	stats := UserStats{TotalBets: len(bets)}

	for _, bet := range bets {
		switch bet.Status {
		case "resolved":
			stats.ResolvedCount++
			stats.TotalWagered += bet.Amount
		case "pending":
			stats.Pending++
		}
		switch bet.Outcome {
		case "won":
			stats.Won++
			stats.TotalWinnings += bet.PotentialWin
		case "lost":
			stats.Lost++
		}
	}

	stats.NetProfit = stats.TotalWinnings - stats.TotalWagered
	if stats.ResolvedCount > 0 {
		stats.WinRate = float64(stats.Won) / float64(stats.ResolvedCount) * 100
	}
	if stats.TotalWagered > 0 {
		stats.ROI = stats.NetProfit / stats.TotalWagered * 100
	}
	return stats
}

// Rank computes standings for the whole cohort. Admin accounts are dropped
// before any normalization so they never skew cohort max/min. The sort is
// stable: ties keep input order.
func Rank(users []UserRecord, bets []BetRecord, order SortOrder) []Standing {
	betsByUser := make(map[uint][]BetRecord)
	for _, bet := range bets {
		betsByUser[bet.UserID] = append(betsByUser[bet.UserID], bet)
	}

	standings := make([]Standing, 0, len(users))
	for _, user := range users {
		if user.IsAdmin {
			continue
		}
		standings = append(standings, Standing{
			UserID:   user.ID,
			Username: user.Username,
			Balance:  user.Balance,
			Stats:    ComputeStats(betsByUser[user.ID]),
		})
	}

	// Normalization needs the full cohort's profit range and activity max.
	minProfit, maxProfit := 0.0, 0.0
	maxResolved := 0
	for i, s := range standings {
		if i == 0 || s.Stats.NetProfit < minProfit {
			minProfit = s.Stats.NetProfit
		}
		if i == 0 || s.Stats.NetProfit > maxProfit {
			maxProfit = s.Stats.NetProfit
		}
		if s.Stats.ResolvedCount > maxResolved {
			maxResolved = s.Stats.ResolvedCount
		}
	}

	for i := range standings {
		standings[i].Score = score(standings[i].Stats, minProfit, maxProfit, maxResolved)
		standings[i].Tier = TierFor(standings[i].Score.Total)
	}

	stableSortBy(standings, order)
	return standings
}

func score(stats UserStats, minProfit, maxProfit float64, maxResolved int) RankingScore {
	winRateScore := stats.WinRate

	// ROI maps -100%..+100% onto 0..100, saturating outside that range.
	roiScore := (stats.ROI + 100) / 2
	if roiScore < 0 {
		roiScore = 0
	}
	if roiScore > 100 {
		roiScore = 100
	}

	// Linear profit normalization over the cohort range; a flat cohort
	// (everyone identical) defaults to the midpoint instead of dividing by
	// zero.
	profitScore := 50.0
	if profitRange := maxProfit - minProfit; profitRange > 0 {
		profitScore = (stats.NetProfit - minProfit) / profitRange * 100
	}

	activityScore := 0.0
	if maxResolved > 0 {
		activityScore = float64(stats.ResolvedCount) / float64(maxResolved) * 100
	}

	rawScore := winRateScore*weightWinRate +
		roiScore*weightROI +
		profitScore*weightProfit +
		activityScore*weightActivity

	multiplier := float64(stats.ResolvedCount) / minBetsForFullScore
	if multiplier > 1 {
		multiplier = 1
	}

	return RankingScore{
		Total: round1(rawScore * multiplier),
		Breakdown: ScoreBreakdown{
			WinRate:  round1(winRateScore * weightWinRate),
			ROI:      round1(roiScore * weightROI),
			Profit:   round1(profitScore * weightProfit),
			Activity: round1(activityScore * weightActivity),
		},
	}
}

func stableSortBy(standings []Standing, order SortOrder) {
	less := func(a, b Standing) bool {
		switch order {
		case SortByBalance:
			return a.Balance > b.Balance
		case SortByWinRate:
			return a.Stats.WinRate > b.Stats.WinRate
		case SortByProfit:
			return a.Stats.NetProfit > b.Stats.NetProfit
		default:
			return a.Score.Total > b.Score.Total
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return less(standings[i], standings[j])
	})
}
