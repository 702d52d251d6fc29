package responses

import (
	"time"

	"Longshot/models"
)

type BracketResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Season         string    `json:"season"`
	EntryFee       float64   `json:"entry_fee"`
	PayoutPerPoint float64   `json:"payout_per_point"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type BracketTeamResponse struct {
	ID   uint   `json:"id"`
	Seed int    `json:"seed"`
	Name string `json:"name"`
}

type BracketGameResponse struct {
	ID           uint   `json:"id"`
	Round        int    `json:"round"`
	GameNumber   int    `json:"game_number"`
	Team1ID      *uint  `json:"team1_id"`
	Team2ID      *uint  `json:"team2_id"`
	WinnerTeamID *uint  `json:"winner_team_id"`
	Status       string `json:"status"`
}

// BracketDetailResponse is the payload for both /brackets/active and
// /brackets/:id. Bracket is a pointer so "no active bracket" serializes as
// null rather than a zero struct.
type BracketDetailResponse struct {
	Bracket *BracketResponse      `json:"bracket"`
	Teams   []BracketTeamResponse `json:"teams"`
	Games   []BracketGameResponse `json:"games"`
}

type BracketLeaderboardRow struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Points    int       `json:"points"`
	Payout    float64   `json:"payout"`
	CreatedAt time.Time `json:"created_at"`
}

func ToBracketResponse(bracket *models.Bracket) *BracketResponse {
	if bracket == nil {
		return nil
	}
	return &BracketResponse{
		ID:             bracket.ID,
		Name:           bracket.Name,
		Season:         bracket.Season,
		EntryFee:       bracket.EntryFee,
		PayoutPerPoint: bracket.PayoutPerPoint,
		Status:         bracket.Status,
		CreatedAt:      bracket.CreatedAt,
		UpdatedAt:      bracket.UpdatedAt,
	}
}

func ToBracketDetail(bracket *models.Bracket, teams []models.BracketTeam, games []models.BracketGame) BracketDetailResponse {
	detail := BracketDetailResponse{
		Bracket: ToBracketResponse(bracket),
		Teams:   make([]BracketTeamResponse, len(teams)),
		Games:   make([]BracketGameResponse, len(games)),
	}
	for i, team := range teams {
		detail.Teams[i] = BracketTeamResponse{ID: team.ID, Seed: team.Seed, Name: team.Name}
	}
	for i, game := range games {
		detail.Games[i] = BracketGameResponse{
			ID:           game.ID,
			Round:        game.Round,
			GameNumber:   game.GameNumber,
			Team1ID:      game.Team1ID,
			Team2ID:      game.Team2ID,
			WinnerTeamID: game.WinnerTeamID,
			Status:       game.Status,
		}
	}
	return detail
}
