package seed

import (
	"log"
	"time"

	"Longshot/models"

	"gorm.io/gorm"
)

var teams = []models.Team{
	{Name: "Northside Netters", Type: "Volleyball", CoachName: "Dana Reyes"},
	{Name: "Dockside Diggers", Type: "Volleyball", CoachName: "Sam Okafor"},
	{Name: "Ridge Rockets", Type: "Volleyball", CoachName: "Priya Nair"},
	{Name: "Harbor Hawks", Type: "Volleyball", CoachName: "Jesse Fontaine"},
	{Name: "Summit Spikers", Type: "Volleyball", CoachName: "Lee Tran"},
	{Name: "Valley Vipers", Type: "Volleyball", CoachName: "Morgan Castillo"},
	{Name: "Lakeside Lobos", Type: "Volleyball", CoachName: "Ari Bensoussan"},
	{Name: "Creekside Crushers", Type: "Volleyball", CoachName: "Robin Ueda"},
}

// Load populates a fresh database with a full demo league: teams, a week of
// games and an open tournament bracket ready to seed. It only adds rows when
// the tables are empty so a restart never duplicates data.
func Load(db *gorm.DB) {
	var teamCount int64
	if err := db.Model(&models.Team{}).Count(&teamCount).Error; err != nil {
		log.Printf("seed: cannot count teams: %v", err)
		return
	}
	if teamCount > 0 {
		log.Println("seed: teams already present, skipping demo data")
		return
	}

	for i := range teams {
		teams[i].Prepare()
		if err := db.Create(&teams[i]).Error; err != nil {
			log.Fatalf("seed: cannot create team: %v", err)
		}
	}

	now := time.Now()
	games := []models.Game{
		{HomeTeamID: teams[0].ID, AwayTeamID: teams[1].ID, Sport: "Volleyball", Location: "North Gym", GameDate: now.Add(24 * time.Hour), Visible: true},
		{HomeTeamID: teams[2].ID, AwayTeamID: teams[3].ID, Sport: "Volleyball", Location: "Harbor Court", GameDate: now.Add(36 * time.Hour), Visible: true},
		{HomeTeamID: teams[4].ID, AwayTeamID: teams[5].ID, Sport: "Volleyball", Location: "Summit Arena", GameDate: now.Add(72 * time.Hour)},
		{HomeTeamID: teams[6].ID, AwayTeamID: teams[7].ID, Sport: "Volleyball", Location: "Creekside Gym", GameDate: now.Add(96 * time.Hour)},
	}
	for i := range games {
		games[i].Prepare()
		if err := db.Create(&games[i]).Error; err != nil {
			log.Fatalf("seed: cannot create game: %v", err)
		}
	}

	propBet := models.PropBet{
		Title:       "Any match goes to five sets this week?",
		Description: "Yes pays if at least one scheduled match reaches a fifth set.",
		TeamType:    "Volleyball",
		YesOdds:     2.5,
		NoOdds:      1.4,
	}
	propBet.Prepare()
	if err := db.Create(&propBet).Error; err != nil {
		log.Fatalf("seed: cannot create prop bet: %v", err)
	}

	bracket := models.Bracket{
		Name:           "Season Opener Invitational",
		Season:         now.Format("2006"),
		EntryFee:       500,
		PayoutPerPoint: 1000,
	}
	bracket.Prepare()
	if err := db.Create(&bracket).Error; err != nil {
		log.Fatalf("seed: cannot create bracket: %v", err)
	}

	bracketTeams := make([]models.BracketTeam, len(teams))
	for i := range teams {
		bracketTeams[i] = models.BracketTeam{Seed: i + 1, Name: teams[i].Name}
	}
	if err := models.ReplaceBracketTeams(db, bracket.ID, bracketTeams); err != nil {
		log.Fatalf("seed: cannot create bracket teams: %v", err)
	}

	log.Println("seed: demo data loaded")
}
