package leaderboard

// Tier labels are purely presentational score buckets.
type Tier struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

func TierFor(score float64) Tier {
	switch {
	case score >= 70:
		return Tier{Name: "Diamond", Emoji: "💎", Color: "#b9f2ff"}
	case score >= 55:
		return Tier{Name: "Platinum", Emoji: "⚪", Color: "#e5e4e2"}
	case score >= 40:
		return Tier{Name: "Gold", Emoji: "🥇", Color: "#ffd700"}
	case score >= 25:
		return Tier{Name: "Silver", Emoji: "🥈", Color: "#c0c0c0"}
	case score >= 10:
		return Tier{Name: "Bronze", Emoji: "🥉", Color: "#cd7f32"}
	default:
		return Tier{Name: "Rookie", Emoji: "🌱", Color: "#66bb6a"}
	}
}
