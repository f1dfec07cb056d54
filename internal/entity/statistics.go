package entity

// PlayerStatistics is the per-username aggregate of finished games.
// It lives outside the Game entity and survives process restarts.
type PlayerStatistics struct {
	Username   string `json:"username"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Draws      int    `json:"draws"`
	TotalGames int    `json:"total_games"`
}
