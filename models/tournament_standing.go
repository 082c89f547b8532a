package models

// StandingRow хранит накопленные результаты игрока в турнире.
type StandingRow struct {
	PlayerID    string  `json:"playerId"`
	TotalPoints float64 `json:"totalPoints"`
	Wins        int     `json:"wins"`
	GamesPlayed int     `json:"gamesPlayed"`
}

// Standing представляет строку таблицы вместе с местом.
type Standing struct {
	StandingRow
	Rank int `json:"rank"`
}
