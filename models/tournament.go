package models

import "time"

// TournamentStatus представляет статусы турнира.
type TournamentStatus string

const (
	TournamentActive   TournamentStatus = "active"
	TournamentFinished TournamentStatus = "finished"
)

// Tournament представляет турнир, собирающий завершённые сессии одной игры в таблицу.
type Tournament struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	GameID     string           `json:"gameId"`
	PlayerIDs  []string         `json:"playerIds"`
	Sessions   []string         `json:"sessions"`
	Players    []StandingRow    `json:"players"`
	Status     TournamentStatus `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
}

func (t Tournament) HasSession(sessionID string) bool {
	for _, id := range t.Sessions {
		if id == sessionID {
			return true
		}
	}
	return false
}

func (t Tournament) Clone() Tournament {
	c := t
	c.PlayerIDs = append([]string{}, t.PlayerIDs...)
	c.Sessions = append([]string{}, t.Sessions...)
	c.Players = append([]StandingRow{}, t.Players...)
	if t.FinishedAt != nil {
		f := *t.FinishedAt
		c.FinishedAt = &f
	}
	return c
}
