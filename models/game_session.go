package models

import "time"

// SessionStatus представляет статусы игровой сессии.
type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionFinished SessionStatus = "finished"
)

// ParticipationMode определяет, кого ранжирует сессия: игроков или команды.
type ParticipationMode string

const (
	ModePlayers ParticipationMode = "players"
	ModeTeams   ParticipationMode = "teams"
)

// GameSession описывает одну партию от старта до завершения.
type GameSession struct {
	ID           string            `json:"id"`
	GameID       string            `json:"gameId"`
	Mode         ParticipationMode `json:"mode,omitempty"`
	Players      []Participant     `json:"players"`
	Teams        []Participant     `json:"teams,omitempty"`
	CurrentRound int               `json:"currentRound"`
	Status       SessionStatus     `json:"status"`
	StartedAt    time.Time         `json:"startedAt"`
	FinishedAt   *time.Time        `json:"finishedAt,omitempty"`
	TournamentID string            `json:"tournamentId,omitempty"`
}

// Ranked returns the entities that are scored and ranked in this session.
func (s GameSession) Ranked() []Participant {
	if s.Mode == ModeTeams {
		return s.Teams
	}
	return s.Players
}

// Clone returns a deep copy of the session.
func (s GameSession) Clone() GameSession {
	c := s
	c.Players = cloneParticipants(s.Players)
	if s.Teams != nil {
		c.Teams = cloneParticipants(s.Teams)
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		c.FinishedAt = &t
	}
	return c
}

func cloneParticipants(in []Participant) []Participant {
	out := make([]Participant, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
