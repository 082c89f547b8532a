// Package standings keeps tournament standings: cumulative points, wins and
// games played per roster player across linked finished sessions.
package standings

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/scoring"
)

var (
	ErrAlreadyLinked      = errors.New("session is already linked to this tournament")
	ErrSessionNotFinished = errors.New("only finished sessions can be linked")
	ErrGameMismatch       = errors.New("session was played with a different game")
	ErrTournamentFinished = errors.New("tournament is finished")
)

// New creates an active tournament with a zeroed row per distinct player.
func New(id, name, gameID string, playerIDs []string, now time.Time) models.Tournament {
	t := models.Tournament{
		ID:        id,
		Name:      name,
		GameID:    gameID,
		PlayerIDs: []string{},
		Sessions:  []string{},
		Players:   []models.StandingRow{},
		Status:    models.TournamentActive,
		CreatedAt: now,
	}
	seen := make(map[string]struct{}, len(playerIDs))
	for _, pid := range playerIDs {
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		t.PlayerIDs = append(t.PlayerIDs, pid)
		t.Players = append(t.Players, models.StandingRow{PlayerID: pid})
	}
	return t
}

// Link credits a finished session to the tournament. The winner is computed
// with vc, the tournament's victory condition. Roster players absent from the
// session are untouched; session players outside the roster are ignored.
// In team sessions each member is credited with the team's total and win.
func Link(t models.Tournament, session models.GameSession, vc models.VictoryCondition) (models.Tournament, error) {
	switch {
	case t.Status == models.TournamentFinished:
		return t, ErrTournamentFinished
	case session.Status != models.SessionFinished:
		return t, ErrSessionNotFinished
	case session.GameID != t.GameID:
		return t, fmt.Errorf("%w: %s != %s", ErrGameMismatch, session.GameID, t.GameID)
	case t.HasSession(session.ID):
		return t, fmt.Errorf("%w: %s", ErrAlreadyLinked, session.ID)
	}

	winner, hasWinner := scoring.Winner(session, vc)
	credits := playerCredits(session, winner.ID, hasWinner)

	next := t.Clone()
	for i := range next.Players {
		row := &next.Players[i]
		c, ok := credits[row.PlayerID]
		if !ok {
			continue
		}
		row.TotalPoints += c.points
		row.GamesPlayed++
		if c.won {
			row.Wins++
		}
	}
	next.Sessions = append(next.Sessions, session.ID)
	return next, nil
}

type credit struct {
	points float64
	won    bool
}

func playerCredits(session models.GameSession, winnerID string, hasWinner bool) map[string]credit {
	out := make(map[string]credit)
	for _, p := range session.Ranked() {
		c := credit{points: p.TotalScore, won: hasWinner && p.ID == winnerID}
		if session.Mode == models.ModeTeams {
			for _, member := range p.MemberIDs {
				out[member] = c
			}
			continue
		}
		out[p.ID] = c
	}
	return out
}

// Finish freezes the tournament.
func Finish(t models.Tournament, now time.Time) models.Tournament {
	next := t.Clone()
	next.Status = models.TournamentFinished
	next.FinishedAt = &now
	return next
}

// Standings returns the rows sorted by total points, then wins, both
// descending; remaining ties keep roster order.
func Standings(t models.Tournament) []models.Standing {
	rows := append([]models.StandingRow{}, t.Players...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].Wins > rows[j].Wins
	})
	out := make([]models.Standing, len(rows))
	for i, r := range rows {
		out[i] = models.Standing{StandingRow: r, Rank: i + 1}
	}
	return out
}
