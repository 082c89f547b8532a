package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/standings"
)

// CreateTournamentInput describes a new tournament.
type CreateTournamentInput struct {
	Name      string   `json:"name"`
	GameID    string   `json:"gameId"`
	PlayerIDs []string `json:"playerIds"`
}

func CreateTournament(prev models.AppState, in CreateTournamentInput, id string, now time.Time) (models.AppState, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return prev, ErrTournamentNameRequired
	}
	if _, ok := ResolveGame(prev, in.GameID); !ok {
		return prev, fmt.Errorf("%w: %s", ErrGameNotFound, in.GameID)
	}
	for _, pid := range in.PlayerIDs {
		if _, ok := savedPlayer(prev, pid); !ok {
			return prev, fmt.Errorf("%w: %s", ErrPlayerNotFound, pid)
		}
	}
	next := clone(prev)
	next.Tournaments = append(next.Tournaments, standings.New(id, name, in.GameID, in.PlayerIDs, now))
	return next, nil
}

// LinkSession credits a finished session from history to a tournament, using
// the tournament game's victory condition.
func LinkSession(prev models.AppState, tournamentID, sessionID string) (models.AppState, error) {
	ti := tournamentIndex(prev, tournamentID)
	if ti < 0 {
		return prev, fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
	}
	si := historyIndex(prev, sessionID)
	if si < 0 {
		return prev, fmt.Errorf("%w: %s", ErrHistoryNotFound, sessionID)
	}
	t := prev.Tournaments[ti]
	set, ok := ResolveGame(prev, t.GameID)
	if !ok {
		return prev, fmt.Errorf("%w: %s", ErrGameNotFound, t.GameID)
	}
	linked, err := standings.Link(t, prev.GameHistory[si], set.VictoryCondition)
	if err != nil {
		return prev, err
	}
	next := clone(prev)
	next.Tournaments[ti] = linked
	return next, nil
}

func FinishTournament(prev models.AppState, id string, now time.Time) (models.AppState, error) {
	i := tournamentIndex(prev, id)
	if i < 0 {
		return prev, fmt.Errorf("%w: %s", ErrTournamentNotFound, id)
	}
	if prev.Tournaments[i].Status == models.TournamentFinished {
		return prev, ErrTournamentFinished
	}
	next := clone(prev)
	next.Tournaments[i] = standings.Finish(prev.Tournaments[i], now)
	return next, nil
}

func DeleteTournament(prev models.AppState, id string) (models.AppState, error) {
	i := tournamentIndex(prev, id)
	if i < 0 {
		return prev, fmt.Errorf("%w: %s", ErrTournamentNotFound, id)
	}
	next := clone(prev)
	next.Tournaments = append(next.Tournaments[:i], next.Tournaments[i+1:]...)
	return next, nil
}

// Tournament returns a tournament by id.
func Tournament(st models.AppState, id string) (models.Tournament, bool) {
	i := tournamentIndex(st, id)
	if i < 0 {
		return models.Tournament{}, false
	}
	return st.Tournaments[i].Clone(), true
}

func tournamentIndex(st models.AppState, id string) int {
	for i, t := range st.Tournaments {
		if t.ID == id {
			return i
		}
	}
	return -1
}
