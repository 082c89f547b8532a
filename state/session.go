package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/scoring"
	"github.com/Dosada05/scoremaster/standings"
)

// TeamInput groups saved players into a team for a team session.
type TeamInput struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

// StartSessionInput describes a new game session.
type StartSessionInput struct {
	GameID       string      `json:"gameId"`
	PlayerIDs    []string    `json:"playerIds"`
	Teams        []TeamInput `json:"teams,omitempty"`
	TournamentID string      `json:"tournamentId,omitempty"`
}

// StartSession creates the single active session. Players are snapshotted
// from the saved roster, so later roster edits do not reach the session.
func StartSession(prev models.AppState, in StartSessionInput, id string, now time.Time) (models.AppState, error) {
	if prev.CurrentSession != nil {
		return prev, ErrSessionActive
	}
	set, ok := ResolveGame(prev, in.GameID)
	if !ok {
		return prev, fmt.Errorf("%w: %s", ErrGameNotFound, in.GameID)
	}
	if in.TournamentID != "" {
		i := tournamentIndex(prev, in.TournamentID)
		if i < 0 {
			return prev, fmt.Errorf("%w: %s", ErrTournamentNotFound, in.TournamentID)
		}
		t := prev.Tournaments[i]
		if t.Status == models.TournamentFinished {
			return prev, ErrTournamentFinished
		}
		if t.GameID != set.ID {
			return prev, ErrTournamentGameMismatch
		}
	}

	players := make([]models.Participant, 0, len(in.PlayerIDs))
	for _, pid := range in.PlayerIDs {
		sp, ok := savedPlayer(prev, pid)
		if !ok {
			return prev, fmt.Errorf("%w: %s", ErrPlayerNotFound, pid)
		}
		players = append(players, models.Participant{
			ID:     sp.ID,
			Kind:   models.KindPlayer,
			Name:   sp.Name,
			Color:  sp.Color,
			Avatar: sp.Avatar,
		})
	}

	var teams []models.Participant
	for i, ti := range in.Teams {
		teamID := ti.ID
		if teamID == "" {
			teamID = fmt.Sprintf("%s-team-%d", id, i+1)
		}
		name := strings.TrimSpace(ti.Name)
		if name == "" {
			name = fmt.Sprintf("Team %d", i+1)
		}
		teams = append(teams, models.Participant{
			ID:        teamID,
			Kind:      models.KindTeam,
			Name:      name,
			MemberIDs: append([]string{}, ti.MemberIDs...),
		})
	}

	session, err := scoring.Start(id, set, players, teams, now)
	if err != nil {
		return prev, err
	}
	session.TournamentID = in.TournamentID

	next := clone(prev)
	next.CurrentSession = &session
	return next, nil
}

// SubmitScore records a score for participantID in the active session.
func SubmitScore(prev models.AppState, participantID string, value float64) (models.AppState, error) {
	if prev.CurrentSession == nil {
		return prev, ErrNoActiveSession
	}
	set, ok := ResolveGame(prev, prev.CurrentSession.GameID)
	if !ok {
		return prev, fmt.Errorf("%w: %s", ErrGameNotFound, prev.CurrentSession.GameID)
	}
	session, err := scoring.SubmitScore(*prev.CurrentSession, set, participantID, value)
	if err != nil {
		return prev, err
	}
	next := clone(prev)
	next.CurrentSession = &session
	return next, nil
}

// AdvanceRound moves a numeric-mode session to its next round.
func AdvanceRound(prev models.AppState) (models.AppState, error) {
	if prev.CurrentSession == nil {
		return prev, ErrNoActiveSession
	}
	if set, ok := ResolveGame(prev, prev.CurrentSession.GameID); ok && set.EffectiveScoringMode() == models.ScoringWinnerTakesAll {
		return prev, ErrAdvanceNotAllowed
	}
	session := scoring.AdvanceRound(*prev.CurrentSession)
	next := clone(prev)
	next.CurrentSession = &session
	return next, nil
}

// FinishSession moves the active session to the front of history. A session
// started for a tournament is linked to it when the tournament still accepts
// sessions.
func FinishSession(prev models.AppState, now time.Time) (models.AppState, error) {
	if prev.CurrentSession == nil {
		return prev, ErrNoActiveSession
	}
	done := scoring.Finish(*prev.CurrentSession, now)

	next := clone(prev)
	next.CurrentSession = nil
	next.GameHistory = append([]models.GameSession{done}, next.GameHistory...)

	if done.TournamentID == "" {
		return next, nil
	}
	i := tournamentIndex(next, done.TournamentID)
	if i < 0 {
		return next, nil
	}
	set, ok := ResolveGame(next, next.Tournaments[i].GameID)
	if !ok {
		return next, nil
	}
	if linked, err := standings.Link(next.Tournaments[i], done, set.VictoryCondition); err == nil {
		next.Tournaments[i] = linked
	}
	return next, nil
}

// QuitSession discards the active session without a history record.
func QuitSession(prev models.AppState) (models.AppState, error) {
	if prev.CurrentSession == nil {
		return prev, ErrNoActiveSession
	}
	next := clone(prev)
	next.CurrentSession = nil
	return next, nil
}
