// Package state holds the application state reducers. Each reducer is a pure
// function of the previous state and its arguments; it never mutates prev and
// returns prev unchanged together with an error when the intent is rejected.
package state

import (
	"maps"

	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/rules"
	"github.com/Dosada05/scoremaster/scoring"
)

// Default returns an empty state.
func Default() models.AppState {
	return models.AppState{
		Version:       models.StateVersion,
		SavedPlayers:  []models.SavedPlayer{},
		GameHistory:   []models.GameSession{},
		Tournaments:   []models.Tournament{},
		CustomGames:   []models.GameRuleSet{},
		GameOverrides: map[string]models.RuleOverride{},
		DarkMode:      true,
		GameOrder:     []string{},
	}
}

// clone copies the top-level collections so reducers can replace elements
// without touching prev. Elements themselves are replaced, never edited.
func clone(prev models.AppState) models.AppState {
	next := prev
	next.SavedPlayers = append([]models.SavedPlayer{}, prev.SavedPlayers...)
	next.GameHistory = append([]models.GameSession{}, prev.GameHistory...)
	next.Tournaments = append([]models.Tournament{}, prev.Tournaments...)
	next.CustomGames = append([]models.GameRuleSet{}, prev.CustomGames...)
	next.GameOverrides = maps.Clone(prev.GameOverrides)
	if next.GameOverrides == nil {
		next.GameOverrides = map[string]models.RuleOverride{}
	}
	next.GameOrder = append([]string{}, prev.GameOrder...)
	if prev.CurrentSession != nil {
		s := prev.CurrentSession.Clone()
		next.CurrentSession = &s
	}
	return next
}

// ResolveGame returns the effective rule set for gameID in st.
func ResolveGame(st models.AppState, gameID string) (models.GameRuleSet, bool) {
	return rules.Resolve(gameID, rules.Builtins(), st.GameOverrides, st.CustomGames)
}

// Games lists every effective rule set in the user's order.
func Games(st models.AppState) []models.GameRuleSet {
	return rules.Available(rules.Builtins(), st.GameOverrides, st.CustomGames, st.GameOrder)
}

// SessionView is the current session with the flags clients need.
type SessionView struct {
	Session         models.GameSession `json:"session"`
	Rules           models.GameRuleSet `json:"rules"`
	AllScored       bool               `json:"allScored"`
	WinConditionMet bool               `json:"winConditionMet"`
}

// CurrentSessionView describes the active session, if any.
func CurrentSessionView(st models.AppState) (SessionView, error) {
	if st.CurrentSession == nil {
		return SessionView{}, ErrNoActiveSession
	}
	set, ok := ResolveGame(st, st.CurrentSession.GameID)
	if !ok {
		return SessionView{}, ErrGameNotFound
	}
	return SessionView{
		Session:         st.CurrentSession.Clone(),
		Rules:           set,
		AllScored:       scoring.AllScoredThisRound(*st.CurrentSession),
		WinConditionMet: scoring.WinConditionMet(*st.CurrentSession, set),
	}, nil
}

// HistorySession finds a finished session by id.
func HistorySession(st models.AppState, id string) (models.GameSession, bool) {
	i := historyIndex(st, id)
	if i < 0 {
		return models.GameSession{}, false
	}
	return st.GameHistory[i].Clone(), true
}

// DeleteHistorySession removes a finished session. Tournaments keep their
// already credited points.
func DeleteHistorySession(prev models.AppState, id string) (models.AppState, error) {
	i := historyIndex(prev, id)
	if i < 0 {
		return prev, ErrHistoryNotFound
	}
	next := clone(prev)
	next.GameHistory = append(next.GameHistory[:i], next.GameHistory[i+1:]...)
	return next, nil
}

// ToggleDarkMode flips the persisted theme preference.
func ToggleDarkMode(prev models.AppState) models.AppState {
	next := clone(prev)
	next.DarkMode = !prev.DarkMode
	return next
}

func historyIndex(st models.AppState, id string) int {
	for i, s := range st.GameHistory {
		if s.ID == id {
			return i
		}
	}
	return -1
}
