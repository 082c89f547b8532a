package state

import (
	"encoding/json"
	"fmt"

	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/scoring"
)

// Encode serialises the whole state blob.
func Encode(st models.AppState) ([]byte, error) {
	st.Version = models.StateVersion
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Decode parses a state blob. Blobs written by older versions may lack whole
// collections or fields; those are filled with empty values rather than
// rejected. Totals are recomputed from round scores.
func Decode(data []byte) (models.AppState, error) {
	st := Default()
	if err := json.Unmarshal(data, &st); err != nil {
		return Default(), fmt.Errorf("decode state: %w", err)
	}
	return Normalize(st), nil
}

// Normalize fills missing collections and repairs derived fields.
func Normalize(st models.AppState) models.AppState {
	st.Version = models.StateVersion
	if st.SavedPlayers == nil {
		st.SavedPlayers = []models.SavedPlayer{}
	}
	if st.GameHistory == nil {
		st.GameHistory = []models.GameSession{}
	}
	if st.Tournaments == nil {
		st.Tournaments = []models.Tournament{}
	}
	if st.CustomGames == nil {
		st.CustomGames = []models.GameRuleSet{}
	}
	if st.GameOverrides == nil {
		st.GameOverrides = map[string]models.RuleOverride{}
	}
	if st.GameOrder == nil {
		st.GameOrder = []string{}
	}

	for i := range st.CustomGames {
		st.CustomGames[i].IsCustom = true
	}

	if st.CurrentSession != nil {
		s := *st.CurrentSession
		var vc models.VictoryCondition
		if set, ok := ResolveGame(st, s.GameID); ok {
			vc = set.VictoryCondition
		}
		s = scoring.Normalize(s, vc)
		if s.Status == "" {
			s.Status = models.SessionActive
		}
		st.CurrentSession = &s
	}
	for i, s := range st.GameHistory {
		s = scoring.Normalize(s, "")
		if s.Status == "" {
			s.Status = models.SessionFinished
		}
		st.GameHistory[i] = s
	}
	for i, t := range st.Tournaments {
		st.Tournaments[i] = normalizeTournament(t)
	}
	return st
}

func normalizeTournament(t models.Tournament) models.Tournament {
	if t.Status == "" {
		t.Status = models.TournamentActive
	}
	if t.Sessions == nil {
		t.Sessions = []string{}
	}
	if t.Players == nil {
		t.Players = []models.StandingRow{}
	}
	// Older blobs carried standings rows without a separate roster.
	if t.PlayerIDs == nil {
		t.PlayerIDs = make([]string, 0, len(t.Players))
		for _, r := range t.Players {
			t.PlayerIDs = append(t.PlayerIDs, r.PlayerID)
		}
	}
	return t
}
