package state

import (
	"fmt"

	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/rules"
)

// AddCustomGame stores a user-authored rule set under its own id.
func AddCustomGame(prev models.AppState, g models.GameRuleSet) (models.AppState, error) {
	if g.ID == "" {
		return prev, ErrGameIDRequired
	}
	if err := rules.Validate(g); err != nil {
		return prev, err
	}
	if rules.IsBuiltin(g.ID) || customIndex(prev, g.ID) >= 0 {
		return prev, fmt.Errorf("%w: %s", ErrGameConflict, g.ID)
	}
	g.IsCustom = true
	if g.ScoringMode == "" {
		g.ScoringMode = models.ScoringNumeric
	}
	next := clone(prev)
	next.CustomGames = append(next.CustomGames, g)
	return next, nil
}

// UpdateGameOverride patches a game. Built-ins accumulate the patch in the
// override map; custom games are edited in place.
func UpdateGameOverride(prev models.AppState, gameID string, patch models.RuleOverride) (models.AppState, error) {
	if i := customIndex(prev, gameID); i >= 0 {
		merged := rules.Merge(prev.CustomGames[i], patch)
		merged.ID = gameID
		merged.IsCustom = true
		if err := rules.Validate(merged); err != nil {
			return prev, err
		}
		next := clone(prev)
		next.CustomGames[i] = merged
		return next, nil
	}

	base, ok := builtin(gameID)
	if !ok {
		return prev, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	combined := rules.MergePatch(prev.GameOverrides[gameID], patch)
	if err := rules.Validate(rules.Merge(base, combined)); err != nil {
		return prev, err
	}
	next := clone(prev)
	next.GameOverrides[gameID] = combined
	return next, nil
}

// DeleteCustomGame removes a custom game together with its order entry.
// A game still played by the active session or an active tournament stays.
func DeleteCustomGame(prev models.AppState, gameID string) (models.AppState, error) {
	if rules.IsBuiltin(gameID) {
		return prev, ErrBuiltinGame
	}
	i := customIndex(prev, gameID)
	if i < 0 {
		return prev, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if prev.CurrentSession != nil && prev.CurrentSession.GameID == gameID {
		return prev, fmt.Errorf("%w: active session", ErrGameInUse)
	}
	for _, t := range prev.Tournaments {
		if t.GameID == gameID && t.Status == models.TournamentActive {
			return prev, fmt.Errorf("%w: tournament %s", ErrGameInUse, t.ID)
		}
	}
	next := clone(prev)
	next.CustomGames = append(next.CustomGames[:i], next.CustomGames[i+1:]...)
	delete(next.GameOverrides, gameID)
	next.GameOrder = without(next.GameOrder, gameID)
	return next, nil
}

// SetGameOrder stores the display order, dropping unknown and repeated ids.
func SetGameOrder(prev models.AppState, order []string) models.AppState {
	known := make(map[string]bool)
	for _, g := range Games(prev) {
		known[g.ID] = true
	}
	next := clone(prev)
	next.GameOrder = []string{}
	for _, id := range order {
		if !known[id] {
			continue
		}
		known[id] = false
		next.GameOrder = append(next.GameOrder, id)
	}
	return next
}

func builtin(id string) (models.GameRuleSet, bool) {
	for _, b := range rules.Builtins() {
		if b.ID == id {
			return b, true
		}
	}
	return models.GameRuleSet{}, false
}

func customIndex(st models.AppState, id string) int {
	for i, g := range st.CustomGames {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
