// Package rules holds the built-in game rule sets and resolves the effective
// rule set for a game id from built-ins, override patches and custom sets.
package rules

import "github.com/Dosada05/scoremaster/models"

func score(v float64) *float64 { return &v }

// builtins is never handed out directly; Builtins returns copies.
var builtins = []models.GameRuleSet{
	{
		ID:               "skyjo",
		Name:             "Skyjo",
		VictoryCondition: models.VictoryLowestScore,
		WinningScore:     score(100),
		AllowNegative:    true,
		RoundBased:       true,
		ScoringMode:      models.ScoringNumeric,
		ThemeColor:       "#3b82f6",
		Description:      "Keep your score low to win",
		Icon:             "cloud",
	},
	{
		ID:               "take6",
		Name:             "Take 6",
		VictoryCondition: models.VictoryLowestScore,
		WinningScore:     score(66),
		AllowNegative:    false,
		RoundBased:       true,
		ScoringMode:      models.ScoringNumeric,
		ThemeColor:       "#ef4444",
		Description:      "Avoid taking penalty cards",
		Icon:             "hexagon",
	},
	{
		ID:               "uno",
		Name:             "UNO",
		VictoryCondition: models.VictoryHighestScore,
		AllowNegative:    false,
		RoundBased:       true,
		ScoringMode:      models.ScoringWinnerTakesAll,
		ThemeColor:       "#f59e0b",
		Description:      "Highest score wins",
		Icon:             "circle",
	},
	{
		ID:               "catan",
		Name:             "Catan",
		VictoryCondition: models.VictoryHighestScore,
		AllowNegative:    false,
		RoundBased:       true,
		ScoringMode:      models.ScoringWinnerTakesAll,
		ThemeColor:       "#10b981",
		Description:      "Highest score wins",
		Icon:             "mountain",
	},
	{
		ID:               "generic",
		Name:             "Generic",
		VictoryCondition: models.VictoryHighestScore,
		AllowNegative:    true,
		RoundBased:       true,
		ScoringMode:      models.ScoringNumeric,
		ThemeColor:       "#8b5cf6",
		Description:      "For any tabletop game",
		Icon:             "dices",
	},
}

// Builtins returns a fresh copy of the built-in rule sets.
func Builtins() []models.GameRuleSet {
	out := make([]models.GameRuleSet, len(builtins))
	for i, b := range builtins {
		out[i] = copyRuleSet(b)
	}
	return out
}

// IsBuiltin reports whether id names a built-in game.
func IsBuiltin(id string) bool {
	for _, b := range builtins {
		if b.ID == id {
			return true
		}
	}
	return false
}

func copyRuleSet(g models.GameRuleSet) models.GameRuleSet {
	if g.WinningScore != nil {
		g.WinningScore = score(*g.WinningScore)
	}
	return g
}
