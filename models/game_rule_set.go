package models

// VictoryCondition определяет направление ранжирования.
type VictoryCondition string

const (
	VictoryLowestScore  VictoryCondition = "lowest_score"
	VictoryHighestScore VictoryCondition = "highest_score"
	VictoryTargetScore  VictoryCondition = "target_score"
)

// ScoringMode определяет, как записываются очки за раунд.
type ScoringMode string

const (
	ScoringNumeric        ScoringMode = "numeric"
	ScoringWinnerTakesAll ScoringMode = "winner_takes_all"
)

// GameRuleSet описывает правила подсчёта очков одной игры.
type GameRuleSet struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	VictoryCondition VictoryCondition `json:"victoryCondition"`
	WinningScore     *float64         `json:"winningScore,omitempty"`
	AllowNegative    bool             `json:"allowNegative"`
	RoundBased       bool             `json:"roundBased"`
	ScoringMode      ScoringMode      `json:"scoringMode,omitempty"`
	IsCustom         bool             `json:"isCustom,omitempty"`

	// Presentation data, passed through to clients untouched.
	ThemeColor  string `json:"themeColor,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// EffectiveScoringMode treats an unset mode as numeric.
func (g GameRuleSet) EffectiveScoringMode() ScoringMode {
	if g.ScoringMode == "" {
		return ScoringNumeric
	}
	return g.ScoringMode
}

// RuleOverride представляет частичную правку правил, nil-поля не меняются.
type RuleOverride struct {
	Name             *string           `json:"name,omitempty"`
	VictoryCondition *VictoryCondition `json:"victoryCondition,omitempty"`
	WinningScore     *float64          `json:"winningScore,omitempty"`
	AllowNegative    *bool             `json:"allowNegative,omitempty"`
	RoundBased       *bool             `json:"roundBased,omitempty"`
	ScoringMode      *ScoringMode      `json:"scoringMode,omitempty"`
	ThemeColor       *string           `json:"themeColor,omitempty"`
	Description      *string           `json:"description,omitempty"`
	Icon             *string           `json:"icon,omitempty"`
}

func IsValidVictoryCondition(vc VictoryCondition) bool {
	switch vc {
	case VictoryLowestScore, VictoryHighestScore, VictoryTargetScore:
		return true
	}
	return false
}

func IsValidScoringMode(mode ScoringMode) bool {
	switch mode {
	case ScoringNumeric, ScoringWinnerTakesAll:
		return true
	}
	return false
}
