package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/scoremaster/models"
)

var (
	ErrRuleSetNameRequired     = errors.New("game name is required")
	ErrInvalidVictoryCondition = errors.New("invalid victory condition")
	ErrInvalidScoringMode      = errors.New("invalid scoring mode")
	ErrInvalidWinningScore     = errors.New("winning score must be positive")
)

// Resolve returns the effective rule set for gameID. Custom sets are
// self-contained and checked first; otherwise the built-in is merged with its
// override patch.
func Resolve(gameID string, base []models.GameRuleSet, overrides map[string]models.RuleOverride, custom []models.GameRuleSet) (models.GameRuleSet, bool) {
	for _, c := range custom {
		if c.ID == gameID {
			return copyRuleSet(c), true
		}
	}
	for _, b := range base {
		if b.ID == gameID {
			if patch, ok := overrides[gameID]; ok {
				return Merge(b, patch), true
			}
			return copyRuleSet(b), true
		}
	}
	return models.GameRuleSet{}, false
}

// Merge applies patch over base field by field.
func Merge(base models.GameRuleSet, patch models.RuleOverride) models.GameRuleSet {
	out := copyRuleSet(base)
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.VictoryCondition != nil {
		out.VictoryCondition = *patch.VictoryCondition
	}
	if patch.WinningScore != nil {
		out.WinningScore = score(*patch.WinningScore)
	}
	if patch.AllowNegative != nil {
		out.AllowNegative = *patch.AllowNegative
	}
	if patch.RoundBased != nil {
		out.RoundBased = *patch.RoundBased
	}
	if patch.ScoringMode != nil {
		out.ScoringMode = *patch.ScoringMode
	}
	if patch.ThemeColor != nil {
		out.ThemeColor = *patch.ThemeColor
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.Icon != nil {
		out.Icon = *patch.Icon
	}
	return out
}

// MergePatch folds next into prev; fields set in next win.
func MergePatch(prev, next models.RuleOverride) models.RuleOverride {
	out := prev
	if next.Name != nil {
		out.Name = next.Name
	}
	if next.VictoryCondition != nil {
		out.VictoryCondition = next.VictoryCondition
	}
	if next.WinningScore != nil {
		out.WinningScore = next.WinningScore
	}
	if next.AllowNegative != nil {
		out.AllowNegative = next.AllowNegative
	}
	if next.RoundBased != nil {
		out.RoundBased = next.RoundBased
	}
	if next.ScoringMode != nil {
		out.ScoringMode = next.ScoringMode
	}
	if next.ThemeColor != nil {
		out.ThemeColor = next.ThemeColor
	}
	if next.Description != nil {
		out.Description = next.Description
	}
	if next.Icon != nil {
		out.Icon = next.Icon
	}
	return out
}

// Available lists every effective rule set: built-ins with overrides, then
// custom sets, reordered so ids listed in order come first.
func Available(base []models.GameRuleSet, overrides map[string]models.RuleOverride, custom []models.GameRuleSet, order []string) []models.GameRuleSet {
	all := make([]models.GameRuleSet, 0, len(base)+len(custom))
	for _, b := range base {
		if patch, ok := overrides[b.ID]; ok {
			all = append(all, Merge(b, patch))
		} else {
			all = append(all, copyRuleSet(b))
		}
	}
	for _, c := range custom {
		all = append(all, copyRuleSet(c))
	}
	if len(order) == 0 {
		return all
	}

	byID := make(map[string]int, len(all))
	for i, g := range all {
		byID[g.ID] = i
	}
	used := make([]bool, len(all))
	ordered := make([]models.GameRuleSet, 0, len(all))
	for _, id := range order {
		i, ok := byID[id]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		ordered = append(ordered, all[i])
	}
	for i, g := range all {
		if !used[i] {
			ordered = append(ordered, g)
		}
	}
	return ordered
}

// Validate checks a rule set authored by the user.
func Validate(g models.GameRuleSet) error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrRuleSetNameRequired
	}
	if !models.IsValidVictoryCondition(g.VictoryCondition) {
		return fmt.Errorf("%w: %q", ErrInvalidVictoryCondition, g.VictoryCondition)
	}
	if g.ScoringMode != "" && !models.IsValidScoringMode(g.ScoringMode) {
		return fmt.Errorf("%w: %q", ErrInvalidScoringMode, g.ScoringMode)
	}
	if g.WinningScore != nil && *g.WinningScore <= 0 {
		return ErrInvalidWinningScore
	}
	return nil
}
