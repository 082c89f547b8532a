package models

// StateVersion записывается в каждый сохранённый снимок.
const StateVersion = 2

// AppState хранит корневое состояние приложения, сохраняется целиком.
type AppState struct {
	Version        int                     `json:"version"`
	CurrentSession *GameSession            `json:"currentSession"`
	SavedPlayers   []SavedPlayer           `json:"savedPlayers"`
	GameHistory    []GameSession           `json:"gameHistory"`
	Tournaments    []Tournament            `json:"tournaments"`
	CustomGames    []GameRuleSet           `json:"customGames"`
	GameOverrides  map[string]RuleOverride `json:"gameOverrides"`
	DarkMode       bool                    `json:"darkMode"`
	GameOrder      []string                `json:"gameOrder"`
}
