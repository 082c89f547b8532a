package state

import "errors"

var (
	ErrSessionActive          = errors.New("a game session is already active")
	ErrNoActiveSession        = errors.New("no active game session")
	ErrAdvanceNotAllowed      = errors.New("rounds advance automatically in winner-takes-all games")
	ErrGameNotFound           = errors.New("game not found")
	ErrGameConflict           = errors.New("game id is already in use")
	ErrGameIDRequired         = errors.New("game id is required")
	ErrBuiltinGame            = errors.New("built-in games cannot be deleted")
	ErrGameInUse              = errors.New("game is in use")
	ErrPlayerNotFound         = errors.New("player not found")
	ErrPlayerNameRequired     = errors.New("player name is required")
	ErrPlayerConflict         = errors.New("player id is already in use")
	ErrHistoryNotFound        = errors.New("session not found in history")
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTournamentGameMismatch = errors.New("session game does not match the tournament game")
	ErrTournamentFinished     = errors.New("tournament is finished")
)
