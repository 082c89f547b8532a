package state

import (
	"fmt"
	"strings"

	"github.com/Dosada05/scoremaster/models"
)

// PlayerPatch edits a saved player; nil fields are left alone.
type PlayerPatch struct {
	Name   *string `json:"name,omitempty"`
	Color  *string `json:"color,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

func AddSavedPlayer(prev models.AppState, p models.SavedPlayer) (models.AppState, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return prev, ErrPlayerNameRequired
	}
	if _, ok := savedPlayer(prev, p.ID); ok {
		return prev, fmt.Errorf("%w: %s", ErrPlayerConflict, p.ID)
	}
	next := clone(prev)
	next.SavedPlayers = append(next.SavedPlayers, p)
	return next, nil
}

// UpdateSavedPlayer edits the roster entry only; sessions keep their snapshot.
func UpdateSavedPlayer(prev models.AppState, id string, patch PlayerPatch) (models.AppState, error) {
	i := savedPlayerIndex(prev, id)
	if i < 0 {
		return prev, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	p := prev.SavedPlayers[i]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return prev, ErrPlayerNameRequired
		}
		p.Name = name
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if patch.Avatar != nil {
		p.Avatar = *patch.Avatar
	}
	next := clone(prev)
	next.SavedPlayers[i] = p
	return next, nil
}

func RemoveSavedPlayer(prev models.AppState, id string) (models.AppState, error) {
	i := savedPlayerIndex(prev, id)
	if i < 0 {
		return prev, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	next := clone(prev)
	next.SavedPlayers = append(next.SavedPlayers[:i], next.SavedPlayers[i+1:]...)
	return next, nil
}

func savedPlayer(st models.AppState, id string) (models.SavedPlayer, bool) {
	i := savedPlayerIndex(st, id)
	if i < 0 {
		return models.SavedPlayer{}, false
	}
	return st.SavedPlayers[i], true
}

func savedPlayerIndex(st models.AppState, id string) int {
	for i, p := range st.SavedPlayers {
		if p.ID == id {
			return i
		}
	}
	return -1
}
