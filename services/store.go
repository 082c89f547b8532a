package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Dosada05/scoremaster/live"
	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/repositories"
	"github.com/Dosada05/scoremaster/standings"
	"github.com/Dosada05/scoremaster/state"
	"github.com/google/uuid"
)

const defaultPersistTimeout = 5 * time.Second

// Broadcaster delivers messages to live clients.
type Broadcaster interface {
	BroadcastToRoom(room string, msg live.Message)
}

type StoreOption func(*Store)

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) { s.newID = newID }
}

func WithPersistTimeout(d time.Duration) StoreOption {
	return func(s *Store) { s.persistTimeout = d }
}

func WithBroadcaster(b Broadcaster) StoreOption {
	return func(s *Store) { s.broadcaster = b }
}

// Store owns the application state. Every mutation runs a state reducer
// under the mutex, replaces the state as a whole, saves the snapshot and
// notifies live clients.
type Store struct {
	mu             sync.Mutex
	state          models.AppState
	repo           repositories.StateRepository
	broadcaster    Broadcaster
	logger         *slog.Logger
	now            func() time.Time
	newID          func() string
	persistTimeout time.Duration
}

// NewStore loads the persisted state once. A malformed blob is replaced by
// the default state; an unreachable repository is an error.
func NewStore(ctx context.Context, repo repositories.StateRepository, logger *slog.Logger, opts ...StoreOption) (*Store, error) {
	s := &Store{
		repo:           repo,
		logger:         logger,
		now:            time.Now,
		newID:          uuid.NewString,
		persistTimeout: defaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := repo.Load(ctx)
	switch {
	case errors.Is(err, repositories.ErrStateNotFound):
		s.state = state.Default()
		logger.Info("no persisted state found, starting fresh")
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	default:
		st, decodeErr := state.Decode(data)
		if decodeErr != nil {
			logger.Warn("persisted state is malformed, starting from defaults", slog.Any("error", decodeErr))
		}
		s.state = st
		logger.Info("state loaded",
			slog.Int("saved_players", len(st.SavedPlayers)),
			slog.Int("history", len(st.GameHistory)),
			slog.Int("tournaments", len(st.Tournaments)),
			slog.Bool("session_active", st.CurrentSession != nil))
	}
	return s, nil
}

// Snapshot returns the current state. Reducers never mutate a state value,
// so callers may read it freely but must not modify it.
func (s *Store) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// WithSnapshot runs fn with the current state while holding the mutation
// lock. No transition is applied or published until fn returns, so fn must
// not call back into the Store.
func (s *Store) WithSnapshot(fn func(st models.AppState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

type reducer func(prev models.AppState) (models.AppState, error)

// affected names the tournaments whose standings a transition may change.
type affected func(prev models.AppState) []string

func only(ids ...string) affected {
	return func(models.AppState) []string { return ids }
}

// apply runs one transition.
func (s *Store) apply(ctx context.Context, op string, reduce reducer, touched affected) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next, err := reduce(prev)
	if err != nil {
		return prev, err
	}
	s.state = next
	s.persist(ctx, op, next)

	var tournamentIDs []string
	if touched != nil {
		tournamentIDs = touched(prev)
	}
	s.publish(op, next, tournamentIDs)
	return next, nil
}

// persist runs under the mutex so snapshots reach the repository in order.
// A failed save is logged; the in-memory state stays authoritative.
func (s *Store) persist(ctx context.Context, op string, st models.AppState) {
	data, err := state.Encode(st)
	if err != nil {
		s.logger.Error("failed to encode state", slog.String("op", op), slog.Any("error", err))
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()
	if err := s.repo.Save(saveCtx, data); err != nil {
		s.logger.Error("failed to persist state", slog.String("op", op), slog.Any("error", err))
	}
}

func (s *Store) publish(op string, st models.AppState, tournamentIDs []string) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToRoom(live.RoomState, live.Message{
		Type:    live.MessageStateUpdated,
		Payload: StateEvent{Op: op, State: st},
	})
	for _, id := range tournamentIDs {
		t, ok := state.Tournament(st, id)
		if !ok {
			continue
		}
		s.broadcaster.BroadcastToRoom(live.TournamentRoom(id), live.Message{
			Type:    live.MessageStandingsUpdated,
			Payload: StandingsEvent{Tournament: t, Standings: standings.Standings(t)},
		})
	}
}

// StateEvent is the payload of a state update message.
type StateEvent struct {
	Op    string          `json:"op"`
	State models.AppState `json:"state"`
}

type StandingsEvent struct {
	Tournament models.Tournament `json:"tournament"`
	Standings  []models.Standing `json:"standings"`
}

// --- Games ---

func (s *Store) Games() []models.GameRuleSet {
	return state.Games(s.Snapshot())
}

func (s *Store) Game(id string) (models.GameRuleSet, error) {
	set, ok := state.ResolveGame(s.Snapshot(), id)
	if !ok {
		return models.GameRuleSet{}, fmt.Errorf("%w: %s", state.ErrGameNotFound, id)
	}
	return set, nil
}

// AddCustomGame stores a user-defined rule set; an empty id is generated.
func (s *Store) AddCustomGame(ctx context.Context, g models.GameRuleSet) (models.GameRuleSet, error) {
	if g.ID == "" {
		g.ID = s.newID()
	}
	next, err := s.apply(ctx, "game.created", func(prev models.AppState) (models.AppState, error) {
		return state.AddCustomGame(prev, g)
	}, nil)
	if err != nil {
		return models.GameRuleSet{}, err
	}
	set, _ := state.ResolveGame(next, g.ID)
	return set, nil
}

func (s *Store) UpdateGame(ctx context.Context, id string, patch models.RuleOverride) (models.GameRuleSet, error) {
	next, err := s.apply(ctx, "game.updated", func(prev models.AppState) (models.AppState, error) {
		return state.UpdateGameOverride(prev, id, patch)
	}, nil)
	if err != nil {
		return models.GameRuleSet{}, err
	}
	set, _ := state.ResolveGame(next, id)
	return set, nil
}

func (s *Store) DeleteGame(ctx context.Context, id string) error {
	_, err := s.apply(ctx, "game.deleted", func(prev models.AppState) (models.AppState, error) {
		return state.DeleteCustomGame(prev, id)
	}, nil)
	return err
}

func (s *Store) SetGameOrder(ctx context.Context, order []string) []models.GameRuleSet {
	next, _ := s.apply(ctx, "game.reordered", func(prev models.AppState) (models.AppState, error) {
		return state.SetGameOrder(prev, order), nil
	}, nil)
	return state.Games(next)
}

// --- Saved players ---

func (s *Store) Players() []models.SavedPlayer {
	return s.Snapshot().SavedPlayers
}

func (s *Store) AddPlayer(ctx context.Context, p models.SavedPlayer) (models.SavedPlayer, error) {
	if p.ID == "" {
		p.ID = s.newID()
	}
	next, err := s.apply(ctx, "player.created", func(prev models.AppState) (models.AppState, error) {
		return state.AddSavedPlayer(prev, p)
	}, nil)
	if err != nil {
		return models.SavedPlayer{}, err
	}
	return findPlayer(next, p.ID), nil
}

func (s *Store) UpdatePlayer(ctx context.Context, id string, patch state.PlayerPatch) (models.SavedPlayer, error) {
	next, err := s.apply(ctx, "player.updated", func(prev models.AppState) (models.AppState, error) {
		return state.UpdateSavedPlayer(prev, id, patch)
	}, nil)
	if err != nil {
		return models.SavedPlayer{}, err
	}
	return findPlayer(next, id), nil
}

func (s *Store) RemovePlayer(ctx context.Context, id string) error {
	_, err := s.apply(ctx, "player.deleted", func(prev models.AppState) (models.AppState, error) {
		return state.RemoveSavedPlayer(prev, id)
	}, nil)
	return err
}

func findPlayer(st models.AppState, id string) models.SavedPlayer {
	for _, p := range st.SavedPlayers {
		if p.ID == id {
			return p
		}
	}
	return models.SavedPlayer{}
}

// --- Session ---

func (s *Store) Session() (state.SessionView, error) {
	return state.CurrentSessionView(s.Snapshot())
}

func (s *Store) StartSession(ctx context.Context, in state.StartSessionInput) (state.SessionView, error) {
	id, now := s.newID(), s.now().UTC()
	next, err := s.apply(ctx, "session.started", func(prev models.AppState) (models.AppState, error) {
		return state.StartSession(prev, in, id, now)
	}, nil)
	if err != nil {
		return state.SessionView{}, err
	}
	return state.CurrentSessionView(next)
}

// SubmitResult is the session after a score, plus whether the round moved
// on as part of the same submit.
type SubmitResult struct {
	state.SessionView
	RoundAdvanced bool `json:"roundAdvanced"`
}

// SubmitScore records score for participantID. A nil score is accepted only
// when the session's game is winner_takes_all at the moment of the write.
func (s *Store) SubmitScore(ctx context.Context, participantID string, score *float64) (SubmitResult, error) {
	if score != nil && (math.IsNaN(*score) || math.IsInf(*score, 0)) {
		return SubmitResult{}, ErrInvalidScore
	}
	var round int
	next, err := s.apply(ctx, "session.scored", func(prev models.AppState) (models.AppState, error) {
		if prev.CurrentSession == nil {
			return prev, state.ErrNoActiveSession
		}
		round = prev.CurrentSession.CurrentRound
		var value float64
		if score != nil {
			value = *score
		} else if set, ok := state.ResolveGame(prev, prev.CurrentSession.GameID); ok && set.EffectiveScoringMode() != models.ScoringWinnerTakesAll {
			// Без очков допустим только winner_takes_all.
			return prev, ErrScoreRequired
		}
		return state.SubmitScore(prev, participantID, value)
	}, nil)
	if err != nil {
		return SubmitResult{}, err
	}
	view, err := state.CurrentSessionView(next)
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{SessionView: view, RoundAdvanced: view.Session.CurrentRound > round}, nil
}

func (s *Store) AdvanceRound(ctx context.Context) (state.SessionView, error) {
	next, err := s.apply(ctx, "session.advanced", state.AdvanceRound, nil)
	if err != nil {
		return state.SessionView{}, err
	}
	return state.CurrentSessionView(next)
}

// FinishSession archives the active session and returns it. A session
// played for a tournament refreshes that tournament's standings room.
func (s *Store) FinishSession(ctx context.Context) (models.GameSession, error) {
	now := s.now().UTC()
	next, err := s.apply(ctx, "session.finished", func(prev models.AppState) (models.AppState, error) {
		return state.FinishSession(prev, now)
	}, func(prev models.AppState) []string {
		if id := prev.CurrentSession.TournamentID; id != "" {
			return []string{id}
		}
		return nil
	})
	if err != nil {
		return models.GameSession{}, err
	}
	return next.GameHistory[0], nil
}

func (s *Store) QuitSession(ctx context.Context) error {
	_, err := s.apply(ctx, "session.quit", state.QuitSession, nil)
	return err
}

// --- History ---

func (s *Store) History() []models.GameSession {
	return s.Snapshot().GameHistory
}

func (s *Store) HistorySession(id string) (models.GameSession, error) {
	session, ok := state.HistorySession(s.Snapshot(), id)
	if !ok {
		return models.GameSession{}, fmt.Errorf("%w: %s", state.ErrHistoryNotFound, id)
	}
	return session, nil
}

func (s *Store) DeleteHistorySession(ctx context.Context, id string) error {
	_, err := s.apply(ctx, "history.deleted", func(prev models.AppState) (models.AppState, error) {
		return state.DeleteHistorySession(prev, id)
	}, nil)
	return err
}

// --- Tournaments ---

func (s *Store) Tournaments() []models.Tournament {
	return s.Snapshot().Tournaments
}

func (s *Store) Tournament(id string) (models.Tournament, error) {
	t, ok := state.Tournament(s.Snapshot(), id)
	if !ok {
		return models.Tournament{}, fmt.Errorf("%w: %s", state.ErrTournamentNotFound, id)
	}
	return t, nil
}

func (s *Store) Standings(id string) ([]models.Standing, error) {
	t, err := s.Tournament(id)
	if err != nil {
		return nil, err
	}
	return standings.Standings(t), nil
}

func (s *Store) CreateTournament(ctx context.Context, in state.CreateTournamentInput) (models.Tournament, error) {
	id, now := s.newID(), s.now().UTC()
	next, err := s.apply(ctx, "tournament.created", func(prev models.AppState) (models.AppState, error) {
		return state.CreateTournament(prev, in, id, now)
	}, only(id))
	if err != nil {
		return models.Tournament{}, err
	}
	t, _ := state.Tournament(next, id)
	return t, nil
}

func (s *Store) LinkSession(ctx context.Context, tournamentID, sessionID string) (models.Tournament, error) {
	next, err := s.apply(ctx, "tournament.linked", func(prev models.AppState) (models.AppState, error) {
		return state.LinkSession(prev, tournamentID, sessionID)
	}, only(tournamentID))
	if err != nil {
		return models.Tournament{}, err
	}
	t, _ := state.Tournament(next, tournamentID)
	return t, nil
}

func (s *Store) FinishTournament(ctx context.Context, id string) (models.Tournament, error) {
	now := s.now().UTC()
	next, err := s.apply(ctx, "tournament.finished", func(prev models.AppState) (models.AppState, error) {
		return state.FinishTournament(prev, id, now)
	}, only(id))
	if err != nil {
		return models.Tournament{}, err
	}
	t, _ := state.Tournament(next, id)
	return t, nil
}

func (s *Store) DeleteTournament(ctx context.Context, id string) error {
	_, err := s.apply(ctx, "tournament.deleted", func(prev models.AppState) (models.AppState, error) {
		return state.DeleteTournament(prev, id)
	}, nil)
	return err
}

// --- Preferences ---

func (s *Store) ToggleDarkMode(ctx context.Context) bool {
	next, _ := s.apply(ctx, "preferences.dark_mode", func(prev models.AppState) (models.AppState, error) {
		return state.ToggleDarkMode(prev), nil
	}, nil)
	return next.DarkMode
}
