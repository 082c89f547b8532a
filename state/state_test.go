package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/rules"
	"github.com/Dosada05/scoremaster/scoring"
	"github.com/Dosada05/scoremaster/standings"
)

var t0 = time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func withRoster(t *testing.T, ids ...string) models.AppState {
	t.Helper()
	st := Default()
	for _, id := range ids {
		var err error
		st, err = AddSavedPlayer(st, models.SavedPlayer{ID: id, Name: "Player " + id, Color: "#123456", Avatar: "🎲"})
		require.NoError(t, err)
	}
	return st
}

func start(t *testing.T, st models.AppState, gameID string, ids ...string) models.AppState {
	t.Helper()
	next, err := StartSession(st, StartSessionInput{GameID: gameID, PlayerIDs: ids}, "s-"+gameID, t0)
	require.NoError(t, err)
	return next
}

func TestStartSessionGuards(t *testing.T) {
	st := withRoster(t, "a", "b")

	_, err := StartSession(st, StartSessionInput{GameID: "chess", PlayerIDs: []string{"a", "b"}}, "s1", t0)
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = StartSession(st, StartSessionInput{GameID: "uno", PlayerIDs: []string{"a", "zz"}}, "s1", t0)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	active := start(t, st, "uno", "a", "b")
	same, err := StartSession(active, StartSessionInput{GameID: "skyjo", PlayerIDs: []string{"a"}}, "s2", t0)
	assert.ErrorIs(t, err, ErrSessionActive)
	assert.Equal(t, "uno", same.CurrentSession.GameID)
	assert.Nil(t, st.CurrentSession, "prev state must not change")
}

func TestSessionSnapshotsRoster(t *testing.T) {
	st := start(t, withRoster(t, "a", "b"), "generic", "a", "b")

	st, err := UpdateSavedPlayer(st, "a", PlayerPatch{Name: ptr("Renamed"), Color: ptr("#000")})
	require.NoError(t, err)
	st, err = RemoveSavedPlayer(st, "b")
	require.NoError(t, err)

	names := map[string]string{}
	for _, p := range st.CurrentSession.Players {
		names[p.ID] = p.Name
	}
	assert.Equal(t, "Player a", names["a"])
	assert.Equal(t, "Player b", names["b"])
}

func TestOperationsWithoutSessionLeaveStateUnchanged(t *testing.T) {
	st := withRoster(t, "a")

	for name, op := range map[string]func(models.AppState) (models.AppState, error){
		"submit":  func(s models.AppState) (models.AppState, error) { return SubmitScore(s, "a", 1) },
		"advance": AdvanceRound,
		"finish":  func(s models.AppState) (models.AppState, error) { return FinishSession(s, t0) },
		"quit":    QuitSession,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := op(st)
			assert.ErrorIs(t, err, ErrNoActiveSession)
			assert.Equal(t, st, got)
		})
	}
}

func TestPlayThroughToHistory(t *testing.T) {
	st := start(t, withRoster(t, "a", "b"), "skyjo", "a", "b")

	st, err := SubmitScore(st, "a", 60)
	require.NoError(t, err)
	st, err = SubmitScore(st, "b", 10)
	require.NoError(t, err)

	view, err := CurrentSessionView(st)
	require.NoError(t, err)
	assert.True(t, view.AllScored)
	assert.False(t, view.WinConditionMet)

	st, err = AdvanceRound(st)
	require.NoError(t, err)
	st, err = SubmitScore(st, "a", 45)
	require.NoError(t, err)

	view, err = CurrentSessionView(st)
	require.NoError(t, err)
	assert.True(t, view.WinConditionMet)
	assert.Equal(t, models.SessionActive, view.Session.Status)

	end := t0.Add(time.Hour)
	st, err = FinishSession(st, end)
	require.NoError(t, err)
	assert.Nil(t, st.CurrentSession)
	require.Len(t, st.GameHistory, 1)
	assert.Equal(t, models.SessionFinished, st.GameHistory[0].Status)
	assert.Equal(t, end, *st.GameHistory[0].FinishedAt)
	assert.Equal(t, "b", st.GameHistory[0].Players[0].ID)

	st = start(t, st, "generic", "a")
	st, err = FinishSession(st, end.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "s-generic", st.GameHistory[0].ID, "newest first")
}

func TestQuitDiscardsSession(t *testing.T) {
	st := start(t, withRoster(t, "a", "b"), "uno", "a", "b")

	st, err := QuitSession(st)
	require.NoError(t, err)
	assert.Nil(t, st.CurrentSession)
	assert.Empty(t, st.GameHistory)
}

func TestWinnerTakesAllCannotAdvanceManually(t *testing.T) {
	st := start(t, withRoster(t, "a", "b", "c"), "uno", "a", "b", "c")

	_, err := AdvanceRound(st)
	assert.ErrorIs(t, err, ErrAdvanceNotAllowed)

	st, err = SubmitScore(st, "b", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentSession.CurrentRound)
	assert.Equal(t, "b", st.CurrentSession.Players[0].ID)
}

func TestTeamSession(t *testing.T) {
	st := withRoster(t, "a", "b", "c", "d")
	shared := StartSessionInput{
		GameID:    "generic",
		PlayerIDs: []string{"a", "b", "c"},
		Teams: []TeamInput{
			{ID: "x", MemberIDs: []string{"a", "b"}},
			{ID: "y", MemberIDs: []string{"a", "c"}},
		},
	}
	same, err := StartSession(st, shared, "s0", t0)
	assert.ErrorIs(t, err, scoring.ErrMemberInTwoTeams)
	assert.Nil(t, same.CurrentSession)

	in := StartSessionInput{
		GameID:    "generic",
		PlayerIDs: []string{"a", "b", "c", "d"},
		Teams: []TeamInput{
			{Name: "Red", MemberIDs: []string{"a", "b"}},
			{MemberIDs: []string{"c", "d"}},
		},
	}

	st, err = StartSession(st, in, "s1", t0)
	require.NoError(t, err)
	assert.Equal(t, models.ModeTeams, st.CurrentSession.Mode)
	assert.Equal(t, "s1-team-2", st.CurrentSession.Teams[1].ID)
	assert.Equal(t, "Team 2", st.CurrentSession.Teams[1].Name)
	assert.Equal(t, []string{"Player a", "Player b"}, st.CurrentSession.Teams[0].MemberNames)

	st, err = SubmitScore(st, "s1-team-2", 12)
	require.NoError(t, err)
	assert.Equal(t, "s1-team-2", st.CurrentSession.Teams[0].ID)
}

func TestTournamentFlow(t *testing.T) {
	st := withRoster(t, "P1", "P2")
	st, err := CreateTournament(st, CreateTournamentInput{Name: "Friday cup", GameID: "generic", PlayerIDs: []string{"P1", "P2"}}, "t1", t0)
	require.NoError(t, err)

	st = start(t, st, "generic", "P1", "P2")
	st, err = SubmitScore(st, "P1", 50)
	require.NoError(t, err)
	st, err = SubmitScore(st, "P2", 30)
	require.NoError(t, err)
	st, err = FinishSession(st, t0)
	require.NoError(t, err)

	st, err = LinkSession(st, "t1", "s-generic")
	require.NoError(t, err)
	tour, ok := Tournament(st, "t1")
	require.True(t, ok)
	assert.Equal(t, []models.StandingRow{
		{PlayerID: "P1", TotalPoints: 50, Wins: 1, GamesPlayed: 1},
		{PlayerID: "P2", TotalPoints: 30, Wins: 0, GamesPlayed: 1},
	}, tour.Players)

	_, err = LinkSession(st, "t1", "s-generic")
	assert.ErrorIs(t, err, standings.ErrAlreadyLinked)

	_, err = LinkSession(st, "t1", "nope")
	assert.ErrorIs(t, err, ErrHistoryNotFound)

	st, err = FinishTournament(st, "t1", t0)
	require.NoError(t, err)
	_, err = FinishTournament(st, "t1", t0)
	assert.ErrorIs(t, err, ErrTournamentFinished)

	st, err = DeleteTournament(st, "t1")
	require.NoError(t, err)
	assert.Empty(t, st.Tournaments)
}

func TestTournamentSessionAutoLinks(t *testing.T) {
	st := withRoster(t, "a", "b")
	st, err := CreateTournament(st, CreateTournamentInput{Name: "Cup", GameID: "uno", PlayerIDs: []string{"a", "b"}}, "t1", t0)
	require.NoError(t, err)

	_, err = StartSession(st, StartSessionInput{GameID: "skyjo", PlayerIDs: []string{"a", "b"}, TournamentID: "t1"}, "s1", t0)
	assert.ErrorIs(t, err, ErrTournamentGameMismatch)

	st, err = StartSession(st, StartSessionInput{GameID: "uno", PlayerIDs: []string{"a", "b"}, TournamentID: "t1"}, "s1", t0)
	require.NoError(t, err)
	st, err = SubmitScore(st, "a", 0)
	require.NoError(t, err)
	st, err = FinishSession(st, t0)
	require.NoError(t, err)

	tour, _ := Tournament(st, "t1")
	assert.Equal(t, []string{"s1"}, tour.Sessions)
	assert.Equal(t, 1, tour.Players[0].Wins)
}

func TestCreateTournamentValidation(t *testing.T) {
	st := withRoster(t, "a")

	_, err := CreateTournament(st, CreateTournamentInput{Name: " ", GameID: "uno"}, "t1", t0)
	assert.ErrorIs(t, err, ErrTournamentNameRequired)
	_, err = CreateTournament(st, CreateTournamentInput{Name: "x", GameID: "chess"}, "t1", t0)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = CreateTournament(st, CreateTournamentInput{Name: "x", GameID: "uno", PlayerIDs: []string{"ghost"}}, "t1", t0)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestCustomGamesAndOverrides(t *testing.T) {
	st := Default()

	st, err := UpdateGameOverride(st, "uno", models.RuleOverride{WinningScore: ptr(300.0)})
	require.NoError(t, err)
	uno, ok := ResolveGame(st, "uno")
	require.True(t, ok)
	assert.Equal(t, models.VictoryHighestScore, uno.VictoryCondition)
	assert.Equal(t, 300.0, *uno.WinningScore)

	_, err = UpdateGameOverride(st, "uno", models.RuleOverride{WinningScore: ptr(-1.0)})
	assert.ErrorIs(t, err, rules.ErrInvalidWinningScore)

	darts := models.GameRuleSet{ID: "darts", Name: "Darts", VictoryCondition: models.VictoryTargetScore, WinningScore: ptr(501.0)}
	st, err = AddCustomGame(st, darts)
	require.NoError(t, err)
	_, err = AddCustomGame(st, darts)
	assert.ErrorIs(t, err, ErrGameConflict)
	_, err = AddCustomGame(st, models.GameRuleSet{ID: "uno", Name: "x", VictoryCondition: models.VictoryLowestScore})
	assert.ErrorIs(t, err, ErrGameConflict)

	st, err = UpdateGameOverride(st, "darts", models.RuleOverride{Name: ptr("Darts 301"), WinningScore: ptr(301.0)})
	require.NoError(t, err)
	got, _ := ResolveGame(st, "darts")
	assert.Equal(t, "Darts 301", got.Name)
	assert.True(t, got.IsCustom)
	assert.Equal(t, models.ScoringNumeric, got.ScoringMode)
	assert.Empty(t, st.GameOverrides["darts"])

	st = SetGameOrder(st, []string{"darts", "nope", "darts", "skyjo"})
	assert.Equal(t, []string{"darts", "skyjo"}, st.GameOrder)
	assert.Equal(t, "darts", Games(st)[0].ID)

	_, err = DeleteCustomGame(st, "uno")
	assert.ErrorIs(t, err, ErrBuiltinGame)
	st, err = DeleteCustomGame(st, "darts")
	require.NoError(t, err)
	_, ok = ResolveGame(st, "darts")
	assert.False(t, ok)
	assert.Equal(t, []string{"skyjo"}, st.GameOrder)
}

func TestDeleteCustomGameInUse(t *testing.T) {
	st := withRoster(t, "a", "b")
	st, err := AddCustomGame(st, models.GameRuleSet{ID: "mine", Name: "Mine", VictoryCondition: models.VictoryHighestScore})
	require.NoError(t, err)

	playing := start(t, st, "mine", "a", "b")
	same, err := DeleteCustomGame(playing, "mine")
	assert.ErrorIs(t, err, ErrGameInUse)
	assert.Equal(t, playing, same)
	_, err = CurrentSessionView(same)
	require.NoError(t, err)

	quit, err := QuitSession(playing)
	require.NoError(t, err)

	withCup, err := CreateTournament(quit, CreateTournamentInput{Name: "Cup", GameID: "mine", PlayerIDs: []string{"a", "b"}}, "t1", t0)
	require.NoError(t, err)
	_, err = DeleteCustomGame(withCup, "mine")
	assert.ErrorIs(t, err, ErrGameInUse)

	finished, err := FinishTournament(withCup, "t1", t0)
	require.NoError(t, err)
	finished, err = DeleteCustomGame(finished, "mine")
	require.NoError(t, err)
	_, ok := ResolveGame(finished, "mine")
	assert.False(t, ok)
}

func TestDeleteHistoryAndDarkMode(t *testing.T) {
	st := start(t, withRoster(t, "a"), "generic", "a")
	st, err := FinishSession(st, t0)
	require.NoError(t, err)

	_, ok := HistorySession(st, "s-generic")
	assert.True(t, ok)
	st, err = DeleteHistorySession(st, "s-generic")
	require.NoError(t, err)
	assert.Empty(t, st.GameHistory)
	_, err = DeleteHistorySession(st, "s-generic")
	assert.ErrorIs(t, err, ErrHistoryNotFound)

	assert.False(t, ToggleDarkMode(st).DarkMode)
}

func TestRosterValidation(t *testing.T) {
	st := withRoster(t, "a")

	_, err := AddSavedPlayer(st, models.SavedPlayer{ID: "b", Name: "  "})
	assert.ErrorIs(t, err, ErrPlayerNameRequired)
	_, err = AddSavedPlayer(st, models.SavedPlayer{ID: "a", Name: "Again"})
	assert.ErrorIs(t, err, ErrPlayerConflict)
	_, err = UpdateSavedPlayer(st, "a", PlayerPatch{Name: ptr("")})
	assert.ErrorIs(t, err, ErrPlayerNameRequired)
	_, err = RemoveSavedPlayer(st, "zz")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
