package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/scoremaster/models"
)

var startedAt = time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

func cap100() *float64 {
	v := 100.0
	return &v
}

func lowestTo100() models.GameRuleSet {
	return models.GameRuleSet{ID: "skyjo", Name: "Skyjo", VictoryCondition: models.VictoryLowestScore, WinningScore: cap100(), ScoringMode: models.ScoringNumeric}
}

func winnerTakesAll() models.GameRuleSet {
	return models.GameRuleSet{ID: "uno", Name: "UNO", VictoryCondition: models.VictoryHighestScore, ScoringMode: models.ScoringWinnerTakesAll}
}

func players(names ...string) []models.Participant {
	out := make([]models.Participant, len(names))
	for i, n := range names {
		out[i] = models.Participant{ID: n, Name: n, Color: "#fff", Avatar: "A"}
	}
	return out
}

func find(t *testing.T, s models.GameSession, id string) models.Participant {
	t.Helper()
	for _, p := range s.Ranked() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("participant %s not found", id)
	return models.Participant{}
}

func submit(t *testing.T, s models.GameSession, rules models.GameRuleSet, id string, v float64) models.GameSession {
	t.Helper()
	next, err := SubmitScore(s, rules, id, v)
	require.NoError(t, err)
	return next
}

func assertTotalsConsistent(t *testing.T, s models.GameSession) {
	t.Helper()
	for _, p := range append(append([]models.Participant{}, s.Players...), s.Teams...) {
		var sum float64
		for _, v := range p.RoundScores {
			sum += v
		}
		assert.Equal(t, sum, p.TotalScore, "total of %s", p.ID)
		assert.LessOrEqual(t, len(p.RoundScores), s.CurrentRound)
	}
}

func TestStartInitialisesSession(t *testing.T) {
	in := players("p1", "p2")
	in[0].RoundScores = []float64{99}
	in[0].TotalScore = 99

	s, err := Start("s1", lowestTo100(), in, nil, startedAt)
	require.NoError(t, err)

	assert.Equal(t, models.SessionActive, s.Status)
	assert.Equal(t, models.ModePlayers, s.Mode)
	assert.Equal(t, 1, s.CurrentRound)
	assert.Equal(t, "skyjo", s.GameID)
	for i, p := range s.Players {
		assert.Empty(t, p.RoundScores)
		assert.Zero(t, p.TotalScore)
		assert.Equal(t, i+1, p.Position)
		assert.Equal(t, models.KindPlayer, p.Kind)
	}
	assert.Equal(t, []float64{99}, in[0].RoundScores, "input must not be mutated")
}

func TestStartRejectsEmptyAndDuplicates(t *testing.T) {
	_, err := Start("s1", lowestTo100(), nil, nil, startedAt)
	assert.ErrorIs(t, err, ErrNoParticipants)

	_, err = Start("s1", lowestTo100(), players("p1", "p1"), nil, startedAt)
	assert.ErrorIs(t, err, ErrDuplicateParticipant)
}

func TestStartTeams(t *testing.T) {
	teams := []models.Participant{
		{ID: "t1", Name: "Red", MemberIDs: []string{"p1", "p2"}},
		{ID: "t2", Name: "Blue", MemberIDs: []string{"p3"}},
	}

	s, err := Start("s1", lowestTo100(), players("p1", "p2", "p3"), teams, startedAt)
	require.NoError(t, err)
	assert.Equal(t, models.ModeTeams, s.Mode)
	assert.Equal(t, []string{"p1", "p2"}, find(t, s, "t1").MemberNames)
	assert.Len(t, s.Ranked(), 2)

	_, err = Start("s1", lowestTo100(), players("p1"), teams, startedAt)
	assert.ErrorIs(t, err, ErrTeamMemberUnknown)

	_, err = Start("s1", lowestTo100(), players("p1"), []models.Participant{{ID: "t1", Name: "Empty"}}, startedAt)
	assert.ErrorIs(t, err, ErrTeamWithoutMembers)

	shared := []models.Participant{
		{ID: "x", Name: "X", MemberIDs: []string{"p1", "p2"}},
		{ID: "y", Name: "Y", MemberIDs: []string{"p1", "p3"}},
	}
	_, err = Start("s1", lowestTo100(), players("p1", "p2", "p3"), shared, startedAt)
	assert.ErrorIs(t, err, ErrMemberInTwoTeams)

	_, err = Start("s1", lowestTo100(), players("p1", "p2"), []models.Participant{{ID: "x", Name: "X", MemberIDs: []string{"p1", "p1"}}, {ID: "y", Name: "Y", MemberIDs: []string{"p2"}}}, startedAt)
	assert.ErrorIs(t, err, ErrDuplicateParticipant)
}

func TestNumericSubmitTouchesOneParticipant(t *testing.T) {
	rules := lowestTo100()
	s, err := Start("s1", rules, players("p1", "p2", "p3"), nil, startedAt)
	require.NoError(t, err)

	next := submit(t, s, rules, "p2", 12)

	assert.Equal(t, s.CurrentRound, next.CurrentRound)
	assert.Len(t, find(t, next, "p2").RoundScores, 1)
	assert.Empty(t, find(t, next, "p1").RoundScores)
	assert.Empty(t, find(t, next, "p3").RoundScores)
	assert.Empty(t, find(t, s, "p2").RoundScores, "previous session value must not change")
	assertTotalsConsistent(t, next)
}

func TestNumericSubmitGuards(t *testing.T) {
	rules := lowestTo100()
	s, err := Start("s1", rules, players("p1", "p2"), nil, startedAt)
	require.NoError(t, err)

	_, err = SubmitScore(s, rules, "ghost", 1)
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	s = submit(t, s, rules, "p1", 5)
	same, err := SubmitScore(s, rules, "p1", 5)
	assert.ErrorIs(t, err, ErrAlreadyScored)
	assert.Equal(t, s, same)

	finished := Finish(s, startedAt)
	_, err = SubmitScore(finished, rules, "p2", 1)
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestNumericSubmitAcceptsNegativeScores(t *testing.T) {
	rules := lowestTo100()
	rules.AllowNegative = false
	s, err := Start("s1", rules, players("p1", "p2"), nil, startedAt)
	require.NoError(t, err)

	s = submit(t, s, rules, "p1", -8)
	assert.Equal(t, -8.0, find(t, s, "p1").TotalScore)
}

func TestScenarioTieKeepsInputOrder(t *testing.T) {
	rules := lowestTo100()
	s, err := Start("s1", rules, players("P1", "P2"), nil, startedAt)
	require.NoError(t, err)

	s = submit(t, s, rules, "P1", 30)
	s = submit(t, s, rules, "P2", 50)
	require.True(t, AllScoredThisRound(s))
	s = AdvanceRound(s)
	s = submit(t, s, rules, "P1", 40)
	s = submit(t, s, rules, "P2", 20)

	assert.Equal(t, 70.0, find(t, s, "P1").TotalScore)
	assert.Equal(t, 70.0, find(t, s, "P2").TotalScore)
	assert.Equal(t, 1, find(t, s, "P1").Position)
	assert.Equal(t, 2, find(t, s, "P2").Position)
	assert.False(t, WinConditionMet(s, rules))
	assertTotalsConsistent(t, s)
}

func TestScenarioWinConditionIsAdvisory(t *testing.T) {
	rules := lowestTo100()
	s, err := Start("s1", rules, players("P1", "P2"), nil, startedAt)
	require.NoError(t, err)

	s = submit(t, s, rules, "P1", 60)
	s = AdvanceRound(s)
	s = submit(t, s, rules, "P1", 45)

	assert.Equal(t, 105.0, find(t, s, "P1").TotalScore)
	assert.True(t, WinConditionMet(s, rules))
	assert.Equal(t, models.SessionActive, s.Status)
}

func TestWinConditionWithoutCap(t *testing.T) {
	rules := winnerTakesAll()
	s, err := Start("s1", rules, players("a", "b"), nil, startedAt)
	require.NoError(t, err)
	s = submit(t, s, rules, "a", 0)
	assert.False(t, WinConditionMet(s, rules))
}

func TestScenarioWinnerTakesAll(t *testing.T) {
	rules := winnerTakesAll()
	s, err := Start("s1", rules, players("P1", "P2", "P3"), nil, startedAt)
	require.NoError(t, err)

	next := submit(t, s, rules, "P2", 0)

	assert.Equal(t, []float64{1}, find(t, next, "P2").RoundScores)
	assert.Equal(t, []float64{0}, find(t, next, "P1").RoundScores)
	assert.Equal(t, []float64{0}, find(t, next, "P3").RoundScores)
	assert.Equal(t, 2, next.CurrentRound)
	assert.Equal(t, "P2", next.Players[0].ID)
	assert.Equal(t, 1, find(t, next, "P2").Position)
	assertTotalsConsistent(t, next)
}

func TestWinnerTakesAllGrowsEveryoneByOne(t *testing.T) {
	rules := winnerTakesAll()
	s, err := Start("s1", rules, players("a", "b", "c", "d"), nil, startedAt)
	require.NoError(t, err)

	for round, winner := range []string{"a", "c", "c", "d", "b"} {
		before := s
		s = submit(t, s, rules, winner, 0)
		assert.Equal(t, before.CurrentRound+1, s.CurrentRound)
		for _, p := range s.Players {
			assert.Len(t, p.RoundScores, round+1)
		}
		// The round already moved on, so nobody has scored the new one yet.
		assert.False(t, AllScoredThisRound(s))
	}
	assert.Equal(t, "c", s.Players[0].ID)
	assertTotalsConsistent(t, s)
}

func TestTeamScoring(t *testing.T) {
	rules := lowestTo100()
	rules.VictoryCondition = models.VictoryHighestScore
	teams := []models.Participant{
		{ID: "t1", Name: "Red", MemberIDs: []string{"p1", "p2"}},
		{ID: "t2", Name: "Blue", MemberIDs: []string{"p3", "p4"}},
	}
	s, err := Start("s1", rules, players("p1", "p2", "p3", "p4"), teams, startedAt)
	require.NoError(t, err)

	_, err = SubmitScore(s, rules, "p1", 10)
	assert.ErrorIs(t, err, ErrParticipantNotFound, "members are not scored directly")

	s = submit(t, s, rules, "t2", 10)
	s = submit(t, s, rules, "t1", 4)
	assert.True(t, AllScoredThisRound(s))
	assert.Equal(t, "t2", s.Teams[0].ID)
	for _, p := range s.Players {
		assert.Empty(t, p.RoundScores)
	}
}

func TestAdvanceRoundEarlyKeepsScores(t *testing.T) {
	rules := lowestTo100()
	s, err := Start("s1", rules, players("a", "b"), nil, startedAt)
	require.NoError(t, err)
	s = submit(t, s, rules, "a", 3)
	require.False(t, AllScoredThisRound(s))

	s = AdvanceRound(s)

	assert.Equal(t, 2, s.CurrentRound)
	assert.Equal(t, []float64{3}, find(t, s, "a").RoundScores)
	s = submit(t, s, rules, "b", 9)
	assert.Equal(t, []float64{9}, find(t, s, "b").RoundScores)
}

func TestFinishAndWinner(t *testing.T) {
	rules := lowestTo100()
	s, err := Start("s1", rules, players("a", "b"), nil, startedAt)
	require.NoError(t, err)
	s = submit(t, s, rules, "a", 20)
	s = submit(t, s, rules, "b", 10)

	end := startedAt.Add(time.Hour)
	done := Finish(s, end)

	assert.Equal(t, models.SessionFinished, done.Status)
	require.NotNil(t, done.FinishedAt)
	assert.Equal(t, end, *done.FinishedAt)
	assert.Nil(t, s.FinishedAt)

	w, ok := Winner(done, models.VictoryLowestScore)
	require.True(t, ok)
	assert.Equal(t, "b", w.ID)
	w, _ = Winner(done, models.VictoryHighestScore)
	assert.Equal(t, "a", w.ID)
}

func TestNormalizeRecomputesTotals(t *testing.T) {
	s := models.GameSession{
		ID:           "old",
		CurrentRound: 0,
		Players: []models.Participant{
			{ID: "a", RoundScores: []float64{1, 2}, TotalScore: 999},
			{ID: "b"},
		},
	}

	got := Normalize(s, models.VictoryHighestScore)

	assert.Equal(t, models.ModePlayers, got.Mode)
	assert.Equal(t, 1, got.CurrentRound)
	assert.Equal(t, 3.0, find(t, got, "a").TotalScore)
	assert.NotNil(t, find(t, got, "b").RoundScores)
	assert.Equal(t, 1, find(t, got, "a").Position)
}
