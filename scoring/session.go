package scoring

import (
	"fmt"
	"time"

	"github.com/Dosada05/scoremaster/models"
)

// Start builds a new active session. Teams, when given, become the ranked
// entities and players are carried for identity only.
func Start(id string, rules models.GameRuleSet, players, teams []models.Participant, now time.Time) (models.GameSession, error) {
	mode := models.ModePlayers
	if len(teams) > 0 {
		mode = models.ModeTeams
	}

	session := models.GameSession{
		ID:           id,
		GameID:       rules.ID,
		Mode:         mode,
		Players:      resetParticipants(players, models.KindPlayer),
		CurrentRound: 1,
		Status:       models.SessionActive,
		StartedAt:    now,
	}
	if err := checkUnique(session.Players); err != nil {
		return models.GameSession{}, err
	}

	if mode == models.ModeTeams {
		session.Teams = resetParticipants(teams, models.KindTeam)
		if err := checkUnique(session.Teams); err != nil {
			return models.GameSession{}, err
		}
		names := make(map[string]string, len(session.Players))
		for _, p := range session.Players {
			names[p.ID] = p.Name
		}
		seen := make(map[string]string, len(session.Players))
		for i := range session.Teams {
			team := &session.Teams[i]
			if len(team.MemberIDs) == 0 {
				return models.GameSession{}, fmt.Errorf("%w: %s", ErrTeamWithoutMembers, team.ID)
			}
			team.MemberNames = make([]string, len(team.MemberIDs))
			for j, memberID := range team.MemberIDs {
				name, ok := names[memberID]
				if !ok {
					return models.GameSession{}, fmt.Errorf("%w: %s", ErrTeamMemberUnknown, memberID)
				}
				if other, taken := seen[memberID]; taken {
					if other == team.ID {
						return models.GameSession{}, fmt.Errorf("%w: %s in %s", ErrDuplicateParticipant, memberID, team.ID)
					}
					return models.GameSession{}, fmt.Errorf("%w: %s in %s and %s", ErrMemberInTwoTeams, memberID, other, team.ID)
				}
				seen[memberID] = team.ID
				team.MemberNames[j] = name
			}
		}
	}

	if len(session.Ranked()) == 0 {
		return models.GameSession{}, ErrNoParticipants
	}
	return rerank(session, rules.VictoryCondition), nil
}

// SubmitScore records a score according to the rule set's scoring mode.
// In winner_takes_all mode participantID is the round winner and the round
// advances as part of the same call.
func SubmitScore(session models.GameSession, rules models.GameRuleSet, participantID string, value float64) (models.GameSession, error) {
	if session.Status != models.SessionActive {
		return session, ErrSessionNotActive
	}
	if indexOf(session.Ranked(), participantID) < 0 {
		return session, fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
	}

	next := session.Clone()
	ranked := next.Ranked()

	switch rules.EffectiveScoringMode() {
	case models.ScoringWinnerTakesAll:
		for i := range ranked {
			points := 0.0
			if ranked[i].ID == participantID {
				points = 1
			}
			ranked[i].RoundScores = append(ranked[i].RoundScores, points)
			ranked[i].SumScores()
		}
		next.CurrentRound++
	default:
		i := indexOf(ranked, participantID)
		if len(ranked[i].RoundScores) >= next.CurrentRound {
			return session, fmt.Errorf("%w: %s", ErrAlreadyScored, participantID)
		}
		ranked[i].RoundScores = append(ranked[i].RoundScores, value)
		ranked[i].SumScores()
	}

	return rerank(next, rules.VictoryCondition), nil
}

// AllScoredThisRound reports whether every ranked participant has a score for
// the current round.
func AllScoredThisRound(session models.GameSession) bool {
	for _, p := range session.Ranked() {
		if len(p.RoundScores) != session.CurrentRound {
			return false
		}
	}
	return true
}

// AdvanceRound moves to the next round. Calling it early loses nothing:
// scores are append-only and the round number only gates "scored this round".
func AdvanceRound(session models.GameSession) models.GameSession {
	next := session.Clone()
	next.CurrentRound++
	return next
}

// WinConditionMet is advisory: it never ends the session.
func WinConditionMet(session models.GameSession, rules models.GameRuleSet) bool {
	if rules.WinningScore == nil {
		return false
	}
	for _, p := range session.Ranked() {
		if p.TotalScore >= *rules.WinningScore {
			return true
		}
	}
	return false
}

// Finish marks the session finished at now.
func Finish(session models.GameSession, now time.Time) models.GameSession {
	next := session.Clone()
	next.Status = models.SessionFinished
	next.FinishedAt = &now
	return next
}

// Winner returns the rank-1 entity under vc.
func Winner(session models.GameSession, vc models.VictoryCondition) (models.Participant, bool) {
	ranked := Rank(session.Ranked(), vc)
	if len(ranked) == 0 {
		return models.Participant{}, false
	}
	return ranked[0], true
}

// Normalize recomputes totals and positions, e.g. after loading a blob.
func Normalize(session models.GameSession, vc models.VictoryCondition) models.GameSession {
	next := session.Clone()
	if next.Mode == "" {
		next.Mode = models.ModePlayers
	}
	if next.CurrentRound < 1 {
		next.CurrentRound = 1
	}
	for i := range next.Players {
		fixParticipant(&next.Players[i], models.KindPlayer)
	}
	for i := range next.Teams {
		fixParticipant(&next.Teams[i], models.KindTeam)
	}
	if vc == "" {
		return next
	}
	return rerank(next, vc)
}

func fixParticipant(p *models.Participant, kind models.ParticipantKind) {
	if p.RoundScores == nil {
		p.RoundScores = []float64{}
	}
	if p.Kind == "" {
		p.Kind = kind
	}
	p.SumScores()
}

func rerank(session models.GameSession, vc models.VictoryCondition) models.GameSession {
	if session.Mode == models.ModeTeams {
		session.Teams = Rank(session.Teams, vc)
	} else {
		session.Players = Rank(session.Players, vc)
	}
	return session
}

func resetParticipants(in []models.Participant, kind models.ParticipantKind) []models.Participant {
	out := make([]models.Participant, len(in))
	for i, p := range in {
		c := p.Clone()
		c.Kind = kind
		c.RoundScores = []float64{}
		c.TotalScore = 0
		c.Position = 0
		out[i] = c
	}
	return out
}

func checkUnique(ps []models.Participant) error {
	seen := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func indexOf(ps []models.Participant, id string) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}
