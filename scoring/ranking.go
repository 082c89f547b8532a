// Package scoring implements ranking and the game session state machine.
// Every function returns new values and leaves its inputs untouched.
package scoring

import (
	"sort"

	"github.com/Dosada05/scoremaster/models"
)

// Scoreable is anything ranked by its total score.
type Scoreable interface {
	ScoreTotal() float64
}

// Order returns the indices of entities in ranking order. The sort is stable:
// equal totals keep their input order.
func Order[S Scoreable](entities []S, vc models.VictoryCondition) []int {
	idx := make([]int, len(entities))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa := entities[idx[a]].ScoreTotal()
		sb := entities[idx[b]].ScoreTotal()
		if vc == models.VictoryLowestScore {
			return sa < sb
		}
		return sa > sb
	})
	return idx
}

// Rank sorts participants by victory condition and assigns positions 1..n.
// Ties get distinct sequential positions in input order.
func Rank(entities []models.Participant, vc models.VictoryCondition) []models.Participant {
	order := Order(entities, vc)
	ranked := make([]models.Participant, len(entities))
	for pos, i := range order {
		p := entities[i].Clone()
		p.Position = pos + 1
		ranked[pos] = p
	}
	return ranked
}
