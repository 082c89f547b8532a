package models

// ParticipantKind различает игроков и команды внутри сессии.
type ParticipantKind string

const (
	KindPlayer ParticipantKind = "player"
	KindTeam   ParticipantKind = "team"
)

// Participant описывает общую форму игрока и команды во время сессии.
// TotalScore всегда равен сумме RoundScores.
type Participant struct {
	ID          string          `json:"id"`
	Kind        ParticipantKind `json:"kind,omitempty"`
	Name        string          `json:"name"`
	RoundScores []float64       `json:"roundScores"`
	TotalScore  float64         `json:"totalScore"`
	Position    int             `json:"position,omitempty"`

	// Player identity, snapshotted from the saved roster.
	Color  string `json:"color,omitempty"`
	Avatar string `json:"avatar,omitempty"`

	// Team composition.
	MemberIDs   []string `json:"memberIds,omitempty"`
	MemberNames []string `json:"memberNames,omitempty"`
}

func (p Participant) ScoreTotal() float64 {
	return p.TotalScore
}

// Clone returns a copy that shares no slices with p.
func (p Participant) Clone() Participant {
	c := p
	c.RoundScores = append([]float64{}, p.RoundScores...)
	if p.MemberIDs != nil {
		c.MemberIDs = append([]string{}, p.MemberIDs...)
	}
	if p.MemberNames != nil {
		c.MemberNames = append([]string{}, p.MemberNames...)
	}
	return c
}

// SumScores recomputes TotalScore from RoundScores.
func (p *Participant) SumScores() {
	var total float64
	for _, s := range p.RoundScores {
		total += s
	}
	p.TotalScore = total
}

// SavedPlayer хранит шаблон игрока в сохранённом списке, он не связан с сессиями.
type SavedPlayer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Avatar string `json:"avatar"`
}
