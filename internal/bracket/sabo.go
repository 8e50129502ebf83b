package bracket

import "fmt"

const (
	saboGroupSize  = 16
	saboDE32Size   = 32
	saboMatchCount = 27
)

// Matches per round of one SABO DE16 group.
var saboRoundMatches = []struct {
	side    BracketSide
	round   int
	matches int
}{
	{WinnersSide, 1, 8},
	{WinnersSide, 2, 4},
	{WinnersSide, 3, 2},
	{LosersASide, LosersRoundBase + 1, 4},
	{LosersASide, LosersRoundBase + 2, 2},
	{LosersASide, LosersRoundBase + 3, 1},
	{LosersBSide, BranchBRoundBase + 1, 2},
	{LosersBSide, BranchBRoundBase + 2, 1},
	{FinalsSide, FinalsRoundBase + 1, 2},
	{FinalsSide, FinalsRoundBase + 2, 1},
}

func saboMatchesIn(round int) int {
	for _, r := range saboRoundMatches {
		if r.round == round {
			return r.matches
		}
	}
	return 0
}

// saboGroup lays out one 16 player SABO bracket. groupIndex shifts match numbers so two groups
// can share rounds: group 0 takes the first half of every round, group 1 the second half.
type saboGroup struct {
	format     Format
	name       string
	groupIndex int
}

func (g saboGroup) key(round, match int) MatchKey {
	return MatchKey{Round: round, Match: g.groupIndex*saboMatchesIn(round) + match}
}

func (g saboGroup) rounds() []RoundSpec {
	total := len(saboRoundMatches)
	specs := make([]RoundSpec, 0, total)
	for _, r := range saboRoundMatches {
		label := RoundName(g.format, r.round, total)
		if g.name != "" {
			label = fmt.Sprintf("Group %s %s", g.name, label)
		}
		specs = append(specs, RoundSpec{
			Side:       r.side,
			Group:      g.name,
			Number:     r.round,
			FirstMatch: g.groupIndex*r.matches + 1,
			Matches:    r.matches,
			Label:      label,
		})
	}
	return specs
}

// links: the winners bracket stops at two survivors. Winners round 1 losers make up branch A,
// winners round 2 losers branch B, winners round 3 losers are out. The SABO semifinals pit each
// winners survivor against one branch champion.
func (g saboGroup) links() []Link {
	links := winnersLinks([]int{8, 4, 2}, 1, func(round int) int {
		return g.groupIndex * saboMatchesIn(round)
	})

	pairInto := func(fromRound int, outcome Outcome, toRound, targets int) {
		for j := 1; j <= targets; j++ {
			to := g.key(toRound, j)
			links = append(links,
				Link{From: g.key(fromRound, 2*j-1), Outcome: outcome, To: to, Slot: 1},
				Link{From: g.key(fromRound, 2*j), Outcome: outcome, To: to, Slot: 2},
			)
		}
	}

	pairInto(1, OutcomeLoser, LosersRoundBase+1, 4)
	pairInto(LosersRoundBase+1, OutcomeWinner, LosersRoundBase+2, 2)
	pairInto(LosersRoundBase+2, OutcomeWinner, LosersRoundBase+3, 1)

	pairInto(2, OutcomeLoser, BranchBRoundBase+1, 2)
	pairInto(BranchBRoundBase+1, OutcomeWinner, BranchBRoundBase+2, 1)

	semi1 := g.key(FinalsRoundBase+1, 1)
	semi2 := g.key(FinalsRoundBase+1, 2)
	links = append(links,
		Link{From: g.key(3, 1), Outcome: OutcomeWinner, To: semi1, Slot: 1},
		Link{From: g.key(LosersRoundBase+3, 1), Outcome: OutcomeWinner, To: semi1, Slot: 2},
		Link{From: g.key(3, 2), Outcome: OutcomeWinner, To: semi2, Slot: 1},
		Link{From: g.key(BranchBRoundBase+2, 1), Outcome: OutcomeWinner, To: semi2, Slot: 2},
	)
	pairInto(FinalsRoundBase+1, OutcomeWinner, FinalsRoundBase+2, 1)

	return links
}

func (g saboGroup) final() MatchKey {
	return g.key(FinalsRoundBase+2, 1)
}

type saboDE16 struct{}

func (saboDE16) Format() Format { return SaboDE16 }

func (saboDE16) CheckCount(n int) error {
	if n != saboGroupSize {
		return fmt.Errorf("%w: %s needs exactly %d participants, got %d", ErrInvalidParticipantCount, SaboDE16, saboGroupSize, n)
	}
	return nil
}

func (saboDE16) Rounds(int) []RoundSpec {
	return saboGroup{format: SaboDE16}.rounds()
}

func (saboDE16) Links(int) []Link {
	return saboGroup{format: SaboDE16}.links()
}

func (saboDE16) Pairings(participants []Participant) []Pairing {
	return sequentialPairings(participants, 1, 1)
}

func (saboDE16) FinalMatch(int) (MatchKey, bool) {
	return saboGroup{format: SaboDE16}.final(), true
}

// saboDE32 runs two DE16 groups, first and second half of the participant list, then a cross
// stage: each group champion meets the other group's runner-up, and the two winners play the final.
type saboDE32 struct{}

var saboDE32Groups = []saboGroup{
	{format: SaboDE32, name: "A", groupIndex: 0},
	{format: SaboDE32, name: "B", groupIndex: 1},
}

func (saboDE32) Format() Format { return SaboDE32 }

func (saboDE32) CheckCount(n int) error {
	if n != saboDE32Size {
		return fmt.Errorf("%w: %s needs exactly %d participants, got %d", ErrInvalidParticipantCount, SaboDE32, saboDE32Size, n)
	}
	return nil
}

func (saboDE32) Rounds(int) []RoundSpec {
	var rounds []RoundSpec
	for _, g := range saboDE32Groups {
		rounds = append(rounds, g.rounds()...)
	}
	rounds = append(rounds,
		RoundSpec{Side: CrossSide, Number: CrossRoundBase + 1, FirstMatch: 1, Matches: 2, Label: RoundName(SaboDE32, CrossRoundBase+1, 2)},
		RoundSpec{Side: CrossSide, Number: CrossRoundBase + 2, FirstMatch: 1, Matches: 1, Label: RoundName(SaboDE32, CrossRoundBase+2, 2)},
	)
	return rounds
}

func (saboDE32) Links(int) []Link {
	var links []Link
	for _, g := range saboDE32Groups {
		links = append(links, g.links()...)
	}

	groupA, groupB := saboDE32Groups[0].final(), saboDE32Groups[1].final()
	semi1 := MatchKey{Round: CrossRoundBase + 1, Match: 1}
	semi2 := MatchKey{Round: CrossRoundBase + 1, Match: 2}
	final := MatchKey{Round: CrossRoundBase + 2, Match: 1}
	return append(links,
		Link{From: groupA, Outcome: OutcomeWinner, To: semi1, Slot: 1},
		Link{From: groupB, Outcome: OutcomeLoser, To: semi1, Slot: 2},
		Link{From: groupB, Outcome: OutcomeWinner, To: semi2, Slot: 1},
		Link{From: groupA, Outcome: OutcomeLoser, To: semi2, Slot: 2},
		Link{From: semi1, Outcome: OutcomeWinner, To: final, Slot: 1},
		Link{From: semi2, Outcome: OutcomeWinner, To: final, Slot: 2},
	)
}

func (saboDE32) Pairings(participants []Participant) []Pairing {
	pairings := sequentialPairings(participants[:saboGroupSize], 1, 1)
	return append(pairings, sequentialPairings(participants[saboGroupSize:], 1, saboGroupSize/2+1)...)
}

func (saboDE32) FinalMatch(int) (MatchKey, bool) {
	return MatchKey{Round: CrossRoundBase + 2, Match: 1}, true
}
