package bracket

type singleElimination struct{}

func (singleElimination) Format() Format { return SingleElimination }

func (singleElimination) CheckCount(int) error { return nil }

func (singleElimination) Rounds(n int) []RoundSpec {
	counts := eliminationCounts(n)
	rounds := make([]RoundSpec, 0, len(counts))
	for r, c := range counts {
		rounds = append(rounds, RoundSpec{
			Side:       WinnersSide,
			Number:     r + 1,
			FirstMatch: 1,
			Matches:    c,
			Label:      RoundName(SingleElimination, r+1, len(counts)),
		})
	}
	return rounds
}

func (singleElimination) Links(n int) []Link {
	return winnersLinks(eliminationCounts(n), 1, noOffset)
}

func (singleElimination) Pairings(participants []Participant) []Pairing {
	return sequentialPairings(participants, 1, 1)
}

func (singleElimination) FinalMatch(n int) (MatchKey, bool) {
	return MatchKey{Round: len(eliminationCounts(n)), Match: 1}, true
}
