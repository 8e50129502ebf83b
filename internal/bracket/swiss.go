package bracket

// swiss only pairs round 1. Later rounds are placeholders: pairing them needs a standings
// policy that the club has not defined yet, so nothing links into them.
type swiss struct{}

func (swiss) Format() Format { return Swiss }

func (swiss) CheckCount(int) error { return nil }

func (swiss) Rounds(n int) []RoundSpec {
	total := len(eliminationCounts(n))
	rounds := make([]RoundSpec, 0, total)
	for r := 1; r <= total; r++ {
		rounds = append(rounds, RoundSpec{
			Side:       SwissSide,
			Number:     r,
			FirstMatch: 1,
			Matches:    (n + 1) / 2,
			Label:      RoundName(Swiss, r, total),
		})
	}
	return rounds
}

func (swiss) Links(int) []Link { return nil }

func (swiss) Pairings(participants []Participant) []Pairing {
	return sequentialPairings(participants, 1, 1)
}

func (swiss) FinalMatch(int) (MatchKey, bool) { return MatchKey{}, false }
