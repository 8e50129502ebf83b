package bracket

// Everyone plays everyone once, all in a single round.
type roundRobin struct{}

func (roundRobin) Format() Format { return RoundRobin }

func (roundRobin) CheckCount(int) error { return nil }

func (roundRobin) Rounds(n int) []RoundSpec {
	return []RoundSpec{{
		Side:       RoundRobinSide,
		Number:     1,
		FirstMatch: 1,
		Matches:    n * (n - 1) / 2,
		Label:      RoundName(RoundRobin, 1, 1),
	}}
}

func (roundRobin) Links(int) []Link { return nil }

// Pairs in lexicographic order: (1,2), (1,3) ... (1,n), (2,3) ...
func (roundRobin) Pairings(participants []Participant) []Pairing {
	var pairings []Pairing
	matchNumber := 0
	for i := 0; i < len(participants); i++ {
		for j := i + 1; j < len(participants); j++ {
			matchNumber++
			pairings = append(pairings, Pairing{
				Key:     MatchKey{Round: 1, Match: matchNumber},
				Player1: &participants[i],
				Player2: &participants[j],
			})
		}
	}
	return pairings
}

func (roundRobin) FinalMatch(int) (MatchKey, bool) { return MatchKey{}, false }
