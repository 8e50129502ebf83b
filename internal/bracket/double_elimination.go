package bracket

type doubleElimination struct{}

// feed is a player-to-be: the winner or loser of an earlier match.
type feed struct {
	from    MatchKey
	outcome Outcome
}

type layout struct {
	rounds []RoundSpec
	links  []Link
}

func (doubleElimination) Format() Format { return DoubleElimination }

func (doubleElimination) CheckCount(int) error { return nil }

func (doubleElimination) Rounds(n int) []RoundSpec { return layoutDoubleElimination(n).rounds }

func (doubleElimination) Links(n int) []Link { return layoutDoubleElimination(n).links }

func (doubleElimination) Pairings(participants []Participant) []Pairing {
	return sequentialPairings(participants, 1, 1)
}

func (doubleElimination) FinalMatch(int) (MatchKey, bool) {
	return MatchKey{Round: FinalsRoundBase + 2, Match: 1}, true
}

// layoutDoubleElimination builds the winners bracket like single elimination, then a losers
// bracket of 2*(W-1) rounds: round 1 pairs the winners round 1 losers, each later winners round
// drops its losers into a round against the losers bracket survivors, and the rounds in between
// pair survivors among themselves. The grand final may need a reset match.
func layoutDoubleElimination(n int) layout {
	var l layout

	counts := eliminationCounts(n)
	winnersRounds := len(counts)
	for r, c := range counts {
		l.rounds = append(l.rounds, RoundSpec{
			Side:       WinnersSide,
			Number:     r + 1,
			FirstMatch: 1,
			Matches:    c,
			Label:      RoundName(DoubleElimination, r+1, winnersRounds),
		})
	}
	l.links = winnersLinks(counts, 1, noOffset)

	played := playedWinnersMatches(n, counts)
	drops := func(winnersRound int) []feed {
		var feeds []feed
		for _, key := range played[winnersRound-1] {
			feeds = append(feeds, feed{from: key, outcome: OutcomeLoser})
		}
		return feeds
	}

	var losersChampion feed
	if winnersRounds == 1 {
		// Two players: the loser of the only winners match goes straight to the grand final
		losersChampion = drops(1)[0]
	} else {
		losersRounds := 2 * (winnersRounds - 1)
		var survivors []feed
		lbRound := 0
		addRound := func(entrants []feed) {
			lbRound++
			number := LosersRoundBase + lbRound
			matches, next := pairFeeds(entrants, number, 1, &l.links)
			l.rounds = append(l.rounds, RoundSpec{
				Side:       LosersSide,
				Number:     number,
				FirstMatch: 1,
				Matches:    matches,
				Label:      RoundName(DoubleElimination, number, losersRounds),
			})
			survivors = next
		}

		addRound(drops(1))
		for k := 2; k <= winnersRounds; k++ {
			addRound(interleave(survivors, reversed(drops(k))))
			if k < winnersRounds {
				addRound(survivors)
			}
		}
		for len(survivors) > 1 {
			addRound(survivors)
		}
		losersChampion = survivors[0]
	}

	grandFinal := MatchKey{Round: FinalsRoundBase + 1, Match: 1}
	reset := MatchKey{Round: FinalsRoundBase + 2, Match: 1}
	l.rounds = append(l.rounds,
		RoundSpec{Side: FinalsSide, Number: grandFinal.Round, FirstMatch: 1, Matches: 1, Label: RoundName(DoubleElimination, grandFinal.Round, 2)},
		RoundSpec{Side: FinalsSide, Number: reset.Round, FirstMatch: 1, Matches: 1, Label: RoundName(DoubleElimination, reset.Round, 2)},
	)
	l.links = append(l.links,
		Link{From: MatchKey{Round: winnersRounds, Match: 1}, Outcome: OutcomeWinner, To: grandFinal, Slot: 1},
		Link{From: losersChampion.from, Outcome: losersChampion.outcome, To: grandFinal, Slot: 2},
		Link{From: grandFinal, Outcome: OutcomeWinner, To: reset, Slot: 1},
		Link{From: grandFinal, Outcome: OutcomeLoser, To: reset, Slot: 2, ResetOnly: true},
	)

	return l
}

// pairFeeds seats entrants two per match in round, returning the match count and the winners
// as the next entrants. An odd entrant out gets a single feeder match.
func pairFeeds(entrants []feed, round, firstMatch int, links *[]Link) (int, []feed) {
	var survivors []feed
	matches := 0
	for i := 0; i < len(entrants); i += 2 {
		to := MatchKey{Round: round, Match: firstMatch + matches}
		*links = append(*links, Link{From: entrants[i].from, Outcome: entrants[i].outcome, To: to, Slot: 1})
		if i+1 < len(entrants) {
			*links = append(*links, Link{From: entrants[i+1].from, Outcome: entrants[i+1].outcome, To: to, Slot: 2})
		}
		survivors = append(survivors, feed{from: to, outcome: OutcomeWinner})
		matches++
	}
	return matches, survivors
}

func interleave(a, b []feed) []feed {
	out := make([]feed, 0, len(a)+len(b))
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
	}
	return out
}

func reversed(feeds []feed) []feed {
	out := make([]feed, len(feeds))
	for i, f := range feeds {
		out[len(feeds)-1-i] = f
	}
	return out
}
