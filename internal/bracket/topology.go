package bracket

import (
	"fmt"

	"github.com/AdamBeresnev/sabo-arena/internal/utils"
	"github.com/google/uuid"
)

// Round number bases. Keeping every stage in its own range makes (round, match) order a valid
// topological order of any bracket, which is what lets the resolver cascade in one pass.
const (
	LosersRoundBase  = 100
	BranchBRoundBase = 200
	FinalsRoundBase  = 300
	CrossRoundBase   = 400
)

type Outcome string

const (
	OutcomeWinner Outcome = "winner"
	OutcomeLoser  Outcome = "loser"
)

// RoundSpec lays out one round (or one group's share of a round).
type RoundSpec struct {
	Side   BracketSide
	Group  string
	Number int
	// Match numbers FirstMatch .. FirstMatch+Matches-1
	FirstMatch int
	Matches    int
	Label      string
}

// Link is one entry of a format's progression map: the Outcome player of From fills Slot of To.
type Link struct {
	From    MatchKey
	Outcome Outcome
	To      MatchKey
	Slot    int
	// Grand final reset feed: carries the loser only when the slot 2 entrant won From
	ResetOnly bool
}

type Pairing struct {
	Key     MatchKey
	Player1 *Participant
	Player2 *Participant
}

type Topology interface {
	Format() Format
	// CheckCount enforces format specific participant counts, n >= 2 is checked by the caller
	CheckCount(n int) error
	Rounds(n int) []RoundSpec
	Links(n int) []Link
	Pairings(participants []Participant) []Pairing
	// FinalMatch is the match whose winner is champion, false for standings based formats
	FinalMatch(n int) (MatchKey, bool)
}

// Generate builds every match of a tournament: round 1 seeded from the participants,
// later slots empty and advancement pointers set from the format's progression map.
func Generate(tournamentID uuid.UUID, format Format, participants []Participant) ([]Match, error) {
	topo, err := TopologyFor(format)
	if err != nil {
		return nil, err
	}

	n := len(participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientParticipants, n)
	}
	if err := topo.CheckCount(n); err != nil {
		return nil, err
	}

	var matches []Match
	for _, round := range topo.Rounds(n) {
		for i := 0; i < round.Matches; i++ {
			matches = append(matches, Match{
				ID:           uuid.New(),
				TournamentID: tournamentID,
				BracketSide:  round.Side,
				BracketGroup: round.Group,
				RoundNumber:  round.Number,
				MatchNumber:  round.FirstMatch + i,
				RoundLabel:   round.Label,
				Status:       MatchPending,
			})
		}
	}

	sortMatches(matches)
	index := make(map[MatchKey]*Match, len(matches))
	for i := range matches {
		matches[i].DisplayOrder = i + 1
		index[matches[i].Key()] = &matches[i]
	}

	for _, link := range topo.Links(n) {
		from, ok := index[link.From]
		if !ok {
			return nil, fmt.Errorf("%w: %s feeds %s", ErrUnknownFeederReference, link.From, link.To)
		}
		if _, ok := index[link.To]; !ok {
			return nil, fmt.Errorf("%w: %s advances to %s", ErrUnknownFeederReference, link.From, link.To)
		}
		if link.From == link.To {
			return nil, fmt.Errorf("%w: %s", ErrSelfAdvancementLoop, link.From)
		}

		switch link.Outcome {
		case OutcomeWinner:
			from.WinnerNextRound = utils.Ptr(link.To.Round)
			from.WinnerNextMatch = utils.Ptr(link.To.Match)
			from.WinnerNextSlot = utils.Ptr(link.Slot)
		case OutcomeLoser:
			from.LoserNextRound = utils.Ptr(link.To.Round)
			from.LoserNextMatch = utils.Ptr(link.To.Match)
			from.LoserNextSlot = utils.Ptr(link.Slot)
		}
	}

	for _, pairing := range topo.Pairings(participants) {
		m, ok := index[pairing.Key]
		if !ok {
			return nil, fmt.Errorf("%w: seeding targets %s", ErrUnknownFeederReference, pairing.Key)
		}
		seat(m, pairing)
	}

	if err := Validate(matches); err != nil {
		return nil, err
	}

	return matches, nil
}

func seat(m *Match, p Pairing) {
	if p.Player1 != nil {
		m.Player1ID = utils.Ptr(p.Player1.ID)
	}
	if p.Player2 != nil {
		m.Player2ID = utils.Ptr(p.Player2.ID)
	}

	switch {
	case m.Player1ID != nil && m.Player2ID != nil:
		m.Status = MatchReady
	case m.Player1ID != nil:
		closeAsBye(m, *m.Player1ID)
	case m.Player2ID != nil:
		closeAsBye(m, *m.Player2ID)
	}
}

// closeAsBye moves the lone player into slot 1 and completes the match with the sentinel score.
func closeAsBye(m *Match, player uuid.UUID) {
	m.Player1ID = utils.Ptr(player)
	m.Player2ID = nil
	m.WinnerID = utils.Ptr(player)
	m.Score1 = utils.Ptr(ByeWinnerScore)
	m.Score2 = utils.Ptr(ByeLoserScore)
	m.Status = MatchCompleted
	m.IsBye = true
}

// eliminationCounts returns the match count of every winners round for n players:
// ceil(n/2) first, then halving (rounded up) until a single match is left.
func eliminationCounts(n int) []int {
	counts := []int{(n + 1) / 2}
	for c := counts[0]; c > 1; {
		c = (c + 1) / 2
		counts = append(counts, c)
	}
	return counts
}

// winnersLinks wires round r match j from round r-1 matches 2j-1 and 2j. With an odd
// previous round the last match only has one feeder and is closed as a bye when it resolves.
func winnersLinks(counts []int, firstRound int, matchOffset func(round int) int) []Link {
	var links []Link
	for r := 1; r < len(counts); r++ {
		round := firstRound + r
		prev := round - 1
		for j := 1; j <= counts[r]; j++ {
			to := MatchKey{Round: round, Match: matchOffset(round) + j}
			for slot, src := range []int{2*j - 1, 2 * j} {
				if src > counts[r-1] {
					continue
				}
				links = append(links, Link{
					From:    MatchKey{Round: prev, Match: matchOffset(prev) + src},
					Outcome: OutcomeWinner,
					To:      to,
					Slot:    slot + 1,
				})
			}
		}
	}
	return links
}

// playedWinnersMatches lists the winners bracket matches that get two real players, the only
// ones that produce a loser.
func playedWinnersMatches(n int, counts []int) [][]MatchKey {
	played := make([][]MatchKey, len(counts))
	entrants := n
	for r, c := range counts {
		for j := 1; j <= c; j++ {
			if 2*j <= entrants {
				played[r] = append(played[r], MatchKey{Round: r + 1, Match: j})
			}
		}
		entrants = c
	}
	return played
}

// sequentialPairings seats positions 2i and 2i+1 in match i+1 of round 1.
func sequentialPairings(participants []Participant, round, firstMatch int) []Pairing {
	var pairings []Pairing
	for i := 0; i < len(participants); i += 2 {
		p := Pairing{
			Key:     MatchKey{Round: round, Match: firstMatch + i/2},
			Player1: &participants[i],
		}
		if i+1 < len(participants) {
			p.Player2 = &participants[i+1]
		}
		pairings = append(pairings, p)
	}
	return pairings
}

func noOffset(int) int { return 0 }
