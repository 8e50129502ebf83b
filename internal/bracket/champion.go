package bracket

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

type Standing struct {
	Participant Participant `json:"participant"`
	Played      int         `json:"played"`
	Wins        int         `json:"wins"`
	Losses      int         `json:"losses"`
	// Racks won minus racks lost, byes excluded
	ScoreDiff int `json:"score_diff"`
}

// Standings ranks participants by wins, then score difference, then seed.
func Standings(participants []Participant, matches []Match) []Standing {
	rows := make(map[uuid.UUID]*Standing, len(participants))
	table := make([]Standing, len(participants))
	for i, p := range participants {
		table[i] = Standing{Participant: p}
		rows[p.ID] = &table[i]
	}

	for i := range matches {
		m := &matches[i]
		if m.Status != MatchCompleted || m.IsBye || m.WinnerID == nil {
			continue
		}
		loser := m.LoserID()
		winner, ok := rows[*m.WinnerID]
		if !ok || loser == nil {
			continue
		}
		lost, ok := rows[*loser]
		if !ok {
			continue
		}

		diff := 0
		if m.Score1 != nil && m.Score2 != nil {
			diff = *m.Score1 - *m.Score2
			if m.WinnerSlot() == 2 {
				diff = -diff
			}
		}

		winner.Played++
		winner.Wins++
		winner.ScoreDiff += diff
		lost.Played++
		lost.Losses++
		lost.ScoreDiff -= diff
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.ScoreDiff != b.ScoreDiff {
			return a.ScoreDiff > b.ScoreDiff
		}
		return a.Participant.Seed < b.Participant.Seed
	})
	return table
}

// Champion returns the tournament winner, or nil while it is still undecided. Elimination
// formats are decided by their final match, round robin and Swiss by the standings once every
// match is completed.
func Champion(format Format, participants []Participant, matches []Match) (*uuid.UUID, error) {
	topo, err := TopologyFor(format)
	if err != nil {
		return nil, err
	}

	if final, ok := topo.FinalMatch(len(participants)); ok {
		for i := range matches {
			m := &matches[i]
			if m.Key() == final {
				if m.Status == MatchCompleted && m.WinnerID != nil {
					id := *m.WinnerID
					return &id, nil
				}
				return nil, nil
			}
		}
		return nil, fmt.Errorf("%w: final match %s is missing", ErrUnknownFeederReference, final)
	}

	if len(matches) == 0 || len(participants) == 0 {
		return nil, nil
	}
	for i := range matches {
		if matches[i].Status != MatchCompleted {
			return nil, nil
		}
	}
	id := Standings(participants, matches)[0].Participant.ID
	return &id, nil
}
