package views

import (
	"sort"

	"github.com/AdamBeresnev/sabo-arena/internal/bracket"
)

type BracketRound struct {
	Number  int
	Label   string
	Matches []bracket.Match
}

// BracketSection is one column group of the bracket page: a side of the bracket within a group.
type BracketSection struct {
	Title  string
	Group  string
	Side   bracket.BracketSide
	Rounds []BracketRound
}

var sideOrder = map[bracket.BracketSide]int{
	bracket.WinnersSide:    0,
	bracket.LosersSide:     1,
	bracket.LosersASide:    2,
	bracket.LosersBSide:    3,
	bracket.FinalsSide:     4,
	bracket.CrossSide:      5,
	bracket.RoundRobinSide: 6,
	bracket.SwissSide:      7,
}

var sideTitles = map[bracket.BracketSide]string{
	bracket.WinnersSide:    "Winners Bracket",
	bracket.LosersSide:     "Losers Bracket",
	bracket.LosersASide:    "Losers Branch A",
	bracket.LosersBSide:    "Losers Branch B",
	bracket.FinalsSide:     "Finals",
	bracket.CrossSide:      "Cross Finals",
	bracket.RoundRobinSide: "Round Robin",
	bracket.SwissSide:      "Swiss",
}

// PrepareBracketData groups matches into sections (group, then side) of rounds, each round in match order.
func PrepareBracketData(matches []bracket.Match) []BracketSection {
	type sectionKey struct {
		group string
		side  bracket.BracketSide
	}

	sections := make(map[sectionKey]map[int]*BracketRound)
	for _, m := range matches {
		key := sectionKey{group: m.BracketGroup, side: m.BracketSide}
		rounds, ok := sections[key]
		if !ok {
			rounds = make(map[int]*BracketRound)
			sections[key] = rounds
		}
		round, ok := rounds[m.RoundNumber]
		if !ok {
			round = &BracketRound{Number: m.RoundNumber, Label: m.RoundLabel}
			rounds[m.RoundNumber] = round
		}
		round.Matches = append(round.Matches, m)
	}

	result := make([]BracketSection, 0, len(sections))
	for key, rounds := range sections {
		title := sideTitles[key.side]
		if key.group != "" {
			title = "Group " + key.group + " " + title
		}
		section := BracketSection{Title: title, Group: key.group, Side: key.side}
		for _, round := range rounds {
			sort.Slice(round.Matches, func(i, j int) bool {
				return round.Matches[i].MatchNumber < round.Matches[j].MatchNumber
			})
			section.Rounds = append(section.Rounds, *round)
		}
		sort.Slice(section.Rounds, func(i, j int) bool {
			return section.Rounds[i].Number < section.Rounds[j].Number
		})
		result = append(result, section)
	}

	sort.Slice(result, func(i, j int) bool {
		// Group stages first, the ungrouped cross stage last
		gi, gj := result[i].Group == "", result[j].Group == ""
		if gi != gj {
			return gj
		}
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return sideOrder[result[i].Side] < sideOrder[result[j].Side]
	})
	return result
}
