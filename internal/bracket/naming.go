package bracket

import "fmt"

var saboRoundNames = map[int]string{
	1:                    "Winners Round 1",
	2:                    "Winners Round 2",
	3:                    "Winners Round 3",
	LosersRoundBase + 1:  "Losers Branch A R1",
	LosersRoundBase + 2:  "Losers Branch A R2",
	LosersRoundBase + 3:  "Losers Branch A R3",
	BranchBRoundBase + 1: "Losers Branch B R1",
	BranchBRoundBase + 2: "Losers Branch B R2",
	FinalsRoundBase + 1:  "SABO Semifinals",
	FinalsRoundBase + 2:  "SABO Final",
	CrossRoundBase + 1:   "Cross Semifinals",
	CrossRoundBase + 2:   "Cross Final",
}

// RoundName labels a round for display. totalRounds is the number of rounds in the stage the
// round belongs to (winners rounds for a winners round, losers rounds for a losers round).
// SABO formats use fixed names and ignore it.
func RoundName(format Format, round, totalRounds int) string {
	switch format {
	case RoundRobin:
		return "Round Robin"
	case Swiss:
		return fmt.Sprintf("Swiss Round %d", round)
	case SaboDE16, SaboDE32:
		if name, ok := saboRoundNames[round]; ok {
			return name
		}
		return fmt.Sprintf("Round %d", round)
	case DoubleElimination:
		return doubleEliminationRoundName(round, totalRounds)
	}
	return eliminationRoundName(round, totalRounds)
}

func eliminationRoundName(round, totalRounds int) string {
	switch totalRounds - round {
	case 0:
		return "Final"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	}
	return fmt.Sprintf("Round of %d", 1<<(totalRounds-round+1))
}

func doubleEliminationRoundName(round, totalRounds int) string {
	switch {
	case round == FinalsRoundBase+1:
		return "Grand Final"
	case round == FinalsRoundBase+2:
		return "Grand Final Reset"
	case round > LosersRoundBase:
		k := round - LosersRoundBase
		if k == totalRounds {
			return "Losers Final"
		}
		return fmt.Sprintf("Losers Round %d", k)
	}
	return "Winners " + eliminationRoundName(round, totalRounds)
}
