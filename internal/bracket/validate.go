package bracket

import (
	"fmt"
	"sort"
)

func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Key().Less(matches[j].Key())
	})
}

// Validate checks the structural invariants of a stored or freshly generated bracket.
func Validate(matches []Match) error {
	index := make(map[MatchKey]*Match, len(matches))
	for i := range matches {
		key := matches[i].Key()
		if _, dup := index[key]; dup {
			return fmt.Errorf("%w: duplicate match %s", ErrInconsistentMatch, key)
		}
		index[key] = &matches[i]
	}

	for i := range matches {
		m := &matches[i]
		key := m.Key()

		for _, target := range []func() (MatchKey, int, bool){m.WinnerTarget, m.LoserTarget} {
			to, slot, ok := target()
			if !ok {
				continue
			}
			if to == key {
				return fmt.Errorf("%w: %s", ErrSelfAdvancementLoop, key)
			}
			if _, exists := index[to]; !exists {
				return fmt.Errorf("%w: %s advances to missing %s", ErrUnknownFeederReference, key, to)
			}
			if slot != 1 && slot != 2 {
				return fmt.Errorf("%w: %s advances into slot %d", ErrInconsistentMatch, key, slot)
			}
		}

		if err := checkResult(m); err != nil {
			return err
		}
	}

	return nil
}

func checkResult(m *Match) error {
	if m.Status != MatchCompleted {
		if m.WinnerID != nil {
			return fmt.Errorf("%w: %s has a winner but is %s", ErrInconsistentMatch, m.Key(), m.Status)
		}
		return nil
	}

	if m.WinnerID == nil || !m.HasPlayer(*m.WinnerID) {
		return fmt.Errorf("%w: %s winner is not one of its players", ErrInconsistentMatch, m.Key())
	}
	if m.Score1 == nil || m.Score2 == nil {
		return fmt.Errorf("%w: %s is completed without scores", ErrInconsistentMatch, m.Key())
	}
	if m.IsBye && m.Player2ID != nil {
		return fmt.Errorf("%w: bye %s has an opponent", ErrInconsistentMatch, m.Key())
	}
	return nil
}
