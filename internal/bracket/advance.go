package bracket

import (
	"fmt"
	"sort"

	"github.com/AdamBeresnev/sabo-arena/internal/utils"
	"github.com/google/uuid"
)

// Resolve computes the writes that push finished results into the matches waiting on them.
// A waiting match is only filled once every feeder is completed, and filled matches are never
// touched again, so running Resolve on its own output yields no updates.
//
// Targets are visited in (round, match) order, which is topological for every layout, so a bye
// closed early in the pass is already visible to the matches it feeds.
func Resolve(format Format, participantCount int, matches []Match) ([]MatchUpdate, error) {
	topo, err := TopologyFor(format)
	if err != nil {
		return nil, err
	}

	working := make([]Match, len(matches))
	copy(working, matches)
	sortMatches(working)

	index := make(map[MatchKey]*Match, len(working))
	for i := range working {
		index[working[i].Key()] = &working[i]
	}

	for i := range working {
		m := &working[i]
		for _, target := range []func() (MatchKey, int, bool){m.WinnerTarget, m.LoserTarget} {
			if to, _, ok := target(); ok && to == m.Key() {
				return nil, fmt.Errorf("%w: %s", ErrSelfAdvancementLoop, to)
			}
		}
	}

	feeders := make(map[MatchKey][]Link)
	for _, link := range topo.Links(participantCount) {
		if link.From == link.To {
			return nil, fmt.Errorf("%w: %s", ErrSelfAdvancementLoop, link.From)
		}
		if _, ok := index[link.From]; !ok {
			return nil, fmt.Errorf("%w: %s feeds %s", ErrUnknownFeederReference, link.From, link.To)
		}
		if _, ok := index[link.To]; !ok {
			return nil, fmt.Errorf("%w: %s advances to %s", ErrUnknownFeederReference, link.From, link.To)
		}
		feeders[link.To] = append(feeders[link.To], link)
	}

	targets := make([]MatchKey, 0, len(feeders))
	for key := range feeders {
		targets = append(targets, key)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Less(targets[j]) })

	var updates []MatchUpdate
	for _, key := range targets {
		m := index[key]
		if m.Status != MatchPending || (m.Player1ID != nil && m.Player2ID != nil) {
			continue
		}

		var slots [3]*uuid.UUID
		resolved := true
		for _, link := range feeders[key] {
			player, known := feedPlayer(link, index[link.From])
			if !known {
				resolved = false
				break
			}
			slots[link.Slot] = player
		}
		if !resolved {
			continue
		}

		update, err := fillSlots(key, slots[1], slots[2])
		if err != nil {
			return nil, err
		}
		update.Apply(m)
		updates = append(updates, update)
	}

	return updates, nil
}

// feedPlayer reports who a link delivers. known is false while the source is unfinished;
// a known nil player means the slot stays empty (loser of a bye, or a reset that is not needed).
func feedPlayer(link Link, src *Match) (*uuid.UUID, bool) {
	if src.Status != MatchCompleted {
		return nil, false
	}

	if link.Outcome == OutcomeWinner {
		return src.WinnerID, true
	}
	if link.ResetOnly && src.WinnerSlot() != 2 {
		return nil, true
	}
	return src.LoserID(), true
}

func fillSlots(key MatchKey, player1, player2 *uuid.UUID) (MatchUpdate, error) {
	switch {
	case player1 != nil && player2 != nil:
		return MatchUpdate{
			Key:       key,
			Player1ID: utils.Ptr(*player1),
			Player2ID: utils.Ptr(*player2),
			Status:    utils.Ptr(MatchReady),
		}, nil
	case player1 == nil && player2 == nil:
		return MatchUpdate{}, fmt.Errorf("%w: %s", ErrEmptyMatch, key)
	}

	lone := player1
	if lone == nil {
		lone = player2
	}
	return MatchUpdate{
		Key:       key,
		Player1ID: utils.Ptr(*lone),
		WinnerID:  utils.Ptr(*lone),
		Score1:    utils.Ptr(ByeWinnerScore),
		Score2:    utils.Ptr(ByeLoserScore),
		Status:    utils.Ptr(MatchCompleted),
		IsBye:     utils.Ptr(true),
	}, nil
}
