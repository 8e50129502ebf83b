package bracket

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	// At least one slot is still waiting on a feeder match
	MatchPending   MatchStatus = "pending"
	MatchReady     MatchStatus = "ready"
	MatchCompleted MatchStatus = "completed"
)

type BracketSide string

const (
	WinnersSide    BracketSide = "winners"
	LosersSide     BracketSide = "losers"
	LosersASide    BracketSide = "losers_a"
	LosersBSide    BracketSide = "losers_b"
	FinalsSide     BracketSide = "finals"
	CrossSide      BracketSide = "cross"
	RoundRobinSide BracketSide = "round_robin"
	SwissSide      BracketSide = "swiss"
)

// Sentinel score written on bye matches, not a played result
const (
	ByeWinnerScore = 2
	ByeLoserScore  = 0
)

// MatchKey is the identity of a match inside its tournament.
type MatchKey struct {
	Round int
	Match int
}

func (k MatchKey) String() string {
	return fmt.Sprintf("R%dM%d", k.Round, k.Match)
}

func (k MatchKey) Less(o MatchKey) bool {
	if k.Round != o.Round {
		return k.Round < o.Round
	}
	return k.Match < o.Match
}

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`

	// Position in the tournament for reconstructing the view
	BracketSide  BracketSide `db:"bracket_side" json:"bracket_side"`
	BracketGroup string      `db:"bracket_group" json:"bracket_group"`
	RoundNumber  int         `db:"round_number" json:"round_number"`
	MatchNumber  int         `db:"match_number" json:"match_number"`
	DisplayOrder int         `db:"display_order" json:"display_order"`
	RoundLabel   string      `db:"round_label" json:"round_label"`

	Player1ID *uuid.UUID `db:"player1_id" json:"player1_id"`
	Player2ID *uuid.UUID `db:"player2_id" json:"player2_id"`
	WinnerID  *uuid.UUID `db:"winner_id" json:"winner_id"`

	Score1 *int        `db:"score1" json:"score1"`
	Score2 *int        `db:"score2" json:"score2"`
	Status MatchStatus `db:"status" json:"status"`
	IsBye  bool        `db:"is_bye" json:"is_bye"`

	WinnerNextRound *int `db:"winner_next_round" json:"winner_next_round"`
	WinnerNextMatch *int `db:"winner_next_match" json:"winner_next_match"`
	WinnerNextSlot  *int `db:"winner_next_slot" json:"winner_next_slot"`

	LoserNextRound *int `db:"loser_next_round" json:"loser_next_round"`
	LoserNextMatch *int `db:"loser_next_match" json:"loser_next_match"`
	LoserNextSlot  *int `db:"loser_next_slot" json:"loser_next_slot"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (m *Match) Key() MatchKey {
	return MatchKey{Round: m.RoundNumber, Match: m.MatchNumber}
}

// WinnerTarget returns where the winner of m plays next, if anywhere.
func (m *Match) WinnerTarget() (MatchKey, int, bool) {
	if m.WinnerNextRound == nil || m.WinnerNextMatch == nil || m.WinnerNextSlot == nil {
		return MatchKey{}, 0, false
	}
	return MatchKey{Round: *m.WinnerNextRound, Match: *m.WinnerNextMatch}, *m.WinnerNextSlot, true
}

// LoserTarget returns where the loser of m plays next. No target means the loser is eliminated.
func (m *Match) LoserTarget() (MatchKey, int, bool) {
	if m.LoserNextRound == nil || m.LoserNextMatch == nil || m.LoserNextSlot == nil {
		return MatchKey{}, 0, false
	}
	return MatchKey{Round: *m.LoserNextRound, Match: *m.LoserNextMatch}, *m.LoserNextSlot, true
}

func (m *Match) Player(slot int) *uuid.UUID {
	if slot == 1 {
		return m.Player1ID
	}
	return m.Player2ID
}

// WinnerSlot is 1 or 2 for a decided match and 0 otherwise.
func (m *Match) WinnerSlot() int {
	if m.Status != MatchCompleted || m.WinnerID == nil {
		return 0
	}
	if m.Player1ID != nil && *m.Player1ID == *m.WinnerID {
		return 1
	}
	if m.Player2ID != nil && *m.Player2ID == *m.WinnerID {
		return 2
	}
	return 0
}

// LoserID is nil for byes and undecided matches.
func (m *Match) LoserID() *uuid.UUID {
	if m.IsBye {
		return nil
	}
	switch m.WinnerSlot() {
	case 1:
		return m.Player2ID
	case 2:
		return m.Player1ID
	}
	return nil
}

func (m *Match) HasPlayer(id uuid.UUID) bool {
	return (m.Player1ID != nil && *m.Player1ID == id) || (m.Player2ID != nil && *m.Player2ID == id)
}

// MatchUpdate is a partial update of one match. Nil fields are left untouched.
type MatchUpdate struct {
	Key       MatchKey
	Player1ID *uuid.UUID
	Player2ID *uuid.UUID
	WinnerID  *uuid.UUID
	Score1    *int
	Score2    *int
	Status    *MatchStatus
	IsBye     *bool
}

func (u MatchUpdate) Apply(m *Match) {
	if u.Player1ID != nil {
		m.Player1ID = u.Player1ID
	}
	if u.Player2ID != nil {
		m.Player2ID = u.Player2ID
	}
	if u.WinnerID != nil {
		m.WinnerID = u.WinnerID
	}
	if u.Score1 != nil {
		m.Score1 = u.Score1
	}
	if u.Score2 != nil {
		m.Score2 = u.Score2
	}
	if u.Status != nil {
		m.Status = *u.Status
	}
	if u.IsBye != nil {
		m.IsBye = *u.IsBye
	}
}
