package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

type Tournament struct {
	ID       uuid.UUID        `db:"id" json:"id"`
	OwnerID  uuid.UUID        `db:"owner_id" json:"owner_id"`
	Name     string           `db:"name" json:"name"`
	Status   TournamentStatus `db:"status" json:"status"`
	Format   Format           `db:"format" json:"format"`
	GameType string           `db:"game_type" json:"game_type"`

	// Bumped by every mutating pass over the match set, see store.BumpBracketVersion
	BracketVersion int `db:"bracket_version" json:"bracket_version"`

	ChampionID *uuid.UUID `db:"champion_id" json:"champion_id"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
