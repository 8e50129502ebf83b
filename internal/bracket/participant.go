package bracket

import "github.com/google/uuid"

type Participant struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	Name         string    `db:"name" json:"name"`
	// Position in the submitted participant list, 1-based
	Seed int `db:"seed" json:"seed"`
}
