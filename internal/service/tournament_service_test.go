package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/AdamBeresnev/sabo-arena/internal/bracket"
	"github.com/AdamBeresnev/sabo-arena/internal/db"
	"github.com/AdamBeresnev/sabo-arena/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database with migrations applied and the guest organizer
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.OpenTest()
	require.NoError(t, err, "Failed to open test DB")

	_, err = NewUserService(store.NewUserStore(database)).EnsureGuestUser(context.Background())
	require.NoError(t, err)

	return database
}

func playerNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("P%d", i+1)
	}
	return names
}

func TestCreateTournament(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	tournamentStore := store.NewTournamentStore(database)
	tournamentService := NewTournamentService(database, tournamentStore)
	ctx := context.Background()

	testCases := []struct {
		name           string
		input          CreateTournamentInput
		expectedFormat bracket.Format
		expectedCount  int
		expectedErr    error
	}{
		{
			name:           "single elimination with 4 participants",
			input:          CreateTournamentInput{Name: "SE 4", Format: "single", Participants: playerNames(4)},
			expectedFormat: bracket.SingleElimination,
			expectedCount:  3,
		},
		{
			name:           "single elimination with 5 participants",
			input:          CreateTournamentInput{Name: "SE 5", Format: "single_elimination", Participants: playerNames(5)},
			expectedFormat: bracket.SingleElimination,
			expectedCount:  6,
		},
		{
			name:           "game type picks SABO DE16",
			input:          CreateTournamentInput{Name: "9-Ball Open", GameType: "9-Ball", Participants: playerNames(16)},
			expectedFormat: bracket.SaboDE16,
			expectedCount:  27,
		},
		{
			name:           "game type picks SABO DE32",
			input:          CreateTournamentInput{Name: "8-Ball Masters", GameType: "8-Ball", Participants: playerNames(32)},
			expectedFormat: bracket.SaboDE32,
			expectedCount:  57,
		},
		{
			name:           "unknown format falls back to single elimination",
			input:          CreateTournamentInput{Name: "Ladder", Format: "ladder", Participants: playerNames(8)},
			expectedFormat: bracket.SingleElimination,
			expectedCount:  7,
		},
		{
			name:           "blank participant names are skipped",
			input:          CreateTournamentInput{Name: "Round Robin", Format: "round robin", Participants: []string{"A", " ", "B", "", "C"}},
			expectedFormat: bracket.RoundRobin,
			expectedCount:  3,
		},
		{
			name:        "SABO DE16 needs 16 participants",
			input:       CreateTournamentInput{Name: "Short", Format: "sabo_de16", Participants: playerNames(15)},
			expectedErr: bracket.ErrInvalidParticipantCount,
		},
		{
			name:        "single participant",
			input:       CreateTournamentInput{Name: "Solo", Participants: []string{"Solo"}},
			expectedErr: bracket.ErrInsufficientParticipants,
		},
		{
			name:        "participant name too long",
			input:       CreateTournamentInput{Name: "Long", Participants: []string{"A", strings.Repeat("x", 51)}},
			expectedErr: ErrInvalidParticipantName,
		},
		{
			name:        "missing tournament name",
			input:       CreateTournamentInput{Name: "  ", Participants: playerNames(4)},
			expectedErr: ErrMissingTournamentName,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.input.OwnerID = GuestUserID
			id, err := tournamentService.CreateTournament(ctx, tc.input)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)

			data, err := tournamentService.GetTournamentData(ctx, id)
			require.NoError(t, err)

			assert.Equal(t, bracket.TournamentActive, data.Tournament.Status)
			assert.Equal(t, tc.expectedFormat, data.Tournament.Format)
			assert.Equal(t, 0, data.Tournament.BracketVersion)
			assert.Len(t, data.Matches, tc.expectedCount)
			assert.NoError(t, bracket.Validate(data.Matches))

			for i, p := range data.Participants {
				assert.Equal(t, i+1, p.Seed)
			}
		})
	}

	owned, err := tournamentService.GetTournamentsForUser(ctx, GuestUserID)
	require.NoError(t, err)
	assert.Len(t, owned, 6)
}

func TestCreateTournament_ResolvesStructuralByes(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	tournamentStore := store.NewTournamentStore(database)
	tournamentService := NewTournamentService(database, tournamentStore)
	ctx := context.Background()

	id, err := tournamentService.CreateTournament(ctx, CreateTournamentInput{
		OwnerID: GuestUserID, Name: "Nine", Format: "single", Participants: playerNames(9),
	})
	require.NoError(t, err)

	data, err := tournamentService.GetTournamentData(ctx, id)
	require.NoError(t, err)

	// 9 players: R1M5 is a bye for P9, which alone feeds R2M3, which alone feeds R3M2
	for _, key := range []bracket.MatchKey{{Round: 1, Match: 5}, {Round: 2, Match: 3}, {Round: 3, Match: 2}} {
		var found *bracket.Match
		for i := range data.Matches {
			if data.Matches[i].Key() == key {
				found = &data.Matches[i]
			}
		}
		require.NotNil(t, found, key.String())
		assert.True(t, found.IsBye, key.String())
		assert.Equal(t, bracket.MatchCompleted, found.Status)
		assert.Equal(t, data.Participants[8].ID, *found.WinnerID)
		assert.Equal(t, "P9", data.ParticipantName(found.Player1ID))
		assert.Equal(t, "TBD", data.ParticipantName(found.Player2ID))
	}
}

func TestGetTournamentData_RoundRobinStandings(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	tournamentStore := store.NewTournamentStore(database)
	tournamentService := NewTournamentService(database, tournamentStore)
	ctx := context.Background()

	id, err := tournamentService.CreateTournament(ctx, CreateTournamentInput{
		OwnerID: GuestUserID, Name: "League night", Format: "round_robin", Participants: playerNames(4),
	})
	require.NoError(t, err)

	data, err := tournamentService.GetTournamentData(ctx, id)
	require.NoError(t, err)
	require.Len(t, data.Standings, 4)
	assert.Equal(t, "P1", data.Standings[0].Participant.Name)

	for _, m := range data.Matches {
		assert.Equal(t, bracket.MatchReady, m.Status)
		assert.Equal(t, "Round Robin", m.RoundLabel)
	}

	_, err = tournamentService.GetTournamentData(ctx, uuid.New())
	assert.Error(t, err)
}
