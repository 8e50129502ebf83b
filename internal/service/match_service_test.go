package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/sabo-arena/internal/archive"
	"github.com/AdamBeresnev/sabo-arena/internal/bracket"
	"github.com/AdamBeresnev/sabo-arena/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingArchiver struct {
	snapshots []archive.Snapshot
}

func (a *recordingArchiver) Archive(_ context.Context, snapshot archive.Snapshot) (string, error) {
	a.snapshots = append(a.snapshots, snapshot)
	return archive.Key(snapshot), nil
}

type fixture struct {
	db          *sqlx.DB
	store       *store.TournamentStore
	tournaments *TournamentService
	matches     *MatchService
	archiver    *recordingArchiver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := setupTestDB(t)
	t.Cleanup(func() { database.Close() })

	tournamentStore := store.NewTournamentStore(database)
	archiver := &recordingArchiver{}
	return &fixture{
		db:          database,
		store:       tournamentStore,
		tournaments: NewTournamentService(database, tournamentStore),
		matches:     NewMatchService(database, tournamentStore, archiver),
		archiver:    archiver,
	}
}

func (f *fixture) create(t *testing.T, format string, n int) (uuid.UUID, []bracket.Participant) {
	t.Helper()
	id, err := f.tournaments.CreateTournament(context.Background(), CreateTournamentInput{
		OwnerID: GuestUserID, Name: "Club night", Format: format, Participants: playerNames(n),
	})
	require.NoError(t, err)

	participants, err := f.store.GetParticipants(context.Background(), id)
	require.NoError(t, err)
	return id, participants
}

func (f *fixture) match(t *testing.T, id uuid.UUID, round, match int) *bracket.Match {
	t.Helper()
	m, err := f.store.GetMatch(context.Background(), id, bracket.MatchKey{Round: round, Match: match})
	require.NoError(t, err)
	return m
}

// win records a 7-3 result for the player in slot.
func (f *fixture) win(t *testing.T, id uuid.UUID, m *bracket.Match, slot int) *ResolveResult {
	t.Helper()
	input := ResultInput{TournamentID: id, Round: m.RoundNumber, Match: m.MatchNumber, WinnerID: *m.Player(slot), Score1: 7, Score2: 3}
	if slot == 2 {
		input.Score1, input.Score2 = 3, 7
	}
	result, err := f.matches.RecordResult(context.Background(), input)
	require.NoError(t, err)
	return result
}

func TestRecordResult_SingleEliminationAdvances(t *testing.T) {
	f := newFixture(t)
	id, participants := f.create(t, "single_elimination", 8)

	for match := 1; match <= 4; match++ {
		f.win(t, id, f.match(t, id, 1, match), 1)
	}

	semi1 := f.match(t, id, 2, 1)
	assert.Equal(t, bracket.MatchReady, semi1.Status)
	assert.Equal(t, participants[0].ID, *semi1.Player1ID)
	assert.Equal(t, participants[2].ID, *semi1.Player2ID)

	semi2 := f.match(t, id, 2, 2)
	assert.Equal(t, bracket.MatchReady, semi2.Status)
	assert.Equal(t, participants[4].ID, *semi2.Player1ID)
	assert.Equal(t, participants[6].ID, *semi2.Player2ID)

	tournament, err := f.store.GetTournament(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, tournament.BracketVersion)

	f.win(t, id, semi1, 2)
	f.win(t, id, semi2, 1)
	result := f.win(t, id, f.match(t, id, 3, 1), 1)

	require.True(t, result.Completed)
	assert.Equal(t, participants[2].ID, *result.ChampionID)

	tournament, err = f.store.GetTournament(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentCompleted, tournament.Status)
	assert.Equal(t, participants[2].ID, *tournament.ChampionID)

	require.Len(t, f.archiver.snapshots, 1)
	archived := f.archiver.snapshots[0]
	assert.Equal(t, id, archived.Tournament.ID)
	assert.Equal(t, bracket.TournamentCompleted, archived.Tournament.Status)
	assert.Len(t, archived.Matches, 7)
}

func TestRecordResult_Validation(t *testing.T) {
	f := newFixture(t)
	id, participants := f.create(t, "single_elimination", 4)
	ctx := context.Background()

	first := f.match(t, id, 1, 1)

	testCases := []struct {
		name        string
		input       ResultInput
		expectedErr error
	}{
		{
			name:        "match still waiting on feeders",
			input:       ResultInput{TournamentID: id, Round: 2, Match: 1, WinnerID: participants[0].ID, Score1: 7, Score2: 3},
			expectedErr: ErrMatchNotReady,
		},
		{
			name:        "winner from another match",
			input:       ResultInput{TournamentID: id, Round: 1, Match: 1, WinnerID: participants[2].ID, Score1: 7, Score2: 3},
			expectedErr: ErrWinnerNotInMatch,
		},
		{
			name:        "winner with the lower score",
			input:       ResultInput{TournamentID: id, Round: 1, Match: 1, WinnerID: *first.Player1ID, Score1: 3, Score2: 7},
			expectedErr: ErrInvalidScore,
		},
		{
			name:        "tied score",
			input:       ResultInput{TournamentID: id, Round: 1, Match: 1, WinnerID: *first.Player2ID, Score1: 5, Score2: 5},
			expectedErr: ErrInvalidScore,
		},
		{
			name:        "negative score",
			input:       ResultInput{TournamentID: id, Round: 1, Match: 1, WinnerID: *first.Player1ID, Score1: 2, Score2: -1},
			expectedErr: ErrInvalidScore,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.matches.RecordResult(ctx, tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}

	// Rejected results leave no trace
	unchanged := f.match(t, id, 1, 1)
	assert.Equal(t, bracket.MatchReady, unchanged.Status)
	assert.Nil(t, unchanged.WinnerID)

	f.win(t, id, first, 1)
	_, err := f.matches.RecordResult(ctx, ResultInput{TournamentID: id, Round: 1, Match: 1, WinnerID: *first.Player2ID, Score1: 3, Score2: 7})
	assert.ErrorIs(t, err, ErrMatchNotReady, "completed matches are never rewritten")

	_, err = f.matches.RecordResult(ctx, ResultInput{TournamentID: id, Round: 7, Match: 1, WinnerID: participants[0].ID, Score1: 7, Score2: 3})
	assert.Error(t, err)
}

func TestRecordResult_SaboDE16(t *testing.T) {
	f := newFixture(t)
	id, participants := f.create(t, "sabo_de16", 16)

	for match := 1; match <= 8; match++ {
		f.win(t, id, f.match(t, id, 1, match), 1)
	}

	for j := 1; j <= 4; j++ {
		wr2 := f.match(t, id, 2, j)
		assert.Equal(t, bracket.MatchReady, wr2.Status)
		assert.Equal(t, "Winners Round 2", wr2.RoundLabel)
		assert.Equal(t, participants[4*(j-1)].ID, *wr2.Player1ID)
		assert.Equal(t, participants[4*(j-1)+2].ID, *wr2.Player2ID)

		branchA := f.match(t, id, bracket.LosersRoundBase+1, j)
		assert.Equal(t, bracket.MatchReady, branchA.Status)
		assert.Equal(t, "Losers Branch A R1", branchA.RoundLabel)
		assert.Equal(t, participants[4*(j-1)+1].ID, *branchA.Player1ID)
		assert.Equal(t, participants[4*(j-1)+3].ID, *branchA.Player2ID)
	}
}

func TestPlayOut_EveryFormat(t *testing.T) {
	testCases := []struct {
		format string
		n      int
	}{
		{"single_elimination", 6},
		{"double_elimination", 5},
		{"double_elimination", 8},
		{"round_robin", 4},
		{"sabo_de16", 16},
		{"sabo_de32", 32},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			f := newFixture(t)
			id, _ := f.create(t, tc.format, tc.n)
			ctx := context.Background()

			var result *ResolveResult
			for wave := 0; wave < 100 && (result == nil || !result.Completed); wave++ {
				matches, err := f.store.GetMatches(ctx, id)
				require.NoError(t, err)

				played := false
				for i := range matches {
					if matches[i].Status == bracket.MatchReady {
						// Slot 2 winning as often as slot 1 forces grand final resets
						result = f.win(t, id, &matches[i], 1+(matches[i].DisplayOrder%2))
						played = true
						if result.Completed {
							break
						}
					}
				}
				require.True(t, played, "bracket stalled")
			}

			require.NotNil(t, result)
			require.True(t, result.Completed)

			data, err := f.tournaments.GetTournamentData(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, bracket.TournamentCompleted, data.Tournament.Status)
			assert.Equal(t, result.ChampionID, data.Tournament.ChampionID)
			assert.NoError(t, bracket.Validate(data.Matches))
			assert.Len(t, f.archiver.snapshots, 1)

			_, err = f.matches.RecordResult(ctx, ResultInput{TournamentID: id, Round: 1, Match: 1})
			assert.ErrorIs(t, err, ErrTournamentNotActive)
		})
	}
}

func TestResolveTournament_Idempotent(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "double_elimination", 7)
	ctx := context.Background()

	first, err := f.matches.ResolveTournament(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, first.Updates, "creation already resolved the byes")
	assert.Equal(t, 0, first.BracketVersion)

	f.win(t, id, f.match(t, id, 1, 1), 2)

	again, err := f.matches.ResolveTournament(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, again.Updates)
	assert.Equal(t, 1, again.BracketVersion)
}

func TestResolveTournament_RepairsMissedPass(t *testing.T) {
	f := newFixture(t)
	id, participants := f.create(t, "single_elimination", 4)
	ctx := context.Background()

	// Results written straight to the store, bypassing RecordResult
	_, err := f.db.Exec(`UPDATE matches SET status = 'completed', winner_id = player1_id, score1 = 7, score2 = 0
		WHERE tournament_id = ? AND round_number = 1`, id)
	require.NoError(t, err)

	result, err := f.matches.ResolveTournament(ctx, id)
	require.NoError(t, err)
	require.Len(t, result.Updates, 1)

	final := f.match(t, id, 2, 1)
	assert.Equal(t, bracket.MatchReady, final.Status)
	assert.Equal(t, participants[0].ID, *final.Player1ID)
	assert.Equal(t, participants[2].ID, *final.Player2ID)
}

func TestResolveTournament_UnknownFeeder(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "single_elimination", 8)

	_, err := f.db.Exec("DELETE FROM matches WHERE tournament_id = ? AND round_number = 2 AND match_number = 2", id)
	require.NoError(t, err)

	_, err = f.matches.ResolveTournament(context.Background(), id)
	assert.ErrorIs(t, err, bracket.ErrUnknownFeederReference)
}

func TestResolve_StaleBracket(t *testing.T) {
	f := newFixture(t)
	id, _ := f.create(t, "single_elimination", 4)
	ctx := context.Background()

	tx, err := f.db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	snap, err := f.matches.load(ctx, tx, id)
	require.NoError(t, err)

	// Another writer finished a pass after the snapshot was taken
	_, err = tx.Exec("UPDATE tournaments SET bracket_version = bracket_version + 1 WHERE id = ?", id)
	require.NoError(t, err)

	_, err = f.matches.resolve(ctx, tx, snap, true)
	assert.ErrorIs(t, err, ErrStaleBracket)
}
