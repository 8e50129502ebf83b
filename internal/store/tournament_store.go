package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/sabo-arena/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrStaleBracket means another writer changed the bracket since it was read.
var ErrStaleBracket = errors.New("bracket was modified concurrently")

// Rows per multi-row INSERT, keeps every batch under the bind variable limit
const insertBatchSize = 500

const (
	createTournamentQuery = `
		INSERT INTO tournaments (id, owner_id, name, status, format, game_type, bracket_version, champion_id, created_at)
		VALUES (:id, :owner_id, :name, :status, :format, :game_type, :bracket_version, :champion_id, :created_at)
	`
	createParticipantsQuery = `
		INSERT INTO participants (id, tournament_id, name, seed)
		VALUES (:id, :tournament_id, :name, :seed)
	`
	createMatchesQuery = `
		INSERT INTO matches (
			id, tournament_id, bracket_side, bracket_group, round_number, match_number, display_order, round_label,
			player1_id, player2_id, winner_id, score1, score2, status, is_bye,
			winner_next_round, winner_next_match, winner_next_slot,
			loser_next_round, loser_next_match, loser_next_slot,
			created_at, updated_at
		) VALUES (
			:id, :tournament_id, :bracket_side, :bracket_group, :round_number, :match_number, :display_order, :round_label,
			:player1_id, :player2_id, :winner_id, :score1, :score2, :status, :is_bye,
			:winner_next_round, :winner_next_match, :winner_next_slot,
			:loser_next_round, :loser_next_match, :loser_next_slot,
			:created_at, :updated_at
		)
	`
	getTournamentQuery      = "SELECT * FROM tournaments WHERE id = ?"
	getTournamentsByOwner   = "SELECT * FROM tournaments WHERE owner_id = ? ORDER BY created_at DESC"
	getParticipantsQuery    = "SELECT * FROM participants WHERE tournament_id = ? ORDER BY seed ASC"
	countParticipantsQuery  = "SELECT COUNT(*) FROM participants WHERE tournament_id = ?"
	getMatchesQuery         = "SELECT * FROM matches WHERE tournament_id = ? ORDER BY round_number ASC, match_number ASC"
	getMatchQuery           = "SELECT * FROM matches WHERE tournament_id = ? AND round_number = ? AND match_number = ?"
	bumpBracketVersionQuery = "UPDATE tournaments SET bracket_version = bracket_version + 1 WHERE id = ? AND bracket_version = ?"
	updateStatusQuery       = "UPDATE tournaments SET status = ? WHERE id = ?"
	completeTournamentQuery = "UPDATE tournaments SET status = ?, champion_id = ? WHERE id = ?"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	if tournament.CreatedAt.IsZero() {
		tournament.CreatedAt = time.Now().UTC()
	}
	_, err := tx.NamedExecContext(ctx, createTournamentQuery, tournament)
	return err
}

func (s *TournamentStore) CreateParticipants(ctx context.Context, tx *sqlx.Tx, participants []bracket.Participant) error {
	for start := 0; start < len(participants); start += insertBatchSize {
		end := min(start+insertBatchSize, len(participants))
		if _, err := tx.NamedExecContext(ctx, createParticipantsQuery, participants[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// CreateMatches writes a generated bracket in bulk.
func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	now := time.Now().UTC()
	for i := range matches {
		if matches[i].CreatedAt.IsZero() {
			matches[i].CreatedAt = now
		}
		matches[i].UpdatedAt = matches[i].CreatedAt
	}

	for start := 0; start < len(matches); start += insertBatchSize {
		end := min(start+insertBatchSize, len(matches))
		if _, err := tx.NamedExecContext(ctx, createMatchesQuery, matches[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, s.db.Rebind(getTournamentQuery), id)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := tx.GetContext(ctx, &tournament, tx.Rebind(getTournamentQuery), id)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) GetTournamentsByOwner(ctx context.Context, ownerID uuid.UUID) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := s.db.SelectContext(ctx, &tournaments, s.db.Rebind(getTournamentsByOwner), ownerID)
	return tournaments, err
}

func (s *TournamentStore) GetParticipants(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Participant, error) {
	var participants []bracket.Participant
	err := s.db.SelectContext(ctx, &participants, s.db.Rebind(getParticipantsQuery), tournamentID)
	return participants, err
}

func (s *TournamentStore) GetParticipantsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]bracket.Participant, error) {
	var participants []bracket.Participant
	err := tx.SelectContext(ctx, &participants, tx.Rebind(getParticipantsQuery), tournamentID)
	return participants, err
}

func (s *TournamentStore) CountParticipantsTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, tx.Rebind(countParticipantsQuery), tournamentID)
	return count, err
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, s.db.Rebind(getMatchesQuery), tournamentID)
	return matches, err
}

func (s *TournamentStore) GetMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := tx.SelectContext(ctx, &matches, tx.Rebind(getMatchesQuery), tournamentID)
	return matches, err
}

func (s *TournamentStore) GetMatch(ctx context.Context, tournamentID uuid.UUID, key bracket.MatchKey) (*bracket.Match, error) {
	var match bracket.Match
	err := s.db.GetContext(ctx, &match, s.db.Rebind(getMatchQuery), tournamentID, key.Round, key.Match)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *TournamentStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, key bracket.MatchKey) (*bracket.Match, error) {
	var match bracket.Match
	err := tx.GetContext(ctx, &match, tx.Rebind(getMatchQuery), tournamentID, key.Round, key.Match)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// UpdateMatch writes the non-nil fields of update. A match that does not exist is sql.ErrNoRows.
func (s *TournamentStore) UpdateMatch(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, update bracket.MatchUpdate) error {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if update.Player1ID != nil {
		set("player1_id", *update.Player1ID)
	}
	if update.Player2ID != nil {
		set("player2_id", *update.Player2ID)
	}
	if update.WinnerID != nil {
		set("winner_id", *update.WinnerID)
	}
	if update.Score1 != nil {
		set("score1", *update.Score1)
	}
	if update.Score2 != nil {
		set("score2", *update.Score2)
	}
	if update.Status != nil {
		set("status", *update.Status)
	}
	if update.IsBye != nil {
		set("is_bye", *update.IsBye)
	}
	if len(sets) == 0 {
		return nil
	}
	set("updated_at", time.Now().UTC())

	query := fmt.Sprintf("UPDATE matches SET %s WHERE tournament_id = ? AND round_number = ? AND match_number = ?", strings.Join(sets, ", "))
	args = append(args, tournamentID, update.Key.Round, update.Key.Match)

	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("match %s: %w", update.Key, sql.ErrNoRows)
	}
	return nil
}

// BumpBracketVersion advances the version stamp only if it still equals expected.
func (s *TournamentStore) BumpBracketVersion(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, expected int) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(bumpBracketVersionQuery), tournamentID, expected)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("tournament %s at version %d: %w", tournamentID, expected, ErrStaleBracket)
	}
	return nil
}

func (s *TournamentStore) UpdateTournamentStatusTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, status bracket.TournamentStatus) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(updateStatusQuery), status, tournamentID)
	return err
}

func (s *TournamentStore) CompleteTournamentTx(ctx context.Context, tx *sqlx.Tx, tournamentID, championID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(completeTournamentQuery), bracket.TournamentCompleted, championID, tournamentID)
	return err
}
