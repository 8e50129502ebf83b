package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/sabo-arena/internal/archive"
	"github.com/AdamBeresnev/sabo-arena/internal/bracket"
	"github.com/AdamBeresnev/sabo-arena/internal/store"
	"github.com/AdamBeresnev/sabo-arena/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Archiver receives the final bracket of every tournament that gets a champion.
type Archiver interface {
	Archive(ctx context.Context, snapshot archive.Snapshot) (string, error)
}

type MatchService struct {
	db       *sqlx.DB
	store    *store.TournamentStore
	archiver Archiver
}

// NewMatchService builds the service, archiver may be nil.
func NewMatchService(db *sqlx.DB, store *store.TournamentStore, archiver Archiver) *MatchService {
	return &MatchService{db: db, store: store, archiver: archiver}
}

type ResultInput struct {
	TournamentID uuid.UUID
	Round        int
	Match        int
	WinnerID     uuid.UUID
	Score1       int
	Score2       int
}

type ResolveResult struct {
	// Matches written by the resolver, the recorded result not included
	Updates        []bracket.MatchUpdate `json:"updates"`
	ChampionID     *uuid.UUID            `json:"champion_id"`
	BracketVersion int                   `json:"bracket_version"`
	// This pass decided the champion
	Completed bool `json:"completed"`
}

// snapshot is everything one pass reads, taken inside its transaction.
type snapshot struct {
	tournament   *bracket.Tournament
	participants []bracket.Participant
	matches      []bracket.Match
}

func (s *MatchService) load(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (*snapshot, error) {
	tournament, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	participants, err := s.store.GetParticipantsTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	matches, err := s.store.GetMatchesTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	return &snapshot{tournament: tournament, participants: participants, matches: matches}, nil
}

// ResolveTournament fills every slot whose feeders are decided and closes structural byes.
// Running it again without new results writes nothing.
func (s *MatchService) ResolveTournament(ctx context.Context, tournamentID uuid.UUID) (*ResolveResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	snap, err := s.load(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}

	result, err := s.resolve(ctx, tx, snap, false)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.archiveIfDecided(ctx, snap, result)
	return result, nil
}

// RecordResult completes a ready match and advances its players in the same transaction.
func (s *MatchService) RecordResult(ctx context.Context, input ResultInput) (*ResolveResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	snap, err := s.load(ctx, tx, input.TournamentID)
	if err != nil {
		return nil, err
	}
	if snap.tournament.Status != bracket.TournamentActive {
		return nil, fmt.Errorf("%w: status is %s", ErrTournamentNotActive, snap.tournament.Status)
	}

	key := bracket.MatchKey{Round: input.Round, Match: input.Match}
	var match *bracket.Match
	for i := range snap.matches {
		if snap.matches[i].Key() == key {
			match = &snap.matches[i]
			break
		}
	}
	if match == nil {
		return nil, fmt.Errorf("failed to get match %s: %w", key, sql.ErrNoRows)
	}

	update, err := resultUpdate(match, input)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateMatch(ctx, tx, input.TournamentID, update); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}
	update.Apply(match)

	result, err := s.resolve(ctx, tx, snap, true)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.archiveIfDecided(ctx, snap, result)
	return result, nil
}

func resultUpdate(match *bracket.Match, input ResultInput) (bracket.MatchUpdate, error) {
	key := match.Key()
	if match.Status != bracket.MatchReady {
		return bracket.MatchUpdate{}, fmt.Errorf("%w: %s is %s", ErrMatchNotReady, key, match.Status)
	}
	if !match.HasPlayer(input.WinnerID) {
		return bracket.MatchUpdate{}, fmt.Errorf("%w: %s", ErrWinnerNotInMatch, key)
	}

	winnerScore, loserScore := input.Score1, input.Score2
	if *match.Player2ID == input.WinnerID {
		winnerScore, loserScore = input.Score2, input.Score1
	}
	if loserScore < 0 || winnerScore <= loserScore {
		return bracket.MatchUpdate{}, fmt.Errorf("%w: %d-%d", ErrInvalidScore, input.Score1, input.Score2)
	}

	return bracket.MatchUpdate{
		Key:      key,
		WinnerID: utils.Ptr(input.WinnerID),
		Score1:   utils.Ptr(input.Score1),
		Score2:   utils.Ptr(input.Score2),
		Status:   utils.Ptr(bracket.MatchCompleted),
	}, nil
}

// resolve runs the resolver over snap, writes its updates and the champion, and bumps the
// bracket version. recorded forces the bump when the caller already wrote a result.
func (s *MatchService) resolve(ctx context.Context, tx *sqlx.Tx, snap *snapshot, recorded bool) (*ResolveResult, error) {
	t := snap.tournament

	updates, err := bracket.Resolve(t.Format, len(snap.participants), snap.matches)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bracket: %w", err)
	}
	for _, u := range updates {
		if err := s.store.UpdateMatch(ctx, tx, t.ID, u); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", u.Key, err)
		}
	}
	applyUpdates(snap.matches, updates)

	result := &ResolveResult{Updates: updates, ChampionID: t.ChampionID, BracketVersion: t.BracketVersion}

	if t.ChampionID == nil {
		champion, err := bracket.Champion(t.Format, snap.participants, snap.matches)
		if err != nil {
			return nil, fmt.Errorf("failed to determine champion: %w", err)
		}
		if champion != nil {
			if err := s.store.CompleteTournamentTx(ctx, tx, t.ID, *champion); err != nil {
				return nil, fmt.Errorf("failed to complete tournament: %w", err)
			}
			t.ChampionID = champion
			t.Status = bracket.TournamentCompleted
			result.ChampionID = champion
			result.Completed = true
		}
	}

	if !recorded && len(updates) == 0 && !result.Completed {
		return result, nil
	}

	if err := s.store.BumpBracketVersion(ctx, tx, t.ID, t.BracketVersion); err != nil {
		return nil, err
	}
	t.BracketVersion++
	result.BracketVersion = t.BracketVersion

	slog.Info("bracket resolved", "tournament_id", t.ID, "writes", len(updates), "version", t.BracketVersion, "champion", result.ChampionID)
	return result, nil
}

func (s *MatchService) archiveIfDecided(ctx context.Context, snap *snapshot, result *ResolveResult) {
	if s.archiver == nil || !result.Completed {
		return
	}

	archived := archive.Snapshot{
		Tournament:   *snap.tournament,
		Participants: snap.participants,
		Matches:      snap.matches,
	}
	if t := snap.tournament; t.Format == bracket.RoundRobin || t.Format == bracket.Swiss {
		archived.Standings = bracket.Standings(snap.participants, snap.matches)
	}

	key, err := s.archiver.Archive(ctx, archived)
	if err != nil {
		slog.Error("failed to archive bracket", "tournament_id", snap.tournament.ID, "error", err)
		return
	}
	slog.Info("bracket archived", "tournament_id", snap.tournament.ID, "key", key)
}
