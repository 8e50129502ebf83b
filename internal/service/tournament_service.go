package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AdamBeresnev/sabo-arena/internal/bracket"
	"github.com/AdamBeresnev/sabo-arena/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

const maxParticipantNameLength = 50

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore) *TournamentService {
	return &TournamentService{db: db, store: store}
}

type CreateTournamentInput struct {
	OwnerID uuid.UUID
	Name    string
	// Format tag as typed by the organizer. Empty picks one from GameType and the field size.
	Format       string
	GameType     string
	Participants []string
}

type TournamentData struct {
	Tournament   *bracket.Tournament   `json:"tournament"`
	Participants []bracket.Participant `json:"participants"`
	Matches      []bracket.Match       `json:"matches"`
	// Only filled for standings based formats
	Standings []bracket.Standing `json:"standings,omitempty"`
}

// ParticipantName returns the display name of a participant id, or "TBD".
func (d *TournamentData) ParticipantName(id *uuid.UUID) string {
	if id == nil {
		return "TBD"
	}
	for _, p := range d.Participants {
		if p.ID == *id {
			return p.Name
		}
	}
	return "TBD"
}

func (s *TournamentService) GetTournamentData(ctx context.Context, id uuid.UUID) (*TournamentData, error) {
	tournament, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	data := &TournamentData{Tournament: tournament}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		participants, err := s.store.GetParticipants(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to get participants: %w", err)
		}
		data.Participants = participants
		return nil
	})
	g.Go(func() error {
		matches, err := s.store.GetMatches(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to get matches: %w", err)
		}
		data.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if tournament.Format == bracket.RoundRobin || tournament.Format == bracket.Swiss {
		data.Standings = bracket.Standings(data.Participants, data.Matches)
	}

	return data, nil
}

func (s *TournamentService) GetTournamentsForUser(ctx context.Context, ownerID uuid.UUID) ([]bracket.Tournament, error) {
	return s.store.GetTournamentsByOwner(ctx, ownerID)
}

// CreateTournament stores the tournament and its participants and generates the full bracket in one
// transaction. Byes and the matches they alone feed are already resolved when it returns.
func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (uuid.UUID, error) {
	if strings.TrimSpace(input.Name) == "" {
		return uuid.Nil, ErrMissingTournamentName
	}

	names, err := cleanParticipantNames(input.Participants)
	if err != nil {
		return uuid.Nil, err
	}

	format := bracket.ParseFormat(input.Format)
	if strings.TrimSpace(input.Format) == "" {
		format = bracket.FormatForGame(input.GameType, len(names))
	}

	tournament := bracket.Tournament{
		ID:       uuid.New(),
		OwnerID:  input.OwnerID,
		Name:     strings.TrimSpace(input.Name),
		Status:   bracket.TournamentDraft,
		Format:   format,
		GameType: strings.TrimSpace(input.GameType),
	}

	participants := make([]bracket.Participant, len(names))
	for i, name := range names {
		participants[i] = bracket.Participant{
			ID:           uuid.New(),
			TournamentID: tournament.ID,
			Name:         name,
			Seed:         i + 1,
		}
	}

	matches, err := bracket.Generate(tournament.ID, format, participants)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to generate %s bracket: %w", format, err)
	}

	updates, err := bracket.Resolve(format, len(participants), matches)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve byes: %w", err)
	}
	applyUpdates(matches, updates)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, &tournament); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	if err := s.store.CreateParticipants(ctx, tx, participants); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create participants: %w", err)
	}
	if err := s.store.CreateMatches(ctx, tx, matches); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create matches: %w", err)
	}
	if err := s.store.UpdateTournamentStatusTx(ctx, tx, tournament.ID, bracket.TournamentActive); err != nil {
		return uuid.Nil, fmt.Errorf("failed to activate tournament: %w", err)
	}

	slog.Info("tournament created", "tournament_id", tournament.ID, "format", format, "participants", len(participants), "matches", len(matches))
	return tournament.ID, tx.Commit()
}

func cleanParticipantNames(raw []string) ([]string, error) {
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if len(name) > maxParticipantNameLength {
			return nil, fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidParticipantName, name, maxParticipantNameLength)
		}
		names = append(names, name)
	}
	return names, nil
}

func applyUpdates(matches []bracket.Match, updates []bracket.MatchUpdate) {
	index := make(map[bracket.MatchKey]*bracket.Match, len(matches))
	for i := range matches {
		index[matches[i].Key()] = &matches[i]
	}
	for _, u := range updates {
		if m, ok := index[u.Key]; ok {
			u.Apply(m)
		}
	}
}
