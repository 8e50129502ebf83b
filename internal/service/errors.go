package service

import (
	"errors"

	"github.com/AdamBeresnev/sabo-arena/internal/store"
)

var (
	ErrStaleBracket = store.ErrStaleBracket

	ErrMatchNotReady       = errors.New("match is not ready to be played")
	ErrWinnerNotInMatch    = errors.New("winner is not part of this match")
	ErrInvalidScore        = errors.New("winner must have the higher score")
	ErrTournamentNotActive = errors.New("tournament is not active")

	ErrInvalidParticipantName = errors.New("invalid participant name")
	ErrMissingTournamentName  = errors.New("tournament name is required")
)
