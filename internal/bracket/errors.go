package bracket

import "errors"

var (
	// Format needs an exact participant count (SABO DE16/DE32) and got something else
	ErrInvalidParticipantCount = errors.New("invalid participant count for format")

	ErrInsufficientParticipants = errors.New("at least 2 participants are required")

	// A progression link or advancement pointer names a match that does not exist
	ErrUnknownFeederReference = errors.New("unknown feeder reference")

	ErrSelfAdvancementLoop = errors.New("match advances into itself")

	ErrUnsupportedFormat = errors.New("unsupported tournament format")

	// Every feeder of a match resolved to nobody
	ErrEmptyMatch = errors.New("match has no players to resolve")
)

// A match row contradicts the bracket invariants (winner outside the match, missing scores, ...)
var ErrInconsistentMatch = errors.New("inconsistent match state")
