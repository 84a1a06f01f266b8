package services

import "errors"

// Shared sentinel errors used across services and the HTTP error mapping.
var (
	// Not-found family.
	ErrNotFound           = errors.New("requested resource not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrGameDateNotFound   = errors.New("game date not found")
	ErrEliminationNotFound = errors.New("elimination not found")

	// Elimination registration failure modes. These surface verbatim to the
	// caller with a specific kind; none is retried except the position
	// conflict, which gets exactly one internal retry first.
	ErrGameDateNotInProgress       = errors.New("game date is not in progress")
	ErrDuplicateElimination        = errors.New("player already has an elimination for this game date")
	ErrPlayerNotInGameDate         = errors.New("player is not on the game date roster")
	ErrSelfElimination             = errors.New("a player cannot eliminate themselves")
	ErrEliminatorAlreadyEliminated = errors.New("eliminator was already eliminated in this game date")
	ErrOrderingViolation           = errors.New("operation would break the elimination sequence")
	ErrPositionConflict            = errors.New("lost position race to a concurrent writer")
	ErrWinnerRecordImmutable       = errors.New("the derived winner record cannot be modified")

	// Lifecycle errors.
	ErrInvalidGameDateTransition   = errors.New("invalid game date status transition")
	ErrInvalidTournamentTransition = errors.New("invalid tournament status transition")
	ErrRosterLocked                = errors.New("game date roster can no longer be changed")
	ErrEmptyRoster                 = errors.New("game date roster must contain at least two players")

	// Validation and conflicts.
	ErrValidationFailed           = errors.New("validation failed")
	ErrTournamentNumberConflict   = errors.New("tournament number already exists")
	ErrPlayerNicknameConflict     = errors.New("nickname is already in use")
	ErrParticipantAlreadyRegistered = errors.New("player is already registered for this tournament")

	// Authentication.
	ErrInvalidCredentials = errors.New("invalid nickname or pin")
	ErrPinTooShort        = errors.New("pin must be at least 4 digits")
)
