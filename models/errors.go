package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error unwraps to exactly one of these.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrStateConflict       = errors.New("state conflict")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPersistenceFailure  = errors.New("persistence failure")
)

// DomainError is a specific failure tagged with its kind.
type DomainError struct {
	Kind    error
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func newError(kind error, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

var (
	ErrMarketNotFound = newError(ErrNotFound, "MARKET_NOT_FOUND", "market not found")

	ErrInvalidOptionCount = newError(ErrInvalidInput, "INVALID_OPTION_COUNT", "a market needs between 2 and 10 options")
	ErrInvalidOdds        = newError(ErrInvalidInput, "INVALID_ODDS", "odds must be at least 1.01")
	ErrInvalidAmount      = newError(ErrInvalidInput, "INVALID_AMOUNT", "wager amount must be a positive integer within limits")
	ErrInvalidOption      = newError(ErrInvalidInput, "INVALID_OPTION", "option index out of range")
	ErrInvalidMarketID    = newError(ErrInvalidInput, "INVALID_MARKET_ID", "market id is required")
	ErrInvalidQuestion    = newError(ErrInvalidInput, "INVALID_QUESTION", "question is required")
	ErrInvalidOptionName  = newError(ErrInvalidInput, "INVALID_OPTION_NAME", "option name is required")
	ErrInvalidUserID      = newError(ErrInvalidInput, "INVALID_USER_ID", "user id is required")
	ErrInvalidClosingTime = newError(ErrInvalidInput, "INVALID_CLOSING_TIME", "closing time must look like 21h30")

	ErrNotCreator = newError(ErrUnauthorized, "NOT_CREATOR", "only the market creator can do this")

	ErrMarketClosed   = newError(ErrStateConflict, "MARKET_CLOSED", "market is not open for wagers")
	ErrDuplicateWager = newError(ErrStateConflict, "DUPLICATE_WAGER", "user already has a wager on this market")
	ErrMarketTerminal = newError(ErrStateConflict, "MARKET_TERMINAL", "market is already resolved or cancelled")
	ErrMarketExists   = newError(ErrStateConflict, "MARKET_EXISTS", "a market with this id already exists")
	ErrBadTransition  = newError(ErrStateConflict, "BAD_TRANSITION", "status transition not allowed")

	ErrBalanceTooLow = newError(ErrInsufficientBalance, "INSUFFICIENT_BALANCE", "balance too low for this wager")

	ErrInvalidStartingBalance = errors.New("starting balance cannot be negative")
	ErrInvalidHistoryLimits   = errors.New("invalid history limits")
	ErrInvalidLeaderboardSize = errors.New("invalid leaderboard size")
	ErrInvalidOddsBounds      = errors.New("invalid odds bounds")
	ErrInvalidOverround       = errors.New("overround must be in (0, 1]")
	ErrInvalidWagerLimits     = errors.New("invalid wager limits")
	ErrInvalidReminderLead    = errors.New("reminder lead must be positive")
	ErrInvalidTimezone        = errors.New("invalid timezone")
	ErrInvalidBackend         = errors.New("unknown persistence backend")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")
)

// Code returns the DomainError code carried by err, or "" when there is none.
func Code(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
