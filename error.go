package tierbank

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInternalServer = errors.New("internal server error")
)

type ErrBadRequest struct {
	Fields map[string]string `json:"fields"`
}

func (e ErrBadRequest) Error() string {
	return fmt.Sprintf("missing/invalid params: %v", e.Fields)
}

type ErrNotFound struct {
	Number string `json:"number"`
}

func (e ErrNotFound) Error() string {
	return "account not found"
}

// ErrAccountExists rejects a second open account for the same owner.
type ErrAccountExists struct {
	OwnerID uuid.UUID `json:"ownerId"`
}

func (e ErrAccountExists) Error() string {
	return fmt.Sprintf("owner %s already has an open account", e.OwnerID)
}

// ErrLimitsNotConfigured signals a broken creation invariant: every
// account gets its limits row in the same unit of work it is created in,
// so hitting this is a defect, not a user error.
type ErrLimitsNotConfigured struct {
	AccountID snowflake.ID `json:"accountId"`
}

func (e ErrLimitsNotConfigured) Error() string {
	return fmt.Sprintf("no limits configured for account %v", e.AccountID)
}

// LimitScope identifies which cap a rejected movement violated.
type LimitScope int

const (
	ScopeTransaction LimitScope = iota
	ScopeDaily
	ScopeWeekly
	ScopeMonthly
)

func (s LimitScope) String() string {
	switch s {
	case ScopeTransaction:
		return "transaction"
	case ScopeDaily:
		return "daily"
	case ScopeWeekly:
		return "weekly"
	case ScopeMonthly:
		return "monthly"
	}
	return "unknown"
}

// ErrLimitExceeded rejects a movement that would breach a cap. Attempted
// is the proposed amount; for window scopes WindowTotal is the window
// aggregate including the proposal.
type ErrLimitExceeded struct {
	Scope       LimitScope      `json:"scope"`
	Direction   Direction       `json:"direction"`
	Attempted   decimal.Decimal `json:"attempted"`
	WindowTotal decimal.Decimal `json:"windowTotal"`
	Cap         decimal.Decimal `json:"cap"`
}

func (e ErrLimitExceeded) Error() string {
	if e.Scope == ScopeTransaction {
		return fmt.Sprintf("transaction limit exceeded: attempted %s, cap %s", e.Attempted, e.Cap)
	}
	return fmt.Sprintf("%s %s limit exceeded: attempted %s, window total %s, cap %s",
		e.Scope, e.Direction, e.Attempted, e.WindowTotal, e.Cap)
}

type ErrInsufficientBalance struct {
	Balance   decimal.Decimal `json:"balance"`
	Requested decimal.Decimal `json:"requested"`
}

func (e ErrInsufficientBalance) Error() string {
	return fmt.Sprintf("insufficient balance: have %s, requested %s", e.Balance, e.Requested)
}

// ErrStorageUnavailable wraps I/O faults from the repository so callers
// can tell retryable storage trouble apart from business rejections.
type ErrStorageUnavailable struct {
	Cause error
}

func (e ErrStorageUnavailable) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Cause)
}

func (e ErrStorageUnavailable) Unwrap() error {
	return e.Cause
}
