package tierbank

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Direction of a proposed movement. Ledger entries carry the direction in
// their sign instead: positive for deposits, negative for withdrawals.
type Direction int

const (
	DirDeposit Direction = iota
	DirWithdraw
)

func (d Direction) String() string {
	if d == DirWithdraw {
		return "withdraw"
	}
	return "deposit"
}

func (d Direction) matches(amount decimal.Decimal) bool {
	if d == DirDeposit {
		return amount.Sign() > 0
	}
	return amount.Sign() < 0
}

// LedgerReader is the slice of Repository the evaluator needs. Entries
// returned must fall within [start, end] inclusive.
type LedgerReader interface {
	EntriesByAccountAndRange(acctID snowflake.ID, start, end time.Time) ([]LedgerEntry, error)
}

// QuotaEvaluator checks a proposed movement against an account's limits
// using rolling-window aggregates over the ledger. It holds no state of
// its own; two calls with the same inputs and an unchanged ledger yield
// the same verdict.
type QuotaEvaluator struct {
	ledger LedgerReader
}

func NewQuotaEvaluator(ledger LedgerReader) *QuotaEvaluator {
	return &QuotaEvaluator{ledger: ledger}
}

// Evaluate returns nil when the movement fits every cap, ErrLimitExceeded
// for the first violated cap in transaction -> daily -> weekly -> monthly
// order, or ErrStorageUnavailable when the ledger cannot be read.
//
// The daily window is the calendar day containing asOf (midnight-aligned);
// the weekly and monthly windows are rolling 7- and 30-day lookbacks
// ending at asOf. The asymmetry is deliberate.
func (q *QuotaEvaluator) Evaluate(acct *Account, lim *Limits, amount decimal.Decimal, dir Direction, asOf time.Time) error {
	if amount.GreaterThan(lim.TransactionCap) {
		return ErrLimitExceeded{
			Scope:       ScopeTransaction,
			Direction:   dir,
			Attempted:   amount,
			WindowTotal: amount,
			Cap:         lim.TransactionCap,
		}
	}

	windows := []struct {
		scope LimitScope
		start time.Time
		cap   decimal.Decimal
	}{
		{ScopeDaily, dayStart(asOf), lim.dirCap(ScopeDaily, dir)},
		{ScopeWeekly, asOf.AddDate(0, 0, -7), lim.dirCap(ScopeWeekly, dir)},
		{ScopeMonthly, asOf.AddDate(0, 0, -30), lim.dirCap(ScopeMonthly, dir)},
	}

	for _, w := range windows {
		entries, err := q.ledger.EntriesByAccountAndRange(acct.ID, w.start, asOf)
		if err != nil {
			return ErrStorageUnavailable{Cause: err}
		}
		total := amount
		for _, e := range entries {
			if dir.matches(e.Amount) {
				total = total.Add(e.Amount.Abs())
			}
		}
		if total.GreaterThan(w.cap) {
			return ErrLimitExceeded{
				Scope:       w.scope,
				Direction:   dir,
				Attempted:   amount,
				WindowTotal: total,
				Cap:         w.cap,
			}
		}
	}

	return nil
}

func (l *Limits) dirCap(scope LimitScope, dir Direction) decimal.Decimal {
	switch scope {
	case ScopeDaily:
		if dir == DirDeposit {
			return l.DailyDepositCap
		}
		return l.DailyWithdrawCap
	case ScopeWeekly:
		if dir == DirDeposit {
			return l.WeeklyDepositCap
		}
		return l.WeeklyWithdrawCap
	default:
		if dir == DirDeposit {
			return l.MonthlyDepositCap
		}
		return l.MonthlyWithdrawCap
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
