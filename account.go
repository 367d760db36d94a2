package tierbank

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID        snowflake.ID
	OwnerID   uuid.UUID
	Email     string
	Number    string
	Balance   decimal.Decimal
	Tier      Tier
	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
}

func (a *Account) Closed() bool {
	return a.ClosedAt != nil
}

// Limits is the per-account quota row, one-to-one with Account. The six
// sub-caps are derived from the three period totals at tier-assignment
// time (see SplitPeriodTotal) and are never re-derived out of band.
type Limits struct {
	AccountID snowflake.ID

	TransactionCap decimal.Decimal
	DailyTotal     decimal.Decimal
	WeeklyTotal    decimal.Decimal
	MonthlyTotal   decimal.Decimal

	DailyDepositCap    decimal.Decimal
	DailyWithdrawCap   decimal.Decimal
	WeeklyDepositCap   decimal.Decimal
	WeeklyWithdrawCap  decimal.Decimal
	MonthlyDepositCap  decimal.Decimal
	MonthlyWithdrawCap decimal.Decimal
}

// NewLimitsForTier builds an account's Limits row from the tier table.
// This happens exactly once, when the account is created; tier changes
// after creation do not regenerate limits.
func NewLimitsForTier(acctID snowflake.ID, t Tier) *Limits {
	q := t.Quota()
	return &Limits{
		AccountID:          acctID,
		TransactionCap:     q.TransactionCap,
		DailyTotal:         q.DailyTotal,
		WeeklyTotal:        q.WeeklyTotal,
		MonthlyTotal:       q.MonthlyTotal,
		DailyDepositCap:    SplitPeriodTotal(q.DailyTotal),
		DailyWithdrawCap:   SplitPeriodTotal(q.DailyTotal),
		WeeklyDepositCap:   SplitPeriodTotal(q.WeeklyTotal),
		WeeklyWithdrawCap:  SplitPeriodTotal(q.WeeklyTotal),
		MonthlyDepositCap:  SplitPeriodTotal(q.MonthlyTotal),
		MonthlyWithdrawCap: SplitPeriodTotal(q.MonthlyTotal),
	}
}

// LedgerEntry is one accepted movement. Amount is signed: positive for
// deposits, negative for withdrawals. Entries are immutable once written.
type LedgerEntry struct {
	ID        snowflake.ID
	AccountID snowflake.ID
	Amount    decimal.Decimal
	At        time.Time
}
