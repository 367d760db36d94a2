package tierbank_test

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hawthwind/tierbank"
	"github.com/hawthwind/tierbank/mocks"
)

var quotaAsOf = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

// scenarioLimits is a Standard-tier-shaped limits row with a 150 sub-cap
// on every window so window behavior is easy to pin down.
func scenarioLimits(acctID snowflake.ID) *tierbank.Limits {
	return &tierbank.Limits{
		AccountID:          acctID,
		TransactionCap:     decimal.NewFromInt(300),
		DailyTotal:         decimal.NewFromInt(300),
		WeeklyTotal:        decimal.NewFromInt(300),
		MonthlyTotal:       decimal.NewFromInt(300),
		DailyDepositCap:    decimal.NewFromInt(150),
		DailyWithdrawCap:   decimal.NewFromInt(150),
		WeeklyDepositCap:   decimal.NewFromInt(150),
		WeeklyWithdrawCap:  decimal.NewFromInt(150),
		MonthlyDepositCap:  decimal.NewFromInt(150),
		MonthlyWithdrawCap: decimal.NewFromInt(150),
	}
}

// windowedLedger mimics a range query over a fixed entry set, inclusive
// on both ends.
func windowedLedger(entries []tierbank.LedgerEntry) func(snowflake.ID, time.Time, time.Time) ([]tierbank.LedgerEntry, error) {
	return func(_ snowflake.ID, start, end time.Time) ([]tierbank.LedgerEntry, error) {
		var out []tierbank.LedgerEntry
		for _, e := range entries {
			if !e.At.Before(start) && !e.At.After(end) {
				out = append(out, e)
			}
		}
		return out, nil
	}
}

func TestEvaluateAcceptsWithNoHistory(t *testing.T) {
	as := assert.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	node, _ := snowflake.NewNode(1)
	acct := &tierbank.Account{ID: node.Generate(), Tier: tierbank.TierStandard}
	lim := scenarioLimits(acct.ID)

	repo.EXPECT().
		EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(3)

	ev := tierbank.NewQuotaEvaluator(repo)
	err := ev.Evaluate(acct, lim, decimal.NewFromInt(150), tierbank.DirDeposit, quotaAsOf)
	as.Nil(err)
}

func TestEvaluateTransactionCap(t *testing.T) {
	t.Run("amount over cap rejected before any ledger read", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		node, _ := snowflake.NewNode(1)
		acct := &tierbank.Account{ID: node.Generate()}
		lim := scenarioLimits(acct.ID)

		ev := tierbank.NewQuotaEvaluator(repo)
		err := ev.Evaluate(acct, lim, decimal.NewFromInt(301), tierbank.DirDeposit, quotaAsOf)

		le := &tierbank.ErrLimitExceeded{}
		as.True(errors.As(err, le))
		as.Equal(tierbank.ScopeTransaction, le.Scope)
		as.True(le.Cap.Equal(decimal.NewFromInt(300)))
	})

	t.Run("amount equal to cap passes", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		node, _ := snowflake.NewNode(1)
		acct := &tierbank.Account{ID: node.Generate()}
		lim := scenarioLimits(acct.ID)
		lim.DailyDepositCap = decimal.NewFromInt(1000)
		lim.WeeklyDepositCap = decimal.NewFromInt(1000)
		lim.MonthlyDepositCap = decimal.NewFromInt(1000)

		repo.EXPECT().
			EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
			Return(nil, nil).
			Times(3)

		ev := tierbank.NewQuotaEvaluator(repo)
		err := ev.Evaluate(acct, lim, decimal.NewFromInt(300), tierbank.DirDeposit, quotaAsOf)
		as.Nil(err)
	})
}

func TestEvaluateDailyCap(t *testing.T) {
	as := assert.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	node, _ := snowflake.NewNode(1)
	acct := &tierbank.Account{ID: node.Generate()}
	lim := scenarioLimits(acct.ID)

	// two deposits totaling 140 earlier today; 140 + 20 = 160 > 150
	history := []tierbank.LedgerEntry{
		{AccountID: acct.ID, Amount: decimal.NewFromInt(100), At: quotaAsOf.Add(-3 * time.Hour)},
		{AccountID: acct.ID, Amount: decimal.NewFromInt(40), At: quotaAsOf.Add(-1 * time.Hour)},
	}
	repo.EXPECT().
		EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(windowedLedger(history)).
		Times(1)

	ev := tierbank.NewQuotaEvaluator(repo)
	err := ev.Evaluate(acct, lim, decimal.NewFromInt(20), tierbank.DirDeposit, quotaAsOf)

	le := &tierbank.ErrLimitExceeded{}
	as.True(errors.As(err, le))
	as.Equal(tierbank.ScopeDaily, le.Scope)
	as.Equal(tierbank.DirDeposit, le.Direction)
	as.True(le.Attempted.Equal(decimal.NewFromInt(20)))
	as.True(le.WindowTotal.Equal(decimal.NewFromInt(160)))
	as.True(le.Cap.Equal(decimal.NewFromInt(150)))
}

func TestEvaluateDailyWindowIsCalendarDay(t *testing.T) {
	as := assert.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	node, _ := snowflake.NewNode(1)
	acct := &tierbank.Account{ID: node.Generate()}
	lim := scenarioLimits(acct.ID)
	lim.WeeklyDepositCap = decimal.NewFromInt(1000)
	lim.MonthlyDepositCap = decimal.NewFromInt(1000)

	// 23:00 yesterday: inside a 24h lookback, outside the calendar day
	history := []tierbank.LedgerEntry{
		{AccountID: acct.ID, Amount: decimal.NewFromInt(100), At: quotaAsOf.Add(-13 * time.Hour)},
	}
	repo.EXPECT().
		EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(windowedLedger(history)).
		Times(3)

	ev := tierbank.NewQuotaEvaluator(repo)
	err := ev.Evaluate(acct, lim, decimal.NewFromInt(100), tierbank.DirDeposit, quotaAsOf)
	as.Nil(err)
}

func TestEvaluateRollingWindows(t *testing.T) {
	t.Run("entry 8 days back counts monthly but not weekly", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		node, _ := snowflake.NewNode(1)
		acct := &tierbank.Account{ID: node.Generate()}
		lim := scenarioLimits(acct.ID)

		history := []tierbank.LedgerEntry{
			{AccountID: acct.ID, Amount: decimal.NewFromInt(100), At: quotaAsOf.AddDate(0, 0, -8)},
		}
		repo.EXPECT().
			EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(windowedLedger(history)).
			Times(3)

		ev := tierbank.NewQuotaEvaluator(repo)
		err := ev.Evaluate(acct, lim, decimal.NewFromInt(100), tierbank.DirDeposit, quotaAsOf)

		le := &tierbank.ErrLimitExceeded{}
		as.True(errors.As(err, le))
		as.Equal(tierbank.ScopeMonthly, le.Scope)
	})

	t.Run("entry 31 days back contributes nowhere", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		node, _ := snowflake.NewNode(1)
		acct := &tierbank.Account{ID: node.Generate()}
		lim := scenarioLimits(acct.ID)

		history := []tierbank.LedgerEntry{
			{AccountID: acct.ID, Amount: decimal.NewFromInt(10000), At: quotaAsOf.AddDate(0, 0, -31)},
		}
		repo.EXPECT().
			EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(windowedLedger(history)).
			Times(3)

		ev := tierbank.NewQuotaEvaluator(repo)
		err := ev.Evaluate(acct, lim, decimal.NewFromInt(150), tierbank.DirDeposit, quotaAsOf)
		as.Nil(err)
	})
}

func TestEvaluateFiltersOppositeDirection(t *testing.T) {
	as := assert.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	node, _ := snowflake.NewNode(1)
	acct := &tierbank.Account{ID: node.Generate()}
	lim := scenarioLimits(acct.ID)

	// withdrawals today must not count against the deposit caps
	history := []tierbank.LedgerEntry{
		{AccountID: acct.ID, Amount: decimal.NewFromInt(-140), At: quotaAsOf.Add(-2 * time.Hour)},
	}
	repo.EXPECT().
		EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(windowedLedger(history)).
		Times(3)

	ev := tierbank.NewQuotaEvaluator(repo)
	err := ev.Evaluate(acct, lim, decimal.NewFromInt(150), tierbank.DirDeposit, quotaAsOf)
	as.Nil(err)
}

func TestEvaluateWithdrawUsesAbsoluteValues(t *testing.T) {
	as := assert.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	node, _ := snowflake.NewNode(1)
	acct := &tierbank.Account{ID: node.Generate()}
	lim := scenarioLimits(acct.ID)

	history := []tierbank.LedgerEntry{
		{AccountID: acct.ID, Amount: decimal.NewFromInt(-140), At: quotaAsOf.Add(-2 * time.Hour)},
	}
	repo.EXPECT().
		EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(windowedLedger(history)).
		Times(1)

	ev := tierbank.NewQuotaEvaluator(repo)
	err := ev.Evaluate(acct, lim, decimal.NewFromInt(20), tierbank.DirWithdraw, quotaAsOf)

	le := &tierbank.ErrLimitExceeded{}
	as.True(errors.As(err, le))
	as.Equal(tierbank.ScopeDaily, le.Scope)
	as.Equal(tierbank.DirWithdraw, le.Direction)
	as.True(le.Attempted.Equal(decimal.NewFromInt(20)))
	as.True(le.WindowTotal.Equal(decimal.NewFromInt(160)))
}

func TestEvaluateReportsFirstViolatedWindow(t *testing.T) {
	as := assert.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	node, _ := snowflake.NewNode(1)
	acct := &tierbank.Account{ID: node.Generate()}
	lim := scenarioLimits(acct.ID)

	// violates daily, weekly, and monthly; only daily is reported
	history := []tierbank.LedgerEntry{
		{AccountID: acct.ID, Amount: decimal.NewFromInt(149), At: quotaAsOf.Add(-1 * time.Hour)},
	}
	repo.EXPECT().
		EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(windowedLedger(history)).
		Times(1)

	ev := tierbank.NewQuotaEvaluator(repo)
	err := ev.Evaluate(acct, lim, decimal.NewFromInt(2), tierbank.DirDeposit, quotaAsOf)

	le := &tierbank.ErrLimitExceeded{}
	as.True(errors.As(err, le))
	as.Equal(tierbank.ScopeDaily, le.Scope)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	node, _ := snowflake.NewNode(1)
	acct := &tierbank.Account{ID: node.Generate()}
	lim := scenarioLimits(acct.ID)

	history := []tierbank.LedgerEntry{
		{AccountID: acct.ID, Amount: decimal.NewFromInt(100), At: quotaAsOf.Add(-1 * time.Hour)},
	}
	repo.EXPECT().
		EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(windowedLedger(history)).
		AnyTimes()

	ev := tierbank.NewQuotaEvaluator(repo)
	first := ev.Evaluate(acct, lim, decimal.NewFromInt(60), tierbank.DirDeposit, quotaAsOf)
	second := ev.Evaluate(acct, lim, decimal.NewFromInt(60), tierbank.DirDeposit, quotaAsOf)
	reqrd.NotNil(first)
	reqrd.NotNil(second)
	as.Equal(first, second)
}

func TestEvaluateStorageFault(t *testing.T) {
	as := assert.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	node, _ := snowflake.NewNode(1)
	acct := &tierbank.Account{ID: node.Generate()}
	lim := scenarioLimits(acct.ID)

	repo.EXPECT().
		EntriesByAccountAndRange(acct.ID, gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused")).
		Times(1)

	ev := tierbank.NewQuotaEvaluator(repo)
	err := ev.Evaluate(acct, lim, decimal.NewFromInt(10), tierbank.DirDeposit, quotaAsOf)

	su := &tierbank.ErrStorageUnavailable{}
	as.True(errors.As(err, su))
}
