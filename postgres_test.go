package tierbank_test

import (
	"os"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawthwind/tierbank"
)

var (
	testDBConnStr string
)

func init() {
	testDBConnStr = os.Getenv("TEST_DB_CONN_STR")
}

func TestPostgres(t *testing.T) {
	if testDBConnStr == "" {
		t.Skip("TEST_DB_CONN_STR not set")
	}

	as := assert.New(t)
	reqrd := require.New(t)

	cfg := &tierbank.Config{}
	cfg.Database.ConnectionString = testDBConnStr
	helper, err := tierbank.NewLocalHelper(cfg)
	reqrd.Nil(err)
	teardown, err := helper.InitDB()
	reqrd.Nil(err)
	t.Cleanup(teardown)

	node, err := snowflake.NewNode(111)
	reqrd.Nil(err)
	nooplog := zerolog.Nop()
	endpt, err := tierbank.NewPostgresEndpoint(testDBConnStr, &nooplog)
	reqrd.Nil(err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	acct := &tierbank.Account{
		ID:        node.Generate(),
		OwnerID:   uuid.New(),
		Email:     "arhyth@gmail.com",
		Number:    "1029384756",
		Balance:   decimal.Zero,
		Tier:      tierbank.TierStandard,
		CreatedAt: now,
		UpdatedAt: now,
	}
	lim := tierbank.NewLimitsForTier(acct.ID, acct.Tier)

	t.Run("CreateAccount roundtrip", func(tt *testing.T) {
		err := endpt.CreateAccount(acct, lim)
		reqrd.Nil(err)

		got, err := endpt.GetAccountByNumber(acct.Number)
		reqrd.Nil(err)
		as.Equal(acct.ID, got.ID)
		as.Equal(acct.OwnerID, got.OwnerID)
		as.Equal(acct.Email, got.Email)
		as.Equal(tierbank.TierStandard, got.Tier)
		as.True(got.Balance.IsZero())
		as.Nil(got.ClosedAt)

		gotlim, err := endpt.GetLimits(acct.ID)
		reqrd.Nil(err)
		as.True(gotlim.TransactionCap.Equal(lim.TransactionCap))
		as.True(gotlim.DailyDepositCap.Equal(lim.DailyDepositCap))
		as.True(gotlim.MonthlyWithdrawCap.Equal(lim.MonthlyWithdrawCap))
	})

	t.Run("AccountNumberExists", func(tt *testing.T) {
		exists, err := endpt.AccountNumberExists(acct.Number)
		as.Nil(err)
		as.True(exists)

		exists, err = endpt.AccountNumberExists("0000000000")
		as.Nil(err)
		as.False(exists)
	})

	t.Run("AccountExistsForOwner counts open accounts only", func(tt *testing.T) {
		exists, err := endpt.AccountExistsForOwner(acct.OwnerID)
		as.Nil(err)
		as.True(exists)

		exists, err = endpt.AccountExistsForOwner(uuid.New())
		as.Nil(err)
		as.False(exists)
	})

	t.Run("GetAccountByNumber on unknown number", func(tt *testing.T) {
		_, err := endpt.GetAccountByNumber("9999999999")
		as.ErrorAs(err, &tierbank.ErrNotFound{})
	})

	t.Run("CommitMovement appends entry and updates balance", func(tt *testing.T) {
		amount := decimal.RequireFromString("150.25")
		acct.Balance = acct.Balance.Add(amount)
		acct.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
		entry := tierbank.LedgerEntry{
			ID:        node.Generate(),
			AccountID: acct.ID,
			Amount:    amount,
			At:        acct.UpdatedAt,
		}
		err := endpt.CommitMovement(acct, entry)
		reqrd.Nil(err)

		got, err := endpt.GetAccount(acct.ID)
		reqrd.Nil(err)
		as.True(got.Balance.Equal(amount))

		entries, err := endpt.EntriesByAccountAndRange(acct.ID, entry.At.Add(-time.Hour), entry.At.Add(time.Hour))
		reqrd.Nil(err)
		reqrd.Len(entries, 1)
		as.Equal(entry.ID, entries[0].ID)
		as.True(entries[0].Amount.Equal(amount))
	})

	t.Run("EntriesByAccountAndRange excludes entries outside the window", func(tt *testing.T) {
		old := tierbank.LedgerEntry{
			ID:        node.Generate(),
			AccountID: acct.ID,
			Amount:    decimal.NewFromInt(-10),
			At:        now.AddDate(0, 0, -40),
		}
		acct.Balance = acct.Balance.Sub(decimal.NewFromInt(10))
		err := endpt.CommitMovement(acct, old)
		reqrd.Nil(err)

		entries, err := endpt.EntriesByAccountAndRange(acct.ID, now.AddDate(0, 0, -30), now.Add(time.Hour))
		reqrd.Nil(err)
		for _, e := range entries {
			as.NotEqual(old.ID, e.ID)
		}
	})

	t.Run("CommitMovement on unknown account", func(tt *testing.T) {
		ghost := &tierbank.Account{
			ID:      node.Generate(),
			Number:  "8888888888",
			Balance: decimal.NewFromInt(5),
			Tier:    tierbank.TierStandard,
		}
		err := endpt.CommitMovement(ghost, tierbank.LedgerEntry{
			ID:        node.Generate(),
			AccountID: ghost.ID,
			Amount:    decimal.NewFromInt(5),
			At:        time.Now().UTC(),
		})
		as.ErrorAs(err, &tierbank.ErrNotFound{})
	})

	t.Run("SaveLimits overwrites caps", func(tt *testing.T) {
		upd := tierbank.NewLimitsForTier(acct.ID, tierbank.TierMetal)
		err := endpt.SaveLimits(upd)
		reqrd.Nil(err)

		got, err := endpt.GetLimits(acct.ID)
		reqrd.Nil(err)
		as.True(got.TransactionCap.Equal(decimal.NewFromInt(600)))
		as.True(got.DailyTotal.Equal(decimal.NewFromInt(2000)))
	})

	t.Run("DeleteAccount soft-deletes and keeps the ledger", func(tt *testing.T) {
		err := endpt.DeleteAccount(acct.ID)
		reqrd.Nil(err)

		got, err := endpt.GetAccount(acct.ID)
		reqrd.Nil(err)
		as.NotNil(got.ClosedAt)

		_, err = endpt.GetLimits(acct.ID)
		as.ErrorAs(err, &tierbank.ErrLimitsNotConfigured{})

		entries, err := endpt.EntriesByAccountAndRange(acct.ID, now.AddDate(0, 0, -60), now.Add(time.Hour))
		reqrd.Nil(err)
		as.NotEmpty(entries)

		// the owner is free to open a new account once this one is closed
		exists, err := endpt.AccountExistsForOwner(acct.OwnerID)
		as.Nil(err)
		as.False(exists)
	})
}

func TestSeedAccounts(t *testing.T) {
	if testDBConnStr == "" {
		t.Skip("TEST_DB_CONN_STR not set")
	}

	as := assert.New(t)
	reqrd := require.New(t)

	cfg := &tierbank.Config{}
	cfg.Database.ConnectionString = testDBConnStr
	helper, err := tierbank.NewLocalHelper(cfg)
	reqrd.Nil(err)
	teardown, err := helper.InitDB()
	reqrd.Nil(err)
	t.Cleanup(teardown)

	numbers, err := helper.SeedAccounts("one@bank.com", "two@bank.com")
	reqrd.Nil(err)
	reqrd.Len(numbers, 2)

	nooplog := zerolog.Nop()
	endpt, err := tierbank.NewPostgresEndpoint(testDBConnStr, &nooplog)
	reqrd.Nil(err)
	for email, number := range numbers {
		acct, err := endpt.GetAccountByNumber(number)
		reqrd.Nil(err)
		as.Equal(email, acct.Email)
		as.Equal(tierbank.TierStandard, acct.Tier)

		lim, err := endpt.GetLimits(acct.ID)
		reqrd.Nil(err)
		as.True(lim.TransactionCap.Equal(decimal.NewFromInt(300)))
	}
}
