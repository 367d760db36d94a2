package tierbank

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	pgInsertAccountSQL = `
		INSERT INTO accounts (id, owner_id, email, number, balance, tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	pgInsertLimitsSQL = `
		INSERT INTO limits (
			account_id, transaction_cap,
			daily_total, weekly_total, monthly_total,
			daily_deposit_cap, daily_withdraw_cap,
			weekly_deposit_cap, weekly_withdraw_cap,
			monthly_deposit_cap, monthly_withdraw_cap
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	pgSelectAccountSQL = `
		SELECT id, owner_id, email, number, balance, tier, created_at, updated_at, closed_at
		FROM accounts
	`

	pgSelectForUpdateAcctSQL = `
		SELECT id
		FROM accounts
		WHERE id = $1
		FOR UPDATE;
	`

	pgUpdateAcctSQL = `
		UPDATE accounts
		SET balance = $1, tier = $2, updated_at = $3
		WHERE id = $4;
	`

	pgInsertEntrySQL = `
		INSERT INTO ledger_entries (id, account_id, amount, at)
		VALUES ($1, $2, $3, $4);
	`

	pgSelectEntriesSQL = `
		SELECT id, account_id, amount, at
		FROM ledger_entries
		WHERE account_id = $1 AND at >= $2 AND at <= $3
		ORDER BY at;
	`
)

type PostgresEndpoint struct {
	pool *pgxpool.Pool
	log  *zerolog.Logger
}

var (
	_ Repository = (*PostgresEndpoint)(nil)
)

func NewPostgresEndpoint(connStr string, log *zerolog.Logger) (*PostgresEndpoint, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	endpt := &PostgresEndpoint{
		pool: pool,
		log:  log,
	}
	return endpt, err
}

func (pg *PostgresEndpoint) CreateAccount(acct *Account, lim *Limits) error {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, pgInsertAccountSQL,
		acct.ID.Int64(), acct.OwnerID.String(), acct.Email, acct.Number,
		acct.Balance, acct.Tier.String(), acct.CreatedAt, acct.UpdatedAt,
	); err != nil {
		return ErrStorageUnavailable{Cause: err}
	}

	if _, err = tx.Exec(ctx, pgInsertLimitsSQL,
		lim.AccountID.Int64(), lim.TransactionCap,
		lim.DailyTotal, lim.WeeklyTotal, lim.MonthlyTotal,
		lim.DailyDepositCap, lim.DailyWithdrawCap,
		lim.WeeklyDepositCap, lim.WeeklyWithdrawCap,
		lim.MonthlyDepositCap, lim.MonthlyWithdrawCap,
	); err != nil {
		return ErrStorageUnavailable{Cause: err}
	}

	if err = tx.Commit(ctx); err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	return nil
}

func (pg *PostgresEndpoint) GetAccount(id snowflake.ID) (*Account, error) {
	return pg.getAccount(pgSelectAccountSQL+"WHERE id = $1;", id.Int64())
}

func (pg *PostgresEndpoint) GetAccountByNumber(number string) (*Account, error) {
	acct, err := pg.getAccount(pgSelectAccountSQL+"WHERE number = $1;", number)
	if err != nil {
		if _, ok := err.(ErrNotFound); ok {
			return nil, ErrNotFound{Number: number}
		}
		return nil, err
	}
	return acct, nil
}

func (pg *PostgresEndpoint) getAccount(sql string, arg any) (*Account, error) {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return nil, ErrStorageUnavailable{Cause: err}
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, sql, arg)
	var (
		rid      int64
		rowner   string
		remail   string
		rnumber  string
		rbal     decimal.Decimal
		rtier    string
		rcreated time.Time
		rupdated time.Time
		rclosed  *time.Time
	)
	if err = row.Scan(&rid, &rowner, &remail, &rnumber, &rbal, &rtier, &rcreated, &rupdated, &rclosed); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound{}
		}
		return nil, ErrStorageUnavailable{Cause: err}
	}

	owner, err := uuid.Parse(rowner)
	if err != nil {
		return nil, ErrStorageUnavailable{Cause: err}
	}
	tier, ok := ParseTier(rtier)
	if !ok {
		pg.log.Error().Str("tier", rtier).Int64("account", rid).Msg("unknown tier in storage")
	}

	acct := &Account{
		ID:        snowflake.ParseInt64(rid),
		OwnerID:   owner,
		Email:     remail,
		Number:    rnumber,
		Balance:   rbal,
		Tier:      tier,
		CreatedAt: rcreated,
		UpdatedAt: rupdated,
		ClosedAt:  rclosed,
	}
	return acct, nil
}

func (pg *PostgresEndpoint) AccountNumberExists(number string) (bool, error) {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return false, ErrStorageUnavailable{Cause: err}
	}
	defer conn.Release()

	sql := `SELECT EXISTS (SELECT 1 FROM accounts WHERE number = $1);`
	var exists bool
	if err = conn.QueryRow(ctx, sql, number).Scan(&exists); err != nil {
		return false, ErrStorageUnavailable{Cause: err}
	}
	return exists, nil
}

func (pg *PostgresEndpoint) AccountExistsForOwner(ownerID uuid.UUID) (bool, error) {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return false, ErrStorageUnavailable{Cause: err}
	}
	defer conn.Release()

	sql := `SELECT EXISTS (SELECT 1 FROM accounts WHERE owner_id = $1 AND closed_at IS NULL);`
	var exists bool
	if err = conn.QueryRow(ctx, sql, ownerID.String()).Scan(&exists); err != nil {
		return false, ErrStorageUnavailable{Cause: err}
	}
	return exists, nil
}

// DeleteAccount soft-deletes the account and drops its limits row. Ledger
// entries are kept; account numbers are never reused.
func (pg *PostgresEndpoint) DeleteAccount(id snowflake.ID) error {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `UPDATE accounts SET closed_at = now() WHERE id = $1;`, id.Int64()); err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	if _, err = tx.Exec(ctx, `DELETE FROM limits WHERE account_id = $1;`, id.Int64()); err != nil {
		return ErrStorageUnavailable{Cause: err}
	}

	if err = tx.Commit(ctx); err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	return nil
}

func (pg *PostgresEndpoint) GetLimits(acctID snowflake.ID) (*Limits, error) {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return nil, ErrStorageUnavailable{Cause: err}
	}
	defer conn.Release()

	sql := `
	SELECT transaction_cap,
		daily_total, weekly_total, monthly_total,
		daily_deposit_cap, daily_withdraw_cap,
		weekly_deposit_cap, weekly_withdraw_cap,
		monthly_deposit_cap, monthly_withdraw_cap
	FROM limits
	WHERE account_id = $1;
	`

	lim := &Limits{AccountID: acctID}
	row := conn.QueryRow(ctx, sql, acctID.Int64())
	if err = row.Scan(
		&lim.TransactionCap,
		&lim.DailyTotal, &lim.WeeklyTotal, &lim.MonthlyTotal,
		&lim.DailyDepositCap, &lim.DailyWithdrawCap,
		&lim.WeeklyDepositCap, &lim.WeeklyWithdrawCap,
		&lim.MonthlyDepositCap, &lim.MonthlyWithdrawCap,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLimitsNotConfigured{AccountID: acctID}
		}
		return nil, ErrStorageUnavailable{Cause: err}
	}
	return lim, nil
}

func (pg *PostgresEndpoint) SaveLimits(lim *Limits) error {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	defer conn.Release()

	sql := `
	UPDATE limits
	SET transaction_cap = $2,
		daily_total = $3, weekly_total = $4, monthly_total = $5,
		daily_deposit_cap = $6, daily_withdraw_cap = $7,
		weekly_deposit_cap = $8, weekly_withdraw_cap = $9,
		monthly_deposit_cap = $10, monthly_withdraw_cap = $11
	WHERE account_id = $1;
	`

	if _, err = conn.Exec(ctx, sql,
		lim.AccountID.Int64(), lim.TransactionCap,
		lim.DailyTotal, lim.WeeklyTotal, lim.MonthlyTotal,
		lim.DailyDepositCap, lim.DailyWithdrawCap,
		lim.WeeklyDepositCap, lim.WeeklyWithdrawCap,
		lim.MonthlyDepositCap, lim.MonthlyWithdrawCap,
	); err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	return nil
}

// CommitMovement persists the mutated account row and appends the ledger
// entry in one transaction. The row lock backs up the in-process
// per-account serialization in case a second instance writes the same
// account.
func (pg *PostgresEndpoint) CommitMovement(acct *Account, entry LedgerEntry) error {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	defer tx.Rollback(ctx)

	var locked int64
	if err = tx.QueryRow(ctx, pgSelectForUpdateAcctSQL, acct.ID.Int64()).Scan(&locked); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound{Number: acct.Number}
		}
		return ErrStorageUnavailable{Cause: err}
	}

	if _, err = tx.Exec(ctx, pgUpdateAcctSQL,
		acct.Balance, acct.Tier.String(), acct.UpdatedAt, acct.ID.Int64(),
	); err != nil {
		return ErrStorageUnavailable{Cause: err}
	}

	if _, err = tx.Exec(ctx, pgInsertEntrySQL,
		entry.ID.Int64(), entry.AccountID.Int64(), entry.Amount, entry.At,
	); err != nil {
		return ErrStorageUnavailable{Cause: err}
	}

	if err = tx.Commit(ctx); err != nil {
		return ErrStorageUnavailable{Cause: err}
	}
	return nil
}

func (pg *PostgresEndpoint) EntriesByAccountAndRange(acctID snowflake.ID, start, end time.Time) ([]LedgerEntry, error) {
	ctx := context.Background()
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return nil, ErrStorageUnavailable{Cause: err}
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, pgSelectEntriesSQL, acctID.Int64(), start, end)
	if err != nil {
		return nil, ErrStorageUnavailable{Cause: err}
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var (
			rid  int64
			raid int64
			ramt decimal.Decimal
			rat  time.Time
		)
		if err = rows.Scan(&rid, &raid, &ramt, &rat); err != nil {
			return nil, ErrStorageUnavailable{Cause: err}
		}
		entries = append(entries, LedgerEntry{
			ID:        snowflake.ParseInt64(rid),
			AccountID: snowflake.ParseInt64(raid),
			Amount:    ramt,
			At:        rat,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, ErrStorageUnavailable{Cause: err}
	}
	return entries, nil
}
