package tierbank

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"text/template"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LocalHelper prepares a local database for development and integration
// tests: schema init, demo accounts, teardown.
type LocalHelper struct {
	Conn *pgx.Conn
	node *snowflake.Node
}

func NewLocalHelper(cfg *Config) (*LocalHelper, error) {
	conn, err := pgx.Connect(context.Background(), cfg.Database.ConnectionString)
	if err != nil {
		return nil, err
	}
	node, err := snowflake.NewNode(111)
	if err != nil {
		return nil, err
	}
	return &LocalHelper{
		Conn: conn,
		node: node,
	}, nil
}

func (lh *LocalHelper) InitDB() (func(), error) {
	initSQLpath := filepath.Join("testdata", "init_db.sql")
	bits, err := os.ReadFile(initSQLpath)
	if err != nil {
		return nil, err
	}
	if _, err = lh.Conn.Exec(context.Background(), string(bits)); err != nil {
		return nil, err
	}
	return lh.teardownDB(), err
}

type seedAccount struct {
	ID      int64
	OwnerID string
	Email   string
	Number  string
	Tier    string
	Limits  *Limits
}

// SeedAccounts creates one Standard-tier account per email and returns
// the generated account numbers keyed by email.
func (lh *LocalHelper) SeedAccounts(emails ...string) (map[string]string, error) {
	seedPath := filepath.Join("testdata", "seed_accounts.tmpl")
	bits, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("seed_accounts").Parse(string(bits))
	if err != nil {
		return nil, err
	}

	numbers := make(map[string]string, len(emails))
	seeds := make([]seedAccount, 0, len(emails))
	for _, email := range emails {
		id := lh.node.Generate()
		number := fmt.Sprintf("%010d", rand.Int63n(10_000_000_000))
		numbers[email] = number
		seeds = append(seeds, seedAccount{
			ID:      id.Int64(),
			OwnerID: uuid.NewString(),
			Email:   email,
			Number:  number,
			Tier:    TierStandard.String(),
			Limits:  NewLimitsForTier(id, TierStandard),
		})
	}

	buf := new(bytes.Buffer)
	if err = tmpl.Execute(buf, seeds); err != nil {
		return nil, err
	}

	if _, err = lh.Conn.Exec(context.Background(), buf.String()); err != nil {
		return nil, err
	}

	return numbers, err
}

func (lh *LocalHelper) teardownDB() func() {
	return func() {
		defer lh.Conn.Close(context.Background())

		tearSQLpath := filepath.Join("testdata", "teardown_db.sql")
		bits, err := os.ReadFile(tearSQLpath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "DB cleanup read teardown sql: %s", err.Error())
			return
		}
		if _, err = lh.Conn.Exec(context.Background(), string(bits)); err != nil {
			fmt.Fprintf(os.Stderr, "DB cleanup exec teardown sql: %s", err.Error())
			return
		}
	}
}
