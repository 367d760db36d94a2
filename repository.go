package tierbank

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// Repository is the storage contract the service consumes. CommitMovement
// must persist the account row and append the ledger entry as one atomic
// unit; a failure leaves neither change durable.
type Repository interface {
	CreateAccount(acct *Account, lim *Limits) error
	GetAccount(id snowflake.ID) (*Account, error)
	GetAccountByNumber(number string) (*Account, error)
	AccountNumberExists(number string) (bool, error)
	AccountExistsForOwner(ownerID uuid.UUID) (bool, error)
	DeleteAccount(id snowflake.ID) error

	GetLimits(acctID snowflake.ID) (*Limits, error)
	SaveLimits(lim *Limits) error

	CommitMovement(acct *Account, entry LedgerEntry) error
	EntriesByAccountAndRange(acctID snowflake.ID, start, end time.Time) ([]LedgerEntry, error)
}
