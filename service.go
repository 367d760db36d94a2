package tierbank

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CreateAccountReq struct {
	OwnerID uuid.UUID `json:"ownerId"`
	Email   string    `json:"email"`
}

// ChargeReq is a proposed deposit or withdrawal. Email is the acting
// principal, passed explicitly on every call.
type ChargeReq struct {
	Amount decimal.Decimal `json:"amount"`
	Number string
	Email  string
}

type BalanceReq struct {
	Number string
	Email  string
}

type StatementReq struct {
	Number string
	Email  string
}

type CloseAccountReq struct {
	Number string
	Email  string
}

type Service interface {
	CreateAccount(CreateAccountReq) (*Account, error)
	Deposit(ChargeReq) (*Account, error)
	Withdraw(ChargeReq) (*Account, error)
	Balance(BalanceReq) (*decimal.Decimal, error)
	Statement(io.Writer, StatementReq) error
	CloseAccount(CloseAccountReq) error
}

func NewService(repo Repository, node *snowflake.Node, log *zerolog.Logger) (*serviceImpl, error) {
	if repo == nil || node == nil {
		return nil, errors.New("service requires a repository and an ID node")
	}
	return &serviceImpl{
		repo:   repo,
		quotas: NewQuotaEvaluator(repo),
		node:   node,
		log:    log,
		now:    time.Now,
	}, nil
}

type serviceImpl struct {
	repo   Repository
	quotas *QuotaEvaluator
	node   *snowflake.Node
	log    *zerolog.Logger
	now    func() time.Time
	locks  accountLocks
}

func (s *serviceImpl) CreateAccount(req CreateAccountReq) (*Account, error) {
	// one open account per owner; closing frees the owner to open anew
	exists, err := s.repo.AccountExistsForOwner(req.OwnerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountExists{OwnerID: req.OwnerID}
	}

	number, err := s.generateNumber()
	if err != nil {
		return nil, err
	}
	now := s.now()
	acct := &Account{
		ID:        s.node.Generate(),
		OwnerID:   req.OwnerID,
		Email:     req.Email,
		Number:    number,
		Balance:   decimal.Zero,
		Tier:      TierStandard,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Limits are cut from the tier table exactly once, here. Later tier
	// reclassifications leave them untouched.
	lim := NewLimitsForTier(acct.ID, acct.Tier)
	if err := s.repo.CreateAccount(acct, lim); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("account", acct.Number).
		Str("tier", acct.Tier.String()).
		Msg("account created")
	return acct, nil
}

func (s *serviceImpl) Deposit(req ChargeReq) (*Account, error) {
	return s.process(req, DirDeposit)
}

func (s *serviceImpl) Withdraw(req ChargeReq) (*Account, error) {
	return s.process(req, DirWithdraw)
}

// process runs one movement end to end under the account's exclusive
// lock: quota evaluation against the ledger, the balance precondition for
// withdrawals, the balance delta, tier reclassification, and the atomic
// account-save + ledger-append. Quota rejection wins over balance
// rejection when both would fail.
func (s *serviceImpl) process(req ChargeReq, dir Direction) (*Account, error) {
	unlock := s.locks.lock(req.Number)
	defer unlock()

	acct, err := s.repo.GetAccountByNumber(req.Number)
	if err != nil {
		return nil, err
	}

	lim, err := s.repo.GetLimits(acct.ID)
	if err != nil {
		if errors.As(err, &ErrLimitsNotConfigured{}) {
			s.log.Error().
				Str("account", acct.Number).
				Msg("account has no limits row; creation invariant broken")
		}
		return nil, err
	}

	now := s.now()
	if err = s.quotas.Evaluate(acct, lim, req.Amount, dir, now); err != nil {
		return nil, err
	}

	signed := req.Amount
	if dir == DirWithdraw {
		if acct.Balance.LessThan(req.Amount) {
			return nil, ErrInsufficientBalance{Balance: acct.Balance, Requested: req.Amount}
		}
		signed = req.Amount.Neg()
	}

	acct.Balance = acct.Balance.Add(signed)
	if next := ClassifyBalance(acct.Balance); next != acct.Tier {
		s.log.Info().
			Str("account", acct.Number).
			Str("from", acct.Tier.String()).
			Str("to", next.String()).
			Msg("tier reclassified")
		acct.Tier = next
	}
	acct.UpdatedAt = now

	entry := LedgerEntry{
		ID:        s.node.Generate(),
		AccountID: acct.ID,
		Amount:    signed,
		At:        now,
	}
	if err = s.repo.CommitMovement(acct, entry); err != nil {
		return nil, err
	}

	return acct, nil
}

func (s *serviceImpl) Balance(req BalanceReq) (*decimal.Decimal, error) {
	acct, err := s.repo.GetAccountByNumber(req.Number)
	if err != nil {
		return nil, err
	}
	return &acct.Balance, nil
}

func (s *serviceImpl) Statement(w io.Writer, req StatementReq) error {
	acct, err := s.repo.GetAccountByNumber(req.Number)
	if err != nil {
		return err
	}
	now := s.now()
	entries, err := s.repo.EntriesByAccountAndRange(acct.ID, now.AddDate(0, 0, -30), now)
	if err != nil {
		return err
	}
	return writeStatementPDF(w, acct, entries, now)
}

// CloseAccount soft-deletes the account and removes its limits row.
// Ledger history is retained; account numbers are never reused.
func (s *serviceImpl) CloseAccount(req CloseAccountReq) error {
	unlock := s.locks.lock(req.Number)
	defer unlock()

	acct, err := s.repo.GetAccountByNumber(req.Number)
	if err != nil {
		return err
	}
	if err = s.repo.DeleteAccount(acct.ID); err != nil {
		return err
	}
	s.log.Info().Str("account", acct.Number).Msg("account closed")
	return nil
}

func (s *serviceImpl) generateNumber() (string, error) {
	for i := 0; i < 10; i++ {
		number := fmt.Sprintf("%010d", rand.Int63n(10_000_000_000))
		exists, err := s.repo.AccountNumberExists(number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", ErrInternalServer
}

// accountLocks serializes movements per account number. Accounts are
// independent units of concurrency; cross-account calls never contend.
type accountLocks struct {
	mu   sync.Mutex
	held map[string]*sync.Mutex
}

func (l *accountLocks) lock(number string) func() {
	l.mu.Lock()
	if l.held == nil {
		l.held = make(map[string]*sync.Mutex)
	}
	m, ok := l.held[number]
	if !ok {
		m = &sync.Mutex{}
		l.held[number] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
