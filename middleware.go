package tierbank

import (
	"context"
	"errors"
	"io"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"
)

var (
	_ Service = (*validationMiddleware)(nil)

	emailRgx = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

type Middleware func(Service) Service

// validationMiddleware rejects malformed or unauthorized requests before
// they reach the processing core: non-positive amounts, missing or
// mismatched principals, and movements on closed accounts.
type validationMiddleware struct {
	next Service
	repo Repository
}

func NewValidationMiddleware(repo Repository) Middleware {
	return func(svc Service) Service {
		return &validationMiddleware{
			next: svc,
			repo: repo,
		}
	}
}

func (v *validationMiddleware) CreateAccount(req CreateAccountReq) (*Account, error) {
	if !emailRgx.MatchString(req.Email) {
		return nil, ErrBadRequest{Fields: map[string]string{"email": "missing or invalid"}}
	}
	return v.next.CreateAccount(req)
}

func (v *validationMiddleware) Deposit(req ChargeReq) (*Account, error) {
	if err := v.checkCharge(req); err != nil {
		return nil, err
	}
	return v.next.Deposit(req)
}

func (v *validationMiddleware) Withdraw(req ChargeReq) (*Account, error) {
	if err := v.checkCharge(req); err != nil {
		return nil, err
	}
	return v.next.Withdraw(req)
}

func (v *validationMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	if err := v.checkPrincipal(req.Number, req.Email); err != nil {
		return nil, err
	}
	return v.next.Balance(req)
}

func (v *validationMiddleware) Statement(w io.Writer, req StatementReq) error {
	if err := v.checkPrincipal(req.Number, req.Email); err != nil {
		return err
	}
	return v.next.Statement(w, req)
}

func (v *validationMiddleware) CloseAccount(req CloseAccountReq) error {
	if err := v.checkPrincipal(req.Number, req.Email); err != nil {
		return err
	}
	return v.next.CloseAccount(req)
}

func (v *validationMiddleware) checkCharge(req ChargeReq) error {
	if !req.Amount.IsPositive() {
		return ErrBadRequest{Fields: map[string]string{"amount": "must be positive"}}
	}
	return v.checkPrincipal(req.Number, req.Email)
}

func (v *validationMiddleware) checkPrincipal(number, email string) error {
	if email == "" {
		return ErrBadRequest{Fields: map[string]string{"email": "missing or invalid"}}
	}
	acct, err := v.repo.GetAccountByNumber(number)
	if err != nil {
		return err
	}
	if acct.Email != email {
		return ErrBadRequest{Fields: map[string]string{"email": "does not match account owner"}}
	}
	if acct.Closed() {
		return ErrNotFound{Number: number}
	}
	return nil
}

//
// Rate limiting middlewares
//

var ErrOverCapacity = errors.New("server over capacity")

// limitMiddleware sheds load by capping in-flight requests per method with
// a weighted semaphore and an acquisition timeout. Static limits have to
// be tuned per deployment, which is why they live in configuration.
type limitMiddleware struct {
	next    Service
	limits  *ServiceLimits
	timeout time.Duration
}

var (
	_ Service = (*limitMiddleware)(nil)
)

type ServiceLimits struct {
	CreateAccount *semaphore.Weighted
	Deposit       *semaphore.Weighted
	Withdraw      *semaphore.Weighted
	Balance       *semaphore.Weighted
	Statement     *semaphore.Weighted
	CloseAccount  *semaphore.Weighted
}

func NewServiceLimits(n int64) *ServiceLimits {
	return &ServiceLimits{
		CreateAccount: semaphore.NewWeighted(n),
		Deposit:       semaphore.NewWeighted(n),
		Withdraw:      semaphore.NewWeighted(n),
		Balance:       semaphore.NewWeighted(n),
		Statement:     semaphore.NewWeighted(n),
		CloseAccount:  semaphore.NewWeighted(n),
	}
}

func NewLimitMiddleware(limits *ServiceLimits, timeout time.Duration) Middleware {
	return func(next Service) Service {
		return &limitMiddleware{
			next:    next,
			limits:  limits,
			timeout: timeout,
		}
	}
}

func (l *limitMiddleware) acquire(sem *semaphore.Weighted) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, ErrOverCapacity
	}
	return func() { sem.Release(1) }, nil
}

func (l *limitMiddleware) CreateAccount(req CreateAccountReq) (*Account, error) {
	release, err := l.acquire(l.limits.CreateAccount)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.CreateAccount(req)
}

func (l *limitMiddleware) Deposit(req ChargeReq) (*Account, error) {
	release, err := l.acquire(l.limits.Deposit)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Deposit(req)
}

func (l *limitMiddleware) Withdraw(req ChargeReq) (*Account, error) {
	release, err := l.acquire(l.limits.Withdraw)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Withdraw(req)
}

func (l *limitMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	release, err := l.acquire(l.limits.Balance)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Balance(req)
}

func (l *limitMiddleware) Statement(w io.Writer, req StatementReq) error {
	release, err := l.acquire(l.limits.Statement)
	if err != nil {
		return err
	}
	defer release()
	return l.next.Statement(w, req)
}

func (l *limitMiddleware) CloseAccount(req CloseAccountReq) error {
	release, err := l.acquire(l.limits.CloseAccount)
	if err != nil {
		return err
	}
	defer release()
	return l.next.CloseAccount(req)
}

type ServiceBreaker struct {
	CreateAccount *gobreaker.TwoStepCircuitBreaker[*Account]
	Deposit       *gobreaker.TwoStepCircuitBreaker[*Account]
	Withdraw      *gobreaker.TwoStepCircuitBreaker[*Account]
	Balance       *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Statement     *gobreaker.TwoStepCircuitBreaker[any]
	CloseAccount  *gobreaker.TwoStepCircuitBreaker[any]
}

func NewServiceBreaker(st gobreaker.Settings) *ServiceBreaker {
	return &ServiceBreaker{
		CreateAccount: gobreaker.NewTwoStepCircuitBreaker[*Account](st),
		Deposit:       gobreaker.NewTwoStepCircuitBreaker[*Account](st),
		Withdraw:      gobreaker.NewTwoStepCircuitBreaker[*Account](st),
		Balance:       gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](st),
		Statement:     gobreaker.NewTwoStepCircuitBreaker[any](st),
		CloseAccount:  gobreaker.NewTwoStepCircuitBreaker[any](st),
	}
}

// circuitBreakMiddleware trips on storage faults only. Business
// rejections (limit exceeded, insufficient balance, bad requests) are
// healthy responses and must not open the circuit.
type circuitBreakMiddleware struct {
	next  Service
	brkrs *ServiceBreaker
}

var (
	_ Service = (*circuitBreakMiddleware)(nil)
)

func NewCircuitBreakMiddleware(brkrs *ServiceBreaker) Middleware {
	return func(next Service) Service {
		return &circuitBreakMiddleware{
			next:  next,
			brkrs: brkrs,
		}
	}
}

func healthy(err error) bool {
	if err == nil {
		return true
	}
	return !errors.As(err, &ErrStorageUnavailable{})
}

func (c *circuitBreakMiddleware) CreateAccount(req CreateAccountReq) (*Account, error) {
	done, err := c.brkrs.CreateAccount.Allow()
	if err != nil {
		return nil, ErrOverCapacity
	}
	acct, err := c.next.CreateAccount(req)
	done(healthy(err))
	return acct, err
}

func (c *circuitBreakMiddleware) Deposit(req ChargeReq) (*Account, error) {
	done, err := c.brkrs.Deposit.Allow()
	if err != nil {
		return nil, ErrOverCapacity
	}
	acct, err := c.next.Deposit(req)
	done(healthy(err))
	return acct, err
}

func (c *circuitBreakMiddleware) Withdraw(req ChargeReq) (*Account, error) {
	done, err := c.brkrs.Withdraw.Allow()
	if err != nil {
		return nil, ErrOverCapacity
	}
	acct, err := c.next.Withdraw(req)
	done(healthy(err))
	return acct, err
}

func (c *circuitBreakMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Balance.Allow()
	if err != nil {
		return nil, ErrOverCapacity
	}
	bal, err := c.next.Balance(req)
	done(healthy(err))
	return bal, err
}

func (c *circuitBreakMiddleware) Statement(w io.Writer, req StatementReq) error {
	done, err := c.brkrs.Statement.Allow()
	if err != nil {
		return ErrOverCapacity
	}
	err = c.next.Statement(w, req)
	done(healthy(err))
	return err
}

func (c *circuitBreakMiddleware) CloseAccount(req CloseAccountReq) error {
	done, err := c.brkrs.CloseAccount.Allow()
	if err != nil {
		return ErrOverCapacity
	}
	err = c.next.CloseAccount(req)
	done(healthy(err))
	return err
}
