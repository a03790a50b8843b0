// Package cashflow totals the money that entered and left a user's linked
// accounts during the previous calendar month.
package cashflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rogerio-castellano/financial-planner-server/internal/log"
	"github.com/rogerio-castellano/financial-planner-server/internal/models"
	"github.com/rogerio-castellano/financial-planner-server/internal/repo"
)

// TransactionSource returns one page of the transactions dated within [startDate, endDate].
type TransactionSource interface {
	TransactionsPage(ctx context.Context, accessToken, startDate, endDate string, count, offset int) (models.TransactionPage, error)
}

type CredentialStore interface {
	Get(ctx context.Context, userID string) (models.Credential, error)
}

type Config struct {
	PageSize             int
	MaxPages             int
	PageTimeout          time.Duration
	CallTimeout          time.Duration
	MaxRetries           int
	RetryInitialInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		PageSize:             500,
		MaxPages:             100,
		PageTimeout:          10 * time.Second,
		CallTimeout:          60 * time.Second,
		MaxRetries:           3,
		RetryInitialInterval: 250 * time.Millisecond,
	}
}

type Aggregator struct {
	source TransactionSource
	store  CredentialStore
	cfg    Config
	logger *log.Logger
	now    func() time.Time
}

type Option func(*Aggregator)

// WithClock replaces time.Now when computing the reporting period.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func New(source TransactionSource, store CredentialStore, cfg Config, logger *log.Logger, opts ...Option) *Aggregator {
	def := DefaultConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = def.RetryInitialInterval
	}
	if logger == nil {
		logger = log.Discard()
	}

	a := &Aggregator{
		source: source,
		store:  store,
		cfg:    cfg,
		logger: logger.WithComponent(log.ComponentCashFlow),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CashFlowAccounts fetches every transaction of the previous calendar month and
// returns the inflow and outflow totals bucketed by year.
func (a *Aggregator) CashFlowAccounts(ctx context.Context, userID string) (models.CashFlowSummary, error) {
	cred, err := a.store.Get(ctx, userID)
	if errors.Is(err, repo.ErrCredentialNotFound) {
		return models.CashFlowSummary{}, ErrNotAuthorized
	}
	if err != nil {
		return models.CashFlowSummary{}, fmt.Errorf("load credential: %w", err)
	}
	if cred.AccessToken == "" {
		return models.CashFlowSummary{}, ErrNotAuthorized
	}

	if a.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.CallTimeout)
		defer cancel()
	}

	start, end := PreviousMonth(a.now())
	startDate, endDate := start.Format(dateLayout), end.Format(dateLayout)

	txs, err := a.fetchAll(ctx, userID, cred.AccessToken, startDate, endDate)
	if err != nil {
		return models.CashFlowSummary{}, err
	}

	summary, err := summarize(txs, start.Year(), end.Year())
	if err != nil {
		return models.CashFlowSummary{}, err
	}
	summary.StartDate, summary.EndDate = startDate, endDate

	a.logger.InfoContext(ctx, "cash flow aggregated",
		log.FieldUserID, userID,
		log.FieldStartDate, startDate,
		log.FieldEndDate, endDate,
		log.FieldCount, len(txs),
	)
	return summary, nil
}

func (a *Aggregator) fetchAll(ctx context.Context, userID, accessToken, startDate, endDate string) ([]models.Transaction, error) {
	var (
		all    []models.Transaction
		offset int
	)
	for page := 0; ; page++ {
		if page >= a.cfg.MaxPages {
			return nil, fmt.Errorf("%w: gave up after %d pages with %d transactions", ErrPaginationStalled, page, len(all))
		}

		p, err := a.fetchPage(ctx, accessToken, startDate, endDate, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch transactions at offset %d: %w", offset, err)
		}

		a.logger.DebugContext(ctx, "transaction page fetched",
			log.FieldUserID, userID,
			log.FieldPage, page,
			log.FieldOffset, offset,
			log.FieldCount, len(p.Transactions),
			log.FieldTotal, p.Total,
		)

		all = append(all, p.Transactions...)
		offset += len(p.Transactions)

		if len(all) >= p.Total {
			return all, nil
		}
		if len(p.Transactions) == 0 {
			return nil, fmt.Errorf("%w: empty page at offset %d of %d", ErrPaginationStalled, offset, p.Total)
		}
	}
}

// fetchPage requests a single page, retrying temporary upstream failures with
// exponential backoff. Each attempt gets its own timeout.
func (a *Aggregator) fetchPage(ctx context.Context, accessToken, startDate, endDate string, offset int) (models.TransactionPage, error) {
	var page models.TransactionPage

	op := func() error {
		pageCtx := ctx
		if a.cfg.PageTimeout > 0 {
			var cancel context.CancelFunc
			pageCtx, cancel = context.WithTimeout(ctx, a.cfg.PageTimeout)
			defer cancel()
		}

		p, err := a.source.TransactionsPage(pageCtx, accessToken, startDate, endDate, a.cfg.PageSize, offset)
		if err != nil {
			if ctx.Err() != nil || !isTemporary(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		page = p
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = a.cfg.RetryInitialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(a.cfg.MaxRetries)), ctx)

	attempt := 0
	notify := func(err error, wait time.Duration) {
		attempt++
		a.logger.WarnContext(ctx, "retrying transaction page",
			log.FieldOperation, log.OpFetchPage,
			log.FieldOffset, offset,
			log.FieldAttempt, attempt,
			log.FieldError, err.Error(),
			"wait", wait.String(),
		)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return models.TransactionPage{}, err
	}
	return page, nil
}

// summarize folds the transactions into an inflow and an outflow account.
// A negative amount is money entering the holder's account.
func summarize(txs []models.Transaction, startYear, endYear int) (models.CashFlowSummary, error) {
	inflow := models.NewFinancialAccount(models.NetCashInflow, startYear)
	outflow := models.NewFinancialAccount(models.NetCashOutflow, startYear)

	for _, tx := range txs {
		if tx.Amount == nil {
			return models.CashFlowSummary{}, &DataIntegrityError{TransactionID: tx.ID, Field: "amount"}
		}

		year := yearOf(tx.Date, tx.AuthorizedDate, endYear)
		if tx.Amount.IsNegative() {
			inflow.Add(*tx.Amount, year)
		} else {
			outflow.Add(*tx.Amount, year)
		}
	}

	return models.CashFlowSummary{Inflow: inflow, Outflow: outflow}, nil
}
