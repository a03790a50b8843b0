// Package service implements the planner operations behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/rogerio-castellano/financial-planner-server/internal/cashflow"
	"github.com/rogerio-castellano/financial-planner-server/internal/events"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
	"github.com/rogerio-castellano/financial-planner-server/internal/models"
	"github.com/rogerio-castellano/financial-planner-server/internal/plaid"
	"github.com/rogerio-castellano/financial-planner-server/internal/repo"
)

var (
	ErrNotAuthorized      = cashflow.ErrNotAuthorized
	ErrInvalidPublicToken = errors.New("public token is required")
)

// AggregatorClient is the part of the Plaid client the planner calls directly.
type AggregatorClient interface {
	CreateLinkToken(ctx context.Context, r plaid.LinkTokenRequest) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (plaid.ExchangeResult, error)
	RemoveItem(ctx context.Context, accessToken string) error
	AccountsBalance(ctx context.Context, accessToken string) ([]plaid.Account, error)
	InvestmentsHoldings(ctx context.Context, accessToken string) (plaid.HoldingsResponse, error)
}

type CashFlowAggregator interface {
	CashFlowAccounts(ctx context.Context, userID string) (models.CashFlowSummary, error)
}

// LinkConfig holds the fixed parameters of every link token request.
type LinkConfig struct {
	ClientName   string
	Products     []string
	CountryCodes []string
	Language     string
}

type Planner struct {
	client      AggregatorClient
	credentials repo.CredentialRepository
	cashflow    CashFlowAggregator
	publisher   events.Publisher
	link        LinkConfig
	logger      *log.Logger
	group       singleflight.Group
	now         func() time.Time

	mu   sync.Mutex
	runs map[string]*cashFlowRun
}

func NewPlanner(client AggregatorClient, credentials repo.CredentialRepository, agg CashFlowAggregator, publisher events.Publisher, link LinkConfig, logger *log.Logger) *Planner {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Planner{
		client:      client,
		credentials: credentials,
		cashflow:    agg,
		publisher:   publisher,
		link:        link,
		logger:      logger.WithComponent(log.ComponentPlanner),
		now:         time.Now,
		runs:        make(map[string]*cashFlowRun),
	}
}

func (p *Planner) LinkToken(ctx context.Context, userID string) (string, error) {
	token, err := p.client.CreateLinkToken(ctx, plaid.LinkTokenRequest{
		ClientUserID: userID,
		ClientName:   p.link.ClientName,
		Products:     p.link.Products,
		CountryCodes: p.link.CountryCodes,
		Language:     p.link.Language,
	})
	if err != nil {
		return "", fmt.Errorf("create link token: %w", err)
	}
	return token, nil
}

// SetPublicToken exchanges the public token returned by Link and stores the
// resulting access token for the user. It returns the linked item id.
func (p *Planner) SetPublicToken(ctx context.Context, userID, publicToken string) (string, error) {
	publicToken = strings.TrimSpace(publicToken)
	if publicToken == "" {
		return "", ErrInvalidPublicToken
	}

	res, err := p.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return "", fmt.Errorf("exchange public token: %w", err)
	}

	linkedAt := p.now().UTC()
	err = p.credentials.Set(ctx, models.Credential{
		UserID:      userID,
		AccessToken: res.AccessToken,
		ItemID:      res.ItemID,
		UpdatedAt:   linkedAt,
	})
	if err != nil {
		return "", fmt.Errorf("store credential: %w", err)
	}

	p.logger.InfoContext(ctx, "access token stored",
		log.FieldOperation, log.OpExchangeToken,
		log.FieldUserID, userID,
		log.FieldItemID, res.ItemID,
	)

	msg := events.ItemLinked{UserID: userID, ItemID: res.ItemID, LinkedAt: linkedAt}
	if err := p.publisher.PublishItemLinked(ctx, msg); err != nil {
		p.logger.WarnContext(ctx, "item linked event not published",
			log.NewFields().WithOperation(log.OpPublish).WithUser(userID).WithError(err).ToSlice()...)
	}

	return res.ItemID, nil
}

// Unlink ends the user's institution link with the aggregator and forgets the
// stored credential. It returns the unlinked item id.
func (p *Planner) Unlink(ctx context.Context, userID string) (string, error) {
	cred, err := p.credentials.Get(ctx, userID)
	if errors.Is(err, repo.ErrCredentialNotFound) {
		return "", ErrNotAuthorized
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}

	if cred.AccessToken != "" {
		if err := p.client.RemoveItem(ctx, cred.AccessToken); err != nil {
			return "", fmt.Errorf("remove item: %w", err)
		}
	}

	err = p.credentials.Delete(ctx, userID)
	if errors.Is(err, repo.ErrCredentialNotFound) {
		return "", ErrNotAuthorized
	}
	if err != nil {
		return "", fmt.Errorf("delete credential: %w", err)
	}

	p.logger.InfoContext(ctx, "institution unlinked",
		log.FieldOperation, log.OpUnlink,
		log.FieldUserID, userID,
		log.FieldItemID, cred.ItemID,
	)
	return cred.ItemID, nil
}

func (p *Planner) accessToken(ctx context.Context, userID string) (string, error) {
	cred, err := p.credentials.Get(ctx, userID)
	if errors.Is(err, repo.ErrCredentialNotFound) {
		return "", ErrNotAuthorized
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if cred.AccessToken == "" {
		return "", ErrNotAuthorized
	}
	return cred.AccessToken, nil
}

func (p *Planner) BankAccounts(ctx context.Context, userID string) ([]models.BankAccount, error) {
	token, err := p.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts, err := p.client.AccountsBalance(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get balances: %w", err)
	}

	result := make([]models.BankAccount, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, toBankAccount(a))
	}
	return result, nil
}

func toBankAccount(a plaid.Account) models.BankAccount {
	name := a.Name
	if name == "" && a.OfficialName != nil {
		name = *a.OfficialName
	}

	var subType string
	if a.Subtype != nil {
		subType = *a.Subtype
	}

	accType := models.ParseAccountType(a.Type)
	return models.BankAccount{
		AccountID: a.AccountID,
		Name:      name,
		Type:      accType,
		SubType:   subType,
		TaxType:   models.TaxTypeForSubType(subType),
		Balance:   balance(accType, a.Balances),
		Currency:  plaid.CurrencyCode(a.Balances.IsoCurrencyCode, a.Balances.UnofficialCurrencyCode),
	}
}

// balance is the available balance for depository accounts and the current
// balance for everything else. A missing value is zero.
func balance(t models.AccountType, b plaid.Balances) decimal.Decimal {
	v := b.Current
	if t == models.AccountTypeDepository {
		v = b.Available
	}
	if v == nil {
		return decimal.Zero
	}
	return *v
}

func (p *Planner) Holdings(ctx context.Context, userID string) ([]models.Holding, error) {
	token, err := p.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	res, err := p.client.InvestmentsHoldings(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get holdings: %w", err)
	}

	securities := make(map[string]plaid.Security, len(res.Securities))
	for _, s := range res.Securities {
		securities[s.SecurityID] = s
	}

	holdings := make([]models.Holding, 0, len(res.Holdings))
	for _, h := range res.Holdings {
		holding := models.Holding{
			AccountID:        h.AccountID,
			SecurityID:       h.SecurityID,
			Quantity:         h.Quantity,
			InstitutionPrice: h.InstitutionPrice,
			InstitutionValue: h.InstitutionValue,
			CostBasis:        h.CostBasis,
			Currency:         plaid.CurrencyCode(h.IsoCurrencyCode, h.UnofficialCurrencyCode),
		}
		if s, ok := securities[h.SecurityID]; ok {
			if s.Name != nil {
				holding.Name = *s.Name
			}
			if s.TickerSymbol != nil {
				holding.Ticker = *s.TickerSymbol
			}
		}
		holdings = append(holdings, holding)
	}
	return holdings, nil
}

// cashFlowRun is the context shared by every caller waiting on one
// coalesced aggregation for a user.
type cashFlowRun struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// CashFlowAccounts coalesces concurrent requests for the same user into a
// single aggregation. The shared run is canceled once every caller waiting
// on it has given up.
func (p *Planner) CashFlowAccounts(ctx context.Context, userID string) (models.CashFlowSummary, error) {
	run := p.joinCashFlowRun(ctx, userID)

	ch := p.group.DoChan(userID, func() (any, error) {
		return p.cashflow.CashFlowAccounts(run.ctx, userID)
	})
	select {
	case <-ctx.Done():
		p.leaveCashFlowRun(userID, run, true)
		return models.CashFlowSummary{}, ctx.Err()
	case res := <-ch:
		p.leaveCashFlowRun(userID, run, false)
		if res.Err != nil {
			return models.CashFlowSummary{}, res.Err
		}
		if res.Shared {
			p.logger.DebugContext(ctx, "cash flow shared with concurrent request", log.FieldUserID, userID)
		}
		return res.Val.(models.CashFlowSummary), nil
	}
}

func (p *Planner) joinCashFlowRun(ctx context.Context, userID string) *cashFlowRun {
	p.mu.Lock()
	defer p.mu.Unlock()

	run, ok := p.runs[userID]
	if !ok {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		run = &cashFlowRun{ctx: runCtx, cancel: cancel}
		p.runs[userID] = run
	}
	run.waiters++
	return run
}

// leaveCashFlowRun releases one waiter. When the last waiter abandons a run
// still in flight, the run is canceled and forgotten so the next request
// starts a fresh aggregation instead of joining the canceled one.
func (p *Planner) leaveCashFlowRun(userID string, run *cashFlowRun, abandoned bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	run.waiters--
	if run.waiters > 0 {
		return
	}
	if p.runs[userID] == run {
		delete(p.runs, userID)
	}
	run.cancel()
	if abandoned {
		p.group.Forget(userID)
	}
}
