package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/financial-planner-server/internal/cashflow"
	"github.com/rogerio-castellano/financial-planner-server/internal/events"
	"github.com/rogerio-castellano/financial-planner-server/internal/models"
	"github.com/rogerio-castellano/financial-planner-server/internal/plaid"
	"github.com/rogerio-castellano/financial-planner-server/internal/repo"
)

type fakeClient struct {
	linkReq     plaid.LinkTokenRequest
	exchanged   string
	exchangeErr error
	accounts    []plaid.Account
	holdings    plaid.HoldingsResponse
	tokens      []string
	removed     []string
	removeErr   error
}

func (c *fakeClient) CreateLinkToken(_ context.Context, r plaid.LinkTokenRequest) (string, error) {
	c.linkReq = r
	return "link-sandbox-1", nil
}

func (c *fakeClient) ExchangePublicToken(_ context.Context, publicToken string) (plaid.ExchangeResult, error) {
	c.exchanged = publicToken
	if c.exchangeErr != nil {
		return plaid.ExchangeResult{}, c.exchangeErr
	}
	return plaid.ExchangeResult{AccessToken: "access-sandbox-1", ItemID: "item-1"}, nil
}

func (c *fakeClient) RemoveItem(_ context.Context, accessToken string) error {
	c.removed = append(c.removed, accessToken)
	return c.removeErr
}

func (c *fakeClient) AccountsBalance(_ context.Context, accessToken string) ([]plaid.Account, error) {
	c.tokens = append(c.tokens, accessToken)
	return c.accounts, nil
}

func (c *fakeClient) InvestmentsHoldings(_ context.Context, accessToken string) (plaid.HoldingsResponse, error) {
	c.tokens = append(c.tokens, accessToken)
	return c.holdings, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []events.ItemLinked
	err  error
}

func (p *fakePublisher) PublishItemLinked(_ context.Context, msg events.ItemLinked) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

type blockingAggregator struct {
	calls   atomic.Int32
	release chan struct{}
}

func (a *blockingAggregator) CashFlowAccounts(ctx context.Context, userID string) (models.CashFlowSummary, error) {
	a.calls.Add(1)
	<-a.release
	return models.CashFlowSummary{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
		Inflow:    models.NewFinancialAccount(models.NetCashInflow, 2024),
		Outflow:   models.NewFinancialAccount(models.NetCashOutflow, 2024),
	}, nil
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func str(s string) *string { return &s }

func newPlanner(t *testing.T, client *fakeClient, pub events.Publisher) (*Planner, *repo.InMemoryCredentialRepository) {
	t.Helper()
	store := repo.NewInMemoryCredentialRepository()
	link := LinkConfig{ClientName: "My App", Products: []string{"transactions"}, CountryCodes: []string{"US"}, Language: "en"}
	return NewPlanner(client, store, nil, pub, link, nil), store
}

func linkUser(t *testing.T, store repo.CredentialRepository) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), models.Credential{UserID: "user-1", AccessToken: "access-sandbox-1"}))
}

func TestLinkToken(t *testing.T) {
	client := &fakeClient{}
	p, _ := newPlanner(t, client, nil)

	token, err := p.LinkToken(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "link-sandbox-1", token)
	assert.Equal(t, plaid.LinkTokenRequest{
		ClientUserID: "user-1",
		ClientName:   "My App",
		Products:     []string{"transactions"},
		CountryCodes: []string{"US"},
		Language:     "en",
	}, client.linkReq)
}

func TestSetPublicToken(t *testing.T) {
	client := &fakeClient{}
	pub := &fakePublisher{}
	p, store := newPlanner(t, client, pub)
	linkedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return linkedAt }

	itemID, err := p.SetPublicToken(context.Background(), "user-1", " public-sandbox-1 ")
	require.NoError(t, err)
	assert.Equal(t, "item-1", itemID)
	assert.Equal(t, "public-sandbox-1", client.exchanged)

	cred, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-1", cred.AccessToken)
	assert.Equal(t, "item-1", cred.ItemID)
	assert.Equal(t, linkedAt, cred.UpdatedAt)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, events.ItemLinked{UserID: "user-1", ItemID: "item-1", LinkedAt: linkedAt}, pub.msgs[0])
}

func TestSetPublicTokenEmpty(t *testing.T) {
	client := &fakeClient{}
	p, _ := newPlanner(t, client, nil)

	_, err := p.SetPublicToken(context.Background(), "user-1", "  ")
	assert.ErrorIs(t, err, ErrInvalidPublicToken)
	assert.Empty(t, client.exchanged)
}

func TestSetPublicTokenExchangeFails(t *testing.T) {
	upstream := &plaid.Error{StatusCode: 400, Type: "INVALID_INPUT", Code: "INVALID_PUBLIC_TOKEN"}
	client := &fakeClient{exchangeErr: upstream}
	pub := &fakePublisher{}
	p, store := newPlanner(t, client, pub)

	_, err := p.SetPublicToken(context.Background(), "user-1", "public-bad")
	var apiErr *plaid.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_PUBLIC_TOKEN", apiErr.Code)

	_, err = store.Get(context.Background(), "user-1")
	assert.ErrorIs(t, err, repo.ErrCredentialNotFound)
	assert.Empty(t, pub.msgs)
}

func TestSetPublicTokenPublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	p, store := newPlanner(t, &fakeClient{}, pub)

	itemID, err := p.SetPublicToken(context.Background(), "user-1", "public-sandbox-1")
	require.NoError(t, err)
	assert.Equal(t, "item-1", itemID)

	_, err = store.Get(context.Background(), "user-1")
	assert.NoError(t, err)
}

func TestUnlink(t *testing.T) {
	client := &fakeClient{}
	p, store := newPlanner(t, client, nil)
	require.NoError(t, store.Set(context.Background(), models.Credential{UserID: "user-1", AccessToken: "access-sandbox-1", ItemID: "item-1"}))

	itemID, err := p.Unlink(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "item-1", itemID)
	assert.Equal(t, []string{"access-sandbox-1"}, client.removed)

	_, err = store.Get(context.Background(), "user-1")
	assert.ErrorIs(t, err, repo.ErrCredentialNotFound)

	_, err = p.Unlink(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Len(t, client.removed, 1)
}

func TestUnlinkKeepsCredentialWhenRemoveFails(t *testing.T) {
	client := &fakeClient{removeErr: &plaid.Error{StatusCode: 500, Type: "API_ERROR"}}
	p, store := newPlanner(t, client, nil)
	linkUser(t, store)

	_, err := p.Unlink(context.Background(), "user-1")
	var apiErr *plaid.Error
	require.ErrorAs(t, err, &apiErr)

	_, err = store.Get(context.Background(), "user-1")
	assert.NoError(t, err)
}

func TestBankAccounts(t *testing.T) {
	client := &fakeClient{accounts: []plaid.Account{
		{
			AccountID: "checking",
			Name:      "Plaid Checking",
			Type:      "depository",
			Subtype:   str("checking"),
			Balances:  plaid.Balances{Available: dec("100"), Current: dec("110"), IsoCurrencyCode: str("USD")},
		},
		{
			AccountID:    "ira",
			OfficialName: str("Plaid Individual Retirement Account"),
			Type:         "investment",
			Subtype:      str("ira"),
			Balances:     plaid.Balances{Available: dec("1"), Current: dec("320.76"), UnofficialCurrencyCode: str("EUR")},
		},
		{
			AccountID: "mortgage",
			Name:      "Plaid Mortgage",
			Type:      "loan",
			Balances:  plaid.Balances{IsoCurrencyCode: str("USD")},
		},
	}}
	p, store := newPlanner(t, client, nil)
	linkUser(t, store)

	accounts, err := p.BankAccounts(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, []string{"access-sandbox-1"}, client.tokens)

	checking := accounts[0]
	assert.Equal(t, "Plaid Checking", checking.Name)
	assert.Equal(t, models.AccountTypeDepository, checking.Type)
	assert.Equal(t, models.TaxTypeTaxable, checking.TaxType)
	assert.True(t, checking.Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "USD", checking.Currency)

	ira := accounts[1]
	assert.Equal(t, "Plaid Individual Retirement Account", ira.Name)
	assert.Equal(t, models.TaxTypeTaxDeferred, ira.TaxType)
	assert.True(t, ira.Balance.Equal(decimal.RequireFromString("320.76")))
	assert.Equal(t, "EUR", ira.Currency)

	mortgage := accounts[2]
	assert.Equal(t, models.AccountTypeLoan, mortgage.Type)
	assert.Empty(t, mortgage.SubType)
	assert.True(t, mortgage.Balance.IsZero())
}

func TestReadsRequireCredential(t *testing.T) {
	client := &fakeClient{}
	p, _ := newPlanner(t, client, nil)

	_, err := p.BankAccounts(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = p.Holdings(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	assert.Empty(t, client.tokens)
}

func TestHoldings(t *testing.T) {
	client := &fakeClient{holdings: plaid.HoldingsResponse{
		Holdings: []plaid.Holding{
			{
				AccountID:        "acc-1",
				SecurityID:       "sec-1",
				Quantity:         decimal.NewFromInt(2),
				InstitutionPrice: decimal.NewFromInt(10),
				InstitutionValue: decimal.NewFromInt(20),
				CostBasis:        dec("15"),
				IsoCurrencyCode:  str("USD"),
			},
			{
				AccountID:        "acc-1",
				SecurityID:       "unknown",
				Quantity:         decimal.NewFromInt(1),
				InstitutionPrice: decimal.NewFromInt(5),
				InstitutionValue: decimal.NewFromInt(5),
			},
		},
		Securities: []plaid.Security{{SecurityID: "sec-1", Name: str("Acme Corp"), TickerSymbol: str("ACME")}},
	}}
	p, store := newPlanner(t, client, nil)
	linkUser(t, store)

	holdings, err := p.Holdings(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	assert.Equal(t, "Acme Corp", holdings[0].Name)
	assert.Equal(t, "ACME", holdings[0].Ticker)
	require.NotNil(t, holdings[0].CostBasis)
	assert.True(t, holdings[0].CostBasis.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "USD", holdings[0].Currency)

	assert.Empty(t, holdings[1].Name)
	assert.Nil(t, holdings[1].CostBasis)
}

func TestCashFlowAccountsCoalesces(t *testing.T) {
	agg := &blockingAggregator{release: make(chan struct{})}
	p := NewPlanner(&fakeClient{}, repo.NewInMemoryCredentialRepository(), agg, nil, LinkConfig{}, nil)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]models.CashFlowSummary, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = p.CashFlowAccounts(context.Background(), "user-1")
		}()
	}

	require.Eventually(t, func() bool { return agg.calls.Load() == 1 }, time.Second, time.Millisecond)
	// Give the remaining callers time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(agg.release)
	wg.Wait()

	assert.Equal(t, int32(1), agg.calls.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, "2024-03-01", results[i].StartDate)
	}
}

// runAggregator blocks until released or until its context is canceled.
type runAggregator struct {
	calls    atomic.Int32
	release  chan struct{}
	canceled chan error
}

func newRunAggregator() *runAggregator {
	return &runAggregator{release: make(chan struct{}), canceled: make(chan error, 4)}
}

func (a *runAggregator) CashFlowAccounts(ctx context.Context, userID string) (models.CashFlowSummary, error) {
	a.calls.Add(1)
	select {
	case <-ctx.Done():
		a.canceled <- ctx.Err()
		return models.CashFlowSummary{}, ctx.Err()
	case <-a.release:
		return models.CashFlowSummary{StartDate: "2024-03-01", EndDate: "2024-03-31"}, nil
	}
}

func TestCashFlowAccountsCallerGivesUp(t *testing.T) {
	agg := newRunAggregator()
	p := NewPlanner(&fakeClient{}, repo.NewInMemoryCredentialRepository(), agg, nil, LinkConfig{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := p.CashFlowAccounts(context.Background(), "user-1")
		done <- err
	}()
	require.Eventually(t, func() bool { return agg.calls.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.CashFlowAccounts(ctx, "user-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The other caller is still waiting, so the run goes on.
	select {
	case err := <-agg.canceled:
		t.Fatalf("shared run canceled while a caller was waiting: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(agg.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), agg.calls.Load())
}

func TestCashFlowAccountsLastCallerCancelsRun(t *testing.T) {
	agg := newRunAggregator()
	p := NewPlanner(&fakeClient{}, repo.NewInMemoryCredentialRepository(), agg, nil, LinkConfig{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.CashFlowAccounts(ctx, "user-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case err := <-agg.canceled:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("shared run still in flight after its only caller left")
	}

	// The next request starts a fresh run instead of joining the canceled one.
	close(agg.release)
	summary, err := p.CashFlowAccounts(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", summary.StartDate)
	assert.Equal(t, int32(2), agg.calls.Load())
}

// hangingSource never answers until its context is done.
type hangingSource struct {
	done chan error
}

func (s *hangingSource) TransactionsPage(ctx context.Context, _, _, _ string, _, _ int) (models.TransactionPage, error) {
	<-ctx.Done()
	s.done <- ctx.Err()
	return models.TransactionPage{}, ctx.Err()
}

func TestCashFlowAccountsCancellationReachesPageFetch(t *testing.T) {
	store := repo.NewInMemoryCredentialRepository()
	linkUser(t, store)
	src := &hangingSource{done: make(chan error, 1)}
	agg := cashflow.New(src, store, cashflow.Config{CallTimeout: 2 * time.Second}, nil)
	p := NewPlanner(&fakeClient{}, store, agg, nil, LinkConfig{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.CashFlowAccounts(ctx, "user-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case err := <-src.done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("page fetch still in flight after the caller left")
	}
}
