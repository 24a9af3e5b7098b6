package core

import (
	"context"
	"fmt"
	"log"
)

// Routing targets returned to the client as hints. The storefront pages live
// alongside the service; the server never redirects, it only suggests.
const (
	storePage    = "/store.html"
	passwordPage = "/password.html"
	accountPage  = "/account.html"
)

// User-facing failure messages.
const (
	msgAccountNotFound   = "User not found. Please create one by purchasing a new item"
	msgPasswordRequired  = "Please complete your account providing a password"
	msgMissingOrderID    = "No order Id found in request"
	msgMissingCredential = "Email or password params not found in request"
)

// AccountService implements the account lifecycle: accounts are created by
// completed-order webhook events, claimed by setting a password, and read
// back once registered.
type AccountService struct {
	store  AccountStore
	orders OrderAPI
}

// NewAccountService creates the lifecycle service.
func NewAccountService(store AccountStore, orders OrderAPI) *AccountService {
	return &AccountService{
		store:  store,
		orders: orders,
	}
}

// ProcessEvents handles a webhook event batch. Only order.completed events
// whose payload marks the order completed are considered; each one provisions
// an account for the event's account ID unless a record already exists.
// Creation is idempotent: webhook senders retry on non-success and redeliver
// at-least-once, so duplicates of an already-seen account are no-ops and the
// first delivery's customer payload is never overwritten.
func (s *AccountService) ProcessEvents(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	accounts, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}

	changed := false
	for _, ev := range events {
		if ev.Type != EventOrderCompleted || !ev.Data.Completed {
			continue
		}
		id := ev.Data.Account
		if id == "" {
			log.Printf("Warning: completed order event without account id, skipping")
			continue
		}
		if _, ok := accounts[id]; ok {
			continue
		}
		accounts[id] = Account{Customer: ev.Data.Customer}
		changed = true
	}

	if !changed {
		return nil
	}
	if err := s.store.Save(ctx, accounts); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}
	return nil
}

// CheckOrder resolves an order ID to a routing target. The order is fetched
// from the payment provider, its account is looked up locally, and the
// caller is routed to the password page or the account page depending on
// whether the account has been claimed.
//
// An absent account is an error here: the completed-order webhook should
// have created it already, so absence means a timing race or an order that
// never completed.
func (s *AccountService) CheckOrder(ctx context.Context, orderID string) (string, error) {
	if orderID == "" {
		return "", &ValidationError{Message: msgMissingOrderID}
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	accounts, err := s.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("loading accounts: %w", err)
	}

	account, ok := accounts[order.Account]
	if !ok {
		return "", ErrAccountNotFound
	}
	if account.Registered() {
		return accountRedirect(order.Account), nil
	}
	return passwordRedirect(order.Account), nil
}

// SetPassword claims the account by storing a password on it. The account
// must already exist. An existing password is overwritten without complaint;
// see TestSetPassword for the pinned behavior.
func (s *AccountService) SetPassword(ctx context.Context, accountID, password string) (string, error) {
	if accountID == "" || password == "" {
		return "", &ValidationError{Message: msgMissingCredential}
	}

	accounts, err := s.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("loading accounts: %w", err)
	}

	account, ok := accounts[accountID]
	if !ok {
		return "", ErrAccountNotFound
	}

	account.Password = password
	accounts[accountID] = account
	if err := s.store.Save(ctx, accounts); err != nil {
		return "", fmt.Errorf("saving accounts: %w", err)
	}
	return accountRedirect(accountID), nil
}

// GetAccount returns the full account record for a registered account. The
// two incomplete states are normal flows, not hard errors: an unknown or
// missing ID routes the visitor to the storefront, and an unclaimed account
// routes to the password page. The record, including the password, is only
// ever returned once registration is complete.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	if accountID == "" {
		return nil, &RoutedError{Message: msgAccountNotFound, Redirect: storePage}
	}

	accounts, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}

	account, ok := accounts[accountID]
	if !ok {
		return nil, &RoutedError{Message: msgAccountNotFound, Redirect: storePage}
	}
	if !account.Registered() {
		return nil, &RoutedError{Message: msgPasswordRequired, Redirect: passwordRedirect(accountID)}
	}
	return &account, nil
}

// Reset wipes every account record. Test/staging use only.
func (s *AccountService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("resetting store: %w", err)
	}
	return nil
}

// Stats counts stored and registered accounts.
func (s *AccountService) Stats(ctx context.Context) (*Stats, error) {
	accounts, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}

	stats := &Stats{Accounts: len(accounts)}
	for _, account := range accounts {
		if account.Registered() {
			stats.Registered++
		}
	}
	return stats, nil
}

func accountRedirect(accountID string) string {
	return accountPage + "?accountId=" + accountID
}

func passwordRedirect(accountID string) string {
	return passwordPage + "?accountId=" + accountID
}
