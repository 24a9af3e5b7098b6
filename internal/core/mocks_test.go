package core

import (
	"context"
	"errors"
)

// Common test errors
var (
	ErrMockStorage  = errors.New("mock storage error")
	ErrMockOrderAPI = errors.New("mock order api error")
)

// MockAccountStore implements AccountStore for testing. It is map-backed so
// tests can inspect the persisted state directly.
type MockAccountStore struct {
	Accounts Accounts

	LoadErr  error
	SaveErr  error
	ResetErr error

	LoadCalls  int
	SaveCalls  int
	ResetCalls int
}

func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		Accounts: Accounts{},
	}
}

func (m *MockAccountStore) Load(ctx context.Context) (Accounts, error) {
	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	// Hand out a copy so callers mutate via Save, like the real stores.
	out := make(Accounts, len(m.Accounts))
	for id, account := range m.Accounts {
		out[id] = account
	}
	return out, nil
}

func (m *MockAccountStore) Save(ctx context.Context, accounts Accounts) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Accounts = accounts
	return nil
}

func (m *MockAccountStore) Reset(ctx context.Context) error {
	m.ResetCalls++
	if m.ResetErr != nil {
		return m.ResetErr
	}
	m.Accounts = Accounts{}
	return nil
}

func (m *MockAccountStore) Close() error {
	return nil
}

// MockOrderAPI implements OrderAPI for testing
type MockOrderAPI struct {
	GetOrderFunc func(ctx context.Context, orderID string) (*Order, error)
	Calls        int
	LastOrderID  string
}

func (m *MockOrderAPI) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	m.Calls++
	m.LastOrderID = orderID
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, orderID)
	}
	return nil, ErrMockOrderAPI
}
