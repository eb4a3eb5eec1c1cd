package server

import (
	"context"

	"github.com/KapuKapu/bimiTool/internal/store"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
)

type MockLedgerHandler struct {
	mock.Mock
}

func (m *MockLedgerHandler) ListAccounts(ctx context.Context) ([]store.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Account), args.Error(1)
}

func (m *MockLedgerHandler) AddAccount(ctx context.Context, name string, initialCredit int64) (int64, error) {
	args := m.Called(ctx, name, initialCredit)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerHandler) SetAccountName(ctx context.Context, id int64, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockLedgerHandler) AddCredit(ctx context.Context, accountID, amount int64) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockLedgerHandler) DeleteAccount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerHandler) ListDrinks(ctx context.Context) ([]store.Drink, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Drink), args.Error(1)
}

func (m *MockLedgerHandler) AddDrink(ctx context.Context, spec store.DrinkSpec) (int64, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerHandler) SetDrink(ctx context.Context, id int64, spec store.DrinkSpec) error {
	args := m.Called(ctx, id, spec)
	return args.Error(0)
}

func (m *MockLedgerHandler) DeleteDrink(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerHandler) ConsumeDrinks(ctx context.Context, accountID int64, items []store.LineItem) (int64, error) {
	args := m.Called(ctx, accountID, items)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerHandler) UndoTransaction(ctx context.Context, groupID int64) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *MockLedgerHandler) Transactions(ctx context.Context, accountID int64) ([]store.TransactionRow, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.TransactionRow), args.Error(1)
}

func (m *MockLedgerHandler) Kings(ctx context.Context) ([]store.King, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.King), args.Error(1)
}

func (m *MockLedgerHandler) Balances(ctx context.Context) ([]store.AccountBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.AccountBalance), args.Error(1)
}

type MockMiddlware struct {
}

func (middleware *MockMiddlware) populate() []mux.MiddlewareFunc {
	return make([]mux.MiddlewareFunc, 0)
}
