package store

import "time"

// NoDrink marks transaction rows that are plain credit or debit postings.
const NoDrink int64 = 0

type Account struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Drink is a catalog entry. Prices and deposit are minor currency units.
type Drink struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SalesPrice    int64  `json:"salesPrice"`
	PurchasePrice int64  `json:"purchasePrice"`
	Deposit       int64  `json:"deposit"`
	BottlesFull   int64  `json:"bottlesFull"`
	BottlesEmpty  int64  `json:"bottlesEmpty"`
	KingsEligible bool   `json:"kingsEligible"`
}

// DrinkSpec holds the seven mutable drink attributes used by AddDrink and SetDrink.
type DrinkSpec struct {
	Name          string
	SalesPrice    int64
	PurchasePrice int64
	Deposit       int64
	BottlesFull   int64
	BottlesEmpty  int64
	KingsEligible bool
}

// LineItem is one requested drink of a consumption posting.
type LineItem struct {
	DrinkID  int64 `json:"drinkId"`
	Quantity int64 `json:"quantity"`
}

// TransactionRow is one row of an account's history. DrinkName is empty and
// HasDrink false for plain credit or debit rows.
type TransactionRow struct {
	GroupID   int64     `json:"groupId"`
	DrinkID   int64     `json:"drinkId"`
	DrinkName string    `json:"drinkName,omitempty"`
	HasDrink  bool      `json:"hasDrink"`
	Count     int64     `json:"count"`
	Value     int64     `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Total is the signed amount this row contributes to the balance.
func (r TransactionRow) Total() int64 {
	return r.Count * r.Value
}

// King is the top consumer of one drink name.
type King struct {
	AccountName string `json:"accountName"`
	DrinkName   string `json:"drinkName"`
	Quaffed     int64  `json:"quaffed"`
}

// AccountBalance is the undecorated sum of count*value over an account's rows.
type AccountBalance struct {
	AccountID int64  `json:"accountId"`
	Name      string `json:"name"`
	Balance   int64  `json:"balance"`
}
