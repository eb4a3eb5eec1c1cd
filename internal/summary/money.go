// Package summary turns ledger data into what people read: formatted
// amounts, per-account statements and the summary and credit mails.
package summary

import (
	"github.com/KapuKapu/bimiTool/internal/store"
	"github.com/shopspring/decimal"
)

// FormatMoney renders minor units as "12.34€" for currency "€".
func FormatMoney(minor int64, currency string) string {
	return formatAmount(minor) + currency
}

func formatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// Balance sums count*value over rows and subtracts the configured deposit.
func Balance(rows []store.TransactionRow, deposit int64) int64 {
	var total int64
	for _, r := range rows {
		total += r.Total()
	}
	return total - deposit
}

// StatementLine is one line of an account statement. GroupID is -1 for the
// deposit and balance lines.
type StatementLine struct {
	GroupID int64  `json:"groupId"`
	Label   string `json:"label"`
	Amount  int64  `json:"amount"`
}

// Statement collapses rows into one line per transaction group, dated by the
// group's first row, then appends the deposit line (only for a positive
// deposit) and the balance line. rows must be ordered by group id. An
// account without rows has an empty statement.
func Statement(rows []store.TransactionRow, deposit int64) []StatementLine {
	if len(rows) == 0 {
		return []StatementLine{}
	}
	lines := make([]StatementLine, 0, len(rows)+2)
	var total int64
	for _, r := range rows {
		total += r.Total()
		if n := len(lines); n > 0 && lines[n-1].GroupID == r.GroupID {
			lines[n-1].Amount += r.Total()
			continue
		}
		lines = append(lines, StatementLine{
			GroupID: r.GroupID,
			Label:   r.Timestamp.Format("2006-01-02"),
			Amount:  r.Total(),
		})
	}
	if deposit > 0 {
		lines = append(lines, StatementLine{GroupID: -1, Label: "Deposit", Amount: -deposit})
	}
	return append(lines, StatementLine{GroupID: -1, Label: "Balance", Amount: total - deposit})
}
