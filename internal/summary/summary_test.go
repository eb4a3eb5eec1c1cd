package summary

import (
	"math"
	"testing"
	"time"

	"github.com/KapuKapu/bimiTool/internal/config"
	"github.com/KapuKapu/bimiTool/internal/store"
	"github.com/stretchr/testify/assert"
)

func testConfig(deposit int64) *config.Config {
	return &config.Config{
		Currency: "€",
		Deposit:  deposit,
		Mail: config.MailConfig{
			CreditSubject:  "Credit of $amount",
			CreditText:     "Hi $name, $amount were booked.",
			SummaryTo:      "dorm@example.org",
			SummarySubject: "Summary",
			SummaryText:    "Kings:\n  * $kings:$name | $drink | $amount\nBalances:\n  - $accInfos:$name $balance\nBye",
		},
	}
}

func TestFormatMoney(t *testing.T) {
	testCases := []struct {
		minor    int64
		expected string
	}{
		{0, "0.00€"},
		{5, "0.05€"},
		{1234, "12.34€"},
		{-50, "-0.50€"},
		{-100000, "-1000.00€"},
		{math.MaxInt64, "92233720368547758.07€"},
		{math.MinInt64, "-92233720368547758.08€"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.expected, func(t *testing.T) {
			assert.Equal(t, testCase.expected, FormatMoney(testCase.minor, "€"))
		})
	}
}

func TestStatement(t *testing.T) {
	day1 := time.Date(2012, 10, 1, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2012, 10, 2, 18, 30, 0, 0, time.UTC)
	rows := []store.TransactionRow{
		{GroupID: 1, Count: 1, Value: 1000, Timestamp: day1},
		{GroupID: 4, DrinkID: 1, DrinkName: "Fanta", HasDrink: true, Count: 10, Value: -100, Timestamp: day2},
		{GroupID: 4, DrinkID: 2, DrinkName: "Cola", HasDrink: true, Count: 2, Value: -100, Timestamp: day2},
	}

	t.Run("With deposit", func(t *testing.T) {
		assert.Equal(t, []StatementLine{
			{1, "2012-10-01", 1000},
			{4, "2012-10-02", -1200},
			{-1, "Deposit", -150},
			{-1, "Balance", -350},
		}, Statement(rows, 150))
		assert.Equal(t, int64(-350), Balance(rows, 150))
	})

	t.Run("Without deposit", func(t *testing.T) {
		assert.Equal(t, []StatementLine{
			{1, "2012-10-01", 1000},
			{4, "2012-10-02", -1200},
			{-1, "Balance", -200},
		}, Statement(rows, 0))
	})

	t.Run("No rows", func(t *testing.T) {
		assert.Empty(t, Statement(nil, 150))
	})
}

func TestCreditMail(t *testing.T) {
	mail := NewMailer(testConfig(0)).CreditMail("Noob", 2050)
	assert.Equal(t, Mail{Subject: "Credit of 20.50€", Body: "Hi Noob, 20.50€ were booked."}, mail)
}

func TestSummaryMail(t *testing.T) {
	mailer := NewMailer(testConfig(150))

	t.Run("Populated", func(t *testing.T) {
		kings := []store.King{
			{AccountName: "Max Mustermann", DrinkName: "Cola", Quaffed: 7},
			{AccountName: "Noob", DrinkName: "Fanta", Quaffed: 120},
		}
		balances := []store.AccountBalance{
			{AccountID: 2, Name: "Max Mustermann", Balance: 500},
			{AccountID: 1, Name: "Noob", Balance: -2200},
		}
		mail := mailer.SummaryMail(kings, balances)
		assert.Equal(t, "Summary", mail.Subject)
		assert.Equal(t, "dorm@example.org", mail.To)
		assert.Equal(t, "Kings:\n"+
			"  * Max Mustermann | Cola  |   7\n"+
			"  * Noob           | Fanta | 120\n"+
			"Balances:\n"+
			"  - Max Mustermann   3.50€\n"+
			"  - Noob           -23.50€\n"+
			"Bye\n", mail.Body)
	})

	t.Run("Empty", func(t *testing.T) {
		mail := mailer.SummaryMail(nil, nil)
		assert.Equal(t, "Kings:\n"+
			"  * The Rabble is delighted, there are no Kings and Queens!\n"+
			"Balances:\n"+
			"  - No one lives in BimiTool-land ;_;\n"+
			"Bye\n", mail.Body)
	})
}

func TestMailtoURL(t *testing.T) {
	testCases := []struct {
		name     string
		mail     Mail
		expected string
	}{
		{
			name:     "Subject and body",
			mail:     Mail{Subject: "Monthly bill", Body: "a&b=c\nd"},
			expected: "mailto:?subject=Monthly%20bill&body=a%26b%3Dc%0Ad",
		},
		{
			name:     "Recipient only",
			mail:     Mail{To: "bimi@example.org"},
			expected: "mailto:bimi%40example.org",
		},
		{
			name:     "Empty",
			mail:     Mail{},
			expected: "mailto:",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, MailtoURL(testCase.mail))
		})
	}
}
