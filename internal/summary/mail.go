package summary

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/KapuKapu/bimiTool/internal/config"
	"github.com/KapuKapu/bimiTool/internal/store"
)

const (
	kingsMarker    = "$kings:"
	accountsMarker = "$accInfos:"

	noKingsLine    = "The Rabble is delighted, there are no Kings and Queens!"
	noAccountsLine = "No one lives in BimiTool-land ;_;"
)

type Mail struct {
	To      string `json:"to,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer renders mail templates with the configured currency and deposit.
type Mailer struct {
	currency  string
	deposit   int64
	templates config.MailConfig
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		currency:  cfg.Currency,
		deposit:   cfg.Deposit,
		templates: cfg.Mail,
	}
}

// CreditMail fills $name and $amount of the credit templates.
func (m *Mailer) CreditMail(accountName string, amount int64) Mail {
	formatted := FormatMoney(amount, m.currency)
	return Mail{
		Subject: strings.ReplaceAll(m.templates.CreditSubject, "$amount", formatted),
		Body: strings.NewReplacer("$amount", formatted, "$name", accountName).
			Replace(m.templates.CreditText),
	}
}

// SummaryMail expands the summary template. A line containing "$kings:"
// becomes one line per king, one containing "$accInfos:" one line per
// account; text before the marker is kept as prefix of every generated line.
// Balances are raw sums and get the deposit subtracted here.
func (m *Mailer) SummaryMail(kings []store.King, balances []store.AccountBalance) Mail {
	var body strings.Builder
	for _, line := range strings.Split(m.templates.SummaryText, "\n") {
		switch {
		case strings.Contains(line, kingsMarker):
			prefix, pattern, _ := strings.Cut(line, kingsMarker)
			for _, l := range m.kingLines(pattern, kings) {
				body.WriteString(prefix + l + "\n")
			}
		case strings.Contains(line, accountsMarker):
			prefix, pattern, _ := strings.Cut(line, accountsMarker)
			for _, l := range m.accountLines(pattern, balances) {
				body.WriteString(prefix + l + "\n")
			}
		default:
			body.WriteString(line + "\n")
		}
	}
	return Mail{To: m.templates.SummaryTo, Subject: m.templates.SummarySubject, Body: body.String()}
}

func (m *Mailer) kingLines(pattern string, kings []store.King) []string {
	if len(kings) == 0 {
		return []string{noKingsLine}
	}
	var nameWidth, drinkWidth, amountWidth int
	for _, k := range kings {
		nameWidth = max(nameWidth, utf8.RuneCountInString(k.AccountName))
		drinkWidth = max(drinkWidth, utf8.RuneCountInString(k.DrinkName))
		amountWidth = max(amountWidth, len(fmt.Sprint(k.Quaffed)))
	}
	lines := make([]string, 0, len(kings))
	for _, k := range kings {
		lines = append(lines, strings.NewReplacer(
			"$name", fmt.Sprintf("%-*s", nameWidth, k.AccountName),
			"$drink", fmt.Sprintf("%-*s", drinkWidth, k.DrinkName),
			"$amount", fmt.Sprintf("%*d", amountWidth, k.Quaffed),
		).Replace(pattern))
	}
	return lines
}

func (m *Mailer) accountLines(pattern string, balances []store.AccountBalance) []string {
	if len(balances) == 0 {
		return []string{noAccountsLine}
	}
	amounts := make([]string, len(balances))
	var nameWidth, amountWidth int
	for i, b := range balances {
		amounts[i] = formatAmount(b.Balance - m.deposit)
		nameWidth = max(nameWidth, utf8.RuneCountInString(b.Name))
		amountWidth = max(amountWidth, len(amounts[i]))
	}
	lines := make([]string, 0, len(balances))
	for i, b := range balances {
		lines = append(lines, strings.NewReplacer(
			"$name", fmt.Sprintf("%-*s", nameWidth, b.Name),
			"$balance", fmt.Sprintf("%*s", amountWidth, amounts[i])+m.currency,
		).Replace(pattern))
	}
	return lines
}

// MailtoURL builds an RFC 2368 mailto URL. Spaces are encoded as %20.
func MailtoURL(mail Mail) string {
	var params []string
	if mail.Subject != "" {
		params = append(params, "subject="+mailtoEscape(mail.Subject))
	}
	if mail.Body != "" {
		params = append(params, "body="+mailtoEscape(mail.Body))
	}
	if len(params) == 0 {
		return "mailto:" + mailtoEscape(mail.To)
	}
	return "mailto:" + mailtoEscape(mail.To) + "?" + strings.Join(params, "&")
}

func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
