package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/opensource-finance/frictrak/internal/domain"
)

var (
	severityFix = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagFix  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX repairs formatting mistakes common in bank exports.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityFix.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagFix.ReplaceAllString(content, "$1>")
}

// ParseOFX reads an OFX/QFX bank or credit-card statement. OFX amounts are
// already signed with debits negative.
func ParseOFX(r io.Reader) (*Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX: %w", err)
	}

	stmt := &Statement{Format: FormatOFX}
	stmt.Client.Institution = string(resp.Signon.Org)

	for _, msg := range resp.Bank {
		bank, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		if stmt.Client.Account == "" {
			stmt.Client.Account = string(bank.BankAcctFrom.AcctID)
			stmt.Client.Balance, _ = bank.BalAmt.Float64()
		}
		if bank.BankTranList != nil {
			stmt.Transactions = appendOFX(stmt.Transactions, bank.BankTranList.Transactions)
		}
	}

	for _, msg := range resp.CreditCard {
		cc, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		if stmt.Client.Account == "" {
			stmt.Client.Account = string(cc.CCAcctFrom.AcctID)
			stmt.Client.Balance, _ = cc.BalAmt.Float64()
		}
		if cc.BankTranList != nil {
			stmt.Transactions = appendOFX(stmt.Transactions, cc.BankTranList.Transactions)
		}
	}

	if len(stmt.Transactions) == 0 {
		return nil, ErrNoTransactions
	}
	return stmt, nil
}

func appendOFX(dst []domain.Transaction, txs []ofxgo.Transaction) []domain.Transaction {
	for _, t := range txs {
		amount, _ := t.TrnAmt.Float64()
		dst = append(dst, domain.Transaction{
			Date:        t.DtPosted.Time,
			Description: ofxDescription(t),
			Amount:      amount,
			Category:    ofxCategory(t),
		})
	}
	return dst
}

// ofxDescription prefers the payee, then NAME, falling back to MEMO when
// NAME is empty.
func ofxDescription(t ofxgo.Transaction) string {
	if t.Payee != nil && t.Payee.Name != "" {
		return strings.TrimSpace(string(t.Payee.Name))
	}
	name := strings.TrimSpace(string(t.Name))
	if name == "" {
		name = strings.TrimSpace(string(t.Memo))
	}
	return name
}

// ofxCategory maps transaction types onto the category tags the exclusion
// filter understands.
func ofxCategory(t ofxgo.Transaction) string {
	switch t.TrnType {
	case ofxgo.TrnTypeATM:
		return "atm"
	case ofxgo.TrnTypeXfer:
		return "transfer"
	}
	return ""
}
