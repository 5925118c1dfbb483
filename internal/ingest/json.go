package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// flexValue accepts a JSON string, number, bool or null.
type flexValue string

func (v *flexValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = flexValue(s)
		return nil
	}
	*v = flexValue(b)
	return nil
}

func (v flexValue) String() string { return strings.TrimSpace(string(v)) }
func (v flexValue) Amount() float64 { return parseAmount(string(v)) }
func (v flexValue) Present() bool { return v.String() != "" }

// Field lookup in encoding/json is case-insensitive, so "date" also binds
// "Date", "amount" binds "Amount" and so on.
type flatTransaction struct {
	Date        flexValue `json:"date"`
	Description flexValue `json:"description"`
	Details     flexValue `json:"details"`
	Amount      flexValue `json:"amount"`
	Montant     flexValue `json:"montant"`
	Type        flexValue `json:"type"`
	Category    flexValue `json:"category"`
}

type inveriteTransaction struct {
	Date        flexValue `json:"date"`
	Details     flexValue `json:"details"`
	Description flexValue `json:"description"`
	Credit      flexValue `json:"credit"`
	Debit       flexValue `json:"debit"`
	Category    flexValue `json:"category"`
}

type inveriteAccount struct {
	Account            flexValue             `json:"account"`
	AccountDescription flexValue             `json:"account_description"`
	CurrentBalance     flexValue             `json:"current_balance"`
	AvailableBalance   flexValue             `json:"available_balance"`
	Transactions       []inveriteTransaction `json:"transactions"`
	Statistics         *struct {
		EmployerIncome flexValue `json:"average_monthly_employer_income"`
		GovtIncome     flexValue `json:"average_monthly_govt_income"`
		QuarterAllTime *struct {
			AverageNSF flexValue `json:"average_number_nsf"`
		} `json:"quarter_all_time"`
	} `json:"statistics"`
}

type table struct {
	Headers []flexValue   `json:"headers"`
	Rows    [][]flexValue `json:"rows"`
}

type document struct {
	Content *struct {
		Tables []table `json:"tables"`
	} `json:"content"`
	Tables       []table           `json:"tables"`
	Transactions []flatTransaction `json:"transactions"`
	Accounts     []inveriteAccount `json:"accounts"`

	CustomerInfo *struct {
		Name        flexValue `json:"name"`
		ReferenceID flexValue `json:"referenceid"`
	} `json:"customerInfo"`
	Name        flexValue `json:"name"`
	ReferenceID flexValue `json:"referenceid"`
	Extraction  *struct {
		Institution flexValue `json:"institution"`
	} `json:"extraction"`
}

// ParseJSON reads a JSON statement: extracted tables, a flat transactions
// array or an Inverite-style accounts feed, tried in that order.
func ParseJSON(r io.Reader) (*Statement, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode statement: %w", err)
	}

	stmt := &Statement{Client: doc.client()}
	if len(doc.Accounts) > 0 {
		doc.Accounts[0].fill(stmt)
	}

	tables := doc.Tables
	if doc.Content != nil && len(doc.Content.Tables) > 0 {
		tables = doc.Content.Tables
	}

	switch {
	case len(tables) > 0 && tableTransactions(tables, stmt):
		stmt.Format = FormatTables
	case len(doc.Transactions) > 0:
		stmt.Format = FormatTransactions
		for _, t := range doc.Transactions {
			stmt.Transactions = append(stmt.Transactions, t.normalize())
		}
	case len(doc.Accounts) > 0:
		stmt.Format = FormatInverite
		for _, acc := range doc.Accounts {
			for _, t := range acc.Transactions {
				stmt.Transactions = append(stmt.Transactions, t.normalize())
			}
		}
	}

	if len(stmt.Transactions) == 0 {
		return nil, ErrNoTransactions
	}
	return stmt, nil
}

func (d *document) client() Client {
	var c Client
	switch {
	case d.CustomerInfo != nil:
		c.Name = firstOf(d.CustomerInfo.Name, d.CustomerInfo.ReferenceID)
	default:
		c.Name = firstOf(d.Name, d.ReferenceID)
	}
	if d.Extraction != nil {
		c.Institution = d.Extraction.Institution.String()
	}
	return c
}

func (a *inveriteAccount) fill(stmt *Statement) {
	if stmt.Client.Balance == 0 {
		stmt.Client.Balance = a.CurrentBalance.Amount()
		if stmt.Client.Balance == 0 {
			stmt.Client.Balance = a.AvailableBalance.Amount()
		}
	}
	if stmt.Client.Institution == "" {
		stmt.Client.Institution = a.AccountDescription.String()
	}
	if stmt.Client.Account == "" {
		stmt.Client.Account = a.Account.String()
	}

	if a.Statistics == nil {
		return
	}
	stats := &BankStatistics{
		EmployerIncome:   a.Statistics.EmployerIncome.Amount(),
		GovernmentIncome: a.Statistics.GovtIncome.Amount(),
	}
	if q := a.Statistics.QuarterAllTime; q != nil && q.AverageNSF.Present() {
		nsf := q.AverageNSF.Amount()
		stats.AverageNSF = &nsf
	}
	stmt.Statistics = stats
}

func (t flatTransaction) normalize() domain.Transaction {
	amount := t.Amount.Amount()
	if !t.Amount.Present() {
		amount = t.Montant.Amount()
	}
	if amount > 0 && strings.EqualFold(t.Type.String(), "debit") {
		amount = -amount
	}

	return domain.Transaction{
		Date:        parseDate(t.Date.String()),
		Description: firstOf(t.Description, t.Details),
		Amount:      amount,
		Category:    t.Category.String(),
	}
}

func (t inveriteTransaction) normalize() domain.Transaction {
	amount := -t.Debit.Amount()
	if credit := t.Credit.Amount(); credit > 0 {
		amount = credit
	}
	return domain.Transaction{
		Date:        parseDate(t.Date.String()),
		Description: firstOf(t.Details, t.Description),
		Amount:      amount,
		Category:    t.Category.String(),
	}
}

// tableTransactions reads date/details/credit/debit tables and two-column
// key/value tables carrying client fields. It reports whether any
// transaction was found.
func tableTransactions(tables []table, stmt *Statement) bool {
	found := false
	for _, tbl := range tables {
		cols := map[string]int{"date": -1, "details": -1, "credit": -1, "debit": -1}
		for i, h := range tbl.Headers {
			if _, ok := cols[strings.ToLower(h.String())]; ok {
				cols[strings.ToLower(h.String())] = i
			}
		}

		if cols["date"] < 0 {
			readClientRows(tbl.Rows, &stmt.Client)
			continue
		}

		for _, row := range tbl.Rows {
			if len(row) < 3 {
				continue
			}
			date := parseDate(cell(row, cols["date"]))
			if date.IsZero() {
				continue
			}

			credit := parseAmount(cell(row, cols["credit"]))
			debit := parseAmount(cell(row, cols["debit"]))
			var amount float64
			switch {
			case credit > 0:
				amount = credit
			case debit > 0:
				amount = -debit
			default:
				continue
			}

			stmt.Transactions = append(stmt.Transactions, domain.Transaction{
				Date:        date,
				Description: strings.ToUpper(cell(row, cols["details"])),
				Amount:      amount,
			})
			found = true
		}
	}
	return found
}

func readClientRows(rows [][]flexValue, c *Client) {
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		value := row[1].String()
		if value == "" {
			continue
		}
		switch strings.ToLower(row[0].String()) {
		case "name":
			if c.Name == "" {
				c.Name = value
			}
		case "email":
			if c.Email == "" {
				c.Email = value
			}
		case "phone":
			if c.Phone == "" {
				c.Phone = value
			}
		}
	}
}

func cell(row []flexValue, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i].String()
}

func firstOf(values ...flexValue) string {
	for _, v := range values {
		if s := v.String(); s != "" {
			return s
		}
	}
	return ""
}
