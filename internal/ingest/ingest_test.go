package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatJSON = `{
  "customerInfo": {"name": "", "referenceid": "REF-001"},
  "transactions": [
    {"Date": "2025-03-02", "Description": "MONEY MART MONTREAL", "Amount": "-1,300.50"},
    {"date": "2025-03-03T10:00:00Z", "description": "PAIE EMPLOYEUR", "amount": 2100},
    {"Date": "03/04/2025", "Description": "PRETURGENT", "Montant": "$250", "Type": "debit", "category": "loans"},
    {"Date": "bad", "Description": "NO DATE", "Amount": "abc"}
  ]
}`

func TestParseJSON_Transactions(t *testing.T) {
	stmt, err := ParseJSON(strings.NewReader(flatJSON))
	require.NoError(t, err)

	assert.Equal(t, FormatTransactions, stmt.Format)
	assert.Equal(t, "REF-001", stmt.Client.Name)
	require.Len(t, stmt.Transactions, 4)

	assert.Equal(t, -1300.50, stmt.Transactions[0].Amount)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), stmt.Transactions[0].Date)
	assert.Equal(t, 2100.0, stmt.Transactions[1].Amount)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), stmt.Transactions[1].Date)

	assert.Equal(t, -250.0, stmt.Transactions[2].Amount)
	assert.Equal(t, "loans", stmt.Transactions[2].Category)
	assert.Equal(t, time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), stmt.Transactions[2].Date)

	assert.True(t, stmt.Transactions[3].Date.IsZero())
	assert.Zero(t, stmt.Transactions[3].Amount)
	assert.Equal(t, "NO DATE", stmt.Transactions[3].Description)
}

const inveriteJSON = `{
  "name": "  ",
  "referenceid": "INV-77",
  "accounts": [{
    "account": "0012345",
    "account_description": "Desjardins Chequing",
    "current_balance": "412.08",
    "statistics": {
      "average_monthly_employer_income": "2500.00",
      "average_monthly_govt_income": 450,
      "quarter_all_time": {"average_number_nsf": "1.6"}
    },
    "transactions": [
      {"date": "2025-05-01", "details": "PAYROLL ACME", "credit": "1250.00", "debit": ""},
      {"date": "2025-05-02", "details": "EASYFINANCIAL", "credit": "", "debit": "180.25", "category": "loans"},
      {"date": "2025-05-03", "details": "FRAIS NSF", "credit": null, "debit": 48}
    ]
  }]
}`

func TestParseJSON_Inverite(t *testing.T) {
	stmt, err := ParseJSON(strings.NewReader(inveriteJSON))
	require.NoError(t, err)

	assert.Equal(t, FormatInverite, stmt.Format)
	assert.Equal(t, "INV-77", stmt.Client.Name)
	assert.Equal(t, "0012345", stmt.Client.Account)
	assert.Equal(t, "Desjardins Chequing", stmt.Client.Institution)
	assert.Equal(t, 412.08, stmt.Client.Balance)

	require.Len(t, stmt.Transactions, 3)
	assert.Equal(t, 1250.0, stmt.Transactions[0].Amount)
	assert.Equal(t, -180.25, stmt.Transactions[1].Amount)
	assert.Equal(t, "loans", stmt.Transactions[1].Category)
	assert.Equal(t, -48.0, stmt.Transactions[2].Amount)

	require.NotNil(t, stmt.Statistics)
	assert.Equal(t, 2950.0, stmt.Statistics.MonthlyIncome())

	req := stmt.Request("tenant-001")
	assert.Equal(t, "tenant-001", req.TenantID)
	assert.Equal(t, "INV-77", req.Reference)
	assert.Equal(t, 2950.0, req.MonthlyIncome)
	require.NotNil(t, req.NSFCount)
	assert.Equal(t, 2, *req.NSFCount)
	assert.Nil(t, req.OverdraftCount)
}

const tablesJSON = `{
  "content": {
    "tables": [
      {"headers": ["Field", "Value"], "rows": [["Name", "Marie Tremblay"], ["Email", "marie@example.com"], ["Phone", ""]]},
      {"headers": ["Date", "Details", "Debit", "Credit", "Balance"], "rows": [
        ["2025-02-01", "Money Mart", "300.00", "", "1200.00"],
        ["2025-02-03", "Depot paie", "", "1,800.00", "3000.00"],
        ["2025-02-04", "Nothing", "", "", "3000.00"],
        ["Solde", "", ""],
        ["2025-02-05"]
      ]}
    ]
  }
}`

func TestParseJSON_Tables(t *testing.T) {
	stmt, err := ParseJSON(strings.NewReader(tablesJSON))
	require.NoError(t, err)

	assert.Equal(t, FormatTables, stmt.Format)
	assert.Equal(t, "Marie Tremblay", stmt.Client.Name)
	assert.Equal(t, "marie@example.com", stmt.Client.Email)
	assert.Empty(t, stmt.Client.Phone)

	require.Len(t, stmt.Transactions, 2)
	assert.Equal(t, "MONEY MART", stmt.Transactions[0].Description)
	assert.Equal(t, -300.0, stmt.Transactions[0].Amount)
	assert.Equal(t, 1800.0, stmt.Transactions[1].Amount)
}

func TestParseJSON_Errors(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`{"transactions": []}`))
	assert.ErrorIs(t, err, ErrNoTransactions)

	_, err = ParseJSON(strings.NewReader(`{not json`))
	assert.Error(t, err)
}

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20250315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>CAD
<BANKACCTFROM>
<BANKID>815
<ACCTID>99887766
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20250301120000[0:GMT]
<DTEND>20250331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250305120000[0:GMT]
<TRNAMT>-300.00
<FITID>2025030501
<NAME>MONEY MART MONTREAL
</STMTTRN>
<STMTTRN>
<TRNTYPE>ATM
<DTPOSTED>20250306120000[0:GMT]
<TRNAMT>-100.00
<FITID>2025030601
<NAME>ATM WITHDRAWAL
</STMTTRN>
<STMTTRN>
<TRNTYPE>DIRECTDEP
<DTPOSTED>20250315120000[0:GMT]
<TRNAMT>1500.00
<FITID>2025031501
<NAME>PAYROLL ACME
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>812.40
<DTASOF>20250331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParseOFX(t *testing.T) {
	stmt, err := ParseOFX(strings.NewReader(sampleOFX))
	require.NoError(t, err)

	assert.Equal(t, FormatOFX, stmt.Format)
	assert.Equal(t, "99887766", stmt.Client.Account)
	assert.InDelta(t, 812.40, stmt.Client.Balance, 0.001)

	require.Len(t, stmt.Transactions, 3)
	assert.Equal(t, "MONEY MART MONTREAL", stmt.Transactions[0].Description)
	assert.Equal(t, -300.0, stmt.Transactions[0].Amount)
	assert.Equal(t, 2025, stmt.Transactions[0].Date.Year())
	assert.Equal(t, "atm", stmt.Transactions[1].Category)
	assert.Equal(t, 1500.0, stmt.Transactions[2].Amount)
}

func TestParseOFX_Invalid(t *testing.T) {
	_, err := ParseOFX(strings.NewReader("not valid OFX"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "client.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(flatJSON), 0o600))
	stmt, err := ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "client.json", stmt.Source)

	ofxPath := filepath.Join(dir, "bank.QFX")
	require.NoError(t, os.WriteFile(ofxPath, []byte(sampleOFX), 0o600))
	stmt, err = ReadFile(ofxPath)
	require.NoError(t, err)
	assert.Equal(t, FormatOFX, stmt.Format)
	assert.Equal(t, "bank.QFX", stmt.Request("").Reference)

	csvPath := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b"), 0o600))
	_, err = ReadFile(csvPath)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	assert.True(t, Supported("a.ofx"))
	assert.False(t, Supported("a.pdf"))
}

func TestParseAmountAndDate(t *testing.T) {
	assert.Equal(t, 1234.56, parseAmount(" $1,234.56 "))
	assert.Equal(t, -20.0, parseAmount("-20"))
	assert.Zero(t, parseAmount("NaN"))
	assert.Zero(t, parseAmount(""))

	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), parseDate("2025-01-31 08:15:00"))
	assert.True(t, parseDate("31 janv.").IsZero())
}
