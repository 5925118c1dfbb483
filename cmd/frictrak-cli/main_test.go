package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensource-finance/frictrak/internal/domain"
)

const statementJSON = `{
  "name": "Jane Roe",
  "transactions": [
    {"date": "2025-03-02", "description": "MONEY MART MONTREAL", "amount": "-300"},
    {"date": "2025-03-16", "description": "MONEY MART MONTREAL", "amount": "-300"},
    {"date": "2025-03-04", "description": "SALAIRE EMPLOYEUR ABC", "amount": "3000"},
    {"date": "2025-03-09", "description": "DOLLARAMA 443", "amount": "-12"}
  ]
}`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--log-level", "error", "--log-format", "console", "--extra-names", ""))
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeStatement(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(statementJSON), 0o600))
	return path
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "b.json")
	writeStatement(t, dir, "a.json")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o700))

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}, files)

	explicit := filepath.Join(dir, "notes.txt")
	files, err = collectFiles([]string{explicit})
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing.json")})
	assert.Error(t, err)
}

func TestFilterNames(t *testing.T) {
	names := []string{"CASH MONEY", "MONEY MART", "SPRING FINANCIAL"}
	assert.Equal(t, names, filterNames(names, ""))
	assert.Equal(t, []string{"CASH MONEY", "MONEY MART"}, filterNames(names, " money "))
	assert.Empty(t, filterNames(names, "zzz"))
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "client.json")

	t.Run("JSON", func(t *testing.T) {
		out, _, err := execute(t, "analyze", path, "--income", "10000", "--json=true", "--save=false")
		require.NoError(t, err)

		var analyses []domain.Analysis
		require.NoError(t, json.Unmarshal([]byte(out), &analyses))
		require.Len(t, analyses, 1)
		assert.Equal(t, domain.StatusReview, analyses[0].Status)
		assert.Equal(t, 1, analyses[0].Inputs.LenderCount)
		assert.Equal(t, cliTenant, analyses[0].TenantID)
	})

	t.Run("PlainReport", func(t *testing.T) {
		out, _, err := execute(t, "analyze", dir, "--income", "10000", "--json=false", "--no-color=true", "--save=false")
		require.NoError(t, err)
		assert.Contains(t, out, "MONEY MART")
		assert.Contains(t, out, "Jane Roe")
	})

	t.Run("Save", func(t *testing.T) {
		db := filepath.Join(dir, "frictrak.db")
		_, _, err := execute(t, "analyze", path, "--income", "10000", "--json=true", "--save=true", "--db", db)
		require.NoError(t, err)
		assert.FileExists(t, db)
	})

	t.Run("NothingReadable", func(t *testing.T) {
		bad := filepath.Join(dir, "broken.ofx")
		require.NoError(t, os.WriteFile(bad, []byte("not ofx"), 0o600))
		_, _, err := execute(t, "analyze", bad, "--json=false", "--save=false")
		assert.Error(t, err)
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		_, _, err := execute(t, "analyze", t.TempDir(), "--save=false")
		assert.Error(t, err)
	})
}

func TestClassifyCommand(t *testing.T) {
	out, _, err := execute(t, "classify", "MONEY MART MONTREAL", "DOLLARAMA 443", "--json=true")
	require.NoError(t, err)

	var results []classification
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, domain.BucketConfirmed, results[0].Bucket)
	assert.True(t, results[0].Classification.IsLender())
	assert.Equal(t, domain.BucketExcluded, results[1].Bucket)

	out, _, err = execute(t, "classify", "MONEY MART MONTREAL", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "CONFIRMED")
}

func TestLendersCommand(t *testing.T) {
	out, errOut, err := execute(t, "lenders", "--search", "money mart", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "MONEY MART")
	assert.Contains(t, errOut, "lenders")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "frictrak-cli dev")
}
