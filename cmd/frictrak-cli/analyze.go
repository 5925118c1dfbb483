package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opensource-finance/frictrak/internal/analyzer"
	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/ingest"
	"github.com/opensource-finance/frictrak/internal/report"
	"github.com/opensource-finance/frictrak/internal/repository"
)

// cliTenant scopes analyses saved from the command line.
const cliTenant = "local"

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file or directory]...",
		Short: "Analyze statement exports and print a lender report",
		Long: `Analyze one or more statement exports. Directories are scanned for
.json, .ofx and .qfx files.

Examples:
  frictrak-cli analyze client.json
  frictrak-cli analyze ./exports --income 3200 --json
  frictrak-cli analyze ./exports --save --db ./frictrak.db`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().Float64("income", 0, "declared monthly income (overrides the estimate)")
	cmd.Flags().Int("concurrency", 4, "statements analyzed in parallel")
	cmd.Flags().Bool("json", false, "print analyses as JSON")
	cmd.Flags().Bool("no-color", false, "disable colored output")
	cmd.Flags().Bool("save", false, "store analyses in the SQLite database")
	cmd.Flags().String("db", "./frictrak.db", "SQLite database path used with --save")

	_ = viper.BindPFlag("analysis.income", cmd.Flags().Lookup("income"))
	_ = viper.BindPFlag("analysis.concurrency", cmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("output.json", cmd.Flags().Lookup("json"))
	_ = viper.BindPFlag("output.no_color", cmd.Flags().Lookup("no-color"))
	_ = viper.BindPFlag("storage.save", cmd.Flags().Lookup("save"))
	_ = viper.BindPFlag("storage.sqlite_path", cmd.Flags().Lookup("db"))

	return cmd
}

type loadedStatement struct {
	path string
	stmt *ingest.Statement
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no supported statement files found")
	}

	loaded := readStatements(files, cmd.ErrOrStderr())
	if len(loaded) == 0 {
		return errors.New("no statement could be read")
	}

	an, err := analyzer.FromConfig(viper.GetString("analysis.extra_names"), analyzer.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	income := viper.GetFloat64("analysis.income")
	reqs := make([]*domain.AnalysisRequest, len(loaded))
	for i, l := range loaded {
		reqs[i] = l.stmt.Request(cliTenant)
		if income > 0 {
			reqs[i].MonthlyIncome = income
		}
	}

	start := time.Now()
	analyses, err := an.AnalyzeMany(ctx, reqs, viper.GetInt("analysis.concurrency"))
	if err != nil {
		return err
	}
	slog.Info("analysis complete", "statements", len(analyses), "duration_ms", time.Since(start).Milliseconds())

	if viper.GetBool("storage.save") {
		if err := saveAnalyses(cmd, analyses); err != nil {
			return err
		}
	}

	if viper.GetBool("output.json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(analyses)
	}

	style := report.Colored()
	if viper.GetBool("output.no_color") {
		style = report.Plain()
	}
	for i, a := range analyses {
		client := loaded[i].stmt.Client
		opts := report.Options{Source: filepath.Base(loaded[i].path), Client: &client, Style: style}
		if err := report.Write(out, a, opts); err != nil {
			return err
		}
	}
	return nil
}

// collectFiles expands directories into their supported files. Explicit
// file arguments are kept even with an unknown extension so ReadFile can
// report it.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && ingest.Supported(e.Name()) {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

func readStatements(files []string, progressOut io.Writer) []loadedStatement {
	var bar *progressbar.ProgressBar
	if len(files) > 1 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(progressOut),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan]Reading statements...[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprintln(progressOut)
			}),
		)
	}

	loaded := make([]loadedStatement, 0, len(files))
	for _, path := range files {
		stmt, err := ingest.ReadFile(path)
		if err != nil {
			slog.Warn("skipping statement", "file", path, "error", err)
		} else {
			loaded = append(loaded, loadedStatement{path: path, stmt: stmt})
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return loaded
}

func saveAnalyses(cmd *cobra.Command, analyses []*domain.Analysis) error {
	repo, err := repository.New(domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: viper.GetString("storage.sqlite_path"),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	for _, a := range analyses {
		if err := repo.SaveAnalysis(cmd.Context(), cliTenant, a); err != nil {
			return fmt.Errorf("failed to save analysis %s: %w", a.ID, err)
		}
	}
	slog.Info("analyses saved", "count", len(analyses), "db", viper.GetString("storage.sqlite_path"))
	return nil
}
