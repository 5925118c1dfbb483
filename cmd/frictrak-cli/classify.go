package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opensource-finance/frictrak/internal/analyzer"
	"github.com/opensource-finance/frictrak/internal/domain"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hitStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	missStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type classification struct {
	Description    string                `json:"description"`
	Classification domain.Classification `json:"classification"`
	Result         domain.ScoreResult    `json:"result"`
	Bucket         domain.BucketKind     `json:"bucket,omitempty"`
}

func classifyCmd() *cobra.Command {
	var (
		amount   float64
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "classify <description>...",
		Short: "Classify transaction descriptions",
		Long: `Run descriptions through the exclusion filter, the lender registry and
the heuristic rules, and print the resulting score.

Examples:
  frictrak-cli classify "MONEY MART MONTREAL"
  frictrak-cli classify "PMT CREDIT SERVICE 123" --amount -500`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := analyzer.FromConfig(viper.GetString("analysis.extra_names"))
			if err != nil {
				return err
			}
			det := an.Detector()

			results := make([]classification, 0, len(args))
			for _, desc := range args {
				res := det.Score(desc, amount, category, nil)
				results = append(results, classification{
					Description:    desc,
					Classification: det.Registry().Classify(desc),
					Result:         res,
					Bucket:         domain.BucketFor(res),
				})
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			for _, c := range results {
				printClassification(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", -100, "transaction amount (negative for a payment)")
	cmd.Flags().StringVar(&category, "category", "", "bank category of the transaction")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}

func printClassification(w io.Writer, c classification) {
	verdict := missStyle.Render("not a lender")
	if c.Bucket != "" && c.Bucket != domain.BucketExcluded {
		verdict = hitStyle.Render(strings.ToUpper(string(c.Bucket)))
	}

	fmt.Fprintf(w, "%s\n", lipgloss.NewStyle().Bold(true).Render(c.Description))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("verdict:"), verdict)
	fmt.Fprintf(w, "  %s %d (%s, %s)\n", labelStyle.Render("score:  "), c.Result.Score, c.Result.Confidence, c.Result.Source)
	if c.Result.EntityName != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("entity: "), c.Result.EntityName)
	}
	for _, r := range c.Result.Reasons {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("-"), r)
	}
}
