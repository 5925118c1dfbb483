package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opensource-finance/frictrak/internal/registry"
)

func lendersCmd() *cobra.Command {
	var (
		search string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "lenders",
		Short: "List the lender registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := registry.Default()
			if path := viper.GetString("analysis.extra_names"); path != "" {
				var err error
				if reg, err = registry.LoadExtra(path); err != nil {
					return err
				}
			}

			names := filterNames(reg.Lenders(), search)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Lenders []string       `json:"lenders"`
					Stats   registry.Stats `json:"stats"`
				}{names, reg.Stats()})
			}

			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			stats := reg.Stats()
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d lenders (%d official, %d supplementary)\n",
				len(names), stats.OfficialLenders+stats.SupplementaryLenders,
				stats.OfficialLenders, stats.SupplementaryLenders)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "only list names containing this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func filterNames(names []string, search string) []string {
	search = strings.ToUpper(strings.TrimSpace(search))
	if search == "" {
		return names
	}
	var out []string
	for _, n := range names {
		if strings.Contains(strings.ToUpper(n), search) {
			out = append(out, n)
		}
	}
	return out
}
