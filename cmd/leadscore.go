package main

import (
	"github.com/spf13/cobra"

	"github.com/maru-digital/assess-cli/internal/assess"
)

var leadInput assess.LeadInput

var leadscoreCmd = &cobra.Command{
	Use:   "leadscore",
	Short: "Score a lead's website for lead generation readiness",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cfg)
		if err != nil {
			return err
		}

		result, err := p.leads.Score(cmd.Context(), leadInput)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	leadscoreCmd.Flags().StringVar(&leadInput.URL, "url", "", "company website URL (required)")
	leadscoreCmd.Flags().StringVar(&leadInput.Company, "company", "", "company name (inferred from URL when omitted)")
	leadscoreCmd.Flags().StringVar(&leadInput.Industry, "industry", "", "company industry")
	leadscoreCmd.Flags().StringVar(&leadInput.Size, "size", "", "company size band, e.g. 11-50")
	leadscoreCmd.MarkFlagRequired("url") //nolint:errcheck
	rootCmd.AddCommand(leadscoreCmd)
}
