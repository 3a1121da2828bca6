package main

import (
	"github.com/spf13/cobra"
)

var auditURL string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the five-factor website audit on a URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cfg)
		if err != nil {
			return err
		}

		result, err := p.auditor.Audit(cmd.Context(), auditURL)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditURL, "url", "", "website URL to audit (required)")
	auditCmd.MarkFlagRequired("url") //nolint:errcheck
	rootCmd.AddCommand(auditCmd)
}
