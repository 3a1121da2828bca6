package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var funnelCSVPath string

var funnelCmd = &cobra.Command{
	Use:   "funnel",
	Short: "Detect pipeline leaks in a CRM CSV export",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cfg)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(funnelCSVPath)
		if err != nil {
			return eris.Wrap(err, "read csv file")
		}

		report, err := p.funnel.Analyze(string(data))
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	funnelCmd.Flags().StringVar(&funnelCSVPath, "csv", "", "path to the pipeline CSV export (required)")
	funnelCmd.MarkFlagRequired("csv") //nolint:errcheck
	rootCmd.AddCommand(funnelCmd)
}
