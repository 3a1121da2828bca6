package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/maru-digital/assess-cli/internal/assess"
)

var proposalInputPath string

var proposalCmd = &cobra.Command{
	Use:   "proposal",
	Short: "Estimate win probability and draft a proposal from a JSON brief",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cfg)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(proposalInputPath)
		if err != nil {
			return eris.Wrap(err, "read input file")
		}

		var input assess.ProposalInput
		if err := json.Unmarshal(data, &input); err != nil {
			return eris.Wrap(err, "parse input json")
		}

		result, err := p.proposals.Build(cmd.Context(), input)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	proposalCmd.Flags().StringVar(&proposalInputPath, "input", "", "path to the proposal brief JSON (required)")
	proposalCmd.MarkFlagRequired("input") //nolint:errcheck
	rootCmd.AddCommand(proposalCmd)
}
