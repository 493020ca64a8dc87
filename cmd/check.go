package cmd

import (
	"os"

	"schema-deploy/internal/resolver"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the deployment through the row API (cannot execute SQL)",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := &resolver.Resolver{Config: cfg, Out: os.Stdout}
		return run(cmd, r.Restricted)
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}
