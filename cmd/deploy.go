package cmd

import (
	"os"

	"schema-deploy/internal/conn"
	"schema-deploy/internal/engine"
	"schema-deploy/internal/resolver"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var progress bool

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Execute the schema over a direct database connection and verify it",
	RunE: func(cmd *cobra.Command, args []string) error {
		var input resolver.InputProvider = resolver.NewConsole(os.Stdin, os.Stdout)
		if cfg.Database.DSN != "" {
			input = resolver.Static{Line: cfg.Database.DSN}
		}

		r := &resolver.Resolver{Config: cfg, Input: input, Out: os.Stdout}
		return run(cmd, r.Privileged)
	},
}

func init() {
	deployCmd.Flags().String("dsn", "", "connection string; skips the interactive prompt")
	deployCmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar when statements run one by one")
	viper.BindPFlag("database.dsn", deployCmd.Flags().Lookup("dsn"))

	RootCmd.AddCommand(deployCmd)
}

// run wires a resolver into a Deployer and drives it once.
func run(cmd *cobra.Command, resolve func() (resolver.Descriptor, error)) error {
	d := &engine.Deployer{
		Config:  cfg,
		Resolve: resolve,
		Open: conn.NewOpener(conn.Options{
			Schema:      cfg.Database.Schema,
			RESTPath:    cfg.REST.Path,
			RESTTimeout: cfg.REST.Timeout,
			Progress:    progress,
		}),
		Verifier: engine.NewVerifier(cfg.Verify),
		Out:      os.Stdout,
	}
	_, err := d.Run(cmd.Context())
	return err
}
