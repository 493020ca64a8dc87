package cmd

import (
	"fmt"
	"os"

	"schema-deploy/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

var RootCmd = &cobra.Command{
	Use:   "schema-deploy",
	Short: "Apply a SQL schema document to a hosted database and verify it",
	Long: `
schema-deploy 🚀 - Schema Deployment & Verification

Reads schema.sql, applies it over a direct database connection when one is
available, and verifies the result by listing tables and sampling rows.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(viper.GetViper())
		return err
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println("❌ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./schema-deploy.yaml)")
	RootCmd.PersistentFlags().String("schema", "", "schema document (default is schema.sql next to the executable)")
	RootCmd.PersistentFlags().String("driver", "", "database/sql driver: postgres, pgx, mysql, sqlserver, oracle")

	viper.BindPFlag("schema_file", RootCmd.PersistentFlags().Lookup("schema"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))

	config.SetDefaults(viper.GetViper())
}
