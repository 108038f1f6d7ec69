// Package cli holds the enrollment command line: serve, migrate and seed.
package cli

import (
	"enrollment/config"
	"enrollment/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds state shared by all commands.
type RootOptions struct {
	Config *config.Config
}

// NewRootCommand creates the root command for the enrollment CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "enrollment",
		Short: "Student enrollment directory",
		Long:  "Serves and maintains the student enrollment directory.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			opts.Config = cfg
			return nil
		},
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// openDatabase connects and migrates the schema.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.ConnectDb(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
