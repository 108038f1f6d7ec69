package cli

import (
	"log"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openDatabase(rootOpts.Config); err != nil {
				return err
			}
			log.Printf("Schema is up to date (%s)", rootOpts.Config.DBDriver)
			return nil
		},
	}
}
