package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bloglist/internal/repo"
)

func newMigrateCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Create or update all tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, closeEnv, err := openEnv(*cfgPath)
			if err != nil {
				return err
			}
			defer closeEnv()

			if err := repo.Migrate(e.db.WithContext(cmd.Context())); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return err
		},
	}
}
