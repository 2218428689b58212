package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"bloglist/internal/repo"
	"bloglist/internal/service"
)

func newStatsCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Args:  cobra.NoArgs,
		Short: "Print like and author aggregates over all posts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, closeEnv, err := openEnv(*cfgPath)
			if err != nil {
				return err
			}
			defer closeEnv()

			s, err := service.NewPostService(repo.NewPostRepo(e.db), nil, 0, e.log).Stats(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		},
	}
}
