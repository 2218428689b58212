package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"bloglist/internal/domain"
	"bloglist/internal/repo"
	"bloglist/internal/service"
)

func newCreateAccountCommand(cfgPath *string) *cobra.Command {
	var username, name, password string
	cmd := &cobra.Command{
		Use:   "create-account",
		Args:  cobra.NoArgs,
		Short: "Register an account with a hashed password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, closeEnv, err := openEnv(*cfgPath)
			if err != nil {
				return err
			}
			defer closeEnv()

			svc := service.NewAccountService(repo.NewAccountRepo(e.db), e.log)
			a, err := svc.CreateAccount(cmd.Context(), username, name, password)
			if err != nil {
				return err
			}
			out := domain.AccountView{ID: a.ID, Username: a.Username, Name: a.Name, Posts: []domain.PostSummary{}}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "unique username (min 3 characters)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password (min 3 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
