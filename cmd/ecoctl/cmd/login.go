package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-esg-platform/pkg/authclient"
	"go-esg-platform/pkg/role"
)

func newLoginCmd(opts *options) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:       "login <role>",
		Short:     "Log in as one of the platform roles",
		Args:      cobra.ExactArgs(1),
		ValidArgs: roleNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := opts.manager()
			if err != nil {
				return err
			}

			password, err := newPrompter(cmd).password("Password")
			if err != nil {
				return err
			}

			res := m.Login(cmd.Context(), args[0], email, password)
			if err := resultError(res); err != nil {
				return err
			}

			s := m.Session()
			pterm.Success.Printf("Logged in as %s (%s)\n", s.Email, s.Role)
			pterm.Info.Printf("Home: %s\n", authclient.HomePath(s.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func roleNames() []string {
	names := make([]string, 0, len(role.All()))
	for _, r := range role.All() {
		names = append(names, string(r))
	}
	return names
}
