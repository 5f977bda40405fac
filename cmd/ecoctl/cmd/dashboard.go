package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-esg-platform/pkg/authclient"
	"go-esg-platform/pkg/role"
)

func newDashboardCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "dashboard <role>",
		Short:     "Check access to a role's dashboard",
		Args:      cobra.ExactArgs(1),
		ValidArgs: roleNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			required, err := role.Parse(args[0])
			if err != nil {
				return err
			}

			m, _, err := opts.manager()
			if err != nil {
				return err
			}

			var redirect string
			guard := authclient.NewGuard(m, authclient.Constraint{RequiredRole: required}, func(target string) {
				redirect = target
			})
			defer guard.Close()

			if !guard.Permitted() {
				return fmt.Errorf("access to %s denied, redirected to %s", authclient.HomePath(required), redirect)
			}

			pterm.Success.Printf("Access to %s granted\n", authclient.HomePath(required))
			return nil
		},
	}
}
