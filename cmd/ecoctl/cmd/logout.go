package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := opts.manager()
			if err != nil {
				return err
			}

			if err := resultError(m.Logout(cmd.Context())); err != nil {
				return err
			}
			pterm.Success.Println("Logged out successfully")
			return nil
		},
	}
}
