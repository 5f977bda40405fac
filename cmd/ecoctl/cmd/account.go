package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newChangePasswordCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "change-password",
		Short: "Change the password of the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := opts.manager()
			if err != nil {
				return err
			}
			if !m.IsAuthenticated() {
				return fmt.Errorf("not logged in")
			}

			p := newPrompter(cmd)
			current, err := p.password("Current password")
			if err != nil {
				return err
			}
			next, err := p.password("New password")
			if err != nil {
				return err
			}
			confirm, err := p.password("Confirm new password")
			if err != nil {
				return err
			}

			if err := resultError(m.ChangePassword(cmd.Context(), current, next, confirm)); err != nil {
				return err
			}
			pterm.Success.Println("Password changed")
			return nil
		},
	}
}

func newDeleteAccountCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Permanently delete the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := opts.manager()
			if err != nil {
				return err
			}
			if !m.IsAuthenticated() {
				return fmt.Errorf("not logged in")
			}

			if !yes {
				ok, err := pterm.DefaultInteractiveConfirm.
					WithDefaultText(fmt.Sprintf("Delete %s permanently?", m.Session().Email)).
					Show()
				if err != nil {
					return err
				}
				if !ok {
					pterm.Info.Println("Cancelled")
					return nil
				}
			}

			password, err := newPrompter(cmd).password("Password")
			if err != nil {
				return err
			}

			if err := resultError(m.DeleteAccount(cmd.Context(), password)); err != nil {
				return err
			}
			pterm.Success.Println("Account deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
