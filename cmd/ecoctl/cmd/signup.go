package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-esg-platform/pkg/authclient"
)

func newSignupCmd(opts *options) *cobra.Command {
	var input authclient.SignupInput

	cmd := &cobra.Command{
		Use:   "signup <role>",
		Short: "Register a new account",
		Long: `Register a new account for a role. simple-user and carbon accounts are
logged in right away; ngo and corporate accounts wait for admin approval.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := opts.manager()
			if err != nil {
				return err
			}

			input.Password, err = newPrompter(cmd).password("Password")
			if err != nil {
				return err
			}

			res := m.Signup(cmd.Context(), args[0], input)
			if err := resultError(res); err != nil {
				return err
			}

			if !res.LoggedIn {
				pterm.Info.Println("Account created and waiting for approval")
				return nil
			}
			pterm.Success.Printf("Account created, logged in as %s\n", m.Session().Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&input.Name, "name", "", "Display name (simple-user, carbon)")
	cmd.Flags().StringVar(&input.OrganizationName, "organization", "", "Organization name (ngo)")
	cmd.Flags().StringVar(&input.CompanyName, "company", "", "Company name (corporate)")
	cmd.Flags().StringVar(&input.ContactPerson, "contact", "", "Contact person (corporate)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
