package cmd

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-esg-platform/pkg/authclient"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Display the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, store, err := opts.manager()
			if err != nil {
				return err
			}

			pterm.DefaultSection.Println("Session")
			s := m.Session()
			if s == nil {
				pterm.Info.Println("Not logged in")
				return nil
			}

			rows := pterm.TableData{
				{"Role", string(s.Role)},
				{"User ID", s.UserID},
				{"Email", s.Email},
				{"Display name", displayName(s)},
				{"Expires", s.ExpiresAt.Local().Format(time.RFC1123)},
				{"Home", authclient.HomePath(s.Role)},
				{"Session file", store.Path()},
			}
			return pterm.DefaultTable.WithData(rows).Render()
		},
	}
}

func displayName(s *authclient.Session) string {
	switch {
	case s.CompanyName != "":
		return s.CompanyName
	case s.OrganizationName != "":
		return s.OrganizationName
	default:
		return s.Name
	}
}
