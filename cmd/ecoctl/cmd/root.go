package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-esg-platform/pkg/authclient"
)

type options struct {
	serverURL   string
	sessionPath string
}

// NewRootCmd builds the ecoctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "ecoctl",
		Short: "ESG platform CLI - account and session management",
		Long: `ecoctl signs in to the ESG platform as any of its roles, keeps the session
between runs and manages the signed-in account.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if v := os.Getenv("ECOCTL_SERVER"); v != "" && !cmd.Flags().Changed("server") {
				opts.serverURL = v
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.serverURL, "server", "http://localhost:8080", "ESG API server URL (also set via ECOCTL_SERVER)")
	root.PersistentFlags().StringVar(&opts.sessionPath, "session-file", "", "Session file path (default: user config dir)")

	root.AddCommand(
		newLoginCmd(opts),
		newSignupCmd(opts),
		newLogoutCmd(opts),
		newStatusCmd(opts),
		newChangePasswordCmd(opts),
		newDeleteAccountCmd(opts),
		newDashboardCmd(opts),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// manager returns a hydrated session manager backed by the session file.
func (o *options) manager() (*authclient.Manager, *authclient.FileStore, error) {
	path := o.sessionPath
	if path == "" {
		var err error
		path, err = authclient.DefaultSessionPath()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to locate session file: %w", err)
		}
	}

	store, err := authclient.NewFileStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session store: %w", err)
	}

	m := authclient.NewManager(
		authclient.NewClient(o.serverURL),
		store,
		authclient.WithResetFunc(func(entryPoint string) {
			pterm.Debug.Printf("session reset, continue at %s\n", entryPoint)
		}),
	)
	m.Hydrate()
	return m, store, nil
}

func resultError(res authclient.Result) error {
	if res.Success {
		return nil
	}
	return fmt.Errorf("%s", res.Message)
}
