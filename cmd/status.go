package cmd

import (
	"context"
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fuze/cli/internal/config"
	"github.com/fuze/cli/internal/session"
	"github.com/fuze/cli/pkg/api"
)

// StatusService defines the subset of the API client the status command
// uses.
type StatusService interface {
	SessionReady() error
	Health(ctx context.Context) error
	Verify(ctx context.Context) error
}

// StatusCmd reports connection and session health.
type StatusCmd struct {
	client StatusService

	// clearSession drops the stored session after an explicit rejection.
	clearSession func() error
}

// Run probes the service and prints one line of status. An unreachable
// server keeps the session (the outage proves nothing about the token); an
// explicit rejection clears it.
func (s StatusCmd) Run(ctx context.Context) error {
	if err := s.client.SessionReady(); err != nil {
		switch {
		case errors.Is(err, api.ErrUnconfigured):
			pterm.Warning.Println("No server configured - run 'fuze config set api-url <url>'")
		case errors.Is(err, api.ErrUnauthenticated):
			if healthErr := s.client.Health(ctx); healthErr == nil {
				pterm.Info.Println("Server reachable")
			} else {
				pterm.Warning.Println("Server unreachable")
			}
			pterm.Warning.Println("Not logged in - please login")
		default:
			return err
		}
		return nil
	}

	err := s.client.Verify(ctx)
	switch {
	case err == nil:
		pterm.Success.Println("Connected")
	case api.IsRejected(err):
		if s.clearSession != nil {
			if clearErr := s.clearSession(); clearErr != nil {
				pterm.Warning.Printfln("Could not clear stored session: %v", clearErr)
			}
		}
		pterm.Warning.Println("Session expired - please login")
	case api.IsUnreachable(err):
		pterm.Info.Println("Connected (offline)")
	default:
		return err
	}
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the connection to your Fuze server",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	s := StatusCmd{
		client: client,
		clearSession: func() error {
			slot, err := config.TokenFilePath()
			if err != nil {
				return err
			}
			return session.DeleteToken(slot)
		},
	}
	return s.Run(cmd.Context())
}
