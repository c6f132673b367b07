package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fuze/cli/internal/config"
	"github.com/fuze/cli/internal/session"
	"github.com/fuze/cli/pkg/api"
	"github.com/fuze/cli/pkg/table"
	"github.com/fuze/cli/pkg/util"
)

// AuthService defines the subset of the API client the auth commands use.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthCmd handles login, logout and identity display.
type AuthCmd struct {
	auth AuthService
}

// LoginInput holds input for logging in.
type LoginInput struct {
	Email    string
	Password string
}

// Login exchanges credentials for a token and returns it for storage.
func (a AuthCmd) Login(ctx context.Context, in LoginInput) (string, error) {
	token, err := a.auth.Login(ctx, in.Email, in.Password)
	if err != nil {
		if api.IsRejected(err) {
			return "", fmt.Errorf("login rejected: check your email and password")
		}
		return "", err
	}
	return token, nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your Fuze account",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity behind the stored session",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "Account email (prompted when omitted)")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")
	loginCmd.Flags().Bool("web", false, "Open the Fuze login page and paste a token instead")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	sess, cfg, err := loadSession()
	if err != nil {
		return err
	}

	var token string
	if web, _ := cmd.Flags().GetBool("web"); web {
		loginURL := strings.TrimRight(cfg.APIURL, "/") + "/login"
		pterm.Info.Printfln("Opening %s", loginURL)
		if err := browser.OpenURL(loginURL); err != nil {
			pterm.Warning.Printfln("Could not open a browser; visit %s yourself", loginURL)
		}
		token, err = pterm.DefaultInteractiveTextInput.
			WithMask("*").
			Show("Paste your access token")
		if err != nil {
			return err
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return fmt.Errorf("no token provided")
		}
	} else {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			email, err = pterm.DefaultInteractiveTextInput.Show("Email")
			if err != nil {
				return err
			}
		}
		if password == "" {
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
		}

		auth := AuthCmd{auth: newClient(sess)}
		token, err = auth.Login(cmd.Context(), LoginInput{Email: email, Password: password})
		if err != nil {
			return err
		}
	}

	slot, err := config.TokenFilePath()
	if err != nil {
		return err
	}
	if err := session.SaveToken(token, slot); err != nil {
		return err
	}

	if claims, err := session.Inspect(token); err == nil && claims.Email != "" {
		pterm.Success.Printfln("Logged in as %s", claims.Email)
	} else {
		pterm.Success.Println("Logged in")
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	slot, err := config.TokenFilePath()
	if err != nil {
		return err
	}
	if err := session.DeleteToken(slot); err != nil {
		return err
	}
	pterm.Success.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	sess, _, err := loadSession()
	if err != nil {
		return err
	}
	if sess.Token == "" {
		return api.ErrUnauthenticated
	}

	claims, err := session.Inspect(sess.Token)
	if err != nil {
		return fmt.Errorf("stored token is not readable: %w", err)
	}

	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Email", util.OrDash(claims.Email)})
	rows = append(rows, []string{"Subject", util.OrDash(claims.Subject)})
	rows = append(rows, []string{"Server", sess.APIBaseURL})
	rows = append(rows, []string{"Token Expires", util.FormatLocal(claims.ExpiresAt)})
	table.PrintTableNoPad(rows, true)

	if claims.Expired() {
		pterm.Warning.Println("Session expired - please login")
	}
	return nil
}
