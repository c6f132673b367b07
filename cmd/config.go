package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fuze/cli/internal/config"
	"github.com/fuze/cli/pkg/table"
	"github.com/fuze/cli/pkg/util"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current settings",
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting.

Keys:
  api-url         Base URL of your Fuze server
  auto-sync       on/off: mirror native bookmark changes automatically
  bookmarks-path  Browser bookmarks file to watch and import from`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rows := pterm.TableData{{"Key", "Value"}}
	rows = append(rows, []string{"api-url", cfg.APIURL})
	rows = append(rows, []string{"auto-sync", strconv.FormatBool(cfg.AutoSync)})
	rows = append(rows, []string{"bookmarks-path", util.OrDash(cfg.BookmarksPath)})
	table.PrintTableNoPad(rows, true)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "api-url":
		cfg.APIURL = value
	case "auto-sync":
		switch value {
		case "on", "true":
			cfg.AutoSync = true
		case "off", "false":
			cfg.AutoSync = false
		default:
			return fmt.Errorf("auto-sync takes 'on' or 'off'")
		}
	case "bookmarks-path":
		cfg.BookmarksPath = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	pterm.Success.Printfln("Set %s", key)
	return nil
}
