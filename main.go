package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/fuze/cli/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := fang.Execute(ctx, cmd.Root(),
		fang.WithVersion(cmd.Version),
		fang.WithColorSchemeFunc(colorScheme),
	)
	if err != nil {
		os.Exit(1)
	}
}

func colorScheme(ldf lipgloss.LightDarkFunc) fang.ColorScheme {
	s := fang.DefaultColorScheme(ldf)
	s.Title = lipgloss.Color("#F25D94")
	s.Command = lipgloss.Color("#F25D94")
	return s
}
