// Package cli implements the billctl commands.
package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/mrstraders/paddybill/internal/wire"
	"github.com/spf13/cobra"
)

// Loader builds the application for one command invocation.
type Loader func(ctx context.Context) (*wire.Container, error)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

// RootCmd returns the billctl root command.
func RootCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billctl",
		Short: "Manage the paddy bill print queue and saved records",
		Long: `billctl works on the same database and print queue as the API server.
It can inspect or clear the queue, export the print page and move saved
records in and out of the shop.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(QueueCmd(load))
	cmd.AddCommand(PrintCmd(load))
	cmd.AddCommand(RecordsCmd(load))
	return cmd
}

// withApp runs fn against a freshly built application and releases it.
func withApp(cmd *cobra.Command, load Loader, fn func(c *wire.Container) error) error {
	c, err := load(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
