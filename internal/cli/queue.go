package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mrstraders/paddybill/internal/wire"
	"github.com/spf13/cobra"
)

// QueueCmd returns the queue command group.
func QueueCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect or clear the print queue",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "List the six queue slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(c *wire.Container) error {
				view := c.Bills.GetQueue()
				out := cmd.OutOrStdout()

				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "SLOT\tTYPE\tCUSTOMER\tDATE\tTOTAL")
				empty := color.New(color.Faint).Sprint("(empty)")
				for i, sl := range view.Slots {
					if sl.IsEmpty() {
						fmt.Fprintf(w, "%d\t%s\t\t\t\n", i+1, empty)
						continue
					}
					b := sl.Bill
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, b.Type(), b.Customer(), b.BillDate(), b.Total().String())
				}
				if err := w.Flush(); err != nil {
					return err
				}

				fmt.Fprintf(out, "\n%d of 6 slots free\n", view.Remaining)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty every slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(c *wire.Container) error {
				c.Bills.Clear()
				fmt.Fprintf(cmd.OutOrStdout(), "%s Print queue cleared\n", okMark)
				return nil
			})
		},
	})

	return cmd
}
