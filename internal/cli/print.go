package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mrstraders/paddybill/internal/wire"
	"github.com/spf13/cobra"
)

// PrintCmd returns the print command group.
func PrintCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the queued bills",
	}

	var out string
	pdfCmd := &cobra.Command{
		Use:   "pdf",
		Short: "Export the A4 print page as PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(c *wire.Container) error {
				data, err := c.Prints.PagePDF(cmd.Context())
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s (%d bytes)\n", okMark, out, len(data))
				return nil
			})
		},
	}
	pdfCmd.Flags().StringVarP(&out, "out", "o", "print-page.pdf", "output file")
	cmd.AddCommand(pdfCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "thermal [slot...]",
		Short: "Send queued bills to the thermal printer",
		Long:  "Prints the given slots (1-6), or the four slots of the print page when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			slots := make([]int, 0, len(args))
			for _, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid slot %q", a)
				}
				slots = append(slots, n-1)
			}

			return withApp(cmd, load, func(c *wire.Container) error {
				result, err := c.Prints.PrintThermal(slots)
				if result != nil {
					for i, id := range result.Printed {
						fmt.Fprintf(cmd.OutOrStdout(), "%s Printed slot %d (%s)\n", okMark, result.Slots[i]+1, id)
					}
				}
				return err
			})
		},
	})

	return cmd
}
